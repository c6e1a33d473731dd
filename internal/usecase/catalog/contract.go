package catalog

import (
	"context"

	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// ProductStore persists product snapshots.
type ProductStore interface {
	PutMulti(ctx context.Context, products []product.Product) error
	Clear(ctx context.Context) (int, error)
}
