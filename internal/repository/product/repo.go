package product

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
)

// DefaultPrefix namespaces product hashes.
const DefaultPrefix = "prodex:product:"

// batchSize bounds keys per pipelined round-trip.
const batchSize = 500

// store is the consumer interface for products (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo stores products as hashes and serves them as search candidates.
type Repo struct {
	store  store
	prefix string
}

// New creates a product repository. An empty prefix selects DefaultPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) key(id string) string { return r.prefix + id }

// Put creates or overwrites a product. Returns true if created.
func (r *Repo) Put(ctx context.Context, p *domprod.Product) (bool, error) {
	fields, err := buildHashFields(p)
	if err != nil {
		return false, fmt.Errorf("encode product %s: %w", p.ID(), err)
	}
	key := r.key(p.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}
	return !exists, nil
}

// PutMulti stores products in pipelined batches.
func (r *Repo) PutMulti(ctx context.Context, products []domprod.Product) error {
	for chunk := range slices.Chunk(products, batchSize) {
		items := make([]db.HashSetItem, len(chunk))
		for i := range chunk {
			fields, err := buildHashFields(&chunk[i])
			if err != nil {
				return fmt.Errorf("encode product %s: %w", chunk[i].ID(), err)
			}
			items[i] = db.HashSetItem{Key: r.key(chunk[i].ID()), Fields: fields}
		}
		if err := r.store.HSetMulti(ctx, items); err != nil {
			return fmt.Errorf("hset batch: %w", err)
		}
	}
	return nil
}

// Get returns a product by ID.
func (r *Repo) Get(ctx context.Context, id string) (domprod.Product, error) {
	key := r.key(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domprod.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		return domprod.Product{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	p, err := parseHashFields(m)
	if err != nil {
		return domprod.Product{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return p, nil
}

// Delete removes a product. Deleting a missing product is not an error.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("del %s: %w", r.key(id), err)
	}
	return nil
}

// Clear removes every product under the prefix and returns how many keys were deleted.
func (r *Repo) Clear(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"*")
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", r.prefix, err)
	}
	for chunk := range slices.Chunk(keys, batchSize) {
		if err := r.store.Del(ctx, chunk...); err != nil {
			return 0, fmt.Errorf("del batch: %w", err)
		}
	}
	return len(keys), nil
}

// Fetch returns products that pass the coarse membership filter, in key order,
// capped at coarse.Limit. total counts every matching product, so total > len(result)
// means the list was truncated.
func (r *Repo) Fetch(ctx context.Context, coarse filter.Coarse) ([]domprod.Product, int, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"*")
	if err != nil {
		return nil, 0, fmt.Errorf("scan %s: %w", r.prefix, err)
	}
	slices.Sort(keys)

	var out []domprod.Product
	total := 0
	for chunk := range slices.Chunk(keys, batchSize) {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		hashes, err := r.store.HGetAllMulti(ctx, chunk)
		if err != nil {
			return nil, 0, fmt.Errorf("load products: %w", err)
		}
		for i, m := range hashes {
			if len(m) == 0 {
				continue // deleted after the scan
			}
			p, err := parseHashFields(m)
			if err != nil {
				return nil, 0, fmt.Errorf("decode %s: %w", chunk[i], err)
			}
			if !coarse.Matches(p) {
				continue
			}
			total++
			if coarse.Limit <= 0 || len(out) < coarse.Limit {
				out = append(out, p)
			}
		}
	}
	return out, total, nil
}
