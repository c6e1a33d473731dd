package search

import (
	"context"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
)

// CandidateSource supplies the coarse candidate set for a search.
// total is the number of matching records before the limit was applied.
type CandidateSource interface {
	Fetch(ctx context.Context, coarse filter.Coarse) (candidates []product.Product, total int, err error)
}

// Suggester proposes alternative queries when a search returns few results.
type Suggester interface {
	Suggest(query string, resultCount int) []result.Suggestion
}
