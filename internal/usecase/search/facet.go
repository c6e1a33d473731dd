package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/request"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
)

// Suggestion defaults.
const (
	SuggestionThreshold = 5
	CorrectionScore     = 0.8
)

// buildFacets counts distinct values per requested field, ordered by count desc then value asc.
func buildFacets(fields []request.FacetField, products []product.Product) []result.Facet {
	if len(fields) == 0 {
		return nil
	}
	facets := make([]result.Facet, 0, len(fields))
	for _, f := range fields {
		counts := make(map[string]int)
		for _, p := range products {
			counts[facetValue(f, p)]++
		}

		values := make([]result.FacetValue, 0, len(counts))
		for v, n := range counts {
			values = append(values, result.FacetValue{Value: v, Count: n})
		}
		slices.SortFunc(values, func(a, b result.FacetValue) int {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			return cmp.Compare(a.Value, b.Value)
		})
		facets = append(facets, result.Facet{Field: string(f), Values: values})
	}
	return facets
}

func facetValue(f request.FacetField, p product.Product) string {
	switch f {
	case request.FacetCategory:
		return p.Category()
	case request.FacetStatus:
		return string(p.Status())
	}
	return ""
}

// EchoSuggester is a placeholder corrector: it offers the lower-cased query back as a correction.
// It does no spelling analysis.
type EchoSuggester struct{}

// Suggest returns one correction suggestion.
func (EchoSuggester) Suggest(query string, resultCount int) []result.Suggestion {
	return []result.Suggestion{{
		Query:       strings.ToLower(query),
		Type:        result.SuggestionCorrection,
		Score:       CorrectionScore,
		ResultCount: &resultCount,
	}}
}
