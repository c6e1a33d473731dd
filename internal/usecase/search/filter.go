package search

import (
	"context"
	"slices"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
)

// ctxCheckInterval is how many candidates are processed between context checks.
const ctxCheckInterval = 256

type predicate func(product.Product) bool

// compilePredicates turns the criteria into the list of checks that actually constrain.
// Cheap membership checks come first so the common case short-circuits early.
func compilePredicates(c *filter.Criteria) []predicate {
	var ps []predicate

	coarse := c.Coarse(0)
	if len(coarse.Categories)+len(coarse.Statuses)+len(coarse.SupplierIDs) > 0 {
		ps = append(ps, coarse.Matches)
	}
	if b := c.IsActive; b != nil {
		want := *b
		ps = append(ps, func(p product.Product) bool { return (p.Status() == product.StatusActive) == want })
	}
	if b := c.HasBarcode; b != nil {
		want := *b
		ps = append(ps, func(p product.Product) bool { return (p.Barcode() != "") == want })
	}
	if b := c.HasSupplier; b != nil {
		want := *b
		ps = append(ps, func(p product.Product) bool { return (p.SupplierID() != "") == want })
	}
	if b := c.NeedsReorder; b != nil {
		want := *b
		ps = append(ps, func(p product.Product) bool { return p.NeedsReorder() == want })
	}
	if len(c.Tags) > 0 {
		tags := c.Tags
		ps = append(ps, func(p product.Product) bool {
			for _, t := range tags {
				if !p.HasTag(t) {
					return false
				}
			}
			return true
		})
	}
	if len(c.ExcludeTags) > 0 {
		tags := c.ExcludeTags
		ps = append(ps, func(p product.Product) bool {
			return !slices.ContainsFunc(tags, p.HasTag)
		})
	}
	if len(c.PriceRanges) > 0 {
		ranges := c.PriceRanges
		ps = append(ps, func(p product.Product) bool {
			for _, r := range ranges {
				if r.Matches(p) {
					return true
				}
			}
			return false
		})
	}
	if c.Stock != nil {
		ps = append(ps, c.Stock.Matches)
	}
	if c.Dimension != nil {
		ps = append(ps, c.Dimension.Matches)
	}
	return ps
}

// applyFilters keeps the candidates that pass every predicate, preserving retrieval order.
func applyFilters(ctx context.Context, c *filter.Criteria, candidates []product.Product) ([]product.Product, error) {
	ps := compilePredicates(c)
	if len(ps) == 0 {
		return candidates, nil
	}

	out := make([]product.Product, 0, len(candidates))
	for i, p := range candidates {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if passes(ps, p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func passes(ps []predicate, p product.Product) bool {
	for _, pred := range ps {
		if !pred(p) {
			return false
		}
	}
	return true
}
