package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain/search/request"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
)

// sortHits orders hits by the requested key. Ties fall back to retrieval order
// regardless of direction, so repeated calls page identically.
func sortHits(hits []scored, by request.SortBy, order request.SortOrder) {
	slices.SortStableFunc(hits, func(a, b scored) int {
		c := compareBy(&a.hit, &b.hit, by)
		if order == request.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.pos, b.pos)
	})
}

func compareBy(a, b *result.Hit, by request.SortBy) int {
	if by.ByScore() {
		return cmp.Compare(a.Score(), b.Score())
	}
	pa, pb := a.Product(), b.Product()
	switch by {
	case request.SortName:
		return cmp.Compare(strings.ToLower(pa.Name()), strings.ToLower(pb.Name()))
	case request.SortSKU:
		return cmp.Compare(strings.ToLower(pa.SKU()), strings.ToLower(pb.SKU()))
	case request.SortCreatedAt:
		return pa.CreatedAt().Compare(pb.CreatedAt())
	case request.SortUpdatedAt:
		return pa.UpdatedAt().Compare(pb.UpdatedAt())
	case request.SortSellingPrice:
		return cmp.Compare(pa.SellingPrice(), pb.SellingPrice())
	case request.SortCurrentStock:
		return cmp.Compare(pa.CurrentStock(), pb.CurrentStock())
	}
	return 0
}

// paginate slices [(page-1)*limit, page*limit) out of the sorted hits and fills the page metadata.
// maxScore covers the whole result set, not just the returned page.
func paginate(hits []scored, page, limit int) result.Page {
	if limit < 1 {
		limit = request.DefaultLimit
	}
	total := len(hits)
	out := result.Page{
		Total: total,
		Page:  page,
		Limit: limit,
	}
	out.TotalPages = (total + limit - 1) / limit
	out.HasNextPage = page < out.TotalPages
	out.HasPreviousPage = page > 1

	if total > 0 {
		best := hits[0].hit.Score()
		for i := range hits {
			best = max(best, hits[i].hit.Score())
		}
		out.MaxScore = &best
	}

	start := total
	if page-1 <= total/limit {
		start = min((page-1)*limit, total)
	}
	end := min(start+limit, total)
	out.Items = make([]result.Hit, 0, end-start)
	for _, h := range hits[start:end] {
		out.Items = append(out.Items, h.hit)
	}
	return out
}
