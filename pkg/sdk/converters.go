package prodex

import (
	dombatch "github.com/kailas-cloud/prodex/internal/domain/batch"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
)

func fromPage(p *result.Page) SearchResult {
	out := SearchResult{
		Items:           make([]Hit, 0, len(p.Items)),
		Total:           p.Total,
		Page:            p.Page,
		Limit:           p.Limit,
		TotalPages:      p.TotalPages,
		HasNextPage:     p.HasNextPage,
		HasPreviousPage: p.HasPreviousPage,
		MaxScore:        p.MaxScore,
		ExecutionTime:   p.ExecutionTime,
	}
	for i := range p.Items {
		h := &p.Items[i]
		out.Items = append(out.Items, Hit{
			Product:       h.Product(),
			Score:         h.Score(),
			MatchedFields: h.MatchedFields(),
			Highlights:    h.Highlights(),
		})
	}
	for _, f := range p.Facets {
		values := make([]FacetValue, len(f.Values))
		for i, v := range f.Values {
			values[i] = FacetValue{Value: v.Value, Count: v.Count}
		}
		out.Facets = append(out.Facets, Facet{Field: f.Field, Values: values})
	}
	for _, s := range p.Suggestions {
		out.Suggestions = append(out.Suggestions, Suggestion{
			Query:       s.Query,
			Type:        string(s.Type),
			Score:       s.Score,
			ResultCount: s.ResultCount,
		})
	}
	return out
}

func fromLoadResults(results []dombatch.Result) ([]LoadResult, LoadSummary) {
	if results == nil {
		return nil, LoadSummary{}
	}
	out := make([]LoadResult, len(results))
	for i, r := range results {
		out[i] = LoadResult{ID: r.ID(), Status: LoadStatus(r.Status()), Err: r.Err()}
	}
	s := dombatch.Summarize(results)
	return out, LoadSummary{OK: s.OK, Invalid: s.Invalid, Failed: s.Failed}
}
