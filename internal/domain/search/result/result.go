package result

import (
	"time"

	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// Hit is a single scored search hit.
type Hit struct {
	product       product.Product
	score         float64
	matchedFields []string
	highlights    map[string][]string
}

// NewHit creates a search hit. matchedFields must be sorted; highlights may be nil.
func NewHit(p product.Product, score float64, matchedFields []string, highlights map[string][]string) Hit {
	return Hit{product: p, score: score, matchedFields: matchedFields, highlights: highlights}
}

// Product returns the matched product snapshot.
func (h *Hit) Product() product.Product { return h.product }

// Score returns the relevance score in [0, 1].
func (h *Hit) Score() float64 { return h.score }

// MatchedFields returns the sorted names of fields that matched.
func (h *Hit) MatchedFields() []string { return h.matchedFields }

// Highlights returns field -> marked snippets (nil when highlighting is off).
func (h *Hit) Highlights() map[string][]string { return h.highlights }

// FacetValue is one distinct value and its count.
type FacetValue struct {
	Value string
	Count int
}

// Facet is a value distribution for one field, ordered by count desc then value asc.
type Facet struct {
	Field  string
	Values []FacetValue
}

// SuggestionType classifies a query suggestion.
type SuggestionType string

// Suggestion types.
const (
	SuggestionCompletion SuggestionType = "completion"
	SuggestionCorrection SuggestionType = "correction"
	SuggestionPopular    SuggestionType = "popular"
)

// Suggestion is an alternative query offered for low-result searches.
type Suggestion struct {
	Query       string
	Type        SuggestionType
	Score       float64
	ResultCount *int
}

// Page is one page of search results plus metadata.
type Page struct {
	Items           []Hit
	Total           int
	Page            int
	Limit           int
	TotalPages      int
	HasNextPage     bool
	HasPreviousPage bool
	MaxScore        *float64 // nil when the result set is empty
	Facets          []Facet
	Suggestions     []Suggestion
	ExecutionTime   time.Duration
}

// ExecutionTimeMs returns the pipeline duration in milliseconds.
func (p *Page) ExecutionTimeMs() int64 { return p.ExecutionTime.Milliseconds() }
