package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
	"github.com/kailas-cloud/prodex/internal/domain/search/fuzzy"
	"github.com/kailas-cloud/prodex/internal/domain/search/mode"
	"github.com/kailas-cloud/prodex/internal/domain/search/operator"
	"github.com/kailas-cloud/prodex/internal/domain/search/wildcard"
)

// Search parameter limits.
const (
	// MaxGlobalSearchLength is the maximum length of the free-text term, in characters.
	MaxGlobalSearchLength = 500
	MaxSearchFields       = 10
	MaxFieldValueLength   = 200
	MinBoost              = 0.1
	MaxBoost              = 10.0
	DefaultBoost          = 1.0
	DefaultPage           = 1
	DefaultLimit          = 50
	MaxLimit              = 1000
)

// Field is a validated field-targeted criterion.
type Field struct {
	target     TextField
	value      string
	op         operator.Operator
	boost      float64
	fuzzyLevel float64
	pattern    wildcard.Pattern
}

// NewField validates a single criterion. Used by callers that build requests in code.
func NewField(target TextField, value string, op operator.Operator, boost, fuzzyLevel float64) (Field, error) {
	ve := &domain.ValidationError{}
	f := parseField(ve, "field", RawField{
		Field: string(target), Value: value, Operator: string(op),
		Boost: &boost, FuzzyLevel: &fuzzyLevel,
	})
	if !ve.Empty() {
		return Field{}, ve
	}
	return f, nil
}

// Target returns the product field the criterion applies to.
func (f Field) Target() TextField { return f.target }

// Value returns the search value as supplied.
func (f Field) Value() string { return f.value }

// Operator returns the comparison operator.
func (f Field) Operator() operator.Operator { return f.op }

// Boost returns the criterion weight.
func (f Field) Boost() float64 { return f.boost }

// FuzzyLevel returns the fuzzy tolerance in [0, 2].
func (f Field) FuzzyLevel() float64 { return f.fuzzyLevel }

// Pattern returns the compiled wildcard pattern (zero value for other operators).
func (f Field) Pattern() wildcard.Pattern { return f.pattern }

// Request is a validated search query. Page, limit, sort order and mode always hold concrete values.
type Request struct {
	globalSearch string
	fields       []Field
	searchMode   mode.Mode
	criteria     filter.Criteria
	minScore     *float64
	sortBy       SortBy
	sortOrder    SortOrder
	page         int
	limit        int
	highlight    bool
	facets       []FacetField
}

// New validates and normalizes a raw request.
// Every violation is collected into one *domain.ValidationError.
func New(raw Raw) (Request, error) {
	ve := &domain.ValidationError{}
	r := Request{
		searchMode: mode.Any,
		sortBy:     SortRelevance,
		sortOrder:  Desc,
		page:       DefaultPage,
		limit:      DefaultLimit,
		highlight:  raw.HighlightMatches,
	}

	r.globalSearch = strings.TrimSpace(raw.GlobalSearch)
	if utf8.RuneCountInString(r.globalSearch) > MaxGlobalSearchLength {
		ve.Add("globalSearch", "too long (max %d chars)", MaxGlobalSearchLength)
	}

	if len(raw.SearchFields) > MaxSearchFields {
		ve.Add("searchFields", "too many fields (max %d)", MaxSearchFields)
	}
	for i, rf := range raw.SearchFields {
		f := parseField(ve, fmt.Sprintf("searchFields[%d]", i), rf)
		r.fields = append(r.fields, f)
	}

	if raw.SearchMode != "" {
		m := mode.Mode(strings.ToLower(strings.TrimSpace(raw.SearchMode)))
		if !m.IsValid() {
			ve.Add("searchMode", "must be one of any, all; got %q", raw.SearchMode)
		} else {
			r.searchMode = m
		}
	}

	r.criteria = parseCriteria(ve, &raw)

	if raw.MinScore != nil {
		if *raw.MinScore < 0 || *raw.MinScore > 1 {
			ve.Add("minScore", "must be between 0 and 1")
		} else {
			ms := *raw.MinScore
			r.minScore = &ms
		}
	}

	if raw.SortBy != "" {
		if s, ok := parse(sortKeys, raw.SortBy); ok {
			r.sortBy = s
		} else {
			ve.Add("sortBy", "unknown sort key %q", raw.SortBy)
		}
	}
	if raw.SortOrder != "" {
		if o, ok := parse(sortOrders, raw.SortOrder); ok {
			r.sortOrder = o
		} else {
			ve.Add("sortOrder", "must be asc or desc; got %q", raw.SortOrder)
		}
	}

	if raw.Page != nil {
		if *raw.Page < 1 {
			ve.Add("page", "must be at least 1")
		} else {
			r.page = *raw.Page
		}
	}
	if raw.Limit != nil {
		switch {
		case *raw.Limit < 1:
			ve.Add("limit", "must be at least 1")
		case *raw.Limit > MaxLimit:
			r.limit = MaxLimit
		default:
			r.limit = *raw.Limit
		}
	}

	seen := make(map[FacetField]bool, len(raw.Facets))
	for i, name := range raw.Facets {
		f, ok := parse(facetFields, name)
		if !ok {
			ve.Add(fmt.Sprintf("facets[%d]", i), "unsupported facet field %q", name)
			continue
		}
		if !seen[f] {
			seen[f] = true
			r.facets = append(r.facets, f)
		}
	}

	if !ve.Empty() {
		return Request{}, ve
	}
	return r, nil
}

func parseField(ve *domain.ValidationError, path string, rf RawField) Field {
	f := Field{op: operator.Contains, boost: DefaultBoost, fuzzyLevel: fuzzy.DefaultLevel, value: rf.Value}

	if t, ok := parse(textFields, rf.Field); ok {
		f.target = t
	} else {
		ve.Add(path+".field", "unknown field %q", rf.Field)
	}

	n := utf8.RuneCountInString(rf.Value)
	switch {
	case strings.TrimSpace(rf.Value) == "":
		ve.Add(path+".value", "is required")
	case n > MaxFieldValueLength:
		ve.Add(path+".value", "too long (max %d chars)", MaxFieldValueLength)
	}

	if rf.Operator != "" {
		op := operator.Operator(strings.ToLower(strings.TrimSpace(rf.Operator)))
		if op.IsValid() {
			f.op = op
		} else {
			ve.Add(path+".operator", "unknown operator %q", rf.Operator)
		}
	}

	if rf.Boost != nil {
		if *rf.Boost < MinBoost || *rf.Boost > MaxBoost {
			ve.Add(path+".boost", "must be between %v and %v", MinBoost, MaxBoost)
		} else {
			f.boost = *rf.Boost
		}
	}
	if rf.FuzzyLevel != nil {
		if *rf.FuzzyLevel < fuzzy.MinLevel || *rf.FuzzyLevel > fuzzy.MaxLevel {
			ve.Add(path+".fuzzyLevel", "must be between %v and %v", fuzzy.MinLevel, fuzzy.MaxLevel)
		} else {
			f.fuzzyLevel = *rf.FuzzyLevel
		}
	}

	if f.op == operator.Wildcard && strings.TrimSpace(rf.Value) != "" {
		p, err := wildcard.Compile(rf.Value)
		if err != nil {
			ve.Add(path+".value", "invalid wildcard pattern: %v", err)
		}
		f.pattern = p
	}
	return f
}

func parseCriteria(ve *domain.ValidationError, raw *Raw) filter.Criteria {
	var c filter.Criteria

	c.Categories = parseSet(ve, "categories", raw.Categories, filter.MaxCategories, 0)
	c.SupplierIDs = parseSet(ve, "supplierIds", raw.SupplierIDs, filter.MaxSuppliers, 0)
	c.Tags = parseSet(ve, "tags", raw.Tags, filter.MaxTags, filter.MaxTagLength)
	c.ExcludeTags = parseSet(ve, "excludeTags", raw.ExcludeTags, filter.MaxTags, filter.MaxTagLength)

	if len(raw.Statuses) > filter.MaxStatuses {
		ve.Add("statuses", "too many entries (max %d)", filter.MaxStatuses)
	}
	for i, s := range raw.Statuses {
		st := product.Status(strings.ToLower(strings.TrimSpace(s)))
		if !st.IsValid() {
			ve.Add(fmt.Sprintf("statuses[%d]", i), "unknown status %q", s)
			continue
		}
		c.Statuses = append(c.Statuses, st)
	}

	if len(raw.PriceRanges) > filter.MaxPriceRanges {
		ve.Add("priceRanges", "too many ranges (max %d)", filter.MaxPriceRanges)
	}
	for i, rp := range raw.PriceRanges {
		path := fmt.Sprintf("priceRanges[%d]", i)
		pt := filter.PriceType(strings.ToLower(strings.TrimSpace(rp.Type)))
		if !pt.IsValid() {
			ve.Add(path+".type", "must be cost or selling; got %q", rp.Type)
		}
		if (rp.Min != nil && *rp.Min < 0) || (rp.Max != nil && *rp.Max < 0) {
			ve.Add(path, "bounds must be non-negative")
		}
		rng, err := filter.NewRange(rp.Min, rp.Max)
		if err != nil {
			ve.Add(path, "%v", err)
		}
		c.PriceRanges = append(c.PriceRanges, filter.PriceRange{Range: rng, Type: pt})
	}

	if sf := raw.StockFilter; sf != nil {
		rng, err := filter.NewRange(sf.MinStock, sf.MaxStock)
		if err != nil {
			ve.Add("stockFilter", "%v", err)
		}
		st := filter.StockStatus(strings.ToLower(strings.TrimSpace(sf.StockStatus)))
		if st != "" && !st.IsValid() {
			ve.Add("stockFilter.stockStatus", "unknown stock status %q", sf.StockStatus)
		}
		c.Stock = &filter.Stock{Quantity: rng, IncludeReserved: sf.IncludeReserved, Status: st}
	}

	if df := raw.DimensionFilter; df != nil {
		weight, err := filter.NewRange(df.MinWeight, df.MaxWeight)
		if err != nil {
			ve.Add("dimensionFilter.weight", "%v", err)
		}
		volume, err := filter.NewRange(df.MinVolume, df.MaxVolume)
		if err != nil {
			ve.Add("dimensionFilter.volume", "%v", err)
		}
		c.Dimension = &filter.Dimension{Weight: weight, Volume: volume}
	}

	c.HasBarcode = raw.HasBarcode
	c.HasSupplier = raw.HasSupplier
	c.IsActive = raw.IsActive
	c.NeedsReorder = raw.NeedsReorder
	return c
}

// parseSet trims entries, drops duplicates and checks cardinality and per-entry length (0 = unchecked).
func parseSet(ve *domain.ValidationError, path string, values []string, maxEntries, maxLen int) []string {
	if len(values) == 0 {
		return nil
	}
	if len(values) > maxEntries {
		ve.Add(path, "too many entries (max %d)", maxEntries)
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for i, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			ve.Add(fmt.Sprintf("%s[%d]", path, i), "must not be empty")
			continue
		}
		if maxLen > 0 && utf8.RuneCountInString(v) > maxLen {
			ve.Add(fmt.Sprintf("%s[%d]", path, i), "too long (max %d chars)", maxLen)
			continue
		}
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// GlobalSearch returns the trimmed free-text term ("" when absent).
func (r *Request) GlobalSearch() string { return r.globalSearch }

// Fields returns the field-targeted criteria in request order.
func (r *Request) Fields() []Field { return r.fields }

// Mode returns how field criteria combine.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// Criteria returns the structural filters.
func (r *Request) Criteria() *filter.Criteria { return &r.criteria }

// MinScore returns the minimum accepted score (nil when absent).
func (r *Request) MinScore() *float64 { return r.minScore }

// SortBy returns the ordering key.
func (r *Request) SortBy() SortBy { return r.sortBy }

// SortOrder returns the sort direction.
func (r *Request) SortOrder() SortOrder { return r.sortOrder }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Highlight reports whether matched terms should be marked.
func (r *Request) Highlight() bool { return r.highlight }

// Facets returns the requested facet fields.
func (r *Request) Facets() []FacetField { return r.facets }

// HasTextCriteria reports whether the request carries a global term or field criteria.
func (r *Request) HasTextCriteria() bool { return r.globalSearch != "" || len(r.fields) > 0 }
