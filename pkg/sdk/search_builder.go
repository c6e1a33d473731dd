package prodex

import (
	"context"
	"errors"
	"slices"
)

// QueryBuilder is a fluent builder for search queries.
// Build returns the Query; Do runs it against the client the builder came from.
type QueryBuilder struct {
	client *Client
	q      Query
}

// NewQuery starts an unbound query. Use Build and pass the result to Search.
func NewQuery() *QueryBuilder { return &QueryBuilder{} }

// Query starts a query bound to the client.
func (c *Client) Query() *QueryBuilder { return &QueryBuilder{client: c} }

// Text sets the free-text term matched against every text field.
func (b *QueryBuilder) Text(term string) *QueryBuilder {
	b.q.GlobalSearch = term
	return b
}

// Field adds a criterion on one text field ("name", "sku", "tags", ...).
func (b *QueryBuilder) Field(field, value, op string) *QueryBuilder {
	b.q.SearchFields = append(b.q.SearchFields, QueryField{Field: field, Value: value, Operator: op})
	return b
}

// Boosted adds a weighted criterion on one text field.
func (b *QueryBuilder) Boosted(field, value, op string, boost float64) *QueryBuilder {
	b.q.SearchFields = append(b.q.SearchFields, QueryField{
		Field: field, Value: value, Operator: op, Boost: &boost,
	})
	return b
}

// Fuzzy adds a typo-tolerant criterion. level is the tolerance in [0, 2].
func (b *QueryBuilder) Fuzzy(field, value string, level float64) *QueryBuilder {
	b.q.SearchFields = append(b.q.SearchFields, QueryField{
		Field: field, Value: value, Operator: OpFuzzy, FuzzyLevel: &level,
	})
	return b
}

// MatchAll requires every criterion to match. The default is any.
func (b *QueryBuilder) MatchAll() *QueryBuilder {
	b.q.SearchMode = ModeAll
	return b
}

// Categories restricts results to the given categories.
func (b *QueryBuilder) Categories(c ...string) *QueryBuilder {
	b.q.Categories = append(b.q.Categories, c...)
	return b
}

// Statuses restricts results to the given lifecycle states.
func (b *QueryBuilder) Statuses(s ...ProductStatus) *QueryBuilder {
	for _, st := range s {
		b.q.Statuses = append(b.q.Statuses, string(st))
	}
	return b
}

// Suppliers restricts results to the given supplier IDs.
func (b *QueryBuilder) Suppliers(ids ...string) *QueryBuilder {
	b.q.SupplierIDs = append(b.q.SupplierIDs, ids...)
	return b
}

// Tags requires every one of the tags.
func (b *QueryBuilder) Tags(tags ...string) *QueryBuilder {
	b.q.Tags = append(b.q.Tags, tags...)
	return b
}

// ExcludeTags drops products carrying any of the tags.
func (b *QueryBuilder) ExcludeTags(tags ...string) *QueryBuilder {
	b.q.ExcludeTags = append(b.q.ExcludeTags, tags...)
	return b
}

// SellingPrice adds an inclusive selling price range. Nil bounds are open.
func (b *QueryBuilder) SellingPrice(lo, hi *float64) *QueryBuilder {
	b.q.PriceRanges = append(b.q.PriceRanges, PriceRange{Min: lo, Max: hi, Type: "selling"})
	return b
}

// CostPrice adds an inclusive cost price range. Nil bounds are open.
func (b *QueryBuilder) CostPrice(lo, hi *float64) *QueryBuilder {
	b.q.PriceRanges = append(b.q.PriceRanges, PriceRange{Min: lo, Max: hi, Type: "cost"})
	return b
}

// Stock sets the stock filter.
func (b *QueryBuilder) Stock(f StockFilter) *QueryBuilder {
	b.q.StockFilter = &f
	return b
}

// Physical sets the weight and volume filter.
func (b *QueryBuilder) Physical(f DimensionFilter) *QueryBuilder {
	b.q.DimensionFilter = &f
	return b
}

// ActiveOnly keeps active products only.
func (b *QueryBuilder) ActiveOnly() *QueryBuilder {
	b.q.IsActive = ptr(true)
	return b
}

// NeedsReorder keeps products at or below their reorder level.
func (b *QueryBuilder) NeedsReorder() *QueryBuilder {
	b.q.NeedsReorder = ptr(true)
	return b
}

// WithBarcode keeps products with (true) or without (false) a barcode.
func (b *QueryBuilder) WithBarcode(has bool) *QueryBuilder {
	b.q.HasBarcode = &has
	return b
}

// WithSupplier keeps products with (true) or without (false) a supplier.
func (b *QueryBuilder) WithSupplier(has bool) *QueryBuilder {
	b.q.HasSupplier = &has
	return b
}

// MinScore drops hits scoring below s, in [0, 1].
func (b *QueryBuilder) MinScore(s float64) *QueryBuilder {
	b.q.MinScore = &s
	return b
}

// SortBy orders results by key ("relevance", "name", "sellingPrice", ...) and order ("asc", "desc").
func (b *QueryBuilder) SortBy(key, order string) *QueryBuilder {
	b.q.SortBy = key
	b.q.SortOrder = order
	return b
}

// Page selects the 1-based page and its size.
func (b *QueryBuilder) Page(page, limit int) *QueryBuilder {
	b.q.Page = &page
	b.q.Limit = &limit
	return b
}

// Highlight marks matched terms in the returned hits.
func (b *QueryBuilder) Highlight() *QueryBuilder {
	b.q.HighlightMatches = true
	return b
}

// Facets requests value counts for the given fields ("category", "status").
func (b *QueryBuilder) Facets(fields ...string) *QueryBuilder {
	b.q.Facets = append(b.q.Facets, fields...)
	return b
}

// Build returns a copy of the query. The builder can keep being used.
func (b *QueryBuilder) Build() Query {
	q := b.q
	q.SearchFields = slices.Clone(b.q.SearchFields)
	q.Categories = slices.Clone(b.q.Categories)
	q.Statuses = slices.Clone(b.q.Statuses)
	q.SupplierIDs = slices.Clone(b.q.SupplierIDs)
	q.Tags = slices.Clone(b.q.Tags)
	q.ExcludeTags = slices.Clone(b.q.ExcludeTags)
	q.PriceRanges = slices.Clone(b.q.PriceRanges)
	q.Facets = slices.Clone(b.q.Facets)
	return q
}

// Do runs the query against the stored products.
func (b *QueryBuilder) Do(ctx context.Context) (SearchResult, error) {
	if b.client == nil {
		return SearchResult{}, errors.New("prodex: query is not bound to a client (use Client.Query)")
	}
	q := b.Build()
	return b.client.Search(ctx, &q)
}

// In runs the query over products held in memory.
func (b *QueryBuilder) In(ctx context.Context, products []Product, opts ...SearchOption) (SearchResult, error) {
	q := b.Build()
	return Search(ctx, &q, products, opts...)
}

func ptr[T any](v T) *T { return &v }
