package request

import "strings"

// TextField is a product text field that a criterion can target.
type TextField string

// Searchable field constants.
const (
	TextName                TextField = "name"
	TextDescription         TextField = "description"
	TextSKU                 TextField = "sku"
	TextBarcode             TextField = "barcode"
	TextTags                TextField = "tags"
	TextSupplierProductCode TextField = "supplierProductCode"
)

// SortBy is the ordering key of a result page.
type SortBy string

// Sort key constants.
const (
	SortRelevance    SortBy = "relevance"
	SortName         SortBy = "name"
	SortSKU          SortBy = "sku"
	SortCreatedAt    SortBy = "createdAt"
	SortUpdatedAt    SortBy = "updatedAt"
	SortSellingPrice SortBy = "sellingPrice"
	SortCurrentStock SortBy = "currentStock"
	SortScore        SortBy = "score"
)

// ByScore reports whether results are ordered by relevance score.
func (s SortBy) ByScore() bool { return s == SortRelevance || s == SortScore }

// SortOrder is the sort direction.
type SortOrder string

// Sort direction constants.
const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// FacetField is a product attribute that can be counted in facets.
type FacetField string

// Facet field constants.
const (
	FacetCategory FacetField = "category"
	FacetStatus   FacetField = "status"
)

var (
	textFields = lookup(TextName, TextDescription, TextSKU, TextBarcode, TextTags, TextSupplierProductCode)
	sortKeys   = lookup(SortRelevance, SortName, SortSKU, SortCreatedAt, SortUpdatedAt,
		SortSellingPrice, SortCurrentStock, SortScore)
	sortOrders  = lookup(Asc, Desc)
	facetFields = lookup(FacetCategory, FacetStatus)
)

// lookup indexes enum values by their lower-cased spelling so parsing is case-insensitive.
func lookup[T ~string](values ...T) map[string]T {
	m := make(map[string]T, len(values))
	for _, v := range values {
		m[strings.ToLower(string(v))] = v
	}
	return m
}

func parse[T ~string](m map[string]T, s string) (T, bool) {
	v, ok := m[strings.ToLower(strings.TrimSpace(s))]
	return v, ok
}
