package prodex

import (
	"time"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/request"
	"github.com/kailas-cloud/prodex/internal/domain/search/scoring"
)

// Product is an immutable, validated product snapshot. Build one with NewProduct.
type Product = product.Product

// ProductAttributes is the flat form of a product.
type ProductAttributes = product.Attributes

// Dimensions are physical measurements; volume is their product.
type Dimensions = product.Dimensions

// ProductStatus is the lifecycle state of a product.
type ProductStatus = product.Status

// Product status constants.
const (
	StatusActive          = product.StatusActive
	StatusInactive        = product.StatusInactive
	StatusDiscontinued    = product.StatusDiscontinued
	StatusPendingApproval = product.StatusPendingApproval
	StatusOutOfStock      = product.StatusOutOfStock
)

// NewProduct validates attributes and returns a snapshot.
func NewProduct(a ProductAttributes) (Product, error) {
	return product.New(a)
}

// Query is an unvalidated search query. Every field is optional; enums are
// matched case-insensitively. Build one by hand or with QueryBuilder.
type Query = request.Raw

// QueryField targets one product text field.
type QueryField = request.RawField

// PriceRange bounds cost or selling price.
type PriceRange = request.RawPriceRange

// StockFilter bounds stock quantity and derived stock state.
type StockFilter = request.RawStockFilter

// DimensionFilter bounds weight and volume.
type DimensionFilter = request.RawDimensionFilter

// Operator values accepted in QueryField.Operator.
const (
	OpEquals     = "equals"
	OpContains   = "contains"
	OpStartsWith = "starts_with"
	OpEndsWith   = "ends_with"
	OpFuzzy      = "fuzzy"
	OpPhrase     = "phrase"
	OpWildcard   = "wildcard"
)

// Search mode values.
const (
	ModeAny = "any"
	ModeAll = "all"
)

// ScoringConfig holds the relevance constants.
type ScoringConfig = scoring.Config

// FieldWeights weights each product field when scoring the free-text term.
type FieldWeights = scoring.FieldWeights

// DefaultScoring returns the stock relevance constants.
func DefaultScoring() ScoringConfig { return scoring.Default() }

// SearchResult is one page of ranked products.
type SearchResult struct {
	Items           []Hit
	Total           int
	Page            int
	Limit           int
	TotalPages      int
	HasNextPage     bool
	HasPreviousPage bool
	MaxScore        *float64
	Facets          []Facet
	Suggestions     []Suggestion
	ExecutionTime   time.Duration
}

// Hit is a single ranked product.
type Hit struct {
	Product       Product
	Score         float64
	MatchedFields []string
	Highlights    map[string][]string
}

// Facet is the value distribution of one field across all filtered products.
type Facet struct {
	Field  string
	Values []FacetValue
}

// FacetValue is one distinct value and its count.
type FacetValue struct {
	Value string
	Count int
}

// Suggestion is an alternative query offered when few products match.
type Suggestion struct {
	Query       string
	Type        string // "completion", "correction" or "popular"
	Score       float64
	ResultCount *int
}

// LoadStatus is the outcome of writing one product.
type LoadStatus string

// Load status constants.
const (
	LoadOK      LoadStatus = "ok"
	LoadInvalid LoadStatus = "invalid"
	LoadError   LoadStatus = "error"
)

// LoadResult is the outcome of one item in Load.
type LoadResult struct {
	ID     string
	Status LoadStatus
	Err    error
}

// LoadSummary counts load results by status.
type LoadSummary struct {
	OK      int
	Invalid int
	Failed  int
}
