package request

// Raw is the untrusted request object as decoded from JSON.
// Every enum arrives as a string and every optional number as a pointer;
// New turns it into a Request or reports every violation at once.
type Raw struct {
	GlobalSearch     string              `json:"globalSearch,omitempty" yaml:"globalSearch"`
	SearchFields     []RawField          `json:"searchFields,omitempty" yaml:"searchFields"`
	SearchMode       string              `json:"searchMode,omitempty" yaml:"searchMode"`
	Categories       []string            `json:"categories,omitempty" yaml:"categories"`
	Statuses         []string            `json:"statuses,omitempty" yaml:"statuses"`
	SupplierIDs      []string            `json:"supplierIds,omitempty" yaml:"supplierIds"`
	Tags             []string            `json:"tags,omitempty" yaml:"tags"`
	ExcludeTags      []string            `json:"excludeTags,omitempty" yaml:"excludeTags"`
	PriceRanges      []RawPriceRange     `json:"priceRanges,omitempty" yaml:"priceRanges"`
	StockFilter      *RawStockFilter     `json:"stockFilter,omitempty" yaml:"stockFilter"`
	DimensionFilter  *RawDimensionFilter `json:"dimensionFilter,omitempty" yaml:"dimensionFilter"`
	HasBarcode       *bool               `json:"hasBarcode,omitempty" yaml:"hasBarcode"`
	HasSupplier      *bool               `json:"hasSupplier,omitempty" yaml:"hasSupplier"`
	IsActive         *bool               `json:"isActive,omitempty" yaml:"isActive"`
	NeedsReorder     *bool               `json:"needsReorder,omitempty" yaml:"needsReorder"`
	MinScore         *float64            `json:"minScore,omitempty" yaml:"minScore"`
	SortBy           string              `json:"sortBy,omitempty" yaml:"sortBy"`
	SortOrder        string              `json:"sortOrder,omitempty" yaml:"sortOrder"`
	Page             *int                `json:"page,omitempty" yaml:"page"`
	Limit            *int                `json:"limit,omitempty" yaml:"limit"`
	HighlightMatches bool                `json:"highlightMatches,omitempty" yaml:"highlightMatches"`
	Facets           []string            `json:"facets,omitempty" yaml:"facets"`
}

// RawField is a single field-targeted criterion.
type RawField struct {
	Field      string   `json:"field" yaml:"field"`
	Value      string   `json:"value" yaml:"value"`
	Operator   string   `json:"operator,omitempty" yaml:"operator"`
	Boost      *float64 `json:"boost,omitempty" yaml:"boost"`
	FuzzyLevel *float64 `json:"fuzzyLevel,omitempty" yaml:"fuzzyLevel"`
}

// RawPriceRange is a price interval.
type RawPriceRange struct {
	Min  *float64 `json:"min,omitempty" yaml:"min"`
	Max  *float64 `json:"max,omitempty" yaml:"max"`
	Type string   `json:"type" yaml:"type"`
}

// RawStockFilter constrains stock quantity and derived stock state.
type RawStockFilter struct {
	MinStock        *float64 `json:"minStock,omitempty" yaml:"minStock"`
	MaxStock        *float64 `json:"maxStock,omitempty" yaml:"maxStock"`
	IncludeReserved bool     `json:"includeReserved,omitempty" yaml:"includeReserved"`
	StockStatus     string   `json:"stockStatus,omitempty" yaml:"stockStatus"`
}

// RawDimensionFilter constrains weight and volume.
type RawDimensionFilter struct {
	MinWeight *float64 `json:"minWeight,omitempty" yaml:"minWeight"`
	MaxWeight *float64 `json:"maxWeight,omitempty" yaml:"maxWeight"`
	MinVolume *float64 `json:"minVolume,omitempty" yaml:"minVolume"`
	MaxVolume *float64 `json:"maxVolume,omitempty" yaml:"maxVolume"`
}
