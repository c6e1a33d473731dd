package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// Cardinality limits for filter sets.
const (
	MaxCategories  = 20
	MaxStatuses    = 10
	MaxSuppliers   = 20
	MaxTags        = 20
	MaxTagLength   = 50
	MaxPriceRanges = 5
)

// Criteria is the structural part of a search query.
// A nil or empty set means "no constraint"; a nil flag means "either way".
type Criteria struct {
	Categories   []string
	Statuses     []product.Status
	SupplierIDs  []string
	Tags         []string // product must carry every tag
	ExcludeTags  []string // product must carry none of these
	PriceRanges  []PriceRange
	Stock        *Stock
	Dimension    *Dimension
	HasBarcode   *bool
	HasSupplier  *bool
	IsActive     *bool
	NeedsReorder *bool
}

// IsEmpty reports whether the criteria impose no constraint at all.
func (c *Criteria) IsEmpty() bool {
	return len(c.Categories) == 0 && len(c.Statuses) == 0 && len(c.SupplierIDs) == 0 &&
		len(c.Tags) == 0 && len(c.ExcludeTags) == 0 && len(c.PriceRanges) == 0 &&
		c.Stock == nil && c.Dimension == nil &&
		c.HasBarcode == nil && c.HasSupplier == nil && c.IsActive == nil && c.NeedsReorder == nil
}

// Range is an inclusive numeric interval; a nil bound is unbounded on that side.
type Range struct {
	min *float64
	max *float64
}

// NewRange validates and creates a Range. min must not exceed max.
func NewRange(lo, hi *float64) (Range, error) {
	if lo != nil && hi != nil && *lo > *hi {
		return Range{}, fmt.Errorf("min (%v) must not exceed max (%v)", *lo, *hi)
	}
	return Range{min: lo, max: hi}, nil
}

// Min returns the lower bound.
func (r Range) Min() *float64 { return r.min }

// Max returns the upper bound.
func (r Range) Max() *float64 { return r.max }

// IsUnbounded reports whether neither bound is set.
func (r Range) IsUnbounded() bool { return r.min == nil && r.max == nil }

// Contains reports whether min <= v <= max.
func (r Range) Contains(v float64) bool {
	if r.min != nil && v < *r.min {
		return false
	}
	if r.max != nil && v > *r.max {
		return false
	}
	return true
}

// PriceType selects which product price a range applies to.
type PriceType string

// Price type constants.
const (
	PriceCost    PriceType = "cost"
	PriceSelling PriceType = "selling"
)

// IsValid checks if the price type is supported.
func (t PriceType) IsValid() bool { return t == PriceCost || t == PriceSelling }

// PriceRange is a price interval bound to one price column.
type PriceRange struct {
	Range Range
	Type  PriceType
}

// Matches reports whether the product's selected price lies inside the range.
func (pr PriceRange) Matches(p product.Product) bool {
	price := p.SellingPrice()
	if pr.Type == PriceCost {
		price = p.CostPrice()
	}
	return pr.Range.Contains(price)
}

// StockStatus is a derived stock condition.
type StockStatus string

// Stock status constants.
const (
	StockAvailable     StockStatus = "available"
	StockLow           StockStatus = "low"
	StockOut           StockStatus = "out"
	StockReorderNeeded StockStatus = "reorder_needed"
)

// IsValid checks if the stock status is supported.
func (s StockStatus) IsValid() bool {
	switch s {
	case StockAvailable, StockLow, StockOut, StockReorderNeeded:
		return true
	}
	return false
}

// Stock filters on stock quantity and derived stock state.
type Stock struct {
	Quantity Range
	// IncludeReserved compares against current stock; otherwise against available stock.
	IncludeReserved bool
	// Status is optional; "" means no status constraint.
	Status StockStatus
}

// Matches reports whether the product satisfies the stock constraints.
func (s *Stock) Matches(p product.Product) bool {
	qty := p.AvailableStock()
	if s.IncludeReserved {
		qty = p.CurrentStock()
	}
	if !s.Quantity.Contains(float64(qty)) {
		return false
	}
	switch s.Status {
	case StockAvailable:
		return !p.IsOutOfStock()
	case StockLow:
		return p.IsLowStock()
	case StockOut:
		return p.IsOutOfStock()
	case StockReorderNeeded:
		return p.NeedsReorder()
	}
	return true
}

// Dimension filters on weight and volume.
// A product with unknown weight (or dimensions) fails when that range is bounded.
type Dimension struct {
	Weight Range
	Volume Range
}

// Matches reports whether the product satisfies the physical constraints.
func (d *Dimension) Matches(p product.Product) bool {
	if !d.Weight.IsUnbounded() {
		w := p.Weight()
		if w == nil || !d.Weight.Contains(*w) {
			return false
		}
	}
	if !d.Volume.IsUnbounded() {
		v, ok := p.Volume()
		if !ok || !d.Volume.Contains(v) {
			return false
		}
	}
	return true
}

// Coarse is the membership subset of Criteria that a candidate source applies before the engine runs.
type Coarse struct {
	Categories  []string
	Statuses    []product.Status
	SupplierIDs []string
	Limit       int // 0 = source default
}

// Coarse extracts the membership sets for a candidate fetch capped at limit.
func (c *Criteria) Coarse(limit int) Coarse {
	return Coarse{
		Categories:  c.Categories,
		Statuses:    c.Statuses,
		SupplierIDs: c.SupplierIDs,
		Limit:       limit,
	}
}

// Matches reports whether p belongs to every non-empty set.
func (c Coarse) Matches(p product.Product) bool {
	if len(c.Categories) > 0 && !containsFold(c.Categories, p.Category()) {
		return false
	}
	if len(c.Statuses) > 0 && !slices.Contains(c.Statuses, p.Status()) {
		return false
	}
	if len(c.SupplierIDs) > 0 && !containsFold(c.SupplierIDs, p.SupplierID()) {
		return false
	}
	return true
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
