package product

import (
	"fmt"
	"strings"
	"time"
)

// Text field limits.
const (
	MaxSKULength  = 64
	MaxNameLength = 256
	MaxTags       = 50
)

// Dimensions holds package dimensions in centimetres.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Attributes is the flat, mutable form of a product used to build snapshots.
// Empty Barcode, SupplierID and SupplierProductCode mean "absent";
// nil Weight and Dimensions mean "unknown".
type Attributes struct {
	ID                  string
	SKU                 string
	Name                string
	Description         string
	Category            string
	Status              Status
	Tags                []string
	Barcode             string
	SupplierID          string
	SupplierProductCode string
	CostPrice           float64
	SellingPrice        float64
	CurrentStock        int
	ReservedStock       int
	MinStockLevel       int
	ReorderLevel        int
	Weight              *float64
	Dimensions          *Dimensions
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Product is an immutable snapshot of a searchable record.
type Product struct {
	a Attributes
}

// New validates and creates a Product.
func New(a Attributes) (Product, error) {
	if a.ID == "" {
		return Product{}, fmt.Errorf("product ID is required")
	}
	if a.SKU == "" {
		return Product{}, fmt.Errorf("sku is required")
	}
	if len(a.SKU) > MaxSKULength {
		return Product{}, fmt.Errorf("sku too long (max %d)", MaxSKULength)
	}
	if strings.TrimSpace(a.Name) == "" {
		return Product{}, fmt.Errorf("name is required")
	}
	if len(a.Name) > MaxNameLength {
		return Product{}, fmt.Errorf("name too long (max %d)", MaxNameLength)
	}
	if a.Status == "" {
		a.Status = StatusActive
	}
	if !a.Status.IsValid() {
		return Product{}, fmt.Errorf("invalid status: %q", a.Status)
	}
	if a.CostPrice < 0 || a.SellingPrice < 0 {
		return Product{}, fmt.Errorf("prices must be non-negative")
	}
	if len(a.Tags) > MaxTags {
		return Product{}, fmt.Errorf("too many tags (max %d)", MaxTags)
	}
	if a.ReservedStock < 0 {
		return Product{}, fmt.Errorf("reserved stock must be non-negative")
	}
	return Reconstruct(a), nil
}

// Reconstruct restores a Product from storage without validation.
func Reconstruct(a Attributes) Product {
	if a.Tags != nil {
		a.Tags = append([]string(nil), a.Tags...)
	}
	if a.Weight != nil {
		w := *a.Weight
		a.Weight = &w
	}
	if a.Dimensions != nil {
		d := *a.Dimensions
		a.Dimensions = &d
	}
	return Product{a: a}
}

// Attributes returns a copy of the snapshot's attributes.
func (p Product) Attributes() Attributes {
	return Reconstruct(p.a).a
}

// ID returns the product identifier.
func (p Product) ID() string { return p.a.ID }

// SKU returns the stock keeping unit.
func (p Product) SKU() string { return p.a.SKU }

// Name returns the display name.
func (p Product) Name() string { return p.a.Name }

// Description returns the free-text description.
func (p Product) Description() string { return p.a.Description }

// Category returns the category.
func (p Product) Category() string { return p.a.Category }

// Status returns the lifecycle status.
func (p Product) Status() Status { return p.a.Status }

// Tags returns the tags. The slice must not be modified.
func (p Product) Tags() []string { return p.a.Tags }

// Barcode returns the barcode ("" when absent).
func (p Product) Barcode() string { return p.a.Barcode }

// SupplierID returns the supplier identifier ("" when absent).
func (p Product) SupplierID() string { return p.a.SupplierID }

// SupplierProductCode returns the supplier's own code ("" when absent).
func (p Product) SupplierProductCode() string { return p.a.SupplierProductCode }

// CostPrice returns the purchase price.
func (p Product) CostPrice() float64 { return p.a.CostPrice }

// SellingPrice returns the sale price.
func (p Product) SellingPrice() float64 { return p.a.SellingPrice }

// CurrentStock returns units on hand.
func (p Product) CurrentStock() int { return p.a.CurrentStock }

// ReservedStock returns units reserved for open orders.
func (p Product) ReservedStock() int { return p.a.ReservedStock }

// MinStockLevel returns the low-stock threshold.
func (p Product) MinStockLevel() int { return p.a.MinStockLevel }

// ReorderLevel returns the reorder threshold.
func (p Product) ReorderLevel() int { return p.a.ReorderLevel }

// AvailableStock returns units on hand minus reserved units.
func (p Product) AvailableStock() int { return p.a.CurrentStock - p.a.ReservedStock }

// Weight returns the weight in kilograms (nil when unknown).
func (p Product) Weight() *float64 { return p.a.Weight }

// Dimensions returns the package dimensions (nil when unknown).
func (p Product) Dimensions() *Dimensions { return p.a.Dimensions }

// CreatedAt returns the creation time.
func (p Product) CreatedAt() time.Time { return p.a.CreatedAt }

// UpdatedAt returns the last modification time.
func (p Product) UpdatedAt() time.Time { return p.a.UpdatedAt }

// IsOutOfStock reports whether nothing is on hand.
func (p Product) IsOutOfStock() bool { return p.a.CurrentStock <= 0 }

// IsLowStock reports whether stock is positive but at or below the minimum level.
func (p Product) IsLowStock() bool {
	return p.a.CurrentStock > 0 && p.a.CurrentStock <= p.a.MinStockLevel
}

// NeedsReorder reports whether stock has reached the reorder level.
func (p Product) NeedsReorder() bool { return p.a.CurrentStock <= p.a.ReorderLevel }

// ProfitMargin returns (selling - cost) / selling, or 0 when the selling price is not positive.
func (p Product) ProfitMargin() float64 {
	if p.a.SellingPrice <= 0 {
		return 0
	}
	return (p.a.SellingPrice - p.a.CostPrice) / p.a.SellingPrice
}

// Volume returns length*width*height; ok is false when dimensions are unknown.
func (p Product) Volume() (float64, bool) {
	d := p.a.Dimensions
	if d == nil {
		return 0, false
	}
	return d.Length * d.Width * d.Height, true
}

// HasTag reports whether the product carries the tag (case-insensitive).
func (p Product) HasTag(tag string) bool {
	for _, t := range p.a.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
