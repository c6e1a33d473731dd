package product

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
)

// Hash field names.
const (
	fID                  = "id"
	fSKU                 = "sku"
	fName                = "name"
	fDescription         = "description"
	fCategory            = "category"
	fStatus              = "status"
	fTags                = "tags"
	fBarcode             = "barcode"
	fSupplierID          = "supplier_id"
	fSupplierProductCode = "supplier_product_code"
	fCostPrice           = "cost_price"
	fSellingPrice        = "selling_price"
	fCurrentStock        = "current_stock"
	fReservedStock       = "reserved_stock"
	fMinStockLevel       = "min_stock_level"
	fReorderLevel        = "reorder_level"
	fWeight              = "weight"
	fDimensions          = "dimensions"
	fCreatedAt           = "created_at"
	fUpdatedAt           = "updated_at"
)

// buildHashFields flattens a product into HSET fields. Every field is written,
// absent optionals as "", so an overwrite never leaves stale values behind.
func buildHashFields(p *domprod.Product) (map[string]string, error) {
	tags, err := json.Marshal(nonNil(p.Tags()))
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	dims := ""
	if d := p.Dimensions(); d != nil {
		raw, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("marshal dimensions: %w", err)
		}
		dims = string(raw)
	}
	weight := ""
	if w := p.Weight(); w != nil {
		weight = formatFloat(*w)
	}

	return map[string]string{
		fID:                  p.ID(),
		fSKU:                 p.SKU(),
		fName:                p.Name(),
		fDescription:         p.Description(),
		fCategory:            p.Category(),
		fStatus:              string(p.Status()),
		fTags:                string(tags),
		fBarcode:             p.Barcode(),
		fSupplierID:          p.SupplierID(),
		fSupplierProductCode: p.SupplierProductCode(),
		fCostPrice:           formatFloat(p.CostPrice()),
		fSellingPrice:        formatFloat(p.SellingPrice()),
		fCurrentStock:        strconv.Itoa(p.CurrentStock()),
		fReservedStock:       strconv.Itoa(p.ReservedStock()),
		fMinStockLevel:       strconv.Itoa(p.MinStockLevel()),
		fReorderLevel:        strconv.Itoa(p.ReorderLevel()),
		fWeight:              weight,
		fDimensions:          dims,
		fCreatedAt:           p.CreatedAt().UTC().Format(time.RFC3339Nano),
		fUpdatedAt:           p.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}, nil
}

// parseHashFields restores a product from a hash. Missing numeric fields read as zero.
func parseHashFields(m map[string]string) (domprod.Product, error) {
	a := domprod.Attributes{
		ID:                  m[fID],
		SKU:                 m[fSKU],
		Name:                m[fName],
		Description:         m[fDescription],
		Category:            m[fCategory],
		Status:              domprod.Status(m[fStatus]),
		Barcode:             m[fBarcode],
		SupplierID:          m[fSupplierID],
		SupplierProductCode: m[fSupplierProductCode],
	}
	if a.ID == "" {
		return domprod.Product{}, fmt.Errorf("missing %s", fID)
	}

	var err error
	if a.CostPrice, err = parseFloat(m, fCostPrice); err != nil {
		return domprod.Product{}, err
	}
	if a.SellingPrice, err = parseFloat(m, fSellingPrice); err != nil {
		return domprod.Product{}, err
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{fCurrentStock, &a.CurrentStock},
		{fReservedStock, &a.ReservedStock},
		{fMinStockLevel, &a.MinStockLevel},
		{fReorderLevel, &a.ReorderLevel},
	}
	for _, f := range ints {
		if *f.dst, err = parseInt(m, f.name); err != nil {
			return domprod.Product{}, err
		}
	}

	if v := m[fTags]; v != "" {
		if err := json.Unmarshal([]byte(v), &a.Tags); err != nil {
			return domprod.Product{}, fmt.Errorf("parse %s: %w", fTags, err)
		}
	}
	if v := m[fWeight]; v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domprod.Product{}, fmt.Errorf("parse %s: %w", fWeight, err)
		}
		a.Weight = &w
	}
	if v := m[fDimensions]; v != "" {
		var d domprod.Dimensions
		if err := json.Unmarshal([]byte(v), &d); err != nil {
			return domprod.Product{}, fmt.Errorf("parse %s: %w", fDimensions, err)
		}
		a.Dimensions = &d
	}
	if a.CreatedAt, err = parseTime(m, fCreatedAt); err != nil {
		return domprod.Product{}, err
	}
	if a.UpdatedAt, err = parseTime(m, fUpdatedAt); err != nil {
		return domprod.Product{}, err
	}

	return domprod.Reconstruct(a), nil
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func parseFloat(m map[string]string, name string) (float64, error) {
	v := m[name]
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return f, nil
}

func parseInt(m map[string]string, name string) (int, error) {
	v := m[name]
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return n, nil
}

func parseTime(m map[string]string, name string) (time.Time, error) {
	v := m[name]
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", name, err)
	}
	return t, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
