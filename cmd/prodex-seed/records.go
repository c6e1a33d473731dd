package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	prodex "github.com/kailas-cloud/prodex/pkg/sdk"
)

// Seed file formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// record is one product as written in a seed file.
type record struct {
	ID                  string             `json:"id" yaml:"id"`
	SKU                 string             `json:"sku" yaml:"sku"`
	Name                string             `json:"name" yaml:"name"`
	Description         string             `json:"description,omitempty" yaml:"description"`
	Category            string             `json:"category,omitempty" yaml:"category"`
	Status              string             `json:"status,omitempty" yaml:"status"`
	Tags                []string           `json:"tags,omitempty" yaml:"tags"`
	Barcode             string             `json:"barcode,omitempty" yaml:"barcode"`
	SupplierID          string             `json:"supplierId,omitempty" yaml:"supplierId"`
	SupplierProductCode string             `json:"supplierProductCode,omitempty" yaml:"supplierProductCode"`
	CostPrice           float64            `json:"costPrice" yaml:"costPrice"`
	SellingPrice        float64            `json:"sellingPrice" yaml:"sellingPrice"`
	CurrentStock        int                `json:"currentStock" yaml:"currentStock"`
	ReservedStock       int                `json:"reservedStock,omitempty" yaml:"reservedStock"`
	MinStockLevel       int                `json:"minStockLevel,omitempty" yaml:"minStockLevel"`
	ReorderLevel        int                `json:"reorderLevel,omitempty" yaml:"reorderLevel"`
	Weight              *float64           `json:"weight,omitempty" yaml:"weight"`
	Dimensions          *prodex.Dimensions `json:"dimensions,omitempty" yaml:"dimensions"`
	CreatedAt           *time.Time         `json:"createdAt,omitempty" yaml:"createdAt"`
	UpdatedAt           *time.Time         `json:"updatedAt,omitempty" yaml:"updatedAt"`
}

// attributes converts the record. Missing timestamps default to now.
func (r *record) attributes(now time.Time) prodex.ProductAttributes {
	a := prodex.ProductAttributes{
		ID:                  r.ID,
		SKU:                 r.SKU,
		Name:                r.Name,
		Description:         r.Description,
		Category:            r.Category,
		Status:              prodex.ProductStatus(strings.ToLower(r.Status)),
		Tags:                r.Tags,
		Barcode:             r.Barcode,
		SupplierID:          r.SupplierID,
		SupplierProductCode: r.SupplierProductCode,
		CostPrice:           r.CostPrice,
		SellingPrice:        r.SellingPrice,
		CurrentStock:        r.CurrentStock,
		ReservedStock:       r.ReservedStock,
		MinStockLevel:       r.MinStockLevel,
		ReorderLevel:        r.ReorderLevel,
		Weight:              r.Weight,
		Dimensions:          r.Dimensions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if r.CreatedAt != nil {
		a.CreatedAt = r.CreatedAt.UTC()
	}
	if r.UpdatedAt != nil {
		a.UpdatedAt = r.UpdatedAt.UTC()
	} else if r.CreatedAt != nil {
		a.UpdatedAt = a.CreatedAt
	}
	return a
}

// detectFormat picks the format from an explicit flag or the file extension.
func detectFormat(path, explicit string) (string, error) {
	switch f := strings.ToLower(explicit); f {
	case formatJSON, formatYAML:
		return f, nil
	case "yml":
		return formatYAML, nil
	case "":
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", explicit)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	return formatJSON, nil
}

// decodeRecords reads a list of products.
func decodeRecords(r io.Reader, format string) ([]record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var out []record
	switch format {
	case formatYAML:
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	}
	return out, nil
}

// decodeQuery reads a search query in the same wire format the HTTP API accepts.
func decodeQuery(r io.Reader, format string) (prodex.Query, error) {
	var q prodex.Query
	data, err := io.ReadAll(r)
	if err != nil {
		return q, fmt.Errorf("read: %w", err)
	}
	switch format {
	case formatYAML:
		err = yaml.Unmarshal(data, &q)
	default:
		err = json.Unmarshal(data, &q)
	}
	if err != nil {
		return q, fmt.Errorf("decode %s query: %w", format, err)
	}
	return q, nil
}
