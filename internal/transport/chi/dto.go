package chi

import (
	"strings"
	"time"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
)

// ProductResponse is the wire form of a product snapshot.
type ProductResponse struct {
	ID                  string              `json:"id"`
	SKU                 string              `json:"sku"`
	Name                string              `json:"name"`
	Description         string              `json:"description,omitempty"`
	Category            string              `json:"category,omitempty"`
	Status              string              `json:"status"`
	Tags                []string            `json:"tags"`
	Barcode             string              `json:"barcode,omitempty"`
	SupplierID          string              `json:"supplierId,omitempty"`
	SupplierProductCode string              `json:"supplierProductCode,omitempty"`
	CostPrice           float64             `json:"costPrice"`
	SellingPrice        float64             `json:"sellingPrice"`
	CurrentStock        int                 `json:"currentStock"`
	ReservedStock       int                 `json:"reservedStock"`
	MinStockLevel       int                 `json:"minStockLevel"`
	ReorderLevel        int                 `json:"reorderLevel"`
	Weight              *float64            `json:"weight,omitempty"`
	Dimensions          *product.Dimensions `json:"dimensions,omitempty"`
	CreatedAt           string              `json:"createdAt"`
	UpdatedAt           string              `json:"updatedAt"`
}

// HitResponse is one scored result.
type HitResponse struct {
	Product       ProductResponse     `json:"product"`
	Score         float64             `json:"score"`
	MatchedFields []string            `json:"matchedFields"`
	Highlights    map[string][]string `json:"highlights,omitempty"`
}

// FacetValueResponse is one facet bucket.
type FacetValueResponse struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FacetResponse is the distribution of one field.
type FacetResponse struct {
	Field  string               `json:"field"`
	Values []FacetValueResponse `json:"values"`
}

// SuggestionResponse is an alternative query.
type SuggestionResponse struct {
	Query       string  `json:"query"`
	Type        string  `json:"type"`
	Score       float64 `json:"score"`
	ResultCount *int    `json:"resultCount,omitempty"`
}

// SearchResponse is one result page.
type SearchResponse struct {
	Items           []HitResponse        `json:"items"`
	Total           int                  `json:"total"`
	Page            int                  `json:"page"`
	Limit           int                  `json:"limit"`
	TotalPages      int                  `json:"totalPages"`
	HasNextPage     bool                 `json:"hasNextPage"`
	HasPreviousPage bool                 `json:"hasPreviousPage"`
	MaxScore        *float64             `json:"maxScore,omitempty"`
	Facets          []FacetResponse      `json:"facets,omitempty"`
	Suggestions     []SuggestionResponse `json:"suggestions,omitempty"`
	ExecutionTimeMs int64                `json:"executionTimeMs"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func pageToResponse(p *result.Page) SearchResponse {
	items := make([]HitResponse, len(p.Items))
	for i := range p.Items {
		items[i] = hitToResponse(&p.Items[i])
	}

	var facets []FacetResponse
	for _, f := range p.Facets {
		values := make([]FacetValueResponse, len(f.Values))
		for i, v := range f.Values {
			values[i] = FacetValueResponse{Value: v.Value, Count: v.Count}
		}
		facets = append(facets, FacetResponse{Field: f.Field, Values: values})
	}

	var suggestions []SuggestionResponse
	for _, s := range p.Suggestions {
		suggestions = append(suggestions, SuggestionResponse{
			Query:       s.Query,
			Type:        strings.ToUpper(string(s.Type)),
			Score:       s.Score,
			ResultCount: s.ResultCount,
		})
	}

	return SearchResponse{
		Items:           items,
		Total:           p.Total,
		Page:            p.Page,
		Limit:           p.Limit,
		TotalPages:      p.TotalPages,
		HasNextPage:     p.HasNextPage,
		HasPreviousPage: p.HasPreviousPage,
		MaxScore:        p.MaxScore,
		Facets:          facets,
		Suggestions:     suggestions,
		ExecutionTimeMs: p.ExecutionTimeMs(),
	}
}

func hitToResponse(h *result.Hit) HitResponse {
	matched := h.MatchedFields()
	if matched == nil {
		matched = []string{}
	}
	return HitResponse{
		Product:       productToResponse(h.Product()),
		Score:         h.Score(),
		MatchedFields: matched,
		Highlights:    h.Highlights(),
	}
}

func productToResponse(p product.Product) ProductResponse {
	tags := p.Tags()
	if tags == nil {
		tags = []string{}
	}
	return ProductResponse{
		ID:                  p.ID(),
		SKU:                 p.SKU(),
		Name:                p.Name(),
		Description:         p.Description(),
		Category:            p.Category(),
		Status:              string(p.Status()),
		Tags:                tags,
		Barcode:             p.Barcode(),
		SupplierID:          p.SupplierID(),
		SupplierProductCode: p.SupplierProductCode(),
		CostPrice:           p.CostPrice(),
		SellingPrice:        p.SellingPrice(),
		CurrentStock:        p.CurrentStock(),
		ReservedStock:       p.ReservedStock(),
		MinStockLevel:       p.MinStockLevel(),
		ReorderLevel:        p.ReorderLevel(),
		Weight:              p.Weight(),
		Dimensions:          p.Dimensions(),
		CreatedAt:           p.CreatedAt().UTC().Format(time.RFC3339),
		UpdatedAt:           p.UpdatedAt().UTC().Format(time.RFC3339),
	}
}
