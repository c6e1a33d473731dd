// Package scoring holds the immutable relevance configuration shared across requests.
package scoring

import (
	"fmt"
	"time"
)

// Field weights for the global search term.
const (
	WeightName                = 2.0
	WeightSKU                 = 1.8
	WeightTags                = 1.5
	WeightBarcode             = 1.2
	WeightDescription         = 1.0
	WeightSupplierProductCode = 0.8
)

// Config is the relevance configuration. Treat it as a value: copy to override.
type Config struct {
	ExactMatchBoost  float64
	ContainsScore    float64
	StartsWithScore  float64
	EndsWithScore    float64
	PhraseBoost      float64
	WildcardScore    float64
	FuzzyBoost       float64
	RecentBoost      float64
	RecentWindow     time.Duration
	TextWeight       float64 // share of the text score in the final score
	BusinessWeight   float64 // share of the business score in the final score
	BusinessBase     float64
	BusinessStep     float64
	HighMarginCutoff float64
	FieldWeights     FieldWeights
}

// FieldWeights weights each product field when scoring the global search term.
type FieldWeights struct {
	Name                float64
	SKU                 float64
	Tags                float64
	Barcode             float64
	Description         float64
	SupplierProductCode float64
}

// Max returns the largest weight.
func (w FieldWeights) Max() float64 {
	return max(w.Name, w.SKU, w.Tags, w.Barcode, w.Description, w.SupplierProductCode)
}

// Default returns the stock relevance configuration.
func Default() Config {
	return Config{
		ExactMatchBoost:  1.5,
		ContainsScore:    1.0,
		StartsWithScore:  1.2,
		EndsWithScore:    1.1,
		PhraseBoost:      1.3,
		WildcardScore:    1.0,
		FuzzyBoost:       0.7,
		RecentBoost:      1.1,
		RecentWindow:     7 * 24 * time.Hour,
		TextWeight:       0.8,
		BusinessWeight:   0.2,
		BusinessBase:     0.5,
		BusinessStep:     0.1,
		HighMarginCutoff: 0.3,
		FieldWeights: FieldWeights{
			Name:                WeightName,
			SKU:                 WeightSKU,
			Tags:                WeightTags,
			Barcode:             WeightBarcode,
			Description:         WeightDescription,
			SupplierProductCode: WeightSupplierProductCode,
		},
	}
}

// Validate checks that the configuration can produce scores in [0, 1].
func (c Config) Validate() error {
	positives := map[string]float64{
		"exact_match_boost": c.ExactMatchBoost,
		"contains_score":    c.ContainsScore,
		"starts_with_score": c.StartsWithScore,
		"ends_with_score":   c.EndsWithScore,
		"phrase_boost":      c.PhraseBoost,
		"wildcard_score":    c.WildcardScore,
		"fuzzy_boost":       c.FuzzyBoost,
	}
	for name, v := range positives {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, v)
		}
	}
	if c.TextWeight < 0 || c.BusinessWeight < 0 {
		return fmt.Errorf("text_weight and business_weight must be non-negative")
	}
	if c.TextWeight+c.BusinessWeight == 0 {
		return fmt.Errorf("text_weight and business_weight cannot both be zero")
	}
	if c.BusinessBase < 0 || c.BusinessBase > 1 {
		return fmt.Errorf("business_base must be between 0 and 1, got %v", c.BusinessBase)
	}
	if c.RecentWindow < 0 {
		return fmt.Errorf("recent_window must be non-negative")
	}
	if c.FieldWeights.Max() <= 0 {
		return fmt.Errorf("at least one field weight must be positive")
	}
	return nil
}
