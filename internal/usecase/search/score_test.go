package search

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/operator"
	"github.com/kailas-cloud/prodex/internal/domain/search/request"
	"github.com/kailas-cloud/prodex/internal/domain/search/scoring"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBusinessScore(t *testing.T) {
	cfg := scoring.Default()
	tests := []struct {
		name   string
		mutate func(*product.Attributes)
		want   float64
	}{
		{"base only", func(a *product.Attributes) {
			a.Status = product.StatusInactive
			a.CostPrice, a.SellingPrice = 10, 10
			a.CurrentStock = 0
		}, 0.5},
		{"active, margin, healthy stock", nil, 0.8},
		{"low stock", func(a *product.Attributes) { a.CurrentStock, a.MinStockLevel = 3, 5 }, 0.7},
		{"thin margin", func(a *product.Attributes) { a.CostPrice, a.SellingPrice = 9, 10 }, 0.7},
		{"recent", func(a *product.Attributes) { a.UpdatedAt = fixedNow.Add(-24 * time.Hour) }, 0.8 + 0.1*1.1},
		{"just outside window", func(a *product.Attributes) { a.UpdatedAt = fixedNow.Add(-8 * 24 * time.Hour) }, 0.8},
		{"unknown update time", func(a *product.Attributes) { a.UpdatedAt = time.Time{} }, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := businessScore(&cfg, prod("a", tt.mutate), fixedNow)
			if !approx(got, tt.want) {
				t.Errorf("businessScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBusinessScore_Capped(t *testing.T) {
	cfg := scoring.Default()
	cfg.BusinessBase = 0.95
	p := prod("a", func(a *product.Attributes) { a.UpdatedAt = fixedNow })
	if got := businessScore(&cfg, p, fixedNow); got != 1 {
		t.Errorf("businessScore() = %v, want 1", got)
	}
}

func TestTextScore(t *testing.T) {
	cfg := scoring.Default()
	req := mustRequest(t, request.Raw{
		GlobalSearch: "coffee",
		SearchFields: []request.RawField{
			{Field: "name", Value: "coffee", Operator: "starts_with", Boost: floatPtr(2)},
			{Field: "sku", Value: "zzz", Boost: floatPtr(3)},
		},
	})
	q := newQuery(req)
	m := match{globalScore: 1.0 * scoring.WeightName, fieldScores: []float64{cfg.StartsWithScore, 0}}

	// (2.0 + 1.2*2 + 0) / (2.0 + 2 + 3)
	want := (2.0 + 2.4) / 7.0
	if got := textScore(&cfg, &q, &m); !approx(got, want) {
		t.Errorf("textScore() = %v, want %v", got, want)
	}
}

func TestScoreOne_ClampsToOne(t *testing.T) {
	cfg := scoring.Default()
	req := mustRequest(t, request.Raw{SearchFields: []request.RawField{
		{Field: "name", Value: "coffee", Operator: "equals", Boost: floatPtr(10)},
	}})
	q := newQuery(req)
	s := scorer{cfg: &cfg, q: &q, now: fixedNow}

	sc := s.scoreOne(0, named("a", "Coffee"))
	if !sc.kept || sc.hit.Score() != 1 {
		t.Errorf("score = %v kept = %v, want clamped 1", sc.hit.Score(), sc.kept)
	}
}

func TestScoreOne_NoTextCriteriaUsesBusinessScore(t *testing.T) {
	cfg := scoring.Default()
	q := newQuery(mustRequest(t, request.Raw{}))
	s := scorer{cfg: &cfg, q: &q, now: fixedNow}

	sc := s.scoreOne(3, prod("a", nil))
	if !sc.kept || !approx(sc.hit.Score(), 0.8) || sc.pos != 3 {
		t.Errorf("slot = %+v", sc)
	}
	if sc.hit.MatchedFields() != nil {
		t.Errorf("MatchedFields() = %v", sc.hit.MatchedFields())
	}
}

func TestScoreOne_MatchedFieldsSorted(t *testing.T) {
	cfg := scoring.Default()
	q := newQuery(mustRequest(t, request.Raw{GlobalSearch: "coffee"}))
	s := scorer{cfg: &cfg, q: &q, now: fixedNow}

	sc := s.scoreOne(0, catalog()[0])
	want := []string{"name", "sku", "tags"}
	got := sc.hit.MatchedFields()
	if len(got) != len(want) {
		t.Fatalf("MatchedFields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MatchedFields() = %v, want %v", got, want)
		}
	}
}

func TestScoreRange_RecoversPanic(t *testing.T) {
	cfg := scoring.Default()
	q := newQuery(mustRequest(t, request.Raw{GlobalSearch: "x"}))
	q.fields = []request.Field{mustField(t, request.TextName, "x", operator.Contains, 1)}
	q.values = nil // shorter than fields: forces an index panic
	s := scorer{cfg: &cfg, q: &q, now: fixedNow}

	_, err := s.scoreAll(context.Background(), catalog(), 1000, 1)
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestCollect(t *testing.T) {
	slots := []scored{
		{pos: 0, kept: false},
		{hit: hitWithScore(0.9), pos: 1, kept: true},
		{hit: hitWithScore(0.4), pos: 2, kept: true},
	}
	out := collect(slots, floatPtr(0.5))
	if len(out) != 1 || out[0].pos != 1 {
		t.Errorf("collect() = %+v", out)
	}
}

func TestMarkTerms(t *testing.T) {
	tests := []struct {
		value string
		terms []string
		want  string
		ok    bool
	}{
		{"Premium Arabica Coffee", []string{"premium", "coffee"}, "<mark>Premium</mark> Arabica <mark>Coffee</mark>", true},
		{"coffee, COFFEE", []string{"coffee"}, "<mark>coffee</mark>, <mark>COFFEE</mark>", true},
		{"abcd", []string{"ab", "bc"}, "<mark>abc</mark>d", true},
		{"Tea", []string{"coffee"}, "", false},
		{"Crème brûlée", []string{"brûlée"}, "Crème <mark>brûlée</mark>", true},
		{"a*b", []string{"a*b"}, "<mark>a*b</mark>", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			var terms [][]rune
			for _, s := range tt.terms {
				terms = append(terms, []rune(s))
			}
			got, ok := markTerms(tt.value, terms)
			if ok != tt.ok || got != tt.want {
				t.Errorf("markTerms() = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestHighlightTerms_Dedupes(t *testing.T) {
	terms := highlightTerms("coffee", []string{"coffee", "", "beans"})
	if len(terms) != 2 {
		t.Errorf("highlightTerms() = %d terms, want 2", len(terms))
	}
}
