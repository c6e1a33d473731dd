package search

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/request"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
	"github.com/kailas-cloud/prodex/internal/domain/search/scoring"
)

// Highlight markers.
const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

// highlightTargets are the only fields that receive highlights.
var highlightTargets = []request.TextField{request.TextName, request.TextSKU, request.TextDescription}

// scored is one slot of the scoring pass. pos is the retrieval order used as the final tie-break.
type scored struct {
	hit  result.Hit
	pos  int
	kept bool
}

type scorer struct {
	cfg *scoring.Config
	q   *query
	now time.Time
}

// businessScore rates a product on status, margin, stock health and recency, capped at 1.
func businessScore(cfg *scoring.Config, p product.Product, now time.Time) float64 {
	s := cfg.BusinessBase
	if p.Status() == product.StatusActive {
		s += cfg.BusinessStep
	}
	if p.ProfitMargin() > cfg.HighMarginCutoff {
		s += cfg.BusinessStep
	}
	if !p.IsOutOfStock() && !p.IsLowStock() {
		s += cfg.BusinessStep
	}
	if u := p.UpdatedAt(); !u.IsZero() && now.Sub(u) <= cfg.RecentWindow {
		s += cfg.BusinessStep * cfg.RecentBoost
	}
	return min(1, s)
}

// textScore returns total/maxPossible over the global term and the boosted field criteria.
func textScore(cfg *scoring.Config, q *query, m *match) float64 {
	var total, maxPossible float64
	if q.global != "" {
		total += m.globalScore
		maxPossible += cfg.FieldWeights.Max()
	}
	for i := range q.fields {
		boost := q.fields[i].Boost()
		total += m.fieldScores[i] * boost
		maxPossible += boost
	}
	if maxPossible == 0 {
		return 0
	}
	return total / maxPossible
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return min(1, v)
}

func (s *scorer) scoreOne(pos int, p product.Product) scored {
	business := businessScore(s.cfg, p, s.now)
	if !s.q.hasText {
		return scored{hit: result.NewHit(p, clamp01(business), nil, nil), pos: pos, kept: true}
	}

	m := matchCandidate(s.cfg, s.q, p)
	if !m.keep(s.q) {
		return scored{pos: pos}
	}

	final := clamp01(textScore(s.cfg, s.q, &m)*s.cfg.TextWeight + business*s.cfg.BusinessWeight)

	fields := make([]string, 0, len(m.matched))
	for f := range m.matched {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)

	var hl map[string][]string
	if s.q.highlight {
		hl = highlight(p, s.q.terms)
	}
	return scored{hit: result.NewHit(p, final, fields, hl), pos: pos, kept: true}
}

// scoreAll scores every candidate into an index-stable slot. Above threshold the work is
// split into at most workers chunks that run concurrently.
func (s *scorer) scoreAll(ctx context.Context, candidates []product.Product, threshold, workers int) ([]scored, error) {
	slots := make([]scored, len(candidates))
	if len(candidates) <= threshold || workers <= 1 {
		if err := s.scoreRange(ctx, candidates, slots, 0, len(candidates)); err != nil {
			return nil, err
		}
		return slots, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	chunk := (len(candidates) + workers - 1) / workers
	for lo := 0; lo < len(candidates); lo += chunk {
		hi := min(lo+chunk, len(candidates))
		g.Go(func() error {
			return s.scoreRange(gctx, candidates, slots, lo, hi)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slots, nil
}

// scoreRange fills slots[lo:hi]. A panic becomes a *domain.InternalError.
func (s *scorer) scoreRange(
	ctx context.Context, candidates []product.Product, slots []scored, lo, hi int,
) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.NewInternalError(fmt.Errorf("score candidates [%d,%d): %v", lo, hi, r))
		}
	}()

	for i := lo; i < hi; i++ {
		if (i-lo)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		slots[i] = s.scoreOne(i, candidates[i])
	}
	return nil
}

// collect drops unmatched slots and hits below minScore.
func collect(slots []scored, minScore *float64) []scored {
	out := slots[:0]
	for _, sc := range slots {
		if !sc.kept {
			continue
		}
		if minScore != nil && sc.hit.Score() < *minScore {
			continue
		}
		out = append(out, sc)
	}
	return out
}

// highlightTerms returns the distinct non-empty terms as lower-cased runes.
func highlightTerms(global string, values []string) [][]rune {
	var out [][]rune
	seen := make(map[string]bool, len(values)+1)
	for _, t := range append([]string{global}, values...) {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, []rune(t))
	}
	return out
}

func highlight(p product.Product, terms [][]rune) map[string][]string {
	if len(terms) == 0 {
		return nil
	}
	var hl map[string][]string
	for _, target := range highlightTargets {
		var value string
		switch target {
		case request.TextName:
			value = p.Name()
		case request.TextSKU:
			value = p.SKU()
		case request.TextDescription:
			value = p.Description()
		}
		if marked, ok := markTerms(value, terms); ok {
			if hl == nil {
				hl = make(map[string][]string, len(highlightTargets))
			}
			hl[string(target)] = []string{marked}
		}
	}
	return hl
}

// markTerms wraps every case-insensitive occurrence of any term in value with the markers.
// Overlapping and adjacent occurrences share one marker pair.
func markTerms(value string, terms [][]rune) (string, bool) {
	src := []rune(value)
	lower := make([]rune, len(src))
	for i, r := range src {
		lower[i] = unicode.ToLower(r)
	}

	marked := make([]bool, len(src))
	found := false
	for _, t := range terms {
		n := len(t)
		for i := 0; i+n <= len(lower); i++ {
			if !slices.Equal(lower[i:i+n], t) {
				continue
			}
			for j := i; j < i+n; j++ {
				marked[j] = true
			}
			found = true
		}
	}
	if !found {
		return "", false
	}

	var b strings.Builder
	b.Grow(len(value) + 16)
	for i, r := range src {
		if marked[i] && (i == 0 || !marked[i-1]) {
			b.WriteString(MarkOpen)
		}
		b.WriteRune(r)
		if marked[i] && (i == len(src)-1 || !marked[i+1]) {
			b.WriteString(MarkClose)
		}
	}
	return b.String(), true
}
