package search

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/fuzzy"
	"github.com/kailas-cloud/prodex/internal/domain/search/mode"
	"github.com/kailas-cloud/prodex/internal/domain/search/operator"
	"github.com/kailas-cloud/prodex/internal/domain/search/request"
	"github.com/kailas-cloud/prodex/internal/domain/search/scoring"
)

// globalTargets are the fields the global search term is matched against.
var globalTargets = []request.TextField{
	request.TextName,
	request.TextSKU,
	request.TextTags,
	request.TextBarcode,
	request.TextDescription,
	request.TextSupplierProductCode,
}

// query is a request pre-lowered once so the per-candidate loop allocates less.
type query struct {
	global    string
	fields    []request.Field
	values    []string // lower-cased field values, parallel to fields
	mode      mode.Mode
	highlight bool
	hasText   bool
	terms     [][]rune // distinct lower-cased highlight terms
}

func newQuery(req *request.Request) query {
	q := query{
		global:    strings.ToLower(req.GlobalSearch()),
		fields:    req.Fields(),
		mode:      req.Mode(),
		highlight: req.Highlight(),
		hasText:   req.HasTextCriteria(),
	}
	q.values = make([]string, len(q.fields))
	for i, f := range q.fields {
		q.values[i] = strings.ToLower(f.Value())
	}
	if q.highlight {
		q.terms = highlightTerms(q.global, q.values)
	}
	return q
}

// match is the text-matching outcome for one candidate.
type match struct {
	globalScore float64   // best weighted contains score across globalTargets (0 = no match)
	fieldScores []float64 // operator score per field criterion, before boost
	matched     map[request.TextField]struct{}
}

// textOf returns the lower-cased values of target; tags yield one value per tag.
func textOf(p product.Product, target request.TextField) []string {
	switch target {
	case request.TextName:
		return []string{strings.ToLower(p.Name())}
	case request.TextSKU:
		return []string{strings.ToLower(p.SKU())}
	case request.TextDescription:
		return []string{strings.ToLower(p.Description())}
	case request.TextBarcode:
		return []string{strings.ToLower(p.Barcode())}
	case request.TextSupplierProductCode:
		return []string{strings.ToLower(p.SupplierProductCode())}
	case request.TextTags:
		out := make([]string, len(p.Tags()))
		for i, t := range p.Tags() {
			out[i] = strings.ToLower(t)
		}
		return out
	}
	return nil
}

func weightOf(w scoring.FieldWeights, target request.TextField) float64 {
	switch target {
	case request.TextName:
		return w.Name
	case request.TextSKU:
		return w.SKU
	case request.TextTags:
		return w.Tags
	case request.TextBarcode:
		return w.Barcode
	case request.TextDescription:
		return w.Description
	case request.TextSupplierProductCode:
		return w.SupplierProductCode
	}
	return 0
}

// evalOperator scores one lower-cased field value against one criterion. 0 means no match.
func evalOperator(cfg *scoring.Config, f *request.Field, value, term string) float64 {
	if value == "" {
		return 0
	}
	switch f.Operator() {
	case operator.Equals:
		if value == term {
			return cfg.ExactMatchBoost
		}
	case operator.Contains:
		if strings.Contains(value, term) {
			return cfg.ContainsScore
		}
	case operator.StartsWith:
		if strings.HasPrefix(value, term) {
			return cfg.StartsWithScore
		}
	case operator.EndsWith:
		if strings.HasSuffix(value, term) {
			return cfg.EndsWithScore
		}
	case operator.Phrase:
		if strings.Contains(value, term) {
			return cfg.PhraseBoost
		}
	case operator.Wildcard:
		if f.Pattern().Match(value) {
			return cfg.WildcardScore
		}
	case operator.Fuzzy:
		if sim, ok := fuzzy.Match(value, term, f.FuzzyLevel()); ok {
			return sim * cfg.FuzzyBoost
		}
	}
	return 0
}

// matchCandidate evaluates the global term and every field criterion against p.
func matchCandidate(cfg *scoring.Config, q *query, p product.Product) match {
	m := match{fieldScores: make([]float64, len(q.fields))}

	if q.global != "" {
		for _, target := range globalTargets {
			value := strings.Join(textOf(p, target), " ")
			if value == "" || !strings.Contains(value, q.global) {
				continue
			}
			m.markMatched(target)
			m.globalScore = max(m.globalScore, cfg.ContainsScore*weightOf(cfg.FieldWeights, target))
		}
	}

	for i := range q.fields {
		f := &q.fields[i]
		best := 0.0
		for _, value := range textOf(p, f.Target()) {
			best = max(best, evalOperator(cfg, f, value, q.values[i]))
		}
		if best > 0 {
			m.fieldScores[i] = best
			m.markMatched(f.Target())
		}
	}
	return m
}

func (m *match) markMatched(target request.TextField) {
	if m.matched == nil {
		m.matched = make(map[request.TextField]struct{}, 2)
	}
	m.matched[target] = struct{}{}
}

// keep applies the search mode. With both a global term and field criteria,
// ANY keeps a candidate when either side passes and ALL requires both.
func (m *match) keep(q *query) bool {
	hasGlobal := q.global != ""
	hasFields := len(q.fields) > 0
	globalOK := m.globalScore > 0

	var fieldsOK bool
	if q.mode == mode.All {
		fieldsOK = !slices.Contains(m.fieldScores, 0)
	} else {
		fieldsOK = slices.ContainsFunc(m.fieldScores, func(s float64) bool { return s > 0 })
	}

	switch {
	case hasGlobal && hasFields:
		if q.mode == mode.All {
			return globalOK && fieldsOK
		}
		return globalOK || fieldsOK
	case hasGlobal:
		return globalOK
	case hasFields:
		return fieldsOK
	}
	return true
}
