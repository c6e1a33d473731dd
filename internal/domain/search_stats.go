package domain

import "context"

type searchStatsKey struct{}

// SearchStats collects pipeline counters for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// the service fills it while searching; the handler reads it for response headers.
type SearchStats struct {
	Candidates int
	Filtered   int
	Matched    int
	Truncated  bool // candidate source had more rows than the cap
}

// NewContextWithStats returns a context with an embedded stats collector.
func NewContextWithStats(ctx context.Context) (context.Context, *SearchStats) {
	s := &SearchStats{}
	return context.WithValue(ctx, searchStatsKey{}, s), s
}

// StatsFromContext extracts the stats collector from context. Returns nil if not set.
func StatsFromContext(ctx context.Context) *SearchStats {
	s, _ := ctx.Value(searchStatsKey{}).(*SearchStats)
	return s
}

// Record stores the pipeline counters. Safe on a nil receiver.
func (s *SearchStats) Record(candidates, filtered, matched int) {
	if s != nil {
		s.Candidates = candidates
		s.Filtered = filtered
		s.Matched = matched
	}
}

// MarkTruncated flags that the candidate list was capped. Safe on a nil receiver.
func (s *SearchStats) MarkTruncated() {
	if s != nil {
		s.Truncated = true
	}
}
