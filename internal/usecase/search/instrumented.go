package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
	"github.com/kailas-cloud/prodex/internal/metrics"
)

// InstrumentedSource wraps a CandidateSource with fetch metrics and logging.
type InstrumentedSource struct {
	inner  CandidateSource
	name   string
	logger *zap.Logger
}

// NewInstrumentedSource wraps a candidate source. name labels the metrics (e.g. "valkey").
func NewInstrumentedSource(inner CandidateSource, name string, logger *zap.Logger) *InstrumentedSource {
	return &InstrumentedSource{inner: inner, name: name, logger: logger}
}

// Fetch delegates to the inner source and records duration, failures and truncation.
func (s *InstrumentedSource) Fetch(ctx context.Context, coarse filter.Coarse) ([]product.Product, int, error) {
	start := time.Now()

	candidates, total, err := s.inner.Fetch(ctx, coarse)

	duration := time.Since(start)
	metrics.CandidateFetchDuration.WithLabelValues(s.name).Observe(duration.Seconds())

	if err != nil {
		metrics.CandidateFetchErrorsTotal.WithLabelValues(s.name).Inc()
		s.logger.Error("Candidate fetch failed",
			zap.String("source", s.name),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, 0, fmt.Errorf("%s fetch: %w", s.name, err)
	}

	if total > len(candidates) {
		metrics.CandidatesTruncatedTotal.WithLabelValues(s.name).Inc()
	}

	s.logger.Debug("Candidate fetch completed",
		zap.String("source", s.name),
		zap.Duration("duration", duration),
		zap.Int("candidates", len(candidates)),
		zap.Int("total", total),
		zap.Int("limit", coarse.Limit),
	)
	return candidates, total, nil
}
