package search

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/request"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
	"github.com/kailas-cloud/prodex/internal/domain/search/scoring"
	"github.com/kailas-cloud/prodex/internal/metrics"
)

// Service defaults.
const (
	DefaultTimeout           = 5 * time.Second
	DefaultMaxCandidates     = 10000
	DefaultParallelThreshold = 2000
)

// ErrNoSource is returned by SearchStore when the service was built without a candidate source.
var ErrNoSource = errors.New("no candidate source configured")

// Service runs the filter, match, score, facet and paginate pipeline over a candidate list.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	cfg               scoring.Config
	source            CandidateSource
	suggester         Suggester
	logger            *zap.Logger
	timeout           time.Duration
	maxCandidates     int
	parallelThreshold int
	workers           int
	now               func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithSource sets the candidate source used by SearchStore.
func WithSource(src CandidateSource) Option { return func(s *Service) { s.source = src } }

// WithSuggester replaces the default EchoSuggester.
func WithSuggester(sg Suggester) Option { return func(s *Service) { s.suggester = sg } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.logger = l } }

// WithTimeout bounds each search. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxCandidates caps the candidate list. Zero or negative keeps the default.
func WithMaxCandidates(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxCandidates = n
		}
	}
}

// WithParallelism scores concurrently with up to workers goroutines once the
// filtered set exceeds threshold. workers <= 1 disables parallel scoring.
func WithParallelism(threshold, workers int) Option {
	return func(s *Service) {
		if threshold > 0 {
			s.parallelThreshold = threshold
		}
		s.workers = workers
	}
}

// WithClock sets the clock used for the recency signal.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// New creates a search service with the given scoring configuration.
func New(cfg scoring.Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	s := &Service{
		cfg:               cfg,
		suggester:         EchoSuggester{},
		logger:            zap.NewNop(),
		timeout:           DefaultTimeout,
		maxCandidates:     DefaultMaxCandidates,
		parallelThreshold: DefaultParallelThreshold,
		workers:           runtime.GOMAXPROCS(0),
		now:               time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// WithScoring returns a copy of the service that scores with cfg. The receiver is unchanged.
func (s *Service) WithScoring(cfg scoring.Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	c := *s
	c.cfg = cfg
	return &c, nil
}

// Scoring returns the active scoring configuration.
func (s *Service) Scoring() scoring.Config { return s.cfg }

// HealthCheck reports whether the service can serve store-backed searches.
func (s *Service) HealthCheck(context.Context) error {
	if s.source == nil {
		return ErrNoSource
	}
	if err := s.cfg.Validate(); err != nil {
		return fmt.Errorf("scoring config: %w", err)
	}
	return nil
}

// Search runs the pipeline over caller-supplied candidates. principal identifies the
// caller for logs only; authorization happens before this call.
func (s *Service) Search(
	ctx context.Context, principal string, req *request.Request, candidates []product.Product,
) (result.Page, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	page, err := s.execute(ctx, req, candidates, len(candidates))
	return s.finish(principal, start, page, err)
}

// SearchStore fetches candidates from the configured source, then runs the pipeline.
// The fetch counts against the same deadline.
func (s *Service) SearchStore(ctx context.Context, principal string, req *request.Request) (result.Page, error) {
	if s.source == nil {
		return result.Page{}, ErrNoSource
	}
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	candidates, total, err := s.source.Fetch(ctx, req.Criteria().Coarse(s.maxCandidates))
	if err != nil {
		if ctx.Err() != nil {
			return s.finish(principal, start, result.Page{}, fmt.Errorf("fetch candidates: %w", ctx.Err()))
		}
		return s.finish(principal, start, result.Page{}, domain.NewInternalError(fmt.Errorf("fetch candidates: %w", err)))
	}

	page, err := s.execute(ctx, req, candidates, total)
	return s.finish(principal, start, page, err)
}

// execute is the pipeline proper. total is the candidate count reported by the source.
func (s *Service) execute(
	ctx context.Context, req *request.Request, candidates []product.Product, total int,
) (page result.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.NewInternalError(fmt.Errorf("search pipeline: %v", r))
		}
	}()

	stats := domain.StatsFromContext(ctx)
	if len(candidates) > s.maxCandidates || total > len(candidates) {
		stats.MarkTruncated()
		s.logger.Warn("Candidate list truncated",
			zap.Int("received", len(candidates)),
			zap.Int("total", total),
			zap.Int("cap", s.maxCandidates),
		)
		candidates = candidates[:min(len(candidates), s.maxCandidates)]
	}
	metrics.SearchCandidates.Observe(float64(len(candidates)))

	filtered, err := applyFilters(ctx, req.Criteria(), candidates)
	if err != nil {
		return result.Page{}, fmt.Errorf("filter: %w", err)
	}

	q := newQuery(req)
	sc := scorer{cfg: &s.cfg, q: &q, now: s.now()}
	slots, err := sc.scoreAll(ctx, filtered, s.parallelThreshold, s.workers)
	if err != nil {
		return result.Page{}, fmt.Errorf("score: %w", err)
	}
	if err = ctx.Err(); err != nil {
		return result.Page{}, fmt.Errorf("score: %w", err)
	}

	hits := collect(slots, req.MinScore())
	stats.Record(len(candidates), len(filtered), len(hits))

	sortHits(hits, req.SortBy(), req.SortOrder())
	page = paginate(hits, req.Page(), req.Limit())
	page.Facets = buildFacets(req.Facets(), filtered)
	if len(hits) < SuggestionThreshold && req.GlobalSearch() != "" {
		page.Suggestions = s.suggester.Suggest(req.GlobalSearch(), len(hits))
	}
	return page, nil
}

// finish classifies the error, records metrics and logs the outcome.
func (s *Service) finish(principal string, start time.Time, page result.Page, err error) (result.Page, error) {
	elapsed := time.Since(start)
	metrics.SearchDuration.Observe(elapsed.Seconds())

	if err != nil {
		err = classify(err)
		var ie *domain.InternalError
		switch {
		case errors.As(err, &ie):
			metrics.SearchRequestsTotal.WithLabelValues(metrics.OutcomeInternal).Inc()
			s.logger.Error("Search failed",
				zap.String("principal", principal),
				zap.String("correlation_id", ie.CorrelationID),
				zap.Error(ie.Cause),
			)
		case errors.Is(err, domain.ErrSearchTimeout):
			metrics.SearchRequestsTotal.WithLabelValues(metrics.OutcomeTimeout).Inc()
			s.logger.Warn("Search timed out",
				zap.String("principal", principal),
				zap.Duration("elapsed", elapsed),
			)
		default:
			metrics.SearchRequestsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		}
		return result.Page{}, err
	}

	page.ExecutionTime = elapsed
	metrics.SearchRequestsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.SearchResults.Observe(float64(page.Total))
	s.logger.Debug("Search completed",
		zap.String("principal", principal),
		zap.Int("total", page.Total),
		zap.Int("page", page.Page),
		zap.Duration("duration", elapsed),
	)
	return page, nil
}

// classify maps context expiry to ErrSearchTimeout and anything unexpected to an InternalError.
func classify(err error) error {
	switch {
	case errors.Is(err, domain.ErrSearchTimeout),
		errors.Is(err, domain.ErrInternal),
		errors.Is(err, domain.ErrInvalidQuery):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", domain.ErrSearchTimeout, err)
	}
	return domain.NewInternalError(err)
}
