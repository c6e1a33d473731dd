package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeTimeout  = "timeout"
	OutcomeInternal = "internal"
)

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of product searches by outcome",
		},
		[]string{"outcome"},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search pipeline duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	SearchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_candidates",
			Help:      "Number of candidates entering the filter pass",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 7),
		},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of hits after matching and minScore",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	CandidateFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidate_fetch_duration_seconds",
			Help:      "Candidate source fetch duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"source"},
	)

	CandidateFetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidate_fetch_errors_total",
			Help:      "Total candidate source failures",
		},
		[]string{"source"},
	)

	CandidatesTruncatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_truncated_total",
			Help:      "Fetches where the source held more candidates than the cap",
		},
		[]string{"source"},
	)
)

var registerSearch sync.Once

// RegisterSearchMetrics registers the search metrics with the default registry. Safe to call more than once.
func RegisterSearchMetrics() {
	registerSearch.Do(func() {
		prometheus.MustRegister(
			SearchRequestsTotal,
			SearchDuration,
			SearchCandidates,
			SearchResults,
			CandidateFetchDuration,
			CandidateFetchErrorsTotal,
			CandidatesTruncatedTotal,
		)
	})
}
