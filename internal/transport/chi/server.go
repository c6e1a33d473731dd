package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/search/request"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/prodex/internal/logger"
	"github.com/kailas-cloud/prodex/internal/metrics"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
)

// Request and response headers.
const (
	PrincipalHeader  = "X-Requested-By"
	CandidatesHeader = "X-Search-Candidates"
	FilteredHeader   = "X-Search-Filtered"
	TruncatedHeader  = "X-Search-Truncated"
)

// AnonymousPrincipal is logged when a request carries no principal header.
const AnonymousPrincipal = "anonymous"

// maxBodyBytes caps the search request body.
const maxBodyBytes = 1 << 20

// Searcher runs store-backed product searches.
type Searcher interface {
	SearchStore(ctx context.Context, principal string, req *request.Request) (result.Page, error)
}

// HealthChecker reports dependency health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers of the product search API.
type Server struct {
	search Searcher
	health HealthChecker
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{search: search, health: health, logger: logger}
}

// Router assembles the middleware chain and routes.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/products/search", s.SearchProducts)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
	return r
}

// SearchProducts handles POST /api/v1/products/search.
func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	var raw request.Raw
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&raw); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeBadRequest, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := request.New(raw)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	principal := r.Header.Get(PrincipalHeader)
	if principal == "" {
		principal = AnonymousPrincipal
	}

	ctx, stats := domain.NewContextWithStats(r.Context())
	page, err := s.search.SearchStore(ctx, principal, &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setStatsHeaders(w, stats)
	writeJSON(w, http.StatusOK, pageToResponse(&page))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logpkg.FromContextOr(r.Context(), s.logger)
}

func setStatsHeaders(w http.ResponseWriter, stats *domain.SearchStats) {
	w.Header().Set(CandidatesHeader, strconv.Itoa(stats.Candidates))
	w.Header().Set(FilteredHeader, strconv.Itoa(stats.Filtered))
	if stats.Truncated {
		w.Header().Set(TruncatedHeader, "true")
	}
}
