package prodex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/request"
	"github.com/kailas-cloud/prodex/internal/domain/search/scoring"
	searchuc "github.com/kailas-cloud/prodex/internal/usecase/search"
)

// SearchOption configures a package-level Search call.
type SearchOption func(*searchConfig)

type searchConfig struct {
	scoring *ScoringConfig
	timeout time.Duration
	now     func() time.Time
	workers int
}

// UsingScoring replaces the default relevance constants for one call.
func UsingScoring(cfg ScoringConfig) SearchOption {
	return func(c *searchConfig) { c.scoring = &cfg }
}

// UsingTimeout bounds the call. Default: 5s.
func UsingTimeout(d time.Duration) SearchOption {
	return func(c *searchConfig) { c.timeout = d }
}

// UsingClock sets the reference time for the recency boost.
func UsingClock(now func() time.Time) SearchOption {
	return func(c *searchConfig) { c.now = now }
}

// UsingWorkers sets how many goroutines score large candidate lists. 1 scores serially.
func UsingWorkers(n int) SearchOption {
	return func(c *searchConfig) { c.workers = n }
}

// Search validates q and ranks products held in memory. No database is involved.
// Invalid queries return a *ValidationError listing every problem.
func Search(ctx context.Context, q *Query, products []Product, opts ...SearchOption) (SearchResult, error) {
	cfg := searchConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	sc := scoring.Default()
	if cfg.scoring != nil {
		sc = *cfg.scoring
	}
	svcOpts := []searchuc.Option{searchuc.WithTimeout(cfg.timeout)}
	if cfg.now != nil {
		svcOpts = append(svcOpts, searchuc.WithClock(cfg.now))
	}
	if cfg.workers > 0 {
		svcOpts = append(svcOpts, searchuc.WithParallelism(0, cfg.workers))
	}
	svc, err := searchuc.New(sc, svcOpts...)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	req, err := request.New(*q)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	page, err := svc.Search(ctx, sdkPrincipal, &req, products)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return fromPage(&page), nil
}

// Products validates a slice of attributes, stopping at the first invalid one.
func Products(items ...ProductAttributes) ([]Product, error) {
	out := make([]Product, 0, len(items))
	for i, a := range items {
		p, err := product.New(a)
		if err != nil {
			return nil, fmt.Errorf("product %d (%s): %w: %w", i, a.ID, ErrInvalidProduct, err)
		}
		out = append(out, p)
	}
	return out, nil
}
