package prodex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/db"
	dbRedis "github.com/kailas-cloud/prodex/internal/db/redis"
	dombatch "github.com/kailas-cloud/prodex/internal/domain/batch"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/request"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
	"github.com/kailas-cloud/prodex/internal/domain/search/scoring"
	productrepo "github.com/kailas-cloud/prodex/internal/repository/product"
	catalogc "github.com/kailas-cloud/prodex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/prodex/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second

	// sdkPrincipal identifies SDK callers in search logs.
	sdkPrincipal = "sdk"
)

// Internal interfaces, replaced by mocks in tests.
type productUseCase interface {
	Put(ctx context.Context, p *product.Product) (bool, error)
	Get(ctx context.Context, id string) (product.Product, error)
	Delete(ctx context.Context, id string) error
}

type catalogUseCase interface {
	Load(ctx context.Context, items []product.Attributes) []dombatch.Result
	Clear(ctx context.Context) (int, error)
}

type searchUseCase interface {
	SearchStore(ctx context.Context, principal string, req *request.Request) (result.Page, error)
}

// Client is the prodex SDK entry point. It searches products stored in Valkey or Redis.
// For searching an in-memory slice use the package-level Search.
type Client struct {
	store      db.Store
	products   productUseCase
	catalogSvc catalogUseCase
	searchSvc  searchUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a prodex Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("prodex: database address required (use WithValkey or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("prodex: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

// createStore picks the driver. Valkey and Redis speak the same hash commands,
// so both go through rueidis.
func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.addrs,
			Username:   cfg.username,
			Password:   cfg.password,
			DB:         cfg.db,
			ClientName: "prodex-sdk",
		})
		if err != nil {
			return nil, fmt.Errorf("prodex: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("prodex: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	sc := scoring.Default()
	if cfg.scoring != nil {
		sc = *cfg.scoring
	}

	repo := productrepo.New(store, cfg.keyPrefix)

	searchSvc, err := searchuc.New(sc,
		searchuc.WithSource(repo),
		searchuc.WithTimeout(cfg.timeout),
		searchuc.WithMaxCandidates(cfg.maxCandidates),
	)
	if err != nil {
		return nil, fmt.Errorf("prodex: %w", err)
	}

	catalogSvc := catalogc.New(repo, zap.NewNop())
	if cfg.batchSize > 0 {
		catalogSvc = catalogSvc.WithBatchSize(cfg.batchSize)
	}

	return &Client{
		store:      store,
		products:   repo,
		catalogSvc: catalogSvc,
		searchSvc:  searchSvc,
		healthSvc:  healthuc.New(store, map[string]healthuc.Probe{"search": searchSvc}),
		obs:        obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, 0, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Put validates and stores one product, replacing any product with the same ID.
// Reports whether the product was new.
func (c *Client) Put(ctx context.Context, a ProductAttributes) (created bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("put", start, 1, err) }()

	p, err := product.New(a)
	if err != nil {
		return false, fmt.Errorf("put: %w: %w", ErrInvalidProduct, err)
	}
	created, err = c.products.Put(ctx, &p)
	if err != nil {
		return false, fmt.Errorf("put: %w", err)
	}
	return created, nil
}

// Get returns a stored product. Missing products yield ErrNotFound.
func (c *Client) Get(ctx context.Context, id string) (p Product, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get", start, 0, err) }()

	p, err = c.products.Get(ctx, id)
	if err != nil {
		return Product{}, fmt.Errorf("get: %w", err)
	}
	return p, nil
}

// Delete removes a product. Deleting a missing product is not an error.
func (c *Client) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete", start, 0, err) }()

	if err = c.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Load validates and stores many products. Each item gets its own result;
// invalid items do not stop the rest.
func (c *Client) Load(ctx context.Context, items []ProductAttributes) ([]LoadResult, LoadSummary) {
	start := time.Now()
	results, summary := fromLoadResults(c.catalogSvc.Load(ctx, items))

	var err error
	if summary.Failed > 0 {
		err = fmt.Errorf("load: %d of %d products failed to store", summary.Failed, len(items))
	}
	c.obs.observe("load", start, summary.OK, err)
	return results, summary
}

// Clear deletes every stored product and returns how many were removed.
func (c *Client) Clear(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("clear", start, n, err) }()

	n, err = c.catalogSvc.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear: %w", err)
	}
	return n, nil
}

// Search validates q and ranks the stored products.
// Invalid queries return a *ValidationError listing every problem.
func (c *Client) Search(ctx context.Context, q *Query) (res SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, len(res.Items), err) }()

	req, err := request.New(*q)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	page, err := c.searchSvc.SearchStore(ctx, sdkPrincipal, &req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return fromPage(&page), nil
}
