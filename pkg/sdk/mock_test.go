package prodex

import (
	"context"

	"github.com/kailas-cloud/prodex/internal/db"
	dombatch "github.com/kailas-cloud/prodex/internal/domain/batch"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/request"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
)

// --- db.Store mock (only Ping and Close are exercised) ---

type mockStore struct {
	db.Store
	pingErr error
	closed  bool
}

func (m *mockStore) Ping(context.Context) error { return m.pingErr }

func (m *mockStore) Close() { m.closed = true }

// --- productUseCase mock ---

type mockProductUC struct {
	putFn    func(ctx context.Context, p *product.Product) (bool, error)
	getFn    func(ctx context.Context, id string) (product.Product, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockProductUC) Put(ctx context.Context, p *product.Product) (bool, error) {
	return m.putFn(ctx, p)
}

func (m *mockProductUC) Get(ctx context.Context, id string) (product.Product, error) {
	return m.getFn(ctx, id)
}

func (m *mockProductUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

// --- catalogUseCase mock ---

type mockCatalogUC struct {
	loadFn  func(ctx context.Context, items []product.Attributes) []dombatch.Result
	clearFn func(ctx context.Context) (int, error)
}

func (m *mockCatalogUC) Load(ctx context.Context, items []product.Attributes) []dombatch.Result {
	return m.loadFn(ctx, items)
}

func (m *mockCatalogUC) Clear(ctx context.Context) (int, error) {
	return m.clearFn(ctx)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, principal string, req *request.Request) (result.Page, error)
}

func (m *mockSearchUC) SearchStore(
	ctx context.Context, principal string, req *request.Request,
) (result.Page, error) {
	return m.searchFn(ctx, principal, req)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }
