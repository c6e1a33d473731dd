package product

import (
	"context"
	"maps"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/prodex/internal/db"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
)

// mockStore is an in-memory hash store with injectable failures.
type mockStore struct {
	hashes map[string]map[string]string

	scanErr   error
	getErr    error
	setErr    error
	existsErr error
	delErr    error

	scanOrder  []string // when set, Scan returns these keys verbatim
	multiCalls int
	deleted    []string
}

func newMockStore() *mockStore {
	return &mockStore{hashes: make(map[string]map[string]string)}
}

func (m *mockStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.setErr != nil {
		return m.setErr
	}
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	maps.Copy(h, fields)
	return nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	m.multiCalls++
	for _, it := range items {
		if err := m.HSet(ctx, it.Key, it.Fields); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	h, ok := m.hashes[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return maps.Clone(h), nil
}

func (m *mockStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	m.multiCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = maps.Clone(m.hashes[k])
		if out[i] == nil {
			out[i] = map[string]string{}
		}
	}
	return out, nil
}

func (m *mockStore) Del(_ context.Context, keys ...string) error {
	if m.delErr != nil {
		return m.delErr
	}
	for _, k := range keys {
		delete(m.hashes, k)
	}
	m.deleted = append(m.deleted, keys...)
	return nil
}

func (m *mockStore) Exists(_ context.Context, key string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.hashes[key]
	return ok, nil
}

func (m *mockStore) Scan(_ context.Context, pattern string) ([]string, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	if m.scanOrder != nil {
		return m.scanOrder, nil
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := newMockStore()
	return New(ms, "test:product:"), ms
}

var testTime = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func testProduct(t *testing.T, id string, mutate func(*domprod.Attributes)) domprod.Product {
	t.Helper()
	a := domprod.Attributes{
		ID:           id,
		SKU:          "SKU-" + id,
		Name:         "Product " + id,
		Category:     "Beverages",
		Status:       domprod.StatusActive,
		Tags:         []string{"organic"},
		CostPrice:    10,
		SellingPrice: 20,
		CurrentStock: 100,
		CreatedAt:    testTime,
		UpdatedAt:    testTime,
	}
	if mutate != nil {
		mutate(&a)
	}
	p, err := domprod.New(a)
	if err != nil {
		t.Fatalf("domprod.New: %v", err)
	}
	return p
}
