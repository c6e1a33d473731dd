package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
	dombatch "github.com/kailas-cloud/prodex/internal/domain/batch"
	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// DefaultBatchSize is the number of products written per round-trip.
const DefaultBatchSize = 500

// Service validates product records and loads them into the store with per-item reporting.
type Service struct {
	store     ProductStore
	logger    *zap.Logger
	batchSize int
}

// New creates a catalog service.
func New(store ProductStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, batchSize: DefaultBatchSize}
}

// WithBatchSize configures the write batch size.
func (s *Service) WithBatchSize(size int) *Service {
	if size > 0 {
		s.batchSize = size
	}
	return s
}

// Load validates every record and writes the valid ones. Results are index-aligned with items.
// A record whose ID repeats an earlier one in the same load is rejected.
func (s *Service) Load(ctx context.Context, items []product.Attributes) []dombatch.Result {
	results := make([]dombatch.Result, len(items))
	valid := make([]product.Product, 0, len(items))
	validIdx := make([]int, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for i := range items {
		id := items[i].ID
		if _, dup := seen[id]; dup && id != "" {
			results[i] = dombatch.NewInvalid(id, fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidProduct, id))
			continue
		}
		p, err := product.New(items[i])
		if err != nil {
			results[i] = dombatch.NewInvalid(id, fmt.Errorf("%w: %w", domain.ErrInvalidProduct, err))
			continue
		}
		seen[id] = struct{}{}
		valid = append(valid, p)
		validIdx = append(validIdx, i)
	}

	for start := 0; start < len(valid); start += s.batchSize {
		end := min(start+s.batchSize, len(valid))
		err := s.store.PutMulti(ctx, valid[start:end])
		for _, i := range validIdx[start:end] {
			if err != nil {
				results[i] = dombatch.NewError(items[i].ID, fmt.Errorf("store products: %w", err))
				continue
			}
			results[i] = dombatch.NewOK(items[i].ID)
		}
		if err != nil {
			s.logger.Error("Product batch write failed",
				zap.Int("offset", start),
				zap.Int("size", end-start),
				zap.Error(err),
			)
		}
	}

	sum := dombatch.Summarize(results)
	s.logger.Info("Catalog load finished",
		zap.Int("ok", sum.OK),
		zap.Int("invalid", sum.Invalid),
		zap.Int("failed", sum.Failed),
	)
	return results
}

// Clear removes every stored product.
func (s *Service) Clear(ctx context.Context) (int, error) {
	n, err := s.store.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear products: %w", err)
	}
	s.logger.Info("Catalog cleared", zap.Int("deleted", n))
	return n, nil
}
