package memory

import (
	"context"
	"sync"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// PerformanceSummaryStore is an in-memory implementation of
// storage.PerformanceSummaryStore. Unlike the append-only stores, summaries
// are replaced on every recomputation.
type PerformanceSummaryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PerformanceSummary // keyed by account_id
}

// NewPerformanceSummaryStore creates a new in-memory summary store.
func NewPerformanceSummaryStore() *PerformanceSummaryStore {
	return &PerformanceSummaryStore{data: make(map[string]*domain.PerformanceSummary)}
}

var _ storage.PerformanceSummaryStore = (*PerformanceSummaryStore)(nil)

// Upsert stores the latest summary for an account.
func (s *PerformanceSummaryStore) Upsert(_ context.Context, sum *domain.PerformanceSummary) error {
	if sum == nil || sum.AccountID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sum
	s.data[sum.AccountID] = &cp
	return nil
}

// GetByAccount retrieves the latest summary. Returns ErrNotFound if none
// has been computed.
func (s *PerformanceSummaryStore) GetByAccount(_ context.Context, accountID string) (*domain.PerformanceSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum, exists := s.data[accountID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	cp := *sum
	return &cp, nil
}
