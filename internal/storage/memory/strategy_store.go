package memory

import (
	"context"
	"sync"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// StrategyStore is an in-memory implementation of storage.StrategyStore.
type StrategyStore struct {
	mu   sync.RWMutex
	data map[string]*domain.StrategyRecord // keyed by trade_id
}

// NewStrategyStore creates a new in-memory strategy store.
func NewStrategyStore() *StrategyStore {
	return &StrategyStore{data: make(map[string]*domain.StrategyRecord)}
}

var _ storage.StrategyStore = (*StrategyStore)(nil)

// Insert adds an annotation. Returns ErrDuplicateKey if one exists for the
// trade.
func (s *StrategyStore) Insert(_ context.Context, rec *domain.StrategyRecord) error {
	if rec == nil || rec.TradeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[rec.TradeID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *rec
	s.data[rec.TradeID] = &cp
	return nil
}

// GetByTradeIDs builds the lookup for a batch of trade ids.
func (s *StrategyStore) GetByTradeIDs(_ context.Context, tradeIDs []string) (domain.StrategyLookup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lookup := make(domain.StrategyLookup, len(tradeIDs))
	for _, id := range tradeIDs {
		if rec, exists := s.data[id]; exists {
			cp := *rec
			lookup[id] = &cp
		}
	}
	return lookup, nil
}

// GetByAccount retrieves the full lookup for an account.
func (s *StrategyStore) GetByAccount(_ context.Context, accountID string) (domain.StrategyLookup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lookup := domain.StrategyLookup{}
	for id, rec := range s.data {
		if rec.AccountID == accountID {
			cp := *rec
			lookup[id] = &cp
		}
	}
	return lookup, nil
}
