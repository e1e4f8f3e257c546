package memory

import (
	"context"
	"sort"
	"sync"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Transaction // keyed by transaction_id
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{data: make(map[string]*domain.Transaction)}
}

var _ storage.TransactionStore = (*TransactionStore)(nil)

// Insert adds a ledger entry. Returns ErrDuplicateKey if transaction_id
// exists.
func (s *TransactionStore) Insert(_ context.Context, t *domain.Transaction) error {
	if t == nil || t.TransactionID == "" || t.AccountID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TransactionID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *t
	s.data[t.TransactionID] = &cp
	return nil
}

// GetByAccount retrieves all entries for an account, ordered by occurred_at
// ASC.
func (s *TransactionStore) GetByAccount(_ context.Context, accountID string) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Transaction
	for _, t := range s.data {
		if t.AccountID == accountID {
			cp := *t
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].OccurredAt != result[j].OccurredAt {
			return result[i].OccurredAt < result[j].OccurredAt
		}
		return result[i].TransactionID < result[j].TransactionID
	})
	return result, nil
}
