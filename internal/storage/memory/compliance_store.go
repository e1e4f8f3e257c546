package memory

import (
	"context"
	"sort"
	"sync"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// complianceKey identifies one day of one account.
type complianceKey struct {
	accountID string
	date      string
}

// ComplianceStore is an in-memory implementation of storage.ComplianceStore.
type ComplianceStore struct {
	mu   sync.RWMutex
	data map[complianceKey]*domain.DailyComplianceRecord
}

// NewComplianceStore creates a new in-memory compliance store.
func NewComplianceStore() *ComplianceStore {
	return &ComplianceStore{data: make(map[complianceKey]*domain.DailyComplianceRecord)}
}

var _ storage.ComplianceStore = (*ComplianceStore)(nil)

// Insert adds one day. Returns ErrDuplicateKey if (account_id, date) exists.
func (s *ComplianceStore) Insert(_ context.Context, d *domain.DailyComplianceRecord) error {
	if d == nil || d.AccountID == "" || d.Date == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(d)
}

// InsertBulk adds multiple days atomically.
func (s *ComplianceStore) InsertBulk(_ context.Context, days []*domain.DailyComplianceRecord) error {
	if len(days) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[complianceKey]struct{}, len(days))
	for _, d := range days {
		if d == nil || d.AccountID == "" || d.Date == "" {
			return storage.ErrInvalidInput
		}
		key := complianceKey{d.AccountID, d.Date}
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, d := range days {
		if err := s.insertLocked(d); err != nil {
			return err
		}
	}
	return nil
}

func (s *ComplianceStore) insertLocked(d *domain.DailyComplianceRecord) error {
	key := complianceKey{d.AccountID, d.Date}
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}
	cp := *d
	s.data[key] = &cp
	return nil
}

// GetByAccount retrieves all days for an account, ordered by date ASC.
func (s *ComplianceStore) GetByAccount(ctx context.Context, accountID string) ([]*domain.DailyComplianceRecord, error) {
	return s.GetByAccountDateRange(ctx, accountID, "", "")
}

// GetByAccountDateRange retrieves days within [from, to] inclusive. Empty
// bounds are open.
func (s *ComplianceStore) GetByAccountDateRange(_ context.Context, accountID, from, to string) ([]*domain.DailyComplianceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DailyComplianceRecord
	for key, d := range s.data {
		if key.accountID != accountID {
			continue
		}
		if from != "" && key.date < from {
			continue
		}
		if to != "" && key.date > to {
			continue
		}
		cp := *d
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}
