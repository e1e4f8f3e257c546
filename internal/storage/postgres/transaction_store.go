package postgres

import (
	"context"
	"fmt"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

var _ storage.TransactionStore = (*TransactionStore)(nil)

// Insert adds a ledger entry. Returns ErrDuplicateKey if transaction_id
// exists.
func (s *TransactionStore) Insert(ctx context.Context, t *domain.Transaction) error {
	if t == nil || t.TransactionID == "" || t.AccountID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO transactions (transaction_id, account_id, type, amount, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.pool.Exec(ctx, query, t.TransactionID, t.AccountID, t.Type, t.Amount, t.OccurredAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByAccount retrieves all entries for an account, ordered by occurred_at
// ASC.
func (s *TransactionStore) GetByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error) {
	query := `
		SELECT transaction_id, account_id, type, amount, occurred_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY occurred_at ASC, transaction_id ASC
	`
	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var result []*domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.TransactionID, &t.AccountID, &t.Type, &t.Amount, &t.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return result, nil
}
