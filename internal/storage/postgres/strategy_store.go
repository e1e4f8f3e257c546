package postgres

import (
	"context"
	"fmt"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// StrategyStore implements storage.StrategyStore using PostgreSQL.
type StrategyStore struct {
	pool *Pool
}

// NewStrategyStore creates a new StrategyStore.
func NewStrategyStore(pool *Pool) *StrategyStore {
	return &StrategyStore{pool: pool}
}

var _ storage.StrategyStore = (*StrategyStore)(nil)

// Insert adds an annotation. Returns ErrDuplicateKey if one exists for the
// trade. The tri-state verdict is stored as a nullable boolean: NULL maps
// to VerdictUnrecorded.
func (s *StrategyStore) Insert(ctx context.Context, rec *domain.StrategyRecord) error {
	if rec == nil || rec.TradeID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO strategies (trade_id, account_id, name, respected)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.pool.Exec(ctx, query, rec.TradeID, rec.AccountID, rec.Name, verdictToNullable(rec.Respected))
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert strategy: %w", err)
	}
	return nil
}

// GetByTradeIDs builds the lookup for a batch of trade ids.
func (s *StrategyStore) GetByTradeIDs(ctx context.Context, tradeIDs []string) (domain.StrategyLookup, error) {
	if len(tradeIDs) == 0 {
		return domain.StrategyLookup{}, nil
	}

	query := `
		SELECT trade_id, account_id, name, respected
		FROM strategies
		WHERE trade_id = ANY($1)
	`
	return s.queryLookup(ctx, query, tradeIDs)
}

// GetByAccount retrieves the full lookup for an account.
func (s *StrategyStore) GetByAccount(ctx context.Context, accountID string) (domain.StrategyLookup, error) {
	query := `
		SELECT trade_id, account_id, name, respected
		FROM strategies
		WHERE account_id = $1
	`
	return s.queryLookup(ctx, query, accountID)
}

func (s *StrategyStore) queryLookup(ctx context.Context, query string, arg any) (domain.StrategyLookup, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query strategies: %w", err)
	}
	defer rows.Close()

	lookup := domain.StrategyLookup{}
	for rows.Next() {
		var rec domain.StrategyRecord
		var respected *bool
		if err := rows.Scan(&rec.TradeID, &rec.AccountID, &rec.Name, &respected); err != nil {
			return nil, fmt.Errorf("scan strategy: %w", err)
		}
		rec.Respected = domain.ParseVerdict(respected)
		lookup[rec.TradeID] = &rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate strategies: %w", err)
	}
	return lookup, nil
}

func verdictToNullable(v domain.Verdict) *bool {
	switch v {
	case domain.VerdictRespected:
		b := true
		return &b
	case domain.VerdictNotRespected:
		b := false
		return &b
	default:
		return nil
	}
}
