package clickhouse

import (
	"context"
	"fmt"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// PerformanceSummaryStore implements storage.PerformanceSummaryStore using
// ClickHouse. Upserts rely on ReplacingMergeTree keyed by account_id: each
// write inserts a new version and reads take the latest via FINAL.
type PerformanceSummaryStore struct {
	conn *Conn
}

// NewPerformanceSummaryStore creates a new PerformanceSummaryStore.
func NewPerformanceSummaryStore(conn *Conn) *PerformanceSummaryStore {
	return &PerformanceSummaryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PerformanceSummaryStore = (*PerformanceSummaryStore)(nil)

// Upsert stores the latest summary for an account.
func (s *PerformanceSummaryStore) Upsert(ctx context.Context, sum *domain.PerformanceSummary) error {
	if sum == nil || sum.AccountID == "" {
		return storage.ErrInvalidInput
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO performance_summaries (
			account_id, best_day, best_day_pnl, worst_day, worst_day_pnl,
			total_trades, computed_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	err = batch.Append(
		sum.AccountID, sum.BestDay, sum.BestDayPnL, sum.WorstDay, sum.WorstDayPnL,
		uint32(max(sum.TotalTrades, 0)), uint64(sum.ComputedAt),
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByAccount retrieves the latest summary. Returns ErrNotFound if none
// has been computed.
func (s *PerformanceSummaryStore) GetByAccount(ctx context.Context, accountID string) (*domain.PerformanceSummary, error) {
	if accountID == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT account_id, best_day, best_day_pnl, worst_day, worst_day_pnl,
		       total_trades, computed_at
		FROM performance_summaries FINAL
		WHERE account_id = ?
	`

	rows, err := s.conn.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("query performance summary: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate performance summary rows: %w", err)
		}
		return nil, storage.ErrNotFound
	}

	var sum domain.PerformanceSummary
	var totalTrades uint32
	var computedAt uint64

	err = rows.Scan(
		&sum.AccountID, &sum.BestDay, &sum.BestDayPnL, &sum.WorstDay, &sum.WorstDayPnL,
		&totalTrades, &computedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan performance summary row: %w", err)
	}

	sum.TotalTrades = int(totalTrades)
	sum.ComputedAt = int64(computedAt)
	return &sum, nil
}
