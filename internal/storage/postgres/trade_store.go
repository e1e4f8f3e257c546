package postgres

import (
	"context"
	"fmt"
	"strings"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

var _ storage.TradeStore = (*TradeStore)(nil)

const tradeColumns = `trade_id, account_id, symbol, side, entered_at, trade_day, net_pnl, is_profitable`

const insertTradeQuery = `
	INSERT INTO trades (` + tradeColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	if t == nil || t.TradeID == "" || t.AccountID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertTradeQuery,
		t.TradeID, t.AccountID, t.Symbol, t.Side,
		t.EnteredAt, nullableDay(t.TradeDay), t.NetPnL, t.IsProfitable,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails the whole batch on any
// duplicate.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		if t == nil || t.TradeID == "" || t.AccountID == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, insertTradeQuery,
			t.TradeID, t.AccountID, t.Symbol, t.Side,
			t.EnteredAt, nullableDay(t.TradeDay), t.NetPnL, t.IsProfitable,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE trade_id = $1`

	row := s.pool.QueryRow(ctx, query, tradeID)
	t, err := scanTrade(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade by id: %w", err)
	}
	return t, nil
}

// GetByAccount retrieves all trades for an account, ordered by entered_at
// ASC, trade_id ASC.
func (s *TradeStore) GetByAccount(ctx context.Context, accountID string) ([]*domain.TradeRecord, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades
		WHERE account_id = $1
		ORDER BY entered_at ASC, trade_id ASC
	`
	return s.queryTrades(ctx, query, accountID)
}

// GetByAccountDateRange retrieves an account's trades whose calendar day
// falls within [from, to] inclusive. Empty bounds are open. The effective
// day mirrors domain.TradeRecord.Day: trade_day when set, otherwise the
// date of entered_at.
func (s *TradeStore) GetByAccountDateRange(ctx context.Context, accountID, from, to string) ([]*domain.TradeRecord, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT ` + tradeColumns + `
		FROM trades
		WHERE account_id = $1
		  AND COALESCE(trade_day, to_char(to_timestamp(entered_at / 1000.0) AT TIME ZONE 'UTC', 'YYYY-MM-DD')) IS NOT NULL
	`)

	args := []any{accountID}
	if from != "" {
		args = append(args, from)
		fmt.Fprintf(&sb, " AND COALESCE(trade_day, to_char(to_timestamp(entered_at / 1000.0) AT TIME ZONE 'UTC', 'YYYY-MM-DD')) >= $%d", len(args))
	}
	if to != "" {
		args = append(args, to)
		fmt.Fprintf(&sb, " AND COALESCE(trade_day, to_char(to_timestamp(entered_at / 1000.0) AT TIME ZONE 'UTC', 'YYYY-MM-DD')) <= $%d", len(args))
	}
	sb.WriteString(" ORDER BY entered_at ASC, trade_id ASC")

	return s.queryTrades(ctx, sb.String(), args...)
}

func (s *TradeStore) queryTrades(ctx context.Context, query string, args ...any) ([]*domain.TradeRecord, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var result []*domain.TradeRecord
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	return result, nil
}

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (*domain.TradeRecord, error) {
	var t domain.TradeRecord
	var tradeDay *string
	err := row.Scan(
		&t.TradeID, &t.AccountID, &t.Symbol, &t.Side,
		&t.EnteredAt, &tradeDay, &t.NetPnL, &t.IsProfitable,
	)
	if err != nil {
		return nil, err
	}
	if tradeDay != nil {
		t.TradeDay = *tradeDay
	}
	return &t, nil
}

// nullableDay maps an empty trade_day onto SQL NULL so the column keeps the
// "derived from entered_at" semantics.
func nullableDay(day string) *string {
	if day == "" {
		return nil
	}
	return &day
}
