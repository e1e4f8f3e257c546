package storage

import (
	"context"

	"trade-journal-lab/internal/domain"
)

// TradeStore provides access to imported trades.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.TradeRecord) error

	// InsertBulk adds multiple trades atomically. Fails the whole batch on
	// any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error)

	// GetByAccount retrieves all trades for an account, ordered by
	// entered_at ASC, trade_id ASC.
	GetByAccount(ctx context.Context, accountID string) ([]*domain.TradeRecord, error)

	// GetByAccountDateRange retrieves an account's trades whose calendar
	// day falls within [from, to] (inclusive, DayFormat dates). An empty
	// bound leaves that side open.
	GetByAccountDateRange(ctx context.Context, accountID, from, to string) ([]*domain.TradeRecord, error)
}

// StrategyStore provides access to per-trade strategy annotations.
type StrategyStore interface {
	// Insert adds an annotation. Returns ErrDuplicateKey if one exists
	// for the trade.
	Insert(ctx context.Context, s *domain.StrategyRecord) error

	// GetByTradeIDs builds the lookup for a batch of trade ids. Trades
	// without an annotation are simply absent from the result.
	GetByTradeIDs(ctx context.Context, tradeIDs []string) (domain.StrategyLookup, error)

	// GetByAccount retrieves the full lookup for an account.
	GetByAccount(ctx context.Context, accountID string) (domain.StrategyLookup, error)
}

// ComplianceStore provides access to the daily compliance timeseries.
type ComplianceStore interface {
	// Insert adds one day. Returns ErrDuplicateKey if (account_id, date)
	// exists.
	Insert(ctx context.Context, d *domain.DailyComplianceRecord) error

	// InsertBulk adds multiple days atomically.
	InsertBulk(ctx context.Context, days []*domain.DailyComplianceRecord) error

	// GetByAccount retrieves all days for an account, ordered by date ASC.
	GetByAccount(ctx context.Context, accountID string) ([]*domain.DailyComplianceRecord, error)

	// GetByAccountDateRange retrieves days within [from, to] (inclusive).
	// An empty bound leaves that side open.
	GetByAccountDateRange(ctx context.Context, accountID, from, to string) ([]*domain.DailyComplianceRecord, error)
}

// TransactionStore provides access to the account ledger.
type TransactionStore interface {
	// Insert adds a ledger entry. Returns ErrDuplicateKey if transaction_id
	// exists.
	Insert(ctx context.Context, t *domain.Transaction) error

	// GetByAccount retrieves all entries for an account, ordered by
	// occurred_at ASC.
	GetByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error)
}

// AccountStore provides access to journal accounts.
type AccountStore interface {
	// Insert adds an account. Returns ErrDuplicateKey if account_id exists.
	Insert(ctx context.Context, a *domain.Account) error

	// GetByID retrieves an account. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, accountID string) (*domain.Account, error)

	// List retrieves all accounts, ordered by account_id ASC.
	List(ctx context.Context) ([]*domain.Account, error)
}

// PerformanceSummaryStore provides access to precomputed per-account
// performance rows (the analytics side of the store).
type PerformanceSummaryStore interface {
	// Upsert stores the latest summary for an account, replacing any
	// previous row.
	Upsert(ctx context.Context, s *domain.PerformanceSummary) error

	// GetByAccount retrieves the latest summary. Returns ErrNotFound if
	// none has been computed.
	GetByAccount(ctx context.Context, accountID string) (*domain.PerformanceSummary, error)
}
