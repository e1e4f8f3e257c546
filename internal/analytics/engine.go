package analytics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// Stores groups the read-side dependencies of the engine.
type Stores struct {
	Trades       storage.TradeStore
	Strategies   storage.StrategyStore
	Compliance   storage.ComplianceStore
	Transactions storage.TransactionStore
	Accounts     storage.AccountStore
	Summaries    storage.PerformanceSummaryStore
}

// Engine fetches an account's source collections and runs the pure analytics
// passes over them. Each Snapshot call is one-shot: inputs are fully
// materialized before any computation starts, and nothing is mutated.
type Engine struct {
	stores Stores
	logger *log.Logger
}

// NewEngine creates an analytics engine over the given stores.
func NewEngine(stores Stores, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(os.Stdout, "[analytics] ", log.LstdFlags)
	}
	return &Engine{stores: stores, logger: logger}
}

// Query selects the account and (optionally) the dashboard period.
// From/To are inclusive DayFormat dates; empty bounds leave the side open.
type Query struct {
	AccountID string
	From      string
	To        string
}

// Filtered reports whether the query narrows the account's history.
func (q Query) Filtered() bool {
	return q.From != "" || q.To != ""
}

// Period returns a stable label for the query's date window, also used as
// part of cache keys.
func (q Query) Period() string {
	if !q.Filtered() {
		return "all"
	}
	return fmt.Sprintf("%s..%s", q.From, q.To)
}

// snapshotInputs is the fully-materialized input set for one computation.
type snapshotInputs struct {
	account       *domain.Account
	trades        []*domain.TradeRecord // period-filtered
	allTimeTrades []*domain.TradeRecord
	lookup        domain.StrategyLookup
	days          []*domain.DailyComplianceRecord
	txns          []*domain.Transaction
	summary       *domain.PerformanceSummary
}

// Snapshot computes the full analytics read-out for one account and period.
// Upstream fetch failures and missing records degrade to empty inputs, so
// the worst outcome is an empty or neutral snapshot; the only returned
// errors are context cancellations.
func (e *Engine) Snapshot(ctx context.Context, q Query) (*domain.AnalyticsSnapshot, error) {
	if q.AccountID == "" {
		return nil, storage.ErrInvalidInput
	}

	in, err := e.fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	gran, series := ComplianceSeries(in.days)
	dailyBalance := BuildDailyBalance(in.trades)
	balance := ResolveBalance(in.account, in.txns, in.allTimeTrades)

	snap := &domain.AnalyticsSnapshot{
		AccountID:         q.AccountID,
		Period:            q.Period(),
		Gran:              gran,
		Granularity:       gran.String(),
		ComplianceSeries:  series,
		CumulativeAverage: CumulativeAverage(series),
		DailyBalance:      dailyBalance,
		Streaks:           ComputeStreaks(in.trades, in.lookup),
		BestWorst:         ResolveBestWorstDay(dailyBalance, in.summary, in.trades),
		Consistency:       EvaluateConsistencyTarget(in.account, balance, in.allTimeTrades),
		Balance:           balance,
		ComputedAt:        time.Now().UnixMilli(),
	}
	return snap, nil
}

// fetch materializes all inputs in parallel. The fetches are independent
// reads with no ordering dependency; every analytics pass assumes a static
// input set, so all of them must complete before computation begins.
func (e *Engine) fetch(ctx context.Context, q Query) (*snapshotInputs, error) {
	in := &snapshotInputs{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		all, err := e.stores.Trades.GetByAccount(gctx, q.AccountID)
		if err != nil {
			return e.degrade(gctx, "trades", err)
		}
		in.allTimeTrades = all
		return nil
	})

	if q.Filtered() {
		g.Go(func() error {
			trades, err := e.stores.Trades.GetByAccountDateRange(gctx, q.AccountID, q.From, q.To)
			if err != nil {
				return e.degrade(gctx, "trades (period)", err)
			}
			in.trades = trades
			return nil
		})
		g.Go(func() error {
			days, err := e.stores.Compliance.GetByAccountDateRange(gctx, q.AccountID, q.From, q.To)
			if err != nil {
				return e.degrade(gctx, "compliance days", err)
			}
			in.days = days
			return nil
		})
	} else {
		g.Go(func() error {
			days, err := e.stores.Compliance.GetByAccount(gctx, q.AccountID)
			if err != nil {
				return e.degrade(gctx, "compliance days", err)
			}
			in.days = days
			return nil
		})
	}

	g.Go(func() error {
		lookup, err := e.stores.Strategies.GetByAccount(gctx, q.AccountID)
		if err != nil {
			return e.degrade(gctx, "strategy lookup", err)
		}
		in.lookup = lookup
		return nil
	})

	g.Go(func() error {
		txns, err := e.stores.Transactions.GetByAccount(gctx, q.AccountID)
		if err != nil {
			return e.degrade(gctx, "transactions", err)
		}
		in.txns = txns
		return nil
	})

	g.Go(func() error {
		account, err := e.stores.Accounts.GetByID(gctx, q.AccountID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			return e.degrade(gctx, "account", err)
		}
		in.account = account
		return nil
	})

	g.Go(func() error {
		summary, err := e.stores.Summaries.GetByAccount(gctx, q.AccountID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			return e.degrade(gctx, "performance summary", err)
		}
		in.summary = summary
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !q.Filtered() {
		in.trades = in.allTimeTrades
	}
	if in.lookup == nil {
		in.lookup = domain.StrategyLookup{}
	}
	return in, nil
}

// degrade converts an upstream fetch failure into an empty input, keeping
// the snapshot neutral rather than failing it. Context cancellation still
// aborts the whole fetch.
func (e *Engine) degrade(ctx context.Context, source string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	e.logger.Printf("fetch %s failed, treating as empty: %v", source, err)
	return nil
}
