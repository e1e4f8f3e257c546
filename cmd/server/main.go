// Package main runs the journal service: HTTP API for imports and dashboard
// queries, WebSocket push, snapshot caching, and a scheduled performance
// summary refresher.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trade-journal-lab/internal/analytics"
	"trade-journal-lab/internal/api"
	"trade-journal-lab/internal/cache"
	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/realtime"
	chstore "trade-journal-lab/internal/storage/clickhouse"
	"trade-journal-lab/internal/storage/memory"
	"trade-journal-lab/internal/storage/migrations"
	pgstore "trade-journal-lab/internal/storage/postgres"
)

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	// Parse flags (env vars as defaults)
	listenAddr := flag.String("listen-addr", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	redisAddr := flag.String("redis-addr", os.Getenv("REDIS_ADDR"), "Redis address for snapshot caching (empty disables)")
	redisPassword := flag.String("redis-password", os.Getenv("REDIS_PASSWORD"), "Redis password")
	cacheTTL := flag.Duration("cache-ttl", 5*time.Minute, "Snapshot cache TTL")
	summaryInterval := flag.Duration("summary-interval", 1*time.Hour, "Performance summary refresh interval")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	snapCache, err := createCache(ctx, *redisAddr, *redisPassword, *cacheTTL, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to redis: %v", err)
	}
	defer snapCache.Close()

	hub := realtime.NewHub(nil, log.New(os.Stdout, "[realtime] ", log.LstdFlags))
	engine := analytics.NewEngine(stores, log.New(os.Stdout, "[analytics] ", log.LstdFlags))
	server := api.NewServer(engine, stores, snapCache, hub, log.New(os.Stdout, "[api] ", log.LstdFlags))

	httpServer := &http.Server{
		Addr:    *listenAddr,
		Handler: server.Routes(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		hub.Shutdown(shutdownCtx)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}
	}()

	// Refresh performance summaries in the background
	go runSummaryRefresher(ctx, stores, engine, hub, *summaryInterval, logger)

	logger.Printf("Listening on %s", *listenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// createStores creates all required stores and runs migrations.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (analytics.Stores, func(), error) {
	if useMemory {
		stores := analytics.Stores{
			Trades:       memory.NewTradeStore(),
			Strategies:   memory.NewStrategyStore(),
			Compliance:   memory.NewComplianceStore(),
			Transactions: memory.NewTransactionStore(),
			Accounts:     memory.NewAccountStore(),
			Summaries:    memory.NewPerformanceSummaryStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL: source-of-record journal data
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return analytics.Stores{}, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return analytics.Stores{}, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	// ClickHouse: analytics timeseries
	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return analytics.Stores{}, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := analytics.Stores{
		Trades:       pgstore.NewTradeStore(pool),
		Strategies:   pgstore.NewStrategyStore(pool),
		Transactions: pgstore.NewTransactionStore(pool),
		Accounts:     pgstore.NewAccountStore(pool),
		Compliance:   chstore.NewDailyComplianceStore(chConn),
		Summaries:    chstore.NewPerformanceSummaryStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return stores, cleanup, nil
}

// createCache connects the snapshot cache, falling back to a no-op cache
// when no Redis address is configured.
func createCache(ctx context.Context, addr, password string, ttl time.Duration, logger *log.Logger) (cache.SnapshotCache, error) {
	if addr == "" {
		logger.Println("No redis address configured, snapshot caching disabled")
		return cache.NoopCache{}, nil
	}
	return cache.NewRedisCache(ctx, addr, password, ttl)
}

// runSummaryRefresher periodically recomputes per-account performance
// summaries and pushes a snapshot_computed event for each.
func runSummaryRefresher(ctx context.Context, stores analytics.Stores, engine *analytics.Engine, hub *realtime.Hub, interval time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refreshSummaries(ctx, stores, engine, hub, logger)
		}
	}
}

func refreshSummaries(ctx context.Context, stores analytics.Stores, engine *analytics.Engine, hub *realtime.Hub, logger *log.Logger) {
	accounts, err := stores.Accounts.List(ctx)
	if err != nil {
		logger.Printf("list accounts for summary refresh: %v", err)
		return
	}

	for _, acct := range accounts {
		snap, err := engine.Snapshot(ctx, analytics.Query{AccountID: acct.AccountID})
		if err != nil {
			logger.Printf("snapshot for %s: %v", acct.AccountID, err)
			continue
		}

		trades, err := stores.Trades.GetByAccount(ctx, acct.AccountID)
		if err != nil {
			logger.Printf("count trades for %s: %v", acct.AccountID, err)
			continue
		}

		summary := summaryFromSnapshot(snap, len(trades))
		if err := stores.Summaries.Upsert(ctx, summary); err != nil {
			logger.Printf("upsert summary for %s: %v", acct.AccountID, err)
			continue
		}

		hub.BroadcastPayload(realtime.EventSnapshotComputed, acct.AccountID, snap)
	}
}

// summaryFromSnapshot folds a computed snapshot into the persisted
// performance summary row.
func summaryFromSnapshot(snap *domain.AnalyticsSnapshot, totalTrades int) *domain.PerformanceSummary {
	summary := &domain.PerformanceSummary{
		AccountID:   snap.AccountID,
		TotalTrades: totalTrades,
		ComputedAt:  snap.ComputedAt,
	}
	if snap.BestWorst.Best != nil {
		summary.BestDay = snap.BestWorst.Best.Date
		pnl := snap.BestWorst.Best.PnL
		summary.BestDayPnL = &pnl
	}
	if snap.BestWorst.Worst != nil {
		summary.WorstDay = snap.BestWorst.Worst.Date
		pnl := snap.BestWorst.Worst.PnL
		summary.WorstDayPnL = &pnl
	}
	return summary
}
