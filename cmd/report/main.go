// Package main generates a one-shot journal report for an account:
// a Markdown summary and a CSV of the compliance series.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"trade-journal-lab/internal/analytics"
	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/reporting"
	chstore "trade-journal-lab/internal/storage/clickhouse"
	"trade-journal-lab/internal/storage/memory"
	"trade-journal-lab/internal/storage/migrations"
	pgstore "trade-journal-lab/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	accountID := flag.String("account", "", "Account to report on (required unless --use-fixtures)")
	from := flag.String("from", "", "Start date (YYYY-MM-DD, inclusive)")
	to := flag.String("to", "", "End date (YYYY-MM-DD, inclusive)")
	outputDir := flag.String("output-dir", "output", "Output directory for generated files")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useFixtures := flag.Bool("use-fixtures", false, "Use in-memory fixtures instead of database")
	flag.Parse()

	ctx := context.Background()

	if !*useFixtures && (*postgresDSN == "" || *clickhouseDSN == "") {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn and --clickhouse-dsn are required when not using fixtures")
		fmt.Fprintln(os.Stderr, "Use --use-fixtures to run with demo data instead")
		os.Exit(1)
	}

	var (
		stores  analytics.Stores
		cleanup func()
	)
	if *useFixtures {
		stores = createFixtureStores(ctx)
		cleanup = func() {}
		if *accountID == "" {
			*accountID = fixtureAccountID
		}
	} else {
		var err error
		stores, cleanup, err = createDatabaseStores(ctx, *postgresDSN, *clickhouseDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to databases: %v\n", err)
			os.Exit(1)
		}
	}
	defer cleanup()

	if *accountID == "" {
		fmt.Fprintln(os.Stderr, "Error: --account is required")
		os.Exit(1)
	}

	engine := analytics.NewEngine(stores, nil)
	generator := reporting.NewGenerator(engine, stores)

	report, err := generator.Generate(ctx, analytics.Query{
		AccountID: *accountID,
		From:      *from,
		To:        *to,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	mdPath := filepath.Join(*outputDir, fmt.Sprintf("journal_%s.md", *accountID))
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", mdPath, err)
		os.Exit(1)
	}

	csvPath := filepath.Join(*outputDir, fmt.Sprintf("compliance_%s.csv", *accountID))
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report)), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", csvPath, err)
		os.Exit(1)
	}

	fmt.Printf("Report written to %s and %s\n", mdPath, csvPath)
}

// createDatabaseStores connects to both databases and runs migrations.
func createDatabaseStores(ctx context.Context, postgresDSN, clickhouseDSN string) (analytics.Stores, func(), error) {
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return analytics.Stores{}, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return analytics.Stores{}, nil, fmt.Errorf("postgres migrations: %w", err)
	}

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

const fixtureAccountID = "demo-account"

// createFixtureStores seeds memory stores with a small demo journal.
func createFixtureStores(ctx context.Context) analytics.Stores {
	stores := analytics.Stores{
		Trades:       memory.NewTradeStore(),
		Strategies:   memory.NewStrategyStore(),
		Compliance:   memory.NewComplianceStore(),
		Transactions: memory.NewTransactionStore(),
		Accounts:     memory.NewAccountStore(),
		Summaries:    memory.NewPerformanceSummaryStore(),
	}

	must := func(err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error seeding fixtures: %v\n", err)
			os.Exit(1)
		}
	}

	must(stores.Accounts.Insert(ctx, &domain.Account{
		AccountID:      fixtureAccountID,
		Name:           "Demo Funded 50K",
		AccountType:    domain.AccountTypeFundedProgram,
		InitialCapital: 50000,
		CreatedAt:      1704067200000,
	}))

	pnl := func(v float64) *float64 { return &v }
	respected := func(v bool) *bool { return &v }

	trades := []*domain.TradeRecord{
		{TradeID: "demo-1", AccountID: fixtureAccountID, Symbol: "ES", Side: "long", TradeDay: "2024-01-02", EnteredAt: 1704189600000, NetPnL: pnl(350)},
		{TradeID: "demo-2", AccountID: fixtureAccountID, Symbol: "ES", Side: "short", TradeDay: "2024-01-02", EnteredAt: 1704196800000, NetPnL: pnl(-80)},
		{TradeID: "demo-3", AccountID: fixtureAccountID, Symbol: "NQ", Side: "long", TradeDay: "2024-01-03", EnteredAt: 1704276000000, NetPnL: pnl(210)},
		{TradeID: "demo-4", AccountID: fixtureAccountID, Symbol: "NQ", Side: "long", TradeDay: "2024-01-04", EnteredAt: 1704362400000, NetPnL: pnl(-140)},
		{TradeID: "demo-5", AccountID: fixtureAccountID, Symbol: "ES", Side: "long", TradeDay: "2024-01-05", EnteredAt: 1704448800000, NetPnL: pnl(95)},
	}
	must(stores.Trades.InsertBulk(ctx, trades))

	verdicts := map[string]*bool{
		"demo-1": respected(true),
		"demo-2": respected(true),
		"demo-3": respected(false),
		"demo-4": nil,
		"demo-5": respected(true),
	}
	for tradeID, v := range verdicts {
		must(stores.Strategies.Insert(ctx, &domain.StrategyRecord{
			TradeID:   tradeID,
			AccountID: fixtureAccountID,
			Name:      "opening range breakout",
			Respected: domain.ParseVerdict(v),
		}))
	}

	days := []*domain.DailyComplianceRecord{
		{AccountID: fixtureAccountID, Date: "2024-01-02", Respected: 2, NotRespected: 0},
		{AccountID: fixtureAccountID, Date: "2024-01-03", Respected: 0, NotRespected: 1},
		{AccountID: fixtureAccountID, Date: "2024-01-05", Respected: 1, NotRespected: 0},
	}
	must(stores.Compliance.InsertBulk(ctx, days))

	must(stores.Transactions.Insert(ctx, &domain.Transaction{
		TransactionID: "demo-txn-1",
		AccountID:     fixtureAccountID,
		Type:          domain.TransactionWithdrawal,
		Amount:        200,
		OccurredAt:    1704800000000,
	}))

	return stores
}
