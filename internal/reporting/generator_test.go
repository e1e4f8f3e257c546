package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"trade-journal-lab/internal/analytics"
	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage/memory"
)

func ptr[T any](v T) *T {
	return &v
}

func seedStores(t *testing.T) analytics.Stores {
	t.Helper()

	stores := analytics.Stores{
		Trades:       memory.NewTradeStore(),
		Strategies:   memory.NewStrategyStore(),
		Compliance:   memory.NewComplianceStore(),
		Transactions: memory.NewTransactionStore(),
		Accounts:     memory.NewAccountStore(),
		Summaries:    memory.NewPerformanceSummaryStore(),
	}

	ctx := context.Background()
	if err := stores.Accounts.Insert(ctx, &domain.Account{
		AccountID:      "acct-1",
		Name:           "Eval 50K",
		AccountType:    domain.AccountTypeFundedProgram,
		InitialCapital: 50000,
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	trades := []*domain.TradeRecord{
		{TradeID: "t1", AccountID: "acct-1", TradeDay: "2024-01-02", EnteredAt: 1, NetPnL: ptr(300.0)},
		{TradeID: "t2", AccountID: "acct-1", TradeDay: "2024-01-02", EnteredAt: 2, NetPnL: ptr(-50.0)},
		{TradeID: "t3", AccountID: "acct-1", TradeDay: "2024-01-03", EnteredAt: 3, NetPnL: ptr(120.0)},
	}
	if err := stores.Trades.InsertBulk(ctx, trades); err != nil {
		t.Fatalf("seed trades: %v", err)
	}

	days := []*domain.DailyComplianceRecord{
		{AccountID: "acct-1", Date: "2024-01-02", Respected: 2, NotRespected: 0},
		{AccountID: "acct-1", Date: "2024-01-03", Respected: 1, NotRespected: 1},
	}
	if err := stores.Compliance.InsertBulk(ctx, days); err != nil {
		t.Fatalf("seed compliance: %v", err)
	}

	return stores
}

func testGenerator(t *testing.T) (*Generator, analytics.Stores) {
	stores := seedStores(t)
	engine := analytics.NewEngine(stores, nil)
	gen := NewGenerator(engine, stores).WithClock(func() time.Time {
		return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	})
	return gen, stores
}

func TestGenerate_Summary(t *testing.T) {
	gen, _ := testGenerator(t)

	report, err := gen.Generate(context.Background(), analytics.Query{AccountID: "acct-1"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if report.AccountName != "Eval 50K" {
		t.Errorf("account name = %q", report.AccountName)
	}
	if report.Period != "all" {
		t.Errorf("period = %q, want all", report.Period)
	}
	if report.Summary.TotalTrades != 3 {
		t.Errorf("total trades = %d, want 3", report.Summary.TotalTrades)
	}
	if report.Summary.TradingDays != 2 {
		t.Errorf("trading days = %d, want 2", report.Summary.TradingDays)
	}
	if report.Summary.ComplianceDays != 2 {
		t.Errorf("compliance days = %d, want 2", report.Summary.ComplianceDays)
	}
	if report.Summary.FirstDay != "2024-01-02" || report.Summary.LastDay != "2024-01-03" {
		t.Errorf("day range = %s..%s", report.Summary.FirstDay, report.Summary.LastDay)
	}
	if report.Granularity != "day" {
		t.Errorf("granularity = %q, want day", report.Granularity)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	gen, _ := testGenerator(t)
	ctx := context.Background()

	first, err := gen.Generate(ctx, analytics.Query{AccountID: "acct-1"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := gen.Generate(ctx, analytics.Query{AccountID: "acct-1"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if RenderMarkdown(first) != RenderMarkdown(second) {
		t.Error("markdown output differs between identical runs")
	}
	if RenderCSV(first) != RenderCSV(second) {
		t.Error("csv output differs between identical runs")
	}
}

func TestRenderMarkdown_Format(t *testing.T) {
	gen, _ := testGenerator(t)

	report, err := gen.Generate(context.Background(), analytics.Query{AccountID: "acct-1"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	md := RenderMarkdown(report)

	for _, section := range []string{
		"# Trading Journal Report",
		"Generated: 2024-02-01T12:00:00Z",
		"## Data Summary",
		"## Strategy Compliance (day buckets)",
		"## Discipline Streaks",
		"## Best / Worst Day",
		"## Balance",
	} {
		if !strings.Contains(md, section) {
			t.Errorf("markdown missing %q", section)
		}
	}

	// Day-level detail present
	if !strings.Contains(md, "2024-01-02 | 100.00%") {
		t.Errorf("markdown missing compliance row:\n%s", md)
	}
	if !strings.Contains(md, "Best day: 2024-01-02 (250.00)") {
		t.Errorf("markdown missing best day:\n%s", md)
	}
}

func TestRenderCSV_Format(t *testing.T) {
	gen, _ := testGenerator(t)

	report, err := gen.Generate(context.Background(), analytics.Query{AccountID: "acct-1"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	csv := RenderCSV(report)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv lines = %d, want header + 2 rows", len(lines))
	}
	if lines[0] != "bucket,date,compliance_rate,respected,total_strategies,sample_count,cumulative_average" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2024-01-02,2024-01-02,100.000000,2,2,1,") {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestGenerate_FilteredPeriod(t *testing.T) {
	gen, _ := testGenerator(t)

	report, err := gen.Generate(context.Background(), analytics.Query{
		AccountID: "acct-1",
		From:      "2024-01-03",
		To:        "2024-01-31",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if report.Period != "2024-01-03..2024-01-31" {
		t.Errorf("period = %q", report.Period)
	}
	if report.Summary.TotalTrades != 1 {
		t.Errorf("total trades = %d, want 1", report.Summary.TotalTrades)
	}
	if len(report.ComplianceSeries) != 1 {
		t.Errorf("buckets = %d, want 1", len(report.ComplianceSeries))
	}
}
