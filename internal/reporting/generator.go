// Package reporting renders account journal reports as Markdown and CSV
// from computed analytics snapshots.
package reporting

import (
	"context"
	"time"

	"trade-journal-lab/internal/analytics"
	"trade-journal-lab/internal/domain"
)

// Generator produces reports from stored data.
type Generator struct {
	engine *analytics.Engine
	stores analytics.Stores
	now    func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(engine *analytics.Engine, stores analytics.Stores) *Generator {
	return &Generator{
		engine: engine,
		stores: stores,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate computes the analytics snapshot for the query and assembles the
// report around it.
func (g *Generator) Generate(ctx context.Context, q analytics.Query) (*Report, error) {
	snap, err := g.engine.Snapshot(ctx, q)
	if err != nil {
		return nil, err
	}

	report := &Report{
		GeneratedAt:       g.now(),
		AccountID:         snap.AccountID,
		Period:            snap.Period,
		Granularity:       snap.Granularity,
		ComplianceSeries:  snap.ComplianceSeries,
		CumulativeAverage: snap.CumulativeAverage,
		Streaks:           snap.Streaks,
		BestWorst:         snap.BestWorst,
		Consistency:       snap.Consistency,
		Balance:           snap.Balance,
	}

	if account, err := g.stores.Accounts.GetByID(ctx, q.AccountID); err == nil {
		report.AccountName = account.Name
	}

	report.Summary = g.summarize(ctx, q, snap)
	return report, nil
}

// summarize counts the underlying data. Failures degrade to partial
// summaries; the report is display output, not a system of record.
func (g *Generator) summarize(ctx context.Context, q analytics.Query, snap *domain.AnalyticsSnapshot) DataSummary {
	summary := DataSummary{
		ComplianceDays: countSamples(snap.ComplianceSeries),
	}

	trades, err := g.stores.Trades.GetByAccountDateRange(ctx, q.AccountID, q.From, q.To)
	if err != nil {
		return summary
	}

	summary.TotalTrades = len(trades)
	days := make(map[string]struct{})
	for _, t := range trades {
		day := t.Day()
		if day == "" {
			continue
		}
		days[day] = struct{}{}
		if summary.FirstDay == "" || day < summary.FirstDay {
			summary.FirstDay = day
		}
		if day > summary.LastDay {
			summary.LastDay = day
		}
	}
	summary.TradingDays = len(days)
	return summary
}

func countSamples(buckets []domain.AggregationBucket) int {
	total := 0
	for _, b := range buckets {
		total += b.SampleCount
	}
	return total
}
