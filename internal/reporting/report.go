package reporting

import (
	"time"

	"trade-journal-lab/internal/domain"
)

// Report is the rendered journal report for one account and period.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	AccountID   string
	AccountName string
	Period      string

	// Data Summary
	Summary DataSummary

	// Compliance series at the selected granularity
	Granularity       string
	ComplianceSeries  []domain.AggregationBucket
	CumulativeAverage []float64

	// Discipline and performance sections
	Streaks     domain.StreakSnapshot
	BestWorst   domain.BestWorstDay
	Consistency *domain.ConsistencyTarget
	Balance     domain.AccountBalance
}

// DataSummary describes the data the report was computed from.
type DataSummary struct {
	TotalTrades    int
	TradingDays    int
	ComplianceDays int
	FirstDay       string
	LastDay        string
}
