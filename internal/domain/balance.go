package domain

// AccountBalance is the resolved capital figures for an account.
type AccountBalance struct {
	AccountID      string  `json:"account_id"`
	InitialCapital float64 `json:"initial_capital"`
	CurrentBalance float64 `json:"current_balance"`

	// FromLedger reports whether the figures came from the transactions
	// ledger (true) or the initial-capital + ΣP&L fallback (false).
	FromLedger bool `json:"from_ledger"`
}

// DailyBalancePoint is one day on the derived balance curve. Cumulative is a
// running sum over ascending dates. Points are always derived on demand,
// never persisted.
type DailyBalancePoint struct {
	Date       string  `json:"date"`
	PnL        float64 `json:"pnl"`
	Cumulative float64 `json:"cumulative"`
}

// PerformanceSummary is a precomputed analytics row from the reporting side
// of the store. It is the second-priority source for best/worst day.
type PerformanceSummary struct {
	AccountID   string
	BestDay     string
	BestDayPnL  *float64
	WorstDay    string
	WorstDayPnL *float64
	TotalTrades int
	ComputedAt  int64 // Unix milliseconds
}
