package domain

import "time"

// DayFormat is the canonical calendar-day key used across the analytics
// engine: an ISO date in UTC.
const DayFormat = "2006-01-02"

// TradeRecord represents one imported trade. Records are owned by the import
// path; the analytics engine only reads them and derives new values.
type TradeRecord struct {
	TradeID   string
	AccountID string
	Symbol    string
	Side      string // "long" | "short"

	// EnteredAt is the entry timestamp in Unix milliseconds (UTC).
	// Zero means the importer supplied no timestamp.
	EnteredAt int64

	// TradeDay is the calendar date the trade belongs to (DayFormat).
	// When empty it is derived from EnteredAt.
	TradeDay string

	// NetPnL is the realized profit/loss. Nil when the importer had no
	// P&L for the trade; treated as zero by every aggregation.
	NetPnL *float64

	// IsProfitable is a tri-state flag from the importer: nil means the
	// source did not classify the trade.
	IsProfitable *bool
}

// Day returns the calendar day this trade belongs to, deriving it from
// EnteredAt when TradeDay is absent. Returns "" when neither is usable;
// callers skip such trades rather than failing.
func (t *TradeRecord) Day() string {
	if t.TradeDay != "" {
		return t.TradeDay
	}
	if t.EnteredAt <= 0 {
		return ""
	}
	return time.UnixMilli(t.EnteredAt).UTC().Format(DayFormat)
}

// PnL returns the trade's net P&L, treating a missing value as zero.
func (t *TradeRecord) PnL() float64 {
	if t.NetPnL == nil {
		return 0
	}
	return *t.NetPnL
}
