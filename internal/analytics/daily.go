package analytics

import (
	"sort"

	"trade-journal-lab/internal/domain"
)

// DailyPnL groups trades by calendar day and sums each day's P&L. Output is
// sorted ascending by date. Trades without a resolvable day are skipped.
func DailyPnL(trades []*domain.TradeRecord) []domain.DayPnL {
	if len(trades) == 0 {
		return nil
	}

	pnlByDay := make(map[string]float64)
	for _, t := range trades {
		day := t.Day()
		if day == "" {
			continue
		}
		pnlByDay[day] += t.PnL()
	}
	if len(pnlByDay) == 0 {
		return nil
	}

	out := make([]domain.DayPnL, 0, len(pnlByDay))
	for day, pnl := range pnlByDay {
		out = append(out, domain.DayPnL{Date: day, PnL: pnl})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// BuildDailyBalance derives the balance curve from trades: one point per
// trading day with its P&L and the running sum over ascending dates. The
// curve is recomputed from scratch on every call and never persisted.
func BuildDailyBalance(trades []*domain.TradeRecord) []domain.DailyBalancePoint {
	days := DailyPnL(trades)
	if len(days) == 0 {
		return nil
	}

	points := make([]domain.DailyBalancePoint, len(days))
	cumulative := 0.0
	for i, d := range days {
		cumulative += d.PnL
		points[i] = domain.DailyBalancePoint{Date: d.Date, PnL: d.PnL, Cumulative: cumulative}
	}
	return points
}
