package analytics

import "trade-journal-lab/internal/domain"

// ResolveBestWorstDay determines the best and worst single trading day from
// three sources tried in strict priority order, first non-empty wins, no
// merging: (1) pre-aggregated daily balance points, (2) a stored performance
// summary used verbatim, (3) raw trades grouped by day. A best day is only
// reported when its P&L is strictly positive and a worst day only when
// strictly negative, so an all-losing period never shows a loss as its
// "best day".
func ResolveBestWorstDay(points []domain.DailyBalancePoint, summary *domain.PerformanceSummary, trades []*domain.TradeRecord) domain.BestWorstDay {
	if len(points) > 0 {
		days := make([]domain.DayPnL, len(points))
		for i, p := range points {
			days[i] = domain.DayPnL{Date: p.Date, PnL: p.PnL}
		}
		return extremaOf(days)
	}

	if summary != nil && (summary.BestDayPnL != nil || summary.WorstDayPnL != nil) {
		return fromSummary(summary)
	}

	return extremaOf(DailyPnL(trades))
}

// extremaOf picks the max-P&L day as best and the min-P&L day as worst,
// subject to the sign constraints.
func extremaOf(days []domain.DayPnL) domain.BestWorstDay {
	var result domain.BestWorstDay
	for _, d := range days {
		d := d
		if d.PnL > 0 && (result.Best == nil || d.PnL > result.Best.PnL) {
			result.Best = &d
		}
		if d.PnL < 0 && (result.Worst == nil || d.PnL < result.Worst.PnL) {
			result.Worst = &d
		}
	}
	return result
}

func fromSummary(s *domain.PerformanceSummary) domain.BestWorstDay {
	var result domain.BestWorstDay
	if s.BestDayPnL != nil && *s.BestDayPnL > 0 {
		result.Best = &domain.DayPnL{Date: s.BestDay, PnL: *s.BestDayPnL}
	}
	if s.WorstDayPnL != nil && *s.WorstDayPnL < 0 {
		result.Worst = &domain.DayPnL{Date: s.WorstDay, PnL: *s.WorstDayPnL}
	}
	return result
}
