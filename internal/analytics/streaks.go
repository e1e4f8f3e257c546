package analytics

import (
	"sort"

	"trade-journal-lab/internal/domain"
)

// ComputeStreaks derives trade-level and day-level streak counters plus the
// current winning-day run from one account's trades and its strategy lookup.
// Trades are sorted by EnteredAt ASC, TradeID ASC before any order-dependent
// pass. A trade without a resolvable calendar day is skipped; it can neither
// extend nor break a day-level streak.
func ComputeStreaks(trades []*domain.TradeRecord, lookup domain.StrategyLookup) domain.StreakSnapshot {
	if len(trades) == 0 {
		return domain.StreakSnapshot{}
	}

	sorted := make([]*domain.TradeRecord, len(trades))
	copy(sorted, trades)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].EnteredAt != sorted[j].EnteredAt {
			return sorted[i].EnteredAt < sorted[j].EnteredAt
		}
		return sorted[i].TradeID < sorted[j].TradeID
	})

	return domain.StreakSnapshot{
		Trade:       tradeStreaks(sorted, lookup),
		Day:         dayStreaks(sorted, lookup),
		WinningDays: winningDayStreak(sorted),
	}
}

// tradeStreaks walks trades in order. An unrecorded verdict resets BOTH
// current counters: a trade without a strategy breaks either kind of run
// and counts toward neither.
func tradeStreaks(sorted []*domain.TradeRecord, lookup domain.StrategyLookup) domain.StreakState {
	var s domain.StreakState
	for _, t := range sorted {
		switch lookup.VerdictFor(t.TradeID) {
		case domain.VerdictRespected:
			s.CurrentRespected++
			s.CurrentNotRespected = 0
			if s.CurrentRespected > s.MaxRespected {
				s.MaxRespected = s.CurrentRespected
			}
		case domain.VerdictNotRespected:
			s.CurrentNotRespected++
			s.CurrentRespected = 0
			if s.CurrentNotRespected > s.MaxNotRespected {
				s.MaxNotRespected = s.CurrentNotRespected
			}
		case domain.VerdictUnrecorded:
			s.CurrentRespected = 0
			s.CurrentNotRespected = 0
		}
	}
	return s
}

// dayClass is the all-or-nothing classification of one trading day.
type dayClass int

const (
	dayAmbiguous dayClass = iota // partial coverage or mixed verdicts
	dayRespected
	dayNotRespected
)

// dayStreaks groups trades by calendar day and classifies each day
// all-or-nothing: every trade annotated and all respected, or every trade
// annotated and all not respected. Anything else (partial coverage or a
// true/false mix) resets both counters. Only days that contain at least
// one trade are materialized, so zero-trade calendar days cannot break a
// run; streaks count consecutive trading days.
func dayStreaks(sorted []*domain.TradeRecord, lookup domain.StrategyLookup) domain.StreakState {
	byDay := make(map[string][]domain.Verdict)
	var order []string
	for _, t := range sorted {
		day := t.Day()
		if day == "" {
			continue
		}
		if _, ok := byDay[day]; !ok {
			order = append(order, day)
		}
		byDay[day] = append(byDay[day], lookup.VerdictFor(t.TradeID))
	}
	sort.Strings(order)

	var s domain.StreakState
	for _, day := range order {
		switch classifyDay(byDay[day]) {
		case dayRespected:
			s.CurrentRespected++
			s.CurrentNotRespected = 0
			if s.CurrentRespected > s.MaxRespected {
				s.MaxRespected = s.CurrentRespected
			}
		case dayNotRespected:
			s.CurrentNotRespected++
			s.CurrentRespected = 0
			if s.CurrentNotRespected > s.MaxNotRespected {
				s.MaxNotRespected = s.CurrentNotRespected
			}
		case dayAmbiguous:
			s.CurrentRespected = 0
			s.CurrentNotRespected = 0
		}
	}
	return s
}

func classifyDay(verdicts []domain.Verdict) dayClass {
	recorded := 0
	respected := 0
	for _, v := range verdicts {
		switch v {
		case domain.VerdictRespected:
			recorded++
			respected++
		case domain.VerdictNotRespected:
			recorded++
		}
	}
	if recorded == 0 || recorded != len(verdicts) {
		return dayAmbiguous
	}
	if respected == len(verdicts) {
		return dayRespected
	}
	if respected == 0 {
		return dayNotRespected
	}
	return dayAmbiguous
}

// winningDayStreak counts the current run of strictly-profitable trading
// days, most recent first, stopping at the first non-positive day. Missing
// P&L contributes zero.
func winningDayStreak(sorted []*domain.TradeRecord) int {
	pnlByDay := make(map[string]float64)
	var order []string
	for _, t := range sorted {
		day := t.Day()
		if day == "" {
			continue
		}
		if _, ok := pnlByDay[day]; !ok {
			order = append(order, day)
		}
		pnlByDay[day] += t.PnL()
	}
	sort.Strings(order)

	streak := 0
	for i := len(order) - 1; i >= 0; i-- {
		if pnlByDay[order[i]] <= 0 {
			break
		}
		streak++
	}
	return streak
}
