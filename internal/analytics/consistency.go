package analytics

import "trade-journal-lab/internal/domain"

// EvaluateConsistencyTarget evaluates the best-day-concentration rule for
// funded-program accounts: the single best day must represent under half of
// total profit. Returns nil ("no target") for other account types, when
// overall profit is not positive, when the account has no trades, or when
// the best all-time day is not profitable.
//
// The best-day lookup always runs over the account's ALL-TIME trades, even
// while the rest of the dashboard shows a filtered period. Prop-firm rules
// judge the whole account history; narrowing this to the visible period
// would silently weaken the rule.
func EvaluateConsistencyTarget(account *domain.Account, balance domain.AccountBalance, allTimeTrades []*domain.TradeRecord) *domain.ConsistencyTarget {
	if account == nil || account.AccountType != domain.AccountTypeFundedProgram {
		return nil
	}
	if len(allTimeTrades) == 0 {
		return nil
	}

	overallProfit := balance.CurrentBalance - balance.InitialCapital
	if overallProfit <= 0 {
		return nil
	}

	var bestDayProfit float64
	var bestDayDate string
	for _, d := range DailyPnL(allTimeTrades) {
		if d.PnL > bestDayProfit {
			bestDayProfit = d.PnL
			bestDayDate = d.Date
		}
	}
	if bestDayProfit <= 0 {
		return nil
	}

	target := &domain.ConsistencyTarget{
		BestDayProfit:     bestDayProfit,
		BestDayDate:       bestDayDate,
		OverallProfit:     overallProfit,
		BestDayPercentage: bestDayProfit / overallProfit * 100,
		TargetPercentage:  domain.ConsistencyTargetPercentage,
	}
	target.IsCompliant = target.BestDayPercentage < domain.ConsistencyTargetPercentage

	if !target.IsCompliant {
		target.RequiredTotalProfit = bestDayProfit / (domain.ConsistencyTargetPercentage / 100)
		if needed := target.RequiredTotalProfit - overallProfit; needed > 0 {
			target.AdditionalProfitNeeded = needed
		}
	}
	return target
}
