package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Trading Journal Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	name := r.AccountName
	if name == "" {
		name = r.AccountID
	}
	sb.WriteString(fmt.Sprintf("Account: %s | Period: %s\n\n", name, r.Period))

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", r.Summary.TotalTrades))
	sb.WriteString(fmt.Sprintf("| Trading Days | %d |\n", r.Summary.TradingDays))
	sb.WriteString(fmt.Sprintf("| Compliance Days | %d |\n", r.Summary.ComplianceDays))
	sb.WriteString(fmt.Sprintf("| First Day | %s |\n", orDash(r.Summary.FirstDay)))
	sb.WriteString(fmt.Sprintf("| Last Day | %s |\n", orDash(r.Summary.LastDay)))
	sb.WriteString("\n")

	// Compliance series
	sb.WriteString(fmt.Sprintf("## Strategy Compliance (%s buckets)\n\n", r.Granularity))
	if len(r.ComplianceSeries) > 0 {
		sb.WriteString("| Bucket | Rate | Respected | Total | Cumulative Avg |\n")
		sb.WriteString("|--------|------|-----------|-------|----------------|\n")
		for i, b := range r.ComplianceSeries {
			cum := ""
			if i < len(r.CumulativeAverage) {
				cum = fmt.Sprintf("%.2f%%", r.CumulativeAverage[i])
			}
			sb.WriteString(fmt.Sprintf("| %s | %.2f%% | %d | %d | %s |\n",
				b.Key, b.ComplianceRate, b.Respected, b.TotalStrategies, cum))
		}
	} else {
		sb.WriteString("No compliance data recorded.\n")
	}
	sb.WriteString("\n")

	// Streaks
	sb.WriteString("## Discipline Streaks\n\n")
	sb.WriteString("| Streak | Current | Max |\n")
	sb.WriteString("|--------|---------|-----|\n")
	sb.WriteString(fmt.Sprintf("| Trades respected | %d | %d |\n",
		r.Streaks.Trade.CurrentRespected, r.Streaks.Trade.MaxRespected))
	sb.WriteString(fmt.Sprintf("| Trades not respected | %d | %d |\n",
		r.Streaks.Trade.CurrentNotRespected, r.Streaks.Trade.MaxNotRespected))
	sb.WriteString(fmt.Sprintf("| Days respected | %d | %d |\n",
		r.Streaks.Day.CurrentRespected, r.Streaks.Day.MaxRespected))
	sb.WriteString(fmt.Sprintf("| Days not respected | %d | %d |\n",
		r.Streaks.Day.CurrentNotRespected, r.Streaks.Day.MaxNotRespected))
	sb.WriteString(fmt.Sprintf("\nWinning day streak: %d\n\n", r.Streaks.WinningDays))

	// Best / worst day
	sb.WriteString("## Best / Worst Day\n\n")
	if r.BestWorst.Best != nil {
		sb.WriteString(fmt.Sprintf("- Best day: %s (%.2f)\n", r.BestWorst.Best.Date, r.BestWorst.Best.PnL))
	} else {
		sb.WriteString("- Best day: none (no profitable day)\n")
	}
	if r.BestWorst.Worst != nil {
		sb.WriteString(fmt.Sprintf("- Worst day: %s (%.2f)\n", r.BestWorst.Worst.Date, r.BestWorst.Worst.PnL))
	} else {
		sb.WriteString("- Worst day: none (no losing day)\n")
	}
	sb.WriteString("\n")

	// Consistency target
	if r.Consistency != nil {
		c := r.Consistency
		status := "NOT MET"
		if c.IsCompliant {
			status = "MET"
		}
		sb.WriteString("## Consistency Target\n\n")
		sb.WriteString(fmt.Sprintf("Status: **%s** (best day %.2f%% of profit, target < %.0f%%)\n\n",
			status, c.BestDayPercentage, c.TargetPercentage))
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Best Day | %s (%.2f) |\n", c.BestDayDate, c.BestDayProfit))
		sb.WriteString(fmt.Sprintf("| Overall Profit | %.2f |\n", c.OverallProfit))
		sb.WriteString(fmt.Sprintf("| Required Total Profit | %.2f |\n", c.RequiredTotalProfit))
		sb.WriteString(fmt.Sprintf("| Additional Profit Needed | %.2f |\n", c.AdditionalProfitNeeded))
		sb.WriteString("\n")
	}

	// Balance
	sb.WriteString("## Balance\n\n")
	source := "derived from trade P&L"
	if r.Balance.FromLedger {
		source = "from transaction ledger"
	}
	sb.WriteString(fmt.Sprintf("Current balance: %.2f (initial %.2f, %s)\n",
		r.Balance.CurrentBalance, r.Balance.InitialCapital, source))

	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
