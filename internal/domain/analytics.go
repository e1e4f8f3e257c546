package domain

// Granularity is the temporal bucket size of the compliance series.
type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityWeek
	GranularityMonth
	GranularityYear
)

// String returns the wire name of the granularity.
func (g Granularity) String() string {
	switch g {
	case GranularityWeek:
		return "week"
	case GranularityMonth:
		return "month"
	case GranularityYear:
		return "year"
	default:
		return "day"
	}
}

// AggregationBucket is one aggregated interval of the compliance series.
// Buckets are built fresh on every aggregation call and never mutated.
type AggregationBucket struct {
	// Key identifies the bucket within its granularity (ISO date, ISO-week
	// Monday, "2006-01" or "2006").
	Key string `json:"key"`

	// Date is the representative/label date: the date of the first source
	// day folded into the bucket.
	Date string `json:"date"`

	// ComplianceRate is the weighted rate in percent.
	ComplianceRate float64 `json:"compliance_rate"`

	// TotalStrategies is Σ(respected+not_respected) over the folded days.
	TotalStrategies int `json:"total_strategies"`

	// Respected is Σrespected over the folded days.
	Respected int `json:"respected"`

	// SampleCount is the number of source days folded into the bucket.
	SampleCount int `json:"sample_count"`
}

// StreakState holds consecutive-run counters for one sequence level
// (per-trade or per-day).
type StreakState struct {
	CurrentRespected    int `json:"current_respected"`
	CurrentNotRespected int `json:"current_not_respected"`
	MaxRespected        int `json:"max_respected"`
	MaxNotRespected     int `json:"max_not_respected"`
}

// StreakSnapshot is the full streak read-out for an account.
type StreakSnapshot struct {
	Trade StreakState `json:"trade"`
	Day   StreakState `json:"day"`

	// WinningDays is the current run of consecutive profitable trading
	// days, anchored at the most recent trading day. No maximum is kept.
	WinningDays int `json:"winning_days"`
}

// DayPnL is a single trading day with its summed P&L.
type DayPnL struct {
	Date string  `json:"date"`
	PnL  float64 `json:"pnl"`
}

// BestWorstDay is the resolved best and worst trading day. A best day is
// only reported when its P&L is strictly positive, a worst day only when
// strictly negative; either side may be nil.
type BestWorstDay struct {
	Best  *DayPnL `json:"best"`
	Worst *DayPnL `json:"worst"`
}

// ConsistencyTargetPercentage is the share of overall profit a single day
// must stay under for funded-program accounts.
const ConsistencyTargetPercentage = 50.0

// ConsistencyTarget is the best-day-concentration rule result for a
// funded-program account. Computed fresh per request from all-time history.
type ConsistencyTarget struct {
	BestDayProfit     float64 `json:"best_day_profit"`
	BestDayDate       string  `json:"best_day_date"`
	OverallProfit     float64 `json:"overall_profit"`
	BestDayPercentage float64 `json:"best_day_percentage"`
	IsCompliant       bool    `json:"is_compliant"`
	TargetPercentage  float64 `json:"target_percentage"`

	// RequiredTotalProfit and AdditionalProfitNeeded are populated only
	// when the account is not compliant.
	RequiredTotalProfit    float64 `json:"required_total_profit"`
	AdditionalProfitNeeded float64 `json:"additional_profit_needed"`
}

// AnalyticsSnapshot is everything the dashboard needs for one account and
// period, composed by the engine in a single pass.
type AnalyticsSnapshot struct {
	AccountID string      `json:"account_id"`
	Period    string      `json:"period"`
	Gran      Granularity `json:"-"`

	Granularity       string              `json:"granularity"`
	ComplianceSeries  []AggregationBucket `json:"compliance_series"`
	CumulativeAverage []float64           `json:"cumulative_average"`
	DailyBalance      []DailyBalancePoint `json:"daily_balance"`
	Streaks           StreakSnapshot      `json:"streaks"`
	BestWorst         BestWorstDay        `json:"best_worst"`
	Consistency       *ConsistencyTarget  `json:"consistency,omitempty"`
	Balance           AccountBalance      `json:"balance"`
	ComputedAt        int64               `json:"computed_at"`
}
