package analytics

import (
	"sort"
	"time"

	"trade-journal-lab/internal/domain"
)

// bucketAcc accumulates one bucket while folding source days.
type bucketAcc struct {
	key          string
	date         string // first source day folded in, used as the label
	respected    int
	notRespected int
	sampleCount  int

	// rateSum/rateCount feed the fallback mean for buckets whose days
	// carry only a legacy precomputed rate and no counts.
	rateSum   float64
	rateCount int
}

// AggregateCompliance folds daily compliance records into buckets of the
// given granularity and computes weighted rates. Days with many trades
// weigh proportionally more than days with one trade; averaging the per-day
// percentages instead would dilute them, which is exactly the bug this
// function exists to avoid. Output is sorted ascending by representative
// date. Days whose date fails to parse are skipped.
func AggregateCompliance(g domain.Granularity, days []*domain.DailyComplianceRecord) []domain.AggregationBucket {
	if len(days) == 0 {
		return nil
	}

	sorted := make([]*domain.DailyComplianceRecord, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	accs := make(map[string]*bucketAcc)
	var order []string

	for _, d := range sorted {
		t, err := time.Parse(domain.DayFormat, d.Date)
		if err != nil {
			continue
		}

		key := bucketKey(g, t)
		acc, ok := accs[key]
		if !ok {
			acc = &bucketAcc{key: key, date: d.Date}
			accs[key] = acc
			order = append(order, key)
		}

		respected, notRespected := d.Counts()
		acc.respected += respected
		acc.notRespected += notRespected
		acc.sampleCount++

		if rate, ok := d.EffectiveRate(); ok {
			acc.rateSum += rate
			acc.rateCount++
		}
	}

	buckets := make([]domain.AggregationBucket, 0, len(order))
	for _, key := range order {
		acc := accs[key]
		total := acc.respected + acc.notRespected

		var rate float64
		switch {
		case total > 0:
			rate = float64(acc.respected) / float64(total) * 100
		case acc.rateCount > 0:
			rate = acc.rateSum / float64(acc.rateCount)
		}

		buckets = append(buckets, domain.AggregationBucket{
			Key:             key,
			Date:            acc.date,
			ComplianceRate:  rate,
			TotalStrategies: total,
			Respected:       acc.respected,
			SampleCount:     acc.sampleCount,
		})
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })
	return buckets
}

// bucketKey derives the bucket identifier for a date at a granularity.
// Weeks start on Monday: a Sunday belongs to the week whose Monday precedes
// it by six days.
func bucketKey(g domain.Granularity, t time.Time) string {
	switch g {
	case domain.GranularityWeek:
		offset := (int(t.Weekday()) + 6) % 7
		return t.AddDate(0, 0, -offset).Format(domain.DayFormat)
	case domain.GranularityMonth:
		return t.Format("2006-01")
	case domain.GranularityYear:
		return t.Format("2006")
	default:
		return t.Format(domain.DayFormat)
	}
}

// ComplianceSeries selects a granularity and aggregates in one call; this is
// the canonical path the dashboard uses.
func ComplianceSeries(days []*domain.DailyComplianceRecord) (domain.Granularity, []domain.AggregationBucket) {
	if len(days) == 0 {
		return domain.GranularityDay, nil
	}
	g := SelectGranularityForDays(days)
	return g, AggregateCompliance(g, days)
}
