// Package analytics computes the journal dashboard's derived series:
// compliance buckets, cumulative averages, streaks, best/worst day, the
// funded-program consistency target and account balances. Every function is
// a pure transformation over already-fetched slices; missing or malformed
// data degrades to neutral values, never to an error.
package analytics

import (
	"time"

	"trade-journal-lab/internal/domain"
)

// GranularityThreshold is one row of the granularity selection table.
// A granularity is chosen when either bound is exceeded.
type GranularityThreshold struct {
	Granularity domain.Granularity
	MaxPoints   int // choose when pointCount exceeds this
	MaxSpanDays int // choose when the day span exceeds this
}

// GranularityThresholds is evaluated in order, first match wins. The bounds
// keep a rendered series under roughly 100 visual points regardless of
// history length; they are configuration, tuned empirically.
var GranularityThresholds = []GranularityThreshold{
	{domain.GranularityYear, 365, 730},
	{domain.GranularityMonth, 120, 365},
	{domain.GranularityWeek, 60, 90},
}

// SelectGranularity picks the bucket granularity for a series of pointCount
// daily records spanning daySpan calendar days. A single point yields day
// granularity; callers short-circuit empty input before aggregating.
func SelectGranularity(pointCount, daySpan int) domain.Granularity {
	for _, t := range GranularityThresholds {
		if pointCount > t.MaxPoints || daySpan > t.MaxSpanDays {
			return t.Granularity
		}
	}
	return domain.GranularityDay
}

// SelectGranularityForDays derives pointCount and daySpan from the records
// themselves. Dates that fail to parse are ignored for the span but still
// count as points.
func SelectGranularityForDays(days []*domain.DailyComplianceRecord) domain.Granularity {
	var first, last time.Time
	for _, d := range days {
		t, err := time.Parse(domain.DayFormat, d.Date)
		if err != nil {
			continue
		}
		if first.IsZero() || t.Before(first) {
			first = t
		}
		if last.IsZero() || t.After(last) {
			last = t
		}
	}

	span := 0
	if !first.IsZero() {
		span = int(last.Sub(first).Hours() / 24)
	}
	return SelectGranularity(len(days), span)
}
