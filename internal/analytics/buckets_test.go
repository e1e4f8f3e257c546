package analytics

import (
	"math"
	"testing"

	"trade-journal-lab/internal/domain"
)

func TestAggregateCompliance_WeightedNotAveraged(t *testing.T) {
	// A 5/5 day merged with a 1/0 day must yield 6/11*100, not the
	// arithmetic mean of 50% and 100%. This is the core statistical
	// correctness property of the aggregator.
	days := []*domain.DailyComplianceRecord{
		{Date: "2024-01-01", Respected: 5, NotRespected: 5},
		{Date: "2024-01-02", Respected: 1, NotRespected: 0},
	}

	buckets := AggregateCompliance(domain.GranularityWeek, days)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}

	want := 6.0 / 11.0 * 100
	if math.Abs(buckets[0].ComplianceRate-want) > 1e-9 {
		t.Errorf("rate = %f, want %f (weighted, not mean of 50 and 100)", buckets[0].ComplianceRate, want)
	}
	if buckets[0].Respected != 6 || buckets[0].TotalStrategies != 11 {
		t.Errorf("counts = %d/%d, want 6/11", buckets[0].Respected, buckets[0].TotalStrategies)
	}
	if buckets[0].SampleCount != 2 {
		t.Errorf("sampleCount = %d, want 2", buckets[0].SampleCount)
	}
}

func TestAggregateCompliance_WeekKeyIsMonday(t *testing.T) {
	// 2024-01-07 is a Sunday; it belongs to the week starting Monday
	// 2024-01-01. 2024-01-08 is the next Monday.
	days := []*domain.DailyComplianceRecord{
		{Date: "2024-01-07", Respected: 1},
		{Date: "2024-01-08", Respected: 1},
	}

	buckets := AggregateCompliance(domain.GranularityWeek, days)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Key != "2024-01-01" {
		t.Errorf("Sunday bucket key = %q, want 2024-01-01", buckets[0].Key)
	}
	if buckets[1].Key != "2024-01-08" {
		t.Errorf("Monday bucket key = %q, want 2024-01-08", buckets[1].Key)
	}
}

func TestAggregateCompliance_MonthAndYearKeys(t *testing.T) {
	days := []*domain.DailyComplianceRecord{
		{Date: "2024-02-10", Respected: 1},
		{Date: "2024-02-20", Respected: 1},
		{Date: "2024-03-01", Respected: 1},
	}

	byMonth := AggregateCompliance(domain.GranularityMonth, days)
	if len(byMonth) != 2 || byMonth[0].Key != "2024-02" || byMonth[1].Key != "2024-03" {
		t.Errorf("month keys wrong: %+v", byMonth)
	}

	byYear := AggregateCompliance(domain.GranularityYear, days)
	if len(byYear) != 1 || byYear[0].Key != "2024" {
		t.Errorf("year keys wrong: %+v", byYear)
	}
}

func TestAggregateCompliance_RepresentativeDateIsFirstSourceDay(t *testing.T) {
	days := []*domain.DailyComplianceRecord{
		{Date: "2024-02-20", Respected: 1},
		{Date: "2024-02-10", Respected: 1},
	}

	buckets := AggregateCompliance(domain.GranularityMonth, days)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	// Input is sorted ascending before folding, so the first source day
	// is the earliest date regardless of input order.
	if buckets[0].Date != "2024-02-10" {
		t.Errorf("representative date = %q, want 2024-02-10", buckets[0].Date)
	}
}

func TestAggregateCompliance_LegacyRateFallback(t *testing.T) {
	// Days carrying only a precomputed rate and no counts: the bucket
	// falls back to the simple mean of those rates.
	days := []*domain.DailyComplianceRecord{
		{Date: "2024-01-01", LegacyRate: ptr(40.0)},
		{Date: "2024-01-02", LegacyRate: ptr(80.0)},
	}

	buckets := AggregateCompliance(domain.GranularityMonth, days)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if math.Abs(buckets[0].ComplianceRate-60.0) > 1e-9 {
		t.Errorf("fallback rate = %f, want 60", buckets[0].ComplianceRate)
	}
	if buckets[0].TotalStrategies != 0 {
		t.Errorf("totalStrategies = %d, want 0", buckets[0].TotalStrategies)
	}
}

func TestAggregateCompliance_CountsBeatLegacyRate(t *testing.T) {
	// A stale legacy rate on a day that has counts must be ignored: the
	// legacy field can be computed on a different denominator.
	days := []*domain.DailyComplianceRecord{
		{Date: "2024-01-01", Respected: 3, NotRespected: 1, LegacyRate: ptr(10.0)},
	}

	buckets := AggregateCompliance(domain.GranularityDay, days)
	if math.Abs(buckets[0].ComplianceRate-75.0) > 1e-9 {
		t.Errorf("rate = %f, want 75 (counts win over legacy rate)", buckets[0].ComplianceRate)
	}
}

func TestAggregateCompliance_NegativeCountsClamped(t *testing.T) {
	days := []*domain.DailyComplianceRecord{
		{Date: "2024-01-01", Respected: -3, NotRespected: 2},
	}

	buckets := AggregateCompliance(domain.GranularityDay, days)
	if buckets[0].Respected != 0 || buckets[0].TotalStrategies != 2 {
		t.Errorf("clamping failed: respected=%d total=%d", buckets[0].Respected, buckets[0].TotalStrategies)
	}
	if buckets[0].ComplianceRate != 0 {
		t.Errorf("rate = %f, want 0", buckets[0].ComplianceRate)
	}
}

func TestAggregateCompliance_SkipsUnparsableDates(t *testing.T) {
	days := []*domain.DailyComplianceRecord{
		{Date: "not-a-date", Respected: 9},
		{Date: "2024-01-01", Respected: 1},
	}

	buckets := AggregateCompliance(domain.GranularityDay, days)
	if len(buckets) != 1 || buckets[0].Respected != 1 {
		t.Errorf("unparsable date should be skipped: %+v", buckets)
	}
}

func TestAggregateCompliance_Empty(t *testing.T) {
	if got := AggregateCompliance(domain.GranularityDay, nil); got != nil {
		t.Errorf("expected nil for empty input, got %+v", got)
	}
}

func TestComplianceSeries_SinglePoint(t *testing.T) {
	days := []*domain.DailyComplianceRecord{{Date: "2024-05-01", Respected: 2, NotRespected: 1}}

	g, buckets := ComplianceSeries(days)
	if g != domain.GranularityDay {
		t.Errorf("granularity = %v, want day", g)
	}
	if len(buckets) != 1 || buckets[0].Key != "2024-05-01" {
		t.Errorf("expected single day bucket, got %+v", buckets)
	}
}
