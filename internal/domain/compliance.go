package domain

// DailyComplianceRecord is one day of strategy-compliance counts as stored in
// the compliance timeseries. Legacy rows may carry only a precomputed rate
// with no absolute counts.
type DailyComplianceRecord struct {
	AccountID    string
	Date         string // DayFormat
	Respected    int
	NotRespected int

	// LegacyRate is a rate persisted by older importers. It may have been
	// computed on a different denominator, so it is only trusted when no
	// counts are present.
	LegacyRate *float64

	// LegacyTotal is the legacy row's denominator, kept for auditing only.
	LegacyTotal *int
}

// Counts returns the day's respected/not-respected counts with negative
// values clamped to zero. Display analytics never fail on bad counts.
func (d *DailyComplianceRecord) Counts() (respected, notRespected int) {
	respected = d.Respected
	notRespected = d.NotRespected
	if respected < 0 {
		respected = 0
	}
	if notRespected < 0 {
		notRespected = 0
	}
	return respected, notRespected
}

// EffectiveRate returns the day's compliance rate in percent. Whenever
// counts are present they win over LegacyRate, which can be stale or
// computed on a different denominator. ok is false when the day carries
// neither counts nor a legacy rate.
func (d *DailyComplianceRecord) EffectiveRate() (rate float64, ok bool) {
	respected, notRespected := d.Counts()
	if total := respected + notRespected; total > 0 {
		return float64(respected) / float64(total) * 100, true
	}
	if d.LegacyRate != nil {
		return *d.LegacyRate, true
	}
	return 0, false
}
