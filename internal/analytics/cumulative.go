package analytics

import "trade-journal-lab/internal/domain"

// CumulativeAverage returns, for each index i, the prefix weighted average
// over buckets [0..i]: Σrespected / Σtotal * 100. When the cumulative
// denominator is zero (all folded days carried only legacy rates) it falls
// back to the arithmetic mean of the bucket rates seen so far. Single O(n)
// pass over running sums; the output is parallel to the input and drawn as
// the trend line next to the raw series.
func CumulativeAverage(buckets []domain.AggregationBucket) []float64 {
	if len(buckets) == 0 {
		return nil
	}

	out := make([]float64, len(buckets))
	var cumRespected, cumTotal int
	var rateSum float64

	for i, b := range buckets {
		cumRespected += b.Respected
		cumTotal += b.TotalStrategies
		rateSum += b.ComplianceRate

		if cumTotal > 0 {
			out[i] = float64(cumRespected) / float64(cumTotal) * 100
		} else {
			out[i] = rateSum / float64(i+1)
		}
	}
	return out
}
