package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the compliance series as CSV string.
func RenderCSV(r *Report) string {
	var sb strings.Builder

	sb.WriteString("bucket,date,compliance_rate,respected,total_strategies,sample_count,cumulative_average\n")

	for i, b := range r.ComplianceSeries {
		cum := ""
		if i < len(r.CumulativeAverage) {
			cum = fmt.Sprintf("%.6f", r.CumulativeAverage[i])
		}
		sb.WriteString(fmt.Sprintf("%s,%s,%.6f,%d,%d,%d,%s\n",
			b.Key,
			b.Date,
			b.ComplianceRate,
			b.Respected,
			b.TotalStrategies,
			b.SampleCount,
			cum,
		))
	}

	return sb.String()
}
