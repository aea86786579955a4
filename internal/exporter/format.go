package exporter

import (
	"math"
	"strconv"
)

// formatFloat renders a statistic with the shortest exact representation.
// Missing statistics (NaN) are left blank.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
