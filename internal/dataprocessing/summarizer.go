package dataprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ColumnSummary holds descriptive statistics of one numeric column.
// Std is NaN when fewer than two values are present; every statistic
// except Count is NaN for a column without values.
type ColumnSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	P25    float64
	P50    float64
	P75    float64
	Max    float64
}

// SummaryStatistics lists the statistic names in display order
var SummaryStatistics = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Values returns the statistics in SummaryStatistics order
func (s ColumnSummary) Values() []float64 {
	return []float64{float64(s.Count), s.Mean, s.Std, s.Min, s.P25, s.P50, s.P75, s.Max}
}

// Summarize computes descriptive statistics for every numeric column of t,
// in column order. Non-numeric columns are skipped.
func Summarize(t *Table) []ColumnSummary {
	summaries := make([]ColumnSummary, 0, t.NumCols())
	for _, name := range t.columns {
		if !t.IsNumeric(name) {
			continue
		}
		cells, _ := t.Column(name)
		summaries = append(summaries, summarizeValues(name, numericValues(cells)))
	}
	return summaries
}

func numericValues(cells []Cell) []float64 {
	values := make([]float64, 0, len(cells))
	for _, c := range cells {
		if v, ok := c.Float(); ok {
			values = append(values, v)
		}
	}
	return values
}

func summarizeValues(name string, values []float64) ColumnSummary {
	n := len(values)
	nan := math.NaN()
	s := ColumnSummary{Column: name, Count: n, Mean: nan, Std: nan, Min: nan, P25: nan, P50: nan, P75: nan, Max: nan}
	if n == 0 {
		return s
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n >= 2 {
		s.Mean, s.Std = stat.MeanStdDev(values, nil)
	} else {
		s.Mean = values[0]
	}
	s.Min = sorted[0]
	s.Max = sorted[n-1]
	s.P25 = quantile(sorted, 0.25)
	s.P50 = quantile(sorted, 0.50)
	s.P75 = quantile(sorted, 0.75)
	return s
}

// quantile interpolates linearly between closest ranks of sorted data
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
