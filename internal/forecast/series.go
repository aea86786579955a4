package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/dataprocessing"
)

var (
	// ErrNoDateColumn is returned when the table has no date column to plot against
	ErrNoDateColumn = errors.New("no date column found in the dataset")

	// ErrNonNumericColumn is returned when the selected column holds non-numeric values
	ErrNonNumericColumn = errors.New("column is not numeric")
)

// Point is one observation of a plotted series
type Point struct {
	Time  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series extracts (date, value) pairs from t in row order. Rows whose date
// does not parse or whose value is missing, NaN or infinite are left out.
func Series(t *dataprocessing.Table, dateColumn, valueColumn string) ([]Point, error) {
	dated, err := dataprocessing.CoerceDates(t, dateColumn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDateColumn, err)
	}
	if !dated.HasColumn(valueColumn) {
		return nil, &dataprocessing.MissingColumnError{Column: valueColumn}
	}
	if !dated.IsNumeric(valueColumn) {
		return nil, fmt.Errorf("%w: %q", ErrNonNumericColumn, valueColumn)
	}

	dates, _ := dated.Column(dateColumn)
	values, _ := dated.Column(valueColumn)

	points := make([]Point, 0, len(dates))
	for i := range dates {
		ts, ok := dates[i].Time()
		if !ok {
			continue
		}
		v, ok := values[i].Float()
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		points = append(points, Point{Time: ts, Value: v})
	}
	return points, nil
}

// PlottableColumns returns every column except the first, which holds the
// row dates.
func PlottableColumns(t *dataprocessing.Table) []string {
	cols := t.Columns()
	if len(cols) <= 1 {
		return []string{}
	}
	return cols[1:]
}
