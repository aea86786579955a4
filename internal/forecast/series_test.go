package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/internal/dataprocessing"
)

func mustParse(t *testing.T, raw string) *dataprocessing.Table {
	t.Helper()
	table, err := dataprocessing.Parse(raw)
	require.NoError(t, err)
	return table
}

func TestSeries(t *testing.T) {
	table := mustParse(t, "Date,Open,High,Low,Volume\n"+
		"2021-01-01,100,110,90,1000\n"+
		"2021-01-02,105,115,95,2000\n")

	points, err := Series(table, "Date", "Open")
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), points[0].Time)
	assert.Equal(t, 100.0, points[0].Value)
	assert.Equal(t, time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC), points[1].Time)
	assert.Equal(t, 105.0, points[1].Value)
}

func TestSeries_SkipsUnusableRowsAndKeepsOrder(t *testing.T) {
	table := mustParse(t, "Date,Close\n"+
		"2021-01-03,3\n"+
		"garbage,4\n"+
		"2021-01-01,\n"+
		"2021-01-02,2\n")

	points, err := Series(table, "Date", "Close")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 3.0, points[0].Value)
	assert.Equal(t, 2.0, points[1].Value)
	assert.True(t, points[0].Time.After(points[1].Time), "rows are not re-sorted")
}

func TestSeries_SkipsNonFiniteValues(t *testing.T) {
	table := mustParse(t, "Date,Open\n"+
		"2021-01-01,100\n"+
		"2021-01-02,inf\n"+
		"2021-01-03,-Infinity\n"+
		"2021-01-04,101.5\n")
	require.True(t, table.IsNumeric("Open"))

	points, err := Series(table, "Date", "Open")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 100.0, points[0].Value)
	assert.Equal(t, 101.5, points[1].Value)
}

func TestSeries_Errors(t *testing.T) {
	table := mustParse(t, "Date,Open,Label\n2021-01-01,1,a\n")
	noDate := mustParse(t, "Timestamp,Open\n2021-01-01,1\n")

	t.Run("no date column", func(t *testing.T) {
		_, err := Series(noDate, "Date", "Open")
		require.ErrorIs(t, err, ErrNoDateColumn)
		assert.True(t, dataprocessing.IsMissingColumn(err))
	})

	t.Run("missing value column", func(t *testing.T) {
		_, err := Series(table, "Date", "Close")
		require.Error(t, err)
		assert.True(t, dataprocessing.IsMissingColumn(err))
		assert.NotErrorIs(t, err, ErrNoDateColumn)
	})

	t.Run("non-numeric column", func(t *testing.T) {
		_, err := Series(table, "Date", "Label")
		require.ErrorIs(t, err, ErrNonNumericColumn)
	})
}

func TestPlottableColumns(t *testing.T) {
	assert.Equal(t, []string{"Open", "Label"}, PlottableColumns(mustParse(t, "Date,Open,Label\n")))
	assert.Empty(t, PlottableColumns(mustParse(t, "Date\n")))
}
