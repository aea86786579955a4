package testutil

import (
	"fmt"
	"strings"
	"time"
)

// PriceCSV is a two-day price history with the standard columns
const PriceCSV = "Date,Open,High,Low,Volume\n" +
	"2021-01-01,100,110,90,1000\n" +
	"2021-01-02,105,115,95,2000\n"

// EditsCSV is a small Wikipedia edit-count table
const EditsCSV = "Date,Edits,Sentiment\n" +
	"2021-01-01,12,0.1\n" +
	"2021-01-02,30,-0.3\n"

// PriceCSVWithoutDate has price columns but no Date column
const PriceCSVWithoutDate = "Timestamp,Open,High,Low,Volume\n" +
	"2021-01-01,100,110,90,1000\n"

// MalformedCSV has a row with more fields than the header
const MalformedCSV = "Date,Open\n2021-01-01,100,extra\n"

// GeneratePriceCSV builds a deterministic price history of n days starting
// at start.
func GeneratePriceCSV(start time.Time, n int) string {
	var b strings.Builder
	b.WriteString("Date,Open,High,Low,Close,Volume\n")
	price := 30000.0
	for i := 0; i < n; i++ {
		day := start.AddDate(0, 0, i)
		open := price
		high := open * 1.02
		low := open * 0.97
		closing := open * (1 + float64(i%5-2)/100)
		fmt.Fprintf(&b, "%s,%.2f,%.2f,%.2f,%.2f,%d\n",
			day.Format("2006-01-02"), open, high, low, closing, 1000+i*10)
		price = closing
	}
	return b.String()
}
