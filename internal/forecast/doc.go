// Package forecast turns loaded price tables into plottable series and
// computes the closing price estimate shown on the Predict view.
package forecast
