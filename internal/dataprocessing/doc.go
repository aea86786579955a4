// Package dataprocessing loads uploaded CSV files into typed tables.
//
// # Tables
//
// A Table is an ordered set of rows with unique column names. Each value is a
// Cell holding one of four variants: missing, string, number or date.
// Column kinds are inferred on load:
//
//   - a column whose every non-missing value parses as a float is numeric
//   - any other column keeps its values as strings
//   - empty fields and the usual NA spellings (NA, NaN, null, ...) are missing
//
// Repeated header names are made unique by appending .1, .2 and so on.
//
// # Usage
//
//	table, err := dataprocessing.Parse(raw)
//	if err != nil {
//	    return err // *ParseError
//	}
//	rows, cols := table.Shape()
//	summary := dataprocessing.Summarize(table)
//	dated, err := dataprocessing.CoerceDates(table, "Date")
//
// # Statistics
//
// Summarize reports count, mean, sample standard deviation, min, quartiles and
// max for every numeric column. Quartiles interpolate linearly between the
// closest ranks.
//
// # Error Handling
//
// Malformed input yields *ParseError. Referencing an absent column yields
// *MissingColumnError. Neither is fatal; the caller keeps its previous table.
package dataprocessing
