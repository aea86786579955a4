package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const utf8BOM = "\ufeff"

// naTokens are the field values read as missing, alongside the empty field.
var naTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissingToken reports whether s is read as a missing value
func IsMissingToken(s string) bool {
	_, ok := naTokens[s]
	return ok
}

// Parse reads CSV text with a header row into a Table.
func Parse(raw string) (*Table, error) {
	return ParseReader(strings.NewReader(raw))
}

// ParseReader reads CSV from r into a Table. Column kinds are inferred:
// a column whose every non-missing value is a float becomes numeric,
// any other column keeps its values as strings.
func ParseReader(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Err: ErrEmptyInput}
		}
		return nil, toParseError(err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	if len(header) == 1 && strings.TrimSpace(header[0]) == "" {
		return nil, &ParseError{Line: 1, Err: ErrEmptyInput}
	}
	columns := dedupeColumns(header)

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, toParseError(err)
		}
		records = append(records, rec)
	}

	rows := make([][]Cell, len(records))
	for r := range rows {
		rows[r] = make([]Cell, len(columns))
	}
	for c := range columns {
		inferColumn(records, rows, c)
	}

	return newTable(columns, rows), nil
}

// inferColumn fills column c of rows from records
func inferColumn(records [][]string, rows [][]Cell, c int) {
	numeric := true
	values := make([]float64, len(records))
	for r, rec := range records {
		field := rec[c]
		if IsMissingToken(field) {
			continue
		}
		v, err := parseFloat(field)
		if err != nil {
			numeric = false
			break
		}
		values[r] = v
	}

	for r, rec := range records {
		field := rec[c]
		switch {
		case IsMissingToken(field):
			rows[r][c] = Missing()
		case numeric:
			rows[r][c] = Number(field, values[r])
		default:
			rows[r][c] = String(field)
		}
	}
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	// strconv accepts forms a tabular reader does not
	if strings.ContainsAny(s, "_xXpP") {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(s, 64)
}

// dedupeColumns suffixes repeated header names with .1, .2, ... in order
func dedupeColumns(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	counts := make(map[string]int, len(header))
	for i, name := range header {
		candidate := name
		for {
			if _, dup := seen[candidate]; !dup {
				break
			}
			counts[name]++
			candidate = fmt.Sprintf("%s.%d", name, counts[name])
		}
		seen[candidate] = struct{}{}
		out[i] = candidate
	}
	return out
}

func toParseError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Line: csvErr.Line, Err: csvErr.Err}
	}
	return &ParseError{Err: err}
}
