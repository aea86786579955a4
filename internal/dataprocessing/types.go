package dataprocessing

import (
	"fmt"
	"time"
)

// Kind identifies which variant a Cell holds.
type Kind uint8

const (
	KindMissing Kind = iota
	KindString
	KindNumber
	KindDate
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "missing"
	}
}

// Cell is a single table value. It is one of missing, string, number or date.
// Non-missing cells keep the text they were parsed from.
type Cell struct {
	kind Kind
	raw  string
	num  float64
	date time.Time
}

// Missing returns the missing marker
func Missing() Cell {
	return Cell{kind: KindMissing}
}

// String returns a string cell
func String(s string) Cell {
	return Cell{kind: KindString, raw: s}
}

// Number returns a numeric cell parsed from raw
func Number(raw string, v float64) Cell {
	return Cell{kind: KindNumber, raw: raw, num: v}
}

// Date returns a date cell parsed from raw
func Date(raw string, t time.Time) Cell {
	return Cell{kind: KindDate, raw: raw, date: t}
}

// Kind reports the variant held by the cell
func (c Cell) Kind() Kind { return c.kind }

// IsMissing reports whether the cell is the missing marker
func (c Cell) IsMissing() bool { return c.kind == KindMissing }

// Raw returns the source text, or "" for missing cells
func (c Cell) Raw() string { return c.raw }

// Float returns the numeric value when the cell is a number
func (c Cell) Float() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.num, true
}

// Time returns the date value when the cell is a date
func (c Cell) Time() (time.Time, bool) {
	if c.kind != KindDate {
		return time.Time{}, false
	}
	return c.date, true
}

// Text renders the cell for display. Missing cells render as "NaN" and dates
// without a clock component render as YYYY-MM-DD.
func (c Cell) Text() string {
	switch c.kind {
	case KindMissing:
		return "NaN"
	case KindDate:
		if c.date.Hour() == 0 && c.date.Minute() == 0 && c.date.Second() == 0 && c.date.Nanosecond() == 0 {
			return c.date.Format("2006-01-02")
		}
		return c.date.Format("2006-01-02 15:04:05")
	default:
		return c.raw
	}
}

// Table is an ordered sequence of rows keyed by unique column names.
// Row order is the order of the source file. Tables are not modified after
// construction; transformations return new tables.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Cell
}

func newTable(columns []string, rows [][]Cell) *Table {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		index[name] = i
	}
	return &Table{columns: columns, index: index, rows: rows}
}

// Columns returns the column names in header order
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// NumRows returns the number of data rows
func (t *Table) NumRows() int { return len(t.rows) }

// NumCols returns the number of columns
func (t *Table) NumCols() int { return len(t.columns) }

// Shape returns (rows, columns)
func (t *Table) Shape() (int, int) { return len(t.rows), len(t.columns) }

// HasColumn reports whether name is a column of the table
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the cells of the named column in row order
func (t *Table) Column(name string) ([]Cell, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, &MissingColumnError{Column: name}
	}
	out := make([]Cell, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out, nil
}

// Cell returns the value at row r of the named column
func (t *Table) Cell(r int, name string) (Cell, error) {
	i, ok := t.index[name]
	if !ok {
		return Cell{}, &MissingColumnError{Column: name}
	}
	if r < 0 || r >= len(t.rows) {
		return Cell{}, fmt.Errorf("row %d out of range [0,%d)", r, len(t.rows))
	}
	return t.rows[r][i], nil
}

// Head returns a table with at most the first n rows
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.rows) {
		n = len(t.rows)
	}
	return newTable(t.columns, t.rows[:n])
}

// Records renders every row as display strings, in column order
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.rows))
	for r, row := range t.rows {
		rec := make([]string, len(row))
		for c, cell := range row {
			rec[c] = cell.Text()
		}
		out[r] = rec
	}
	return out
}

// IsNumeric reports whether the named column holds only numbers and missing
// markers, with at least one number.
func (t *Table) IsNumeric(name string) bool {
	i, ok := t.index[name]
	if !ok {
		return false
	}
	seen := false
	for _, row := range t.rows {
		switch row[i].kind {
		case KindNumber:
			seen = true
		case KindMissing:
		default:
			return false
		}
	}
	return seen
}

// replaceColumn returns a copy of t with column i replaced by cells
func (t *Table) replaceColumn(i int, cells []Cell) *Table {
	rows := make([][]Cell, len(t.rows))
	for r, row := range t.rows {
		next := make([]Cell, len(row))
		copy(next, row)
		next[i] = cells[r]
		rows[r] = next
	}
	return newTable(t.columns, rows)
}
