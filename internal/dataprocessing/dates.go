package dataprocessing

import (
	"strings"
	"time"
)

// dateLayouts are tried in order when coercing a value to a date
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"20060102",
}

// ParseDate parses s with the first matching layout. Times are UTC unless
// the value carries an offset.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CoerceDates returns a copy of t whose column values are dates. Values that
// do not parse as a date become missing.
func CoerceDates(t *Table, column string) (*Table, error) {
	i, ok := t.index[column]
	if !ok {
		return nil, &MissingColumnError{Column: column}
	}

	cells := make([]Cell, len(t.rows))
	for r, row := range t.rows {
		cells[r] = coerceDate(row[i])
	}
	return t.replaceColumn(i, cells), nil
}

func coerceDate(c Cell) Cell {
	switch c.kind {
	case KindDate, KindMissing:
		return c
	}
	if d, ok := ParseDate(c.raw); ok {
		return Date(c.raw, d)
	}
	return Missing()
}
