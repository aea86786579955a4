package dataprocessing

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when the upload has no header row
var ErrEmptyInput = errors.New("no columns to parse from file")

// ParseError reports text that is not valid delimited tabular data
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse csv: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse csv: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingColumnError reports a column that is not present in a table
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// IsParseError reports whether err carries a ParseError
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsMissingColumn reports whether err carries a MissingColumnError
func IsMissingColumn(err error) bool {
	var me *MissingColumnError
	return errors.As(err, &me)
}
