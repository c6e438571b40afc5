package invoice

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyData means the loaded table has no rows.
	ErrEmptyData = errors.New("the loaded data is empty")
	// ErrMissingColumn means a column needed for partitioning is absent.
	ErrMissingColumn = errors.New("column is missing in the loaded data")
	// ErrNotNumeric means a monetary column was never coerced to decimals.
	ErrNotNumeric = errors.New("column is not numeric")
)

// ValidationError reports a failed partition precondition.
type ValidationError struct {
	Column string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Column == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("'%s' %s", e.Column, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NumericConversionError reports a monetary cell that could not be parsed.
// Row is the 1-based data row (the header is not counted).
type NumericConversionError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *NumericConversionError) Error() string {
	return fmt.Sprintf("error converting columns to numeric: row %d column %q value %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *NumericConversionError) Unwrap() error { return e.Err }
