package core

import (
	"errors"
	"fmt"
)

// ErrEmptyAnalysis is returned when the input normalizes to zero records.
var ErrEmptyAnalysis = errors.New("no records left to analyze after cleaning")

// ErrInvalidThreshold is returned when a threshold falls outside (0, 1].
var ErrInvalidThreshold = errors.New("threshold must be greater than 0 and at most 1")

// ErrInvalidTopItems is returned when the number of item stats to keep is negative.
var ErrInvalidTopItems = errors.New("top items must not be negative")

// InvalidInputError reports a malformed input record.
type InvalidInputError struct {
	Index  int    // position of the offending record, -1 when not tied to one record
	Field  string // offending field name, empty when the whole record is bad
	Reason string
}

func (e *InvalidInputError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("invalid input: %s", e.Reason)
	case e.Field != "":
		return fmt.Sprintf("invalid input: record %d field %q: %s", e.Index, e.Field, e.Reason)
	default:
		return fmt.Sprintf("invalid input: record %d: %s", e.Index, e.Reason)
	}
}

// IsInvalidInput reports whether err wraps an *InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}
