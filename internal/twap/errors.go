package twap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for empty or unsorted input and bad window sets.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedRecord is returned when a source record cannot be parsed.
	ErrMalformedRecord = errors.New("malformed record")
)

// RecordError identifies the offending record in a source payload.
type RecordError struct {
	Index int    // position in the source array
	Field string // "timestamp" or "value"
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("malformed record at index %d (%s): %v", e.Index, e.Field, e.Err)
}

// Unwrap lets errors.Is match both ErrMalformedRecord and the underlying cause.
func (e *RecordError) Unwrap() []error {
	return []error{ErrMalformedRecord, e.Err}
}
