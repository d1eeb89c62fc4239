package pairwire

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat matches every *FormatError.
	ErrInvalidFormat = errors.New("pairwire: invalid format")

	// ErrTooLarge is returned when a key or value is longer than the
	// configured MaxLength, both when encoding and when decoding.
	ErrTooLarge = errors.New("pairwire: length exceeds maximum")
)

// FormatError reports where decoding stopped and why. Err, when set, is a
// more specific sentinel such as ErrTooLarge.
type FormatError struct {
	Offset int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("pairwire: format error at offset %d: %s", e.Offset, e.Reason)
}

func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidFormat}
	}
	return []error{ErrInvalidFormat, e.Err}
}
