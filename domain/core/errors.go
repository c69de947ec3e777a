package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Sequence errors
	ErrInvalidSequence = errors.New("invalid binary sequence")
	ErrEmptySequence   = fmt.Errorf("%w: zero length", ErrInvalidSequence)

	// Eligibility errors
	ErrIneligible = errors.New("test not eligible for sequence")
)

// Error constructors with context
func NewInvalidSymbolError(index int, value uint8) error {
	return fmt.Errorf("%w: symbol %d at index %d is not in {0,1}", ErrInvalidSequence, value, index)
}

func NewMinLengthError(test string, minLength, gotLength int) error {
	return fmt.Errorf("%w: %s requires at least %d bits, got %d", ErrIneligible, test, minLength, gotLength)
}

func NewDegenerateParamsError(test string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrIneligible, test, reason)
}

// Error checking helpers
func IsInvalidSequence(err error) bool {
	return errors.Is(err, ErrInvalidSequence)
}

func IsIneligible(err error) bool {
	return errors.Is(err, ErrIneligible)
}
