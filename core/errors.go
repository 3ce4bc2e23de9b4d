package core

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition indicates caller misuse: a dimension mismatch, an empty
	// store being queried or a side-channel of the wrong length.
	ErrPrecondition = errors.New("precondition violation")

	// ErrUnsupportedFormat is returned when a differencer is given a pixel
	// type it cannot handle.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrDegenerateInput is returned when an input has a property (such as a
	// constant value) that makes the requested measure undefined.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrCapabilityUnavailable is returned when an optional capability, such
	// as masked correlation, is requested but switched off.
	ErrCapabilityUnavailable = errors.New("capability unavailable")

	// ErrEmptyStore is returned when a query is made against an empty store.
	ErrEmptyStore = fmt.Errorf("%w: snapshot store is empty", ErrPrecondition)
)

// SizeMismatchError indicates an image or mask whose resolution differs from
// the configured one.
//
// errors.Is(err, ErrPrecondition) reports true for it.
type SizeMismatchError struct {
	What     string
	Expected Size
	Actual   Size
}

func (e *SizeMismatchError) Error() string {
	what := e.What
	if what == "" {
		what = "image"
	}
	return fmt.Sprintf("%s size mismatch: expected %s, got %s", what, e.Expected, e.Actual)
}

func (e *SizeMismatchError) Unwrap() error { return ErrPrecondition }

// CheckSize returns a *SizeMismatchError when actual differs from expected.
func CheckSize(what string, expected, actual Size) error {
	if expected != actual {
		return &SizeMismatchError{What: what, Expected: expected, Actual: actual}
	}
	return nil
}

// UnsupportedFormatError reports the offending pixel type.
//
// errors.Is(err, ErrUnsupportedFormat) reports true for it.
type UnsupportedFormatError struct {
	Type string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported pixel type: %s", e.Type)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }
