package antnav

import "github.com/hupe1980/antnav/core"

// Sentinel errors, re-exported so callers only need this package for
// errors.Is checks.
var (
	ErrPrecondition          = core.ErrPrecondition
	ErrUnsupportedFormat     = core.ErrUnsupportedFormat
	ErrDegenerateInput       = core.ErrDegenerateInput
	ErrCapabilityUnavailable = core.ErrCapabilityUnavailable
	ErrEmptyStore            = core.ErrEmptyStore
)

// SizeMismatchError reports an image or mask of the wrong resolution.
type SizeMismatchError = core.SizeMismatchError

// UnsupportedFormatError reports a pixel type a differencer cannot handle.
type UnsupportedFormatError = core.UnsupportedFormatError
