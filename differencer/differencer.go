package differencer

import (
	"fmt"
	"strings"

	"github.com/hupe1980/antnav/core"
	"github.com/hupe1980/antnav/imgproc"
)

// Differencer computes a dissimilarity score between two images.
// Both images must share a size; a present mask must match it.
type Differencer[T imgproc.Pixel] interface {
	Difference(a, b *imgproc.Image[T], m1, m2 imgproc.Mask) (float32, error)
}

// Factory creates a fresh Differencer instance.
type Factory[T imgproc.Pixel] func() Differencer[T]

// Kind identifies a difference strategy.
type Kind int

const (
	KindAbsDiff Kind = iota
	KindRMSDiff
	KindCorrCoefficient
)

func (k Kind) String() string {
	switch k {
	case KindAbsDiff:
		return "AbsDiff"
	case KindRMSDiff:
		return "RMSDiff"
	case KindCorrCoefficient:
		return "CorrCoefficient"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// ParseKind parses a strategy name, case-insensitively. Short aliases
// "abs", "rms" and "corr" are accepted.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "absdiff", "abs":
		return KindAbsDiff, nil
	case "rmsdiff", "rms":
		return KindRMSDiff, nil
	case "corrcoefficient", "corr":
		return KindCorrCoefficient, nil
	default:
		return 0, fmt.Errorf("unknown differencer %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Option configures a differencer created by Provider.
type Option func(*options)

type options struct {
	maskSupport bool
}

// WithMaskSupport enables or disables masked correlation. Only
// CorrCoefficient honours it.
func WithMaskSupport(enabled bool) Option {
	return func(o *options) {
		o.maskSupport = enabled
	}
}

func applyOptions(opts []Option) options {
	o := options{maskSupport: true}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Provider returns a factory for the given strategy.
func Provider[T imgproc.Pixel](k Kind, opts ...Option) (Factory[T], error) {
	switch k {
	case KindAbsDiff:
		return func() Differencer[T] { return NewAbsDiff[T]() }, nil
	case KindRMSDiff:
		return func() Differencer[T] { return NewRMSDiff[T]() }, nil
	case KindCorrCoefficient:
		if err := checkCorrPixel[T](); err != nil {
			return nil, err
		}
		return func() Differencer[T] { return NewCorrCoefficient[T](opts...) }, nil
	default:
		return nil, fmt.Errorf("%w: unsupported differencer %v", core.ErrPrecondition, k)
	}
}

// prepare validates the operands and returns the effective mask together
// with its number of valid pixels.
func prepare[T imgproc.Pixel](a, b *imgproc.Image[T], m1, m2 imgproc.Mask) (imgproc.Mask, int, error) {
	size := a.Size()
	if size.Empty() {
		return imgproc.Mask{}, 0, fmt.Errorf("%w: empty image", core.ErrPrecondition)
	}
	if err := core.CheckSize("image", size, b.Size()); err != nil {
		return imgproc.Mask{}, 0, err
	}
	if err := m1.Check(size); err != nil {
		return imgproc.Mask{}, 0, err
	}
	if err := m2.Check(size); err != nil {
		return imgproc.Mask{}, 0, err
	}

	m, err := imgproc.Combine(m1, m2)
	if err != nil {
		return imgproc.Mask{}, 0, err
	}
	n := m.CountUnmasked(size)
	if n == 0 {
		return imgproc.Mask{}, 0, fmt.Errorf("%w: masks exclude every pixel", core.ErrPrecondition)
	}
	return m, n, nil
}
