// Package imgproc provides the single-channel image and mask types used by
// the navigation algorithms.
//
// An Image is a row-major slice of pixels with stride equal to its width. Its
// pixel type is a generic parameter so the per-pixel loops in differencers
// are specialised at compile time.
package imgproc

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hupe1980/antnav/core"
)

// Size is the resolution of an image.
type Size = core.Size

// Pixel is the set of supported single-channel pixel types.
type Pixel interface {
	~uint8 | ~uint16 | ~float32 | ~float64
}

// Image is a single-channel image with pixels stored row by row.
type Image[T Pixel] struct {
	Width  int
	Height int
	Pix    []T
}

// Gray is an 8-bit unsigned single-channel image.
type Gray = Image[uint8]

// Gray32F is a 32-bit float single-channel image.
type Gray32F = Image[float32]

// New allocates a zeroed image of the given size.
func New[T Pixel](size Size) *Image[T] {
	return &Image[T]{
		Width:  size.Width,
		Height: size.Height,
		Pix:    make([]T, size.Pixels()),
	}
}

// FromPix wraps pix as an image. pix is not copied.
func FromPix[T Pixel](size Size, pix []T) (*Image[T], error) {
	if size.Empty() {
		return nil, fmt.Errorf("%w: invalid image size %s", core.ErrPrecondition, size)
	}
	if len(pix) != size.Pixels() {
		return nil, fmt.Errorf("%w: %d pixels given for %s image", core.ErrPrecondition, len(pix), size)
	}
	return &Image[T]{Width: size.Width, Height: size.Height, Pix: pix}, nil
}

// Size returns the image resolution.
func (m *Image[T]) Size() Size {
	return Size{Width: m.Width, Height: m.Height}
}

// At returns the pixel at column x, row y.
func (m *Image[T]) At(x, y int) T {
	return m.Pix[y*m.Width+x]
}

// Set writes the pixel at column x, row y.
func (m *Image[T]) Set(x, y int, v T) {
	m.Pix[y*m.Width+x] = v
}

// Row returns row y as a slice sharing the image's storage.
func (m *Image[T]) Row(y int) []T {
	return m.Pix[y*m.Width : (y+1)*m.Width]
}

// Clone returns a deep copy.
func (m *Image[T]) Clone() *Image[T] {
	pix := make([]T, len(m.Pix))
	copy(pix, m.Pix)
	return &Image[T]{Width: m.Width, Height: m.Height, Pix: pix}
}

// CopyFrom overwrites m with src. Both images must have the same size.
func (m *Image[T]) CopyFrom(src *Image[T]) error {
	if err := core.CheckSize("image", m.Size(), src.Size()); err != nil {
		return err
	}
	copy(m.Pix, src.Pix)
	return nil
}

// IsConstant reports whether every pixel has the same value.
func (m *Image[T]) IsConstant() bool {
	if len(m.Pix) == 0 {
		return true
	}
	first := m.Pix[0]
	for _, v := range m.Pix[1:] {
		if v != first {
			return false
		}
	}
	return true
}

// RollLeft circularly shifts every row left by step columns, in place.
//
// scratch holds the leading columns of a row while the remainder is moved
// down; it is grown if shorter than step and returned for reuse.
func (m *Image[T]) RollLeft(step int, scratch []T) []T {
	if m.Width == 0 {
		return scratch
	}
	step %= m.Width
	if step < 0 {
		step += m.Width
	}
	if step == 0 {
		return scratch
	}
	if cap(scratch) < step {
		scratch = make([]T, step)
	}
	scratch = scratch[:step]

	for y := 0; y < m.Height; y++ {
		row := m.Row(y)
		copy(scratch, row[:step])
		copy(row, row[step:])
		copy(row[m.Width-step:], scratch)
	}
	return scratch
}

// TypeName returns the name of the pixel type T.
func TypeName[T Pixel]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

// FromImage converts any image to 8-bit grey using the standard luminance
// model.
func FromImage(src image.Image) *Gray {
	b := src.Bounds()
	dst := New[uint8](Size{Width: b.Dx(), Height: b.Dy()})

	if g, ok := src.(*image.Gray); ok {
		for y := 0; y < dst.Height; y++ {
			off := g.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Row(y), g.Pix[off:off+dst.Width])
		}
		return dst
	}

	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			c := color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			dst.Set(x, y, c.Y)
		}
	}
	return dst
}

// ToImage returns m as an *image.Gray sharing no storage with m.
func ToImage(m *Gray) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		copy(g.Pix[y*g.Stride:y*g.Stride+m.Width], m.Row(y))
	}
	return g
}

// Normalize writes m's pixels scaled into [0, 1] to dst, which must hold at
// least m.Width*m.Height values.
func Normalize(m *Gray, dst []float64) {
	for i, v := range m.Pix {
		dst[i] = float64(v) / 255
	}
}
