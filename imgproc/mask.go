package imgproc

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/antnav/core"
)

// Mask marks which pixels of an image take part in a comparison.
//
// The zero value is the absent mask: every pixel is valid. A present mask
// stores the indices of its invalid pixels, so combining masks is a union of
// those sets.
type Mask struct {
	size    Size
	invalid *roaring.Bitmap

	// runs caches the valid runs of a prepared mask.
	runs []run
}

type run struct{ start, end int }

// MaskFromImage builds a mask from img. Nonzero pixels are valid.
func MaskFromImage[T Pixel](img *Image[T]) (Mask, error) {
	if img == nil || img.Size().Empty() {
		return Mask{}, fmt.Errorf("%w: mask image is empty", core.ErrPrecondition)
	}

	invalid := roaring.New()
	for i, v := range img.Pix {
		if v == 0 {
			invalid.Add(uint32(i))
		}
	}
	invalid.RunOptimize()

	return Mask{size: img.Size(), invalid: invalid}, nil
}

// MaskFromInvalid builds a mask of the given size whose invalid pixels are
// the listed row-major indices.
func MaskFromInvalid(size Size, indices ...uint32) (Mask, error) {
	if size.Empty() {
		return Mask{}, fmt.Errorf("%w: invalid mask size %s", core.ErrPrecondition, size)
	}
	n := uint32(size.Pixels())
	for _, i := range indices {
		if i >= n {
			return Mask{}, fmt.Errorf("%w: mask index %d out of range for %s", core.ErrPrecondition, i, size)
		}
	}
	return Mask{size: size, invalid: roaring.BitmapOf(indices...)}, nil
}

// Empty reports whether the mask is absent.
func (m Mask) Empty() bool {
	return m.invalid == nil
}

// Size returns the resolution of a present mask, or the zero size.
func (m Mask) Size() Size {
	return m.size
}

// Check verifies a present mask matches size.
func (m Mask) Check(size Size) error {
	if m.Empty() {
		return nil
	}
	return core.CheckSize("mask", size, m.size)
}

// IsValid reports whether pixel i takes part in comparisons.
func (m Mask) IsValid(i int) bool {
	return m.invalid == nil || !m.invalid.Contains(uint32(i))
}

// CountUnmasked returns the number of valid pixels in an image of the given
// size.
func (m Mask) CountUnmasked(size Size) int {
	if m.Empty() {
		return size.Pixels()
	}
	return size.Pixels() - int(m.invalid.GetCardinality())
}

// Equal reports whether two masks select the same pixels.
func (m Mask) Equal(o Mask) bool {
	if m.Empty() || o.Empty() {
		return m.Empty() == o.Empty()
	}
	return m.size == o.size && m.invalid.Equals(o.invalid)
}

// Combine returns the mask whose valid pixels are valid in both a and b. An
// absent mask is the identity.
func Combine(a, b Mask) (Mask, error) {
	switch {
	case a.Empty():
		return b, nil
	case b.Empty():
		return a, nil
	}
	if err := core.CheckSize("mask", a.size, b.size); err != nil {
		return Mask{}, err
	}
	if a.invalid.Equals(b.invalid) {
		return a, nil
	}
	return Mask{size: a.size, invalid: roaring.Or(a.invalid, b.invalid)}, nil
}

// ValidRuns calls fn for each maximal run [start, end) of valid pixel
// indices in an image of n pixels, in ascending order.
func (m Mask) ValidRuns(n int, fn func(start, end int)) {
	if m.runs != nil && n == m.size.Pixels() {
		for _, r := range m.runs {
			fn(r.start, r.end)
		}
		return
	}
	if m.Empty() {
		if n > 0 {
			fn(0, n)
		}
		return
	}

	start := 0
	it := m.invalid.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		if i >= n {
			break
		}
		if i > start {
			fn(start, i)
		}
		start = i + 1
	}
	if start < n {
		fn(start, n)
	}
}

// Prepared returns m with its valid runs precomputed, so ValidRuns over
// the mask's full size neither walks nor allocates. Use it for a mask
// that is applied many times.
func (m Mask) Prepared() Mask {
	if m.Empty() || m.runs != nil {
		return m
	}
	runs := make([]run, 0, 8)
	m.ValidRuns(m.size.Pixels(), func(start, end int) {
		runs = append(runs, run{start, end})
	})
	m.runs = runs
	return m
}

// ApplyMask copies src to dst with masked-out pixels zeroed.
func ApplyMask[T Pixel](m Mask, src, dst *Image[T]) error {
	if err := core.CheckSize("image", src.Size(), dst.Size()); err != nil {
		return err
	}
	if err := m.Check(src.Size()); err != nil {
		return err
	}

	copy(dst.Pix, src.Pix)
	if m.Empty() {
		return nil
	}
	it := m.invalid.Iterator()
	for it.HasNext() {
		dst.Pix[it.Next()] = 0
	}
	return nil
}

// RollLeft returns the mask circularly shifted left by step columns, the
// same transformation Image.RollLeft applies to pixels.
func (m Mask) RollLeft(step int) Mask {
	if m.Empty() || m.size.Width == 0 {
		return m
	}
	w := m.size.Width
	step %= w
	if step < 0 {
		step += w
	}
	if step == 0 {
		return m
	}

	rolled := roaring.New()
	it := m.invalid.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		y, x := i/w, i%w
		x -= step
		if x < 0 {
			x += w
		}
		rolled.Add(uint32(y*w + x))
	}
	return Mask{size: m.size, invalid: rolled}
}

// Image renders a present mask as an 8-bit image with 255 for valid pixels
// and 0 for invalid ones. It returns nil for the absent mask.
func (m Mask) Image() *Gray {
	if m.Empty() {
		return nil
	}
	img := New[uint8](m.size)
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	it := m.invalid.Iterator()
	for it.HasNext() {
		img.Pix[it.Next()] = 0
	}
	return img
}

// String implements fmt.Stringer.
func (m Mask) String() string {
	if m.Empty() {
		return "Mask(absent)"
	}
	return fmt.Sprintf("Mask(%s, %d invalid)", m.size, m.invalid.GetCardinality())
}
