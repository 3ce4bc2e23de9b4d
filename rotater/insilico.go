package rotater

import (
	"context"
	"fmt"

	"github.com/hupe1980/antnav/core"
	"github.com/hupe1980/antnav/imgproc"
)

// InSilicoOption configures an in-silico rotation scan.
type InSilicoOption func(*inSilicoOptions)

type inSilicoOptions struct {
	step       int
	begin, end int
	hasRange   bool
}

// WithScanStep sets the number of columns between successive rotations.
func WithScanStep(step int) InSilicoOption {
	return func(o *inSilicoOptions) {
		o.step = step
	}
}

// WithColumnRange restricts the scan to roll offsets in [begin, end).
func WithColumnRange(begin, end int) InSilicoOption {
	return func(o *inSilicoOptions) {
		o.begin, o.end = begin, end
		o.hasRange = true
	}
}

// InSilicoSource produces rotaters that roll a copy of one panorama.
type InSilicoSource[T imgproc.Pixel] struct {
	image *imgproc.Image[T]
	opts  inSilicoOptions
}

// InSilico returns a Source that scans img by circular column rolls.
// Rotation i is img rolled left by begin + i*step columns.
func InSilico[T imgproc.Pixel](img *imgproc.Image[T], opts ...InSilicoOption) *InSilicoSource[T] {
	o := inSilicoOptions{step: 1}
	for _, fn := range opts {
		fn(&o)
	}
	return &InSilicoSource[T]{image: img, opts: o}
}

// NewRotater implements Source.
func (s *InSilicoSource[T]) NewRotater(size imgproc.Size, mask imgproc.Mask) (Rotater[T], error) {
	if s.image == nil {
		return nil, fmt.Errorf("%w: no query image", core.ErrPrecondition)
	}
	if err := core.CheckSize("query image", size, s.image.Size()); err != nil {
		return nil, err
	}
	if err := mask.Check(size); err != nil {
		return nil, err
	}

	begin, end := 0, size.Width
	if s.opts.hasRange {
		begin, end = s.opts.begin, s.opts.end
	}
	if begin < 0 || end > size.Width || begin >= end {
		return nil, fmt.Errorf("%w: column range [%d, %d) outside [0, %d)", core.ErrPrecondition, begin, end, size.Width)
	}
	if s.opts.step < 1 {
		return nil, fmt.Errorf("%w: scan step must be positive, got %d", core.ErrPrecondition, s.opts.step)
	}

	return &InSilicoRotater[T]{
		image: s.image.Clone(),
		mask:  mask,
		step:  s.opts.step,
		begin: begin,
		end:   end,
	}, nil
}

// InSilicoRotater rolls its own copy of the query in place. It is not safe
// for concurrent use.
type InSilicoRotater[T imgproc.Pixel] struct {
	image      *imgproc.Image[T]
	mask       imgproc.Mask
	step       int
	begin, end int
	scratch    []T
	rolled     int
}

// NumRotations implements Rotater.
func (r *InSilicoRotater[T]) NumRotations() int {
	return (r.end - r.begin + r.step - 1) / r.step
}

// Rotate implements Rotater. The frame passed to fn is the rotater's
// working copy and is rolled further after fn returns.
func (r *InSilicoRotater[T]) Rotate(ctx context.Context, fn VisitFunc[T]) error {
	// Undo a previous scan so repeated calls start from the same view.
	if r.rolled != 0 {
		r.scratch = r.image.RollLeft(-r.rolled, r.scratch)
		r.rolled = 0
	}

	r.roll(r.begin)
	mask := r.mask.RollLeft(r.begin)

	n := r.NumRotations()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(r.image, mask, i); err != nil {
			return err
		}
		if i+1 < n {
			r.roll(r.step)
			mask = mask.RollLeft(r.step)
		}
	}
	return nil
}

// ColumnToHeading implements Rotater.
func (r *InSilicoRotater[T]) ColumnToHeading(i int) float64 {
	col := r.begin + i*r.step
	return core.WrapDegrees(360 * float64(col) / float64(r.image.Width))
}

func (r *InSilicoRotater[T]) roll(step int) {
	if step == 0 {
		return
	}
	r.scratch = r.image.RollLeft(step, r.scratch)
	r.rolled = (r.rolled + step) % r.image.Width
}
