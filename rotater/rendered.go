package rotater

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/hupe1980/antnav/core"
	"github.com/hupe1980/antnav/imgproc"
)

// Renderer draws the view at a heading, in degrees, into dst.
type Renderer[T imgproc.Pixel] interface {
	Render(ctx context.Context, heading float64, dst *imgproc.Image[T]) error
}

// RenderFunc adapts a function to the Renderer interface.
type RenderFunc[T imgproc.Pixel] func(ctx context.Context, heading float64, dst *imgproc.Image[T]) error

// Render implements Renderer.
func (f RenderFunc[T]) Render(ctx context.Context, heading float64, dst *imgproc.Image[T]) error {
	return f(ctx, heading, dst)
}

// RenderedOption configures a rendered rotation scan.
type RenderedOption func(*renderedOptions)

type renderedOptions struct {
	limit rate.Limit
	burst int
}

// WithRateLimit caps renderer calls at limit per second with the given
// burst. The limit is shared by every rotater the source creates.
func WithRateLimit(limit rate.Limit, burst int) RenderedOption {
	return func(o *renderedOptions) {
		o.limit = limit
		o.burst = burst
	}
}

// RenderedSource produces rotaters that render one frame per heading.
type RenderedSource[T imgproc.Pixel] struct {
	renderer Renderer[T]
	headings []float64
	limiter  *rate.Limiter
}

// Rendered returns a Source that samples renderer at the given headings.
// Masks are fixed to the camera and are not rotated.
func Rendered[T imgproc.Pixel](renderer Renderer[T], headings []float64, opts ...RenderedOption) *RenderedSource[T] {
	var o renderedOptions
	for _, fn := range opts {
		fn(&o)
	}

	s := &RenderedSource[T]{
		renderer: renderer,
		headings: append([]float64(nil), headings...),
	}
	if o.limit > 0 {
		burst := o.burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(o.limit, burst)
	}
	return s
}

// UniformHeadings returns n headings evenly spaced over a full turn,
// starting at 0.
func UniformHeadings(n int) []float64 {
	headings := make([]float64, n)
	for i := range headings {
		headings[i] = 360 * float64(i) / float64(n)
	}
	return headings
}

// NewRotater implements Source.
func (s *RenderedSource[T]) NewRotater(size imgproc.Size, mask imgproc.Mask) (Rotater[T], error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("%w: no renderer", core.ErrPrecondition)
	}
	if len(s.headings) == 0 {
		return nil, fmt.Errorf("%w: no headings to render", core.ErrPrecondition)
	}
	if size.Empty() {
		return nil, fmt.Errorf("%w: invalid frame size %s", core.ErrPrecondition, size)
	}
	if err := mask.Check(size); err != nil {
		return nil, err
	}

	return &RenderedRotater[T]{
		source: s,
		frame:  imgproc.New[T](size),
		mask:   mask,
	}, nil
}

// RenderedRotater renders into a single reused frame. It is not safe for
// concurrent use.
type RenderedRotater[T imgproc.Pixel] struct {
	source *RenderedSource[T]
	frame  *imgproc.Image[T]
	mask   imgproc.Mask
}

// NumRotations implements Rotater.
func (r *RenderedRotater[T]) NumRotations() int {
	return len(r.source.headings)
}

// Rotate implements Rotater.
func (r *RenderedRotater[T]) Rotate(ctx context.Context, fn VisitFunc[T]) error {
	for i, heading := range r.source.headings {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.source.limiter != nil {
			if err := r.source.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		if err := r.source.renderer.Render(ctx, heading, r.frame); err != nil {
			return fmt.Errorf("render heading %.2f: %w", heading, err)
		}
		if err := fn(r.frame, r.mask, i); err != nil {
			return err
		}
	}
	return nil
}

// ColumnToHeading implements Rotater.
func (r *RenderedRotater[T]) ColumnToHeading(i int) float64 {
	return core.WrapDegrees(r.source.headings[i])
}
