// Package rotater produces the sequence of candidate views scanned when
// estimating a heading.
//
// A Rotater yields one frame per candidate heading together with the mask
// that applies to it. Two sources are provided: InSilico rolls the columns
// of a full panorama, and Rendered asks a Renderer for a fresh frame at
// each heading.
package rotater

import (
	"context"

	"github.com/hupe1980/antnav/imgproc"
)

// VisitFunc receives the i-th rotated frame and its mask. The frame is only
// valid for the duration of the call. Returning an error aborts the scan.
type VisitFunc[T imgproc.Pixel] func(frame *imgproc.Image[T], mask imgproc.Mask, i int) error

// Rotater enumerates the rotations of one query.
type Rotater[T imgproc.Pixel] interface {
	// NumRotations returns the number of frames Rotate produces.
	NumRotations() int

	// Rotate calls fn once per rotation in index order. ctx is checked
	// between rotations.
	Rotate(ctx context.Context, fn VisitFunc[T]) error

	// ColumnToHeading converts a rotation index to a heading in degrees,
	// wrapped into (-180, 180].
	ColumnToHeading(i int) float64
}

// Source creates a Rotater for a query. Engines call NewRotater with their
// configured resolution and mask once per heading estimate.
type Source[T imgproc.Pixel] interface {
	NewRotater(size imgproc.Size, mask imgproc.Mask) (Rotater[T], error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[T imgproc.Pixel] func(size imgproc.Size, mask imgproc.Mask) (Rotater[T], error)

// NewRotater implements Source.
func (f SourceFunc[T]) NewRotater(size imgproc.Size, mask imgproc.Mask) (Rotater[T], error) {
	return f(size, mask)
}
