package infomax

import (
	"context"
	"fmt"

	"github.com/hupe1980/antnav/core"
	"github.com/hupe1980/antnav/imgproc"
	"github.com/hupe1980/antnav/rotater"
)

// Result is the outcome of an InfoMax heading estimate.
type Result struct {
	core.Estimate

	// Novelty holds one value per rotation. It is owned by the Rotater and
	// overwritten by the next query.
	Novelty []float32
}

// Rotater estimates headings by scanning rotations of a query for the
// least novel one.
type Rotater struct {
	*InfoMax

	novelty []float32
}

// NewRotater returns a rotation-scanning InfoMax.
func NewRotater(size imgproc.Size, opts ...Option) (*Rotater, error) {
	im, err := New(size, opts...)
	if err != nil {
		return nil, err
	}
	return &Rotater{InfoMax: im}, nil
}

// ImageDifferences returns the novelty of every rotation src produces.
// The slice is valid until the next call.
func (r *Rotater) ImageDifferences(ctx context.Context, src rotater.Source[uint8]) ([]float32, error) {
	if _, err := r.scan(ctx, src); err != nil {
		return nil, err
	}
	return r.novelty, nil
}

// Heading returns the heading of the least novel rotation. Ties go to the
// earliest rotation.
func (r *Rotater) Heading(ctx context.Context, src rotater.Source[uint8]) (Result, error) {
	rot, err := r.scan(ctx, src)
	if err != nil {
		return Result{}, err
	}

	best := 0
	for i, n := range r.novelty {
		if n < r.novelty[best] {
			best = i
		}
	}

	return Result{
		Estimate: core.Estimate{
			Heading:  rot.ColumnToHeading(best),
			Snapshot: core.NoSnapshot,
			Score:    r.novelty[best],
		},
		Novelty: r.novelty,
	}, nil
}

// EstimateHeading returns only the estimate of Heading.
func (r *Rotater) EstimateHeading(ctx context.Context, src rotater.Source[uint8]) (core.Estimate, error) {
	res, err := r.Heading(ctx, src)
	if err != nil {
		return core.Estimate{}, err
	}
	return res.Estimate, nil
}

func (r *Rotater) scan(ctx context.Context, src rotater.Source[uint8]) (rotater.Rotater[uint8], error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil rotation source", core.ErrPrecondition)
	}
	rot, err := src.NewRotater(r.Resolution(), imgproc.Mask{})
	if err != nil {
		return nil, err
	}
	n := rot.NumRotations()
	if n < 1 {
		return nil, fmt.Errorf("%w: rotater yields no rotations", core.ErrPrecondition)
	}

	if cap(r.novelty) < n {
		r.novelty = make([]float32, n)
	}
	r.novelty = r.novelty[:n]

	err = rot.Rotate(ctx, func(frame *imgproc.Gray, _ imgproc.Mask, i int) error {
		v, err := r.Test(frame)
		if err != nil {
			return err
		}
		r.novelty[i] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rot, nil
}
