package perfectmemory

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/antnav/core"
	"github.com/hupe1980/antnav/differencer"
	"github.com/hupe1980/antnav/imgproc"
	"github.com/hupe1980/antnav/rotater"
)

// Result is the outcome of a heading estimate.
type Result struct {
	core.Estimate

	// Snapshots lists the snapshots the selector used, best first.
	Snapshots []int

	// Matches holds each snapshot's RIDF minimum, in snapshot order.
	Matches []Match

	// Differences is the [snapshot][rotation] difference matrix. It is
	// owned by the Rotater and overwritten by the next query.
	Differences [][]float32
}

// Rotater estimates headings by scanning rotations of a query against
// every snapshot.
type Rotater[T imgproc.Pixel] struct {
	*PerfectMemory[T]

	workers  int
	selector Selector

	// matrix rows are grown as snapshots are added and never shrunk.
	matrix  [][]float32
	workerD []differencer.Differencer[T]
	matches []Match
}

// NewRotater returns an empty rotation-scanning PerfectMemory.
func NewRotater[T imgproc.Pixel](size imgproc.Size, opts ...Option) (*Rotater[T], error) {
	pm, err := New[T](size, opts...)
	if err != nil {
		return nil, err
	}

	workers := pm.opts.workers
	if workers < 1 {
		workers = 1
	}

	return &Rotater[T]{
		PerfectMemory: pm,
		workers:       workers,
		selector:      pm.opts.selector,
	}, nil
}

// Workers returns the fan-out bound used during scans.
func (r *Rotater[T]) Workers() int {
	return r.workers
}

// ImageDifferences fills the [snapshot][rotation] difference matrix for the
// rotations src produces. The matrix is valid until the next call.
func (r *Rotater[T]) ImageDifferences(ctx context.Context, src rotater.Source[T]) ([][]float32, error) {
	rot, err := r.newRotater(src)
	if err != nil {
		return nil, err
	}
	if err := r.calcImageDifferences(ctx, rot); err != nil {
		return nil, err
	}
	return r.matrix[:r.NumSnapshots()], nil
}

// Heading estimates the heading of the query src produces.
func (r *Rotater[T]) Heading(ctx context.Context, src rotater.Source[T]) (Result, error) {
	rot, err := r.newRotater(src)
	if err != nil {
		return Result{}, err
	}
	if err := r.calcImageDifferences(ctx, rot); err != nil {
		return Result{}, err
	}

	n := r.NumSnapshots()
	matrix := r.matrix[:n]

	if cap(r.matches) < n {
		r.matches = make([]Match, n)
	}
	r.matches = r.matches[:n]
	for s, row := range matrix {
		best := 0
		for i, d := range row[1:] {
			if d < row[best] {
				best = i + 1
			}
		}
		r.matches[s] = Match{Snapshot: s, Rotation: best, Difference: row[best]}
	}

	sel, err := r.selector.Select(r.matches, rot.ColumnToHeading)
	if err != nil {
		return Result{}, err
	}

	r.logger.Debug("heading estimated",
		"heading", sel.Estimate.Heading,
		"snapshot", sel.Estimate.Snapshot,
		"difference", sel.Estimate.Score,
		"rotations", rot.NumRotations(),
	)

	return Result{
		Estimate:    sel.Estimate,
		Snapshots:   sel.Snapshots,
		Matches:     r.matches,
		Differences: matrix,
	}, nil
}

// EstimateHeading returns only the estimate of Heading.
func (r *Rotater[T]) EstimateHeading(ctx context.Context, src rotater.Source[T]) (core.Estimate, error) {
	res, err := r.Heading(ctx, src)
	if err != nil {
		return core.Estimate{}, err
	}
	return res.Estimate, nil
}

// ResetDifferences releases the difference matrix.
func (r *Rotater[T]) ResetDifferences() {
	r.matrix = nil
	r.matches = nil
}

// ClearMemory drops every snapshot and the difference matrix.
func (r *Rotater[T]) ClearMemory() {
	r.PerfectMemory.ClearMemory()
	r.ResetDifferences()
}

func (r *Rotater[T]) newRotater(src rotater.Source[T]) (rotater.Rotater[T], error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil rotation source", core.ErrPrecondition)
	}
	if r.NumSnapshots() == 0 {
		return nil, core.ErrEmptyStore
	}
	rot, err := src.NewRotater(r.Resolution(), r.mask)
	if err != nil {
		return nil, err
	}
	if rot.NumRotations() < 1 {
		return nil, fmt.Errorf("%w: rotater yields no rotations", core.ErrPrecondition)
	}
	return rot, nil
}

func (r *Rotater[T]) calcImageDifferences(ctx context.Context, rot rotater.Rotater[T]) error {
	numSnapshots := r.NumSnapshots()
	numRotations := rot.NumRotations()

	for len(r.matrix) < numSnapshots {
		r.matrix = append(r.matrix, nil)
	}
	for s := range r.matrix[:numSnapshots] {
		if cap(r.matrix[s]) < numRotations {
			r.matrix[s] = make([]float32, numRotations)
		}
		r.matrix[s] = r.matrix[s][:numRotations]
	}

	workers := min(r.workers, numSnapshots)
	for len(r.workerD) < workers {
		r.workerD = append(r.workerD, r.factory())
	}
	chunk := (numSnapshots + workers - 1) / workers

	return rot.Rotate(ctx, func(frame *imgproc.Image[T], frameMask imgproc.Mask, i int) error {
		// Every snapshot shares r.mask, so the combined mask is built once
		// per rotation.
		mask, err := imgproc.Combine(frameMask, r.mask)
		if err != nil {
			return err
		}
		mask = mask.Prepared()

		if workers == 1 {
			return r.fillColumn(r.workerD[0], frame, mask, i, 0, numSnapshots)
		}

		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for w := 0; w < workers; w++ {
			start := w * chunk
			end := min(start+chunk, numSnapshots)
			if start >= end {
				break
			}
			d := r.workerD[w]
			g.Go(func() error {
				return r.fillColumn(d, frame, mask, i, start, end)
			})
		}
		return g.Wait()
	})
}

// fillColumn computes rotation i for snapshots [start, end). mask already
// includes the snapshot-side mask.
func (r *Rotater[T]) fillColumn(d differencer.Differencer[T], frame *imgproc.Image[T], mask imgproc.Mask, i, start, end int) error {
	for s := start; s < end; s++ {
		snap, err := r.store.At(s)
		if err != nil {
			return err
		}
		diff, err := d.Difference(frame, snap, mask, imgproc.Mask{})
		if err != nil {
			return fmt.Errorf("snapshot %d, rotation %d: %w", s, i, err)
		}
		r.matrix[s][i] = diff
	}
	return nil
}
