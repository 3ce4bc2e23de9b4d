package perfectmemory

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/antnav/core"
	"github.com/hupe1980/antnav/differencer"
	"github.com/hupe1980/antnav/imgproc"
)

// PerfectMemory compares views against every stored snapshot without
// rotating them.
type PerfectMemory[T imgproc.Pixel] struct {
	store   *Store[T]
	mask    imgproc.Mask
	factory differencer.Factory[T]
	diff    differencer.Differencer[T]
	kind    differencer.Kind
	logger  *slog.Logger
	opts    options

	diffs []float32
}

// New returns an empty PerfectMemory for images of the given size.
func New[T imgproc.Pixel](size imgproc.Size, opts ...Option) (*PerfectMemory[T], error) {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	store, err := NewStore[T](size)
	if err != nil {
		return nil, err
	}
	if err := o.mask.Check(size); err != nil {
		return nil, err
	}
	factory, err := differencer.Provider[T](o.kind, o.diffOptions...)
	if err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &PerfectMemory[T]{
		store:   store,
		mask:    o.mask,
		factory: factory,
		diff:    factory(),
		kind:    o.kind,
		logger:  logger,
		opts:    o,
	}, nil
}

// Resolution returns the image size the memory accepts.
func (pm *PerfectMemory[T]) Resolution() imgproc.Size {
	return pm.store.Size()
}

// Mask returns the configured mask.
func (pm *PerfectMemory[T]) Mask() imgproc.Mask {
	return pm.mask
}

// Differencer returns the configured difference strategy.
func (pm *PerfectMemory[T]) Differencer() differencer.Kind {
	return pm.kind
}

// AddSnapshot stores a copy of img and returns its index.
func (pm *PerfectMemory[T]) AddSnapshot(img *imgproc.Image[T]) (int, error) {
	idx, err := pm.store.Add(img)
	if err != nil {
		return 0, err
	}
	pm.logger.Debug("snapshot added", "index", idx)
	return idx, nil
}

// Train stores img as a new snapshot.
func (pm *PerfectMemory[T]) Train(img *imgproc.Image[T]) error {
	_, err := pm.AddSnapshot(img)
	return err
}

// NumSnapshots returns the number of stored snapshots.
func (pm *PerfectMemory[T]) NumSnapshots() int {
	return pm.store.Len()
}

// Snapshot returns snapshot i. The image must not be modified.
func (pm *PerfectMemory[T]) Snapshot(i int) (*imgproc.Image[T], error) {
	return pm.store.At(i)
}

// CalcSnapshotDifference compares query, under queryMask, with snapshot i
// under the configured mask.
func (pm *PerfectMemory[T]) CalcSnapshotDifference(query *imgproc.Image[T], queryMask imgproc.Mask, i int) (float32, error) {
	return pm.snapshotDifference(pm.diff, query, queryMask, i)
}

func (pm *PerfectMemory[T]) snapshotDifference(d differencer.Differencer[T], query *imgproc.Image[T], queryMask imgproc.Mask, i int) (float32, error) {
	snap, err := pm.store.At(i)
	if err != nil {
		return 0, err
	}
	return d.Difference(query, snap, queryMask, pm.mask)
}

// Differences returns the difference of query to every snapshot, in
// snapshot order. The slice is reused by the next call.
func (pm *PerfectMemory[T]) Differences(query *imgproc.Image[T]) ([]float32, error) {
	if err := pm.checkQuery(query); err != nil {
		return nil, err
	}

	n := pm.store.Len()
	if cap(pm.diffs) < n {
		pm.diffs = make([]float32, n)
	}
	pm.diffs = pm.diffs[:n]

	for i := range pm.diffs {
		d, err := pm.CalcSnapshotDifference(query, pm.mask, i)
		if err != nil {
			return nil, fmt.Errorf("snapshot %d: %w", i, err)
		}
		pm.diffs[i] = d
	}
	return pm.diffs, nil
}

// Test returns the smallest difference between query and any snapshot.
func (pm *PerfectMemory[T]) Test(query *imgproc.Image[T]) (float32, error) {
	diffs, err := pm.Differences(query)
	if err != nil {
		return 0, err
	}

	best := diffs[0]
	for _, d := range diffs[1:] {
		if d < best {
			best = d
		}
	}
	return best, nil
}

// ClearMemory drops every snapshot.
func (pm *PerfectMemory[T]) ClearMemory() {
	pm.store.Clear()
	pm.logger.Debug("snapshots cleared")
}

func (pm *PerfectMemory[T]) checkQuery(query *imgproc.Image[T]) error {
	if query == nil {
		return fmt.Errorf("%w: nil query", core.ErrPrecondition)
	}
	if err := core.CheckSize("query image", pm.store.Size(), query.Size()); err != nil {
		return err
	}
	if pm.store.Len() == 0 {
		return core.ErrEmptyStore
	}
	return nil
}
