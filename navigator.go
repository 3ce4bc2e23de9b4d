package antnav

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/antnav/blobstore"
	"github.com/hupe1980/antnav/core"
	"github.com/hupe1980/antnav/imgproc"
	"github.com/hupe1980/antnav/rotater"
	"github.com/hupe1980/antnav/routedb"
)

// Algorithm is a trainable familiarity model that can estimate headings.
// *perfectmemory.Rotater[uint8] and *infomax.Rotater implement it.
type Algorithm interface {
	// Resolution returns the image size the algorithm accepts.
	Resolution() imgproc.Size
	// Train adds one view to memory.
	Train(img *imgproc.Gray) error
	// Test returns how unfamiliar img is; lower is more familiar.
	Test(img *imgproc.Gray) (float32, error)
	// ClearMemory forgets everything learned.
	ClearMemory()
	// EstimateHeading scans the rotations of src for the most familiar one.
	EstimateHeading(ctx context.Context, src rotater.Source[uint8]) (core.Estimate, error)
}

type snapshotCounter interface {
	NumSnapshots() int
}

// Navigator wraps an Algorithm with locking, logging and metrics. It is
// safe for concurrent use; calls are serialised.
type Navigator[A Algorithm] struct {
	mu      sync.Mutex
	algo    A
	logger  *Logger
	metrics MetricsCollector
	opts    options
	trained int
}

// New returns a Navigator for algo.
func New[A Algorithm](algo A, optFns ...Option) *Navigator[A] {
	opts := options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.logger
	if logger == nil {
		logger = NoopLogger()
	}
	if opts.name != "" {
		logger = logger.WithAlgorithm(opts.name)
	}

	metrics := opts.metricsCollector
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}

	return &Navigator[A]{
		algo:    algo,
		logger:  logger,
		metrics: metrics,
		opts:    opts,
	}
}

// Algorithm returns the wrapped algorithm. Callers must not use it
// concurrently with the Navigator.
func (n *Navigator[A]) Algorithm() A {
	return n.algo
}

// Resolution returns the image size the navigator accepts.
func (n *Navigator[A]) Resolution() imgproc.Size {
	return n.algo.Resolution()
}

// Trained returns the number of successful training steps since the last
// clear.
func (n *Navigator[A]) Trained() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.trained
}

// Train adds img to memory and, with a recorder configured, saves it.
func (n *Navigator[A]) Train(ctx context.Context, img *imgproc.Gray) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.train(ctx, img, true)
}

// train records img before learning it so that a failure at either step
// leaves both memory and the recorded route unchanged.
func (n *Navigator[A]) train(ctx context.Context, img *imgproc.Gray, record bool) error {
	start := time.Now()
	err := n.trainAndRecord(ctx, img, record)
	if err == nil {
		n.trained++
	}
	n.metrics.RecordTrain(time.Since(start), err)
	n.logger.LogTrain(ctx, n.size(), err)
	return err
}

func (n *Navigator[A]) trainAndRecord(ctx context.Context, img *imgproc.Gray, record bool) error {
	rec := n.opts.recorder
	if !record || rec == nil {
		return n.algo.Train(img)
	}

	idx, err := rec.Record(ctx, img)
	if err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	if err := n.algo.Train(img); err != nil {
		if discardErr := rec.Discard(ctx, idx); discardErr != nil {
			return errors.Join(err, fmt.Errorf("discard recorded snapshot %d: %w", idx, discardErr))
		}
		return err
	}
	return nil
}

func (n *Navigator[A]) size() int {
	if c, ok := any(n.algo).(snapshotCounter); ok {
		return c.NumSnapshots()
	}
	return n.trained
}

// Test returns the unfamiliarity of img.
func (n *Navigator[A]) Test(ctx context.Context, img *imgproc.Gray) (float32, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	start := time.Now()
	v, err := n.algo.Test(img)
	n.metrics.RecordTest(time.Since(start), err)
	n.logger.LogTest(ctx, v, err)
	return v, err
}

// ClearMemory forgets everything learned.
func (n *Navigator[A]) ClearMemory(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.algo.ClearMemory()
	n.trained = 0
	n.metrics.RecordClear()
	n.logger.LogClear(ctx)
}

// Heading estimates the heading of a panoramic query by rolling its
// columns.
func (n *Navigator[A]) Heading(ctx context.Context, query *imgproc.Gray, opts ...rotater.InSilicoOption) (core.Estimate, error) {
	if query == nil {
		return core.Estimate{}, fmt.Errorf("%w: nil query", core.ErrPrecondition)
	}
	return n.HeadingFrom(ctx, rotater.InSilico(query, opts...))
}

// HeadingFrom estimates a heading from an arbitrary rotation source.
func (n *Navigator[A]) HeadingFrom(ctx context.Context, src rotater.Source[uint8]) (core.Estimate, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if src == nil {
		return core.Estimate{}, fmt.Errorf("%w: nil rotation source", core.ErrPrecondition)
	}

	rotations := 0
	counted := rotater.SourceFunc[uint8](func(size imgproc.Size, mask imgproc.Mask) (rotater.Rotater[uint8], error) {
		rot, err := src.NewRotater(size, mask)
		if err == nil {
			rotations = rot.NumRotations()
		}
		return rot, err
	})

	start := time.Now()
	est, err := n.algo.EstimateHeading(ctx, counted)
	if err != nil {
		rotations = 0
	}
	n.metrics.RecordHeading(rotations, time.Since(start), err)
	n.logger.LogHeading(ctx, est.Heading, est.Snapshot, est.Score, err)
	return est, err
}

// TrainRoute trains on images in order. It stops at the first error and
// reports how many images were trained.
func (n *Navigator[A]) TrainRoute(ctx context.Context, images []*imgproc.Gray) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	count := 0
	for _, img := range images {
		if err := n.trainRouteImage(ctx, img, true); err != nil {
			n.logger.LogRoute(ctx, "", count, err)
			return count, err
		}
		count++
	}
	n.logger.LogRoute(ctx, "", count, nil)
	return count, nil
}

// LoadRoute trains on every snapshot of a stored route, in index order.
// Loaded snapshots are not passed to the recorder.
func (n *Navigator[A]) LoadRoute(ctx context.Context, store blobstore.BlobStore, route string, opts ...routedb.Option) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.opts.resizeRoute {
		opts = append(opts, routedb.WithResolution(n.algo.Resolution()))
	}

	count := 0
	err := routedb.Walk(ctx, store, route, func(_ int, img *imgproc.Gray) error {
		if err := n.trainRouteImage(ctx, img, false); err != nil {
			return err
		}
		count++
		return nil
	}, opts...)
	n.logger.LogRoute(ctx, route, count, err)
	return count, err
}

func (n *Navigator[A]) trainRouteImage(ctx context.Context, img *imgproc.Gray, record bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if img == nil {
		return fmt.Errorf("%w: nil route image", core.ErrPrecondition)
	}
	if size := n.algo.Resolution(); n.opts.resizeRoute && img.Size() != size {
		resized, err := imgproc.Resize(img, size)
		if err != nil {
			return err
		}
		img = resized
	}
	return n.train(ctx, img, record)
}
