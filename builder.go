package antnav

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/antnav/differencer"
	"github.com/hupe1980/antnav/imgproc"
	"github.com/hupe1980/antnav/infomax"
	"github.com/hupe1980/antnav/perfectmemory"
	"github.com/hupe1980/antnav/routedb"
)

// This file implements fluent builders for navigators. Builders are
// immutable: each method returns a new builder with the updated
// configuration.

// common holds the Navigator settings shared by every builder.
type common struct {
	logger      *Logger
	metrics     MetricsCollector
	resizeRoute bool
	recorder    *routedb.Recorder
}

func (c common) navigatorOptions(name string) []Option {
	opts := []Option{
		WithName(name),
		WithResizeRoute(c.resizeRoute),
	}
	if c.logger != nil {
		opts = append(opts, WithLogger(c.logger))
	}
	if c.metrics != nil {
		opts = append(opts, WithMetricsCollector(c.metrics))
	}
	if c.recorder != nil {
		opts = append(opts, WithRecorder(c.recorder))
	}
	return opts
}

// =============================================================================
// Perfect Memory Builder (Immutable)
// =============================================================================

// PerfectMemory creates a builder for a snapshot-matching navigator with
// images of the given size.
//
// Example:
//
//	nav, err := antnav.PerfectMemory(imgproc.Size{Width: 180, Height: 50}).
//	    RMSDiff().
//	    Workers(4).
//	    WeightSnapshots(3).
//	    Build()
func PerfectMemory(size imgproc.Size) PerfectMemoryBuilder {
	return PerfectMemoryBuilder{
		size:        size,
		kind:        differencer.KindAbsDiff,
		maskSupport: true,
	}
}

// PerfectMemoryBuilder is an immutable fluent builder for perfect memory
// navigators.
type PerfectMemoryBuilder struct {
	common

	size        imgproc.Size
	kind        differencer.Kind
	maskSupport bool
	mask        imgproc.Mask
	workers     int
	selector    perfectmemory.Selector
}

// AbsDiff compares images by mean absolute difference. This is the default.
func (b PerfectMemoryBuilder) AbsDiff() PerfectMemoryBuilder {
	b.kind = differencer.KindAbsDiff
	return b
}

// RMSDiff compares images by root mean square difference.
func (b PerfectMemoryBuilder) RMSDiff() PerfectMemoryBuilder {
	b.kind = differencer.KindRMSDiff
	return b
}

// CorrCoefficient compares images by one minus the absolute correlation.
func (b PerfectMemoryBuilder) CorrCoefficient() PerfectMemoryBuilder {
	b.kind = differencer.KindCorrCoefficient
	return b
}

// Differencer selects the difference measure by kind.
func (b PerfectMemoryBuilder) Differencer(kind differencer.Kind) PerfectMemoryBuilder {
	b.kind = kind
	return b
}

// MaskSupport toggles masked comparisons for differencers that treat them
// as optional. Default: true.
func (b PerfectMemoryBuilder) MaskSupport(enabled bool) PerfectMemoryBuilder {
	b.maskSupport = enabled
	return b
}

// Mask excludes pixels from every comparison.
func (b PerfectMemoryBuilder) Mask(m imgproc.Mask) PerfectMemoryBuilder {
	b.mask = m
	return b
}

// Workers sets how many goroutines compare snapshots in parallel.
// Default: GOMAXPROCS.
func (b PerfectMemoryBuilder) Workers(n int) PerfectMemoryBuilder {
	b.workers = n
	return b
}

// BestMatchingSnapshot reports the heading of the single best match. This
// is the default.
func (b PerfectMemoryBuilder) BestMatchingSnapshot() PerfectMemoryBuilder {
	b.selector = perfectmemory.BestMatchingSnapshot{}
	return b
}

// WeightSnapshots averages the headings of the n best snapshots, weighted
// by inverse difference.
func (b PerfectMemoryBuilder) WeightSnapshots(n int) PerfectMemoryBuilder {
	b.selector = perfectmemory.WeightSnapshots{N: n}
	return b
}

// Logger sets the structured logger for operation tracing.
func (b PerfectMemoryBuilder) Logger(l *Logger) PerfectMemoryBuilder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b PerfectMemoryBuilder) Metrics(mc MetricsCollector) PerfectMemoryBuilder {
	b.metrics = mc
	return b
}

// ResizeRoute scales route images to the configured size on TrainRoute and
// LoadRoute.
func (b PerfectMemoryBuilder) ResizeRoute(enabled bool) PerfectMemoryBuilder {
	b.resizeRoute = enabled
	return b
}

// Recorder saves every trained image to a route database.
func (b PerfectMemoryBuilder) Recorder(r *routedb.Recorder) PerfectMemoryBuilder {
	b.recorder = r
	return b
}

// Build creates the navigator.
func (b PerfectMemoryBuilder) Build() (*Navigator[*perfectmemory.Rotater[uint8]], error) {
	opts := []perfectmemory.Option{
		perfectmemory.WithDifferencer(b.kind, differencer.WithMaskSupport(b.maskSupport)),
		perfectmemory.WithMask(b.mask),
	}
	if b.workers > 0 {
		opts = append(opts, perfectmemory.WithWorkers(b.workers))
	}
	if b.selector != nil {
		opts = append(opts, perfectmemory.WithSelector(b.selector))
	}
	if b.logger != nil {
		opts = append(opts, perfectmemory.WithLogger(b.logger.Logger))
	}

	pm, err := perfectmemory.NewRotater[uint8](b.size, opts...)
	if err != nil {
		return nil, err
	}
	return New(pm, b.navigatorOptions("perfect-memory")...), nil
}

// =============================================================================
// InfoMax Builder (Immutable)
// =============================================================================

// InfoMax creates a builder for an InfoMax navigator with images of the
// given size.
//
// Example:
//
//	nav, err := antnav.InfoMax(imgproc.Size{Width: 90, Height: 25}).
//	    LearningRate(0.001).
//	    Seed(42).
//	    Build()
func InfoMax(size imgproc.Size) InfoMaxBuilder {
	return InfoMaxBuilder{
		size:         size,
		learningRate: infomax.DefaultLearningRate,
	}
}

// InfoMaxBuilder is an immutable fluent builder for InfoMax navigators.
type InfoMaxBuilder struct {
	common

	size         imgproc.Size
	learningRate float64
	numSide      int
	sidePixels   int
	seed         *uint64
	weights      *mat.Dense
}

// LearningRate sets the learning rate.
// Default: infomax.DefaultLearningRate.
func (b InfoMaxBuilder) LearningRate(rate float64) InfoMaxBuilder {
	b.learningRate = rate
	return b
}

// NonRetinatopicInputs adds n side-channel inputs, each spread over pixels
// input units.
func (b InfoMaxBuilder) NonRetinatopicInputs(n, pixels int) InfoMaxBuilder {
	b.numSide = n
	b.sidePixels = pixels
	return b
}

// Seed fixes the seed for random initial weights.
// If not set, a random seed is drawn and logged.
func (b InfoMaxBuilder) Seed(seed uint64) InfoMaxBuilder {
	b.seed = &seed
	return b
}

// InitialWeights starts from a copy of w instead of random weights.
func (b InfoMaxBuilder) InitialWeights(w *mat.Dense) InfoMaxBuilder {
	b.weights = w
	return b
}

// Logger sets the structured logger for operation tracing.
func (b InfoMaxBuilder) Logger(l *Logger) InfoMaxBuilder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b InfoMaxBuilder) Metrics(mc MetricsCollector) InfoMaxBuilder {
	b.metrics = mc
	return b
}

// ResizeRoute scales route images to the configured size on TrainRoute and
// LoadRoute.
func (b InfoMaxBuilder) ResizeRoute(enabled bool) InfoMaxBuilder {
	b.resizeRoute = enabled
	return b
}

// Recorder saves every trained image to a route database.
func (b InfoMaxBuilder) Recorder(r *routedb.Recorder) InfoMaxBuilder {
	b.recorder = r
	return b
}

// Build creates the navigator.
func (b InfoMaxBuilder) Build() (*Navigator[*infomax.Rotater], error) {
	opts := []infomax.Option{infomax.WithLearningRate(b.learningRate)}
	if b.numSide > 0 || b.sidePixels > 0 {
		opts = append(opts, infomax.WithNonRetinatopicInputs(b.numSide, b.sidePixels))
	}
	if b.seed != nil {
		opts = append(opts, infomax.WithSeed(*b.seed))
	}
	if b.weights != nil {
		opts = append(opts, infomax.WithInitialWeights(b.weights))
	}
	if b.logger != nil {
		opts = append(opts, infomax.WithLogger(b.logger.Logger))
	}

	im, err := infomax.NewRotater(b.size, opts...)
	if err != nil {
		return nil, err
	}
	return New(im, b.navigatorOptions("infomax")...), nil
}
