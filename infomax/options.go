package infomax

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"
)

// DefaultLearningRate is the learning rate used unless overridden.
const DefaultLearningRate = 0.0001

type options struct {
	learningRate   float64
	numSide        int
	sidePixels     int
	seed           uint64
	hasSeed        bool
	initialWeights *mat.Dense
	logger         *slog.Logger
}

// Option configures an InfoMax.
type Option func(*options)

// WithLearningRate sets the learning rate.
func WithLearningRate(rate float64) Option {
	return func(o *options) {
		o.learningRate = rate
	}
}

// WithNonRetinatopicInputs adds n side-channel inputs after the image
// pixels, each replicated over pixels input units.
func WithNonRetinatopicInputs(n, pixels int) Option {
	return func(o *options) {
		o.numSide = n
		o.sidePixels = pixels
	}
}

// WithSeed fixes the seed used to draw random weights. Without it a fresh
// seed is drawn, and logged, on every clear.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.hasSeed = true
	}
}

// WithInitialWeights starts from a copy of w instead of random weights.
// w must be square with one row per input.
func WithInitialWeights(w *mat.Dense) Option {
	return func(o *options) {
		o.initialWeights = w
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
