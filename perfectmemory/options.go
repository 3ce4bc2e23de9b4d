package perfectmemory

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/antnav/differencer"
	"github.com/hupe1980/antnav/imgproc"
)

type options struct {
	kind        differencer.Kind
	diffOptions []differencer.Option
	mask        imgproc.Mask
	workers     int
	selector    Selector
	logger      *slog.Logger
}

// Option configures a PerfectMemory or Rotater.
type Option func(*options)

func defaultOptions() options {
	return options{
		kind:     differencer.KindAbsDiff,
		workers:  runtime.GOMAXPROCS(0),
		selector: BestMatchingSnapshot{},
	}
}

// WithDifferencer selects the difference strategy. The default is AbsDiff.
func WithDifferencer(kind differencer.Kind, opts ...differencer.Option) Option {
	return func(o *options) {
		o.kind = kind
		o.diffOptions = opts
	}
}

// WithMask sets the mask applied to every comparison. It is passed to the
// differencer as the snapshot-side mask and, for rotation scans, as the
// initial query mask.
func WithMask(m imgproc.Mask) Option {
	return func(o *options) {
		o.mask = m
	}
}

// WithWorkers bounds the number of goroutines comparing snapshots during a
// rotation scan. Values below one mean one. The default is GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithSelector sets how per-snapshot RIDF minima are turned into a heading.
// The default is BestMatchingSnapshot.
func WithSelector(s Selector) Option {
	return func(o *options) {
		if s == nil {
			s = BestMatchingSnapshot{}
		}
		o.selector = s
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
