package antnav

import (
	"github.com/hupe1980/antnav/routedb"
)

type options struct {
	name             string
	logger           *Logger
	metricsCollector MetricsCollector
	resizeRoute      bool
	recorder         *routedb.Recorder
}

// Option configures a Navigator.
type Option func(*options)

// WithName labels the navigator in log output.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the structured logger. Default: NoopLogger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector. Default: NoopMetricsCollector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithResizeRoute makes TrainRoute and LoadRoute scale route images to the
// algorithm's resolution instead of rejecting them.
func WithResizeRoute(enabled bool) Option {
	return func(o *options) {
		o.resizeRoute = enabled
	}
}

// WithRecorder saves every image passed to Train to a route database.
func WithRecorder(r *routedb.Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}
