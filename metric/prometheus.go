package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/antnav"
)

const namespace = "antnav"

type options struct {
	registerer prometheus.Registerer
	buckets    []float64
	labels     prometheus.Labels
}

// Option configures a PrometheusCollector.
type Option func(*options)

// WithRegisterer registers the metrics with r instead of the default
// registry.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = r
	}
}

// WithBuckets sets the latency histogram buckets in seconds.
// Default: prometheus.DefBuckets.
func WithBuckets(b []float64) Option {
	return func(o *options) {
		o.buckets = b
	}
}

// WithConstLabels attaches labels to every metric, e.g. the algorithm name.
func WithConstLabels(l prometheus.Labels) Option {
	return func(o *options) {
		o.labels = l
	}
}

// PrometheusCollector implements antnav.MetricsCollector.
type PrometheusCollector struct {
	opLatency  *prometheus.HistogramVec
	operations *prometheus.CounterVec
	rotations  prometheus.Counter
	clears     prometheus.Counter
}

var _ antnav.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates the metrics and registers them.
func NewPrometheusCollector(opts ...Option) (*PrometheusCollector, error) {
	o := options{
		registerer: prometheus.DefaultRegisterer,
		buckets:    prometheus.DefBuckets,
	}
	for _, fn := range opts {
		fn(&o)
	}

	c := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "operation_latency_seconds",
			Help:        "Latency of navigator operations",
			Buckets:     o.buckets,
			ConstLabels: o.labels,
		}, []string{"op", "status"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "operations_total",
			Help:        "Total navigator operations",
			ConstLabels: o.labels,
		}, []string{"op", "status"}),
		rotations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "heading_rotations_total",
			Help:        "Total rotations scanned by heading estimates",
			ConstLabels: o.labels,
		}),
		clears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "memory_clears_total",
			Help:        "Total memory resets",
			ConstLabels: o.labels,
		}),
	}

	for _, col := range []prometheus.Collector{c.opLatency, c.operations, c.rotations, c.clears} {
		if err := o.registerer.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *PrometheusCollector) observe(op string, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues(op, s).Observe(d.Seconds())
	c.operations.WithLabelValues(op, s).Inc()
}

// RecordTrain implements antnav.MetricsCollector.
func (c *PrometheusCollector) RecordTrain(d time.Duration, err error) {
	c.observe("train", d, err)
}

// RecordTest implements antnav.MetricsCollector.
func (c *PrometheusCollector) RecordTest(d time.Duration, err error) {
	c.observe("test", d, err)
}

// RecordHeading implements antnav.MetricsCollector.
func (c *PrometheusCollector) RecordHeading(rotations int, d time.Duration, err error) {
	c.observe("heading", d, err)
	c.rotations.Add(float64(rotations))
}

// RecordClear implements antnav.MetricsCollector.
func (c *PrometheusCollector) RecordClear() {
	c.clears.Inc()
}
