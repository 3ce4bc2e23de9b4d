package antnav

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// metric package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordTrain is called after each training step.
	RecordTrain(duration time.Duration, err error)

	// RecordTest is called after each familiarity query.
	RecordTest(duration time.Duration, err error)

	// RecordHeading is called after each heading estimate. rotations is the
	// number of rotations scanned, 0 on error.
	RecordHeading(rotations int, duration time.Duration, err error)

	// RecordClear is called when memory is cleared.
	RecordClear()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTrain(time.Duration, error)        {}
func (NoopMetricsCollector) RecordTest(time.Duration, error)         {}
func (NoopMetricsCollector) RecordHeading(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordClear()                            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	TrainCount        atomic.Int64
	TrainErrors       atomic.Int64
	TestCount         atomic.Int64
	TestErrors        atomic.Int64
	HeadingCount      atomic.Int64
	HeadingErrors     atomic.Int64
	HeadingRotations  atomic.Int64
	HeadingTotalNanos atomic.Int64
	ClearCount        atomic.Int64
}

// RecordTrain implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrain(_ time.Duration, err error) {
	b.TrainCount.Add(1)
	if err != nil {
		b.TrainErrors.Add(1)
	}
}

// RecordTest implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTest(_ time.Duration, err error) {
	b.TestCount.Add(1)
	if err != nil {
		b.TestErrors.Add(1)
	}
}

// RecordHeading implements MetricsCollector.
func (b *BasicMetricsCollector) RecordHeading(rotations int, duration time.Duration, err error) {
	b.HeadingCount.Add(1)
	b.HeadingRotations.Add(int64(rotations))
	b.HeadingTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.HeadingErrors.Add(1)
	}
}

// RecordClear implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClear() {
	b.ClearCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	count := b.HeadingCount.Load()
	var avg int64
	if count > 0 {
		avg = b.HeadingTotalNanos.Load() / count
	}
	return BasicMetricsStats{
		TrainCount:       b.TrainCount.Load(),
		TrainErrors:      b.TrainErrors.Load(),
		TestCount:        b.TestCount.Load(),
		TestErrors:       b.TestErrors.Load(),
		HeadingCount:     count,
		HeadingErrors:    b.HeadingErrors.Load(),
		HeadingRotations: b.HeadingRotations.Load(),
		HeadingAvgNanos:  avg,
		ClearCount:       b.ClearCount.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	TrainCount       int64
	TrainErrors      int64
	TestCount        int64
	TestErrors       int64
	HeadingCount     int64
	HeadingErrors    int64
	HeadingRotations int64
	HeadingAvgNanos  int64
	ClearCount       int64
}
