// Package metric exports navigator metrics to Prometheus.
package metric
