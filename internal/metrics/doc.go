// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics
