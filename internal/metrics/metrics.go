// Package metrics contains prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// nolint:gochecknoglobals
var (
	// GateRejections counts operations rejected by write-rate gate.
	GateRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_gate_rejections_total",
		Help: "The total number of writes rejected as too frequent",
	}, []string{"collection", "kind"})

	// CounterAdjustments counts counter adjustments by result.
	CounterAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_counter_adjustments_total",
		Help: "The total number of statistics counter adjustments",
	}, []string{"collection", "counter", "result"})

	// Duplicates counts rejected duplicate records.
	Duplicates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_duplicates_total",
		Help: "The total number of rejected duplicate records",
	}, []string{"collection"})

	// RequestLatency ...
	RequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agora_request_latency",
		Help:    "Histogram of API request latency in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"method", "path", "status_code"})
)

// Counter adjustment results.
const (
	AdjustApplied = "applied"
	AdjustLost    = "lost"
	AdjustFailed  = "failed"
)
