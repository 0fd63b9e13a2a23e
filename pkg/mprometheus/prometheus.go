// Package mprometheus owns the Prometheus collectors exposed on /metrics.
package mprometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector the bridge exports. One instance per process,
// passed explicitly to the components that record on it.
type Metrics struct {
	OutboxCommandsTotal     *prometheus.CounterVec
	OutboxClaimBatchSeconds prometheus.Histogram
	FabricSubmitDuration    *prometheus.HistogramVec
	EventsProcessedTotal    *prometheus.CounterVec
	ProjectorLagBlocks      prometheus.Gauge
	BlockchainHeight        prometheus.Gauge
	CheckpointsSavedTotal   prometheus.Counter
	ProcessingDuration      prometheus.Histogram
	CircuitBreakerState     prometheus.Gauge
}

// NewMetrics registers the bridge collectors on reg and returns them.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OutboxCommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outbox_commands_total",
			Help: "Outbox commands by terminal or transition status.",
		}, []string{"status"}),
		OutboxClaimBatchSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "outbox_claim_batch_seconds",
			Help:    "Latency of claiming a batch of pending commands.",
			Buckets: prometheus.DefBuckets,
		}),
		FabricSubmitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fabric_submit_duration_seconds",
			Help:    "Latency of Fabric submit calls by outcome.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"outcome"}),
		EventsProcessedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "projector_events_processed_total",
			Help: "Chaincode events processed by the projector.",
		}, []string{"event_name", "status"}),
		ProjectorLagBlocks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "projector_lag_blocks",
			Help: "Blocks between the ledger tip and the projector checkpoint.",
		}),
		BlockchainHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "projector_blockchain_height",
			Help: "Highest block number observed on the event stream.",
		}),
		CheckpointsSavedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projector_checkpoints_saved_total",
			Help: "Checkpoint rows persisted by the projector.",
		}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "processing_duration_seconds",
			Help:    "End-to-end latency of applying one event.",
			Buckets: prometheus.DefBuckets,
		}),
		CircuitBreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Fabric gateway breaker state (0 closed, 1 half-open, 2 open).",
		}),
	}

	reg.MustRegister(
		m.OutboxCommandsTotal,
		m.OutboxClaimBatchSeconds,
		m.FabricSubmitDuration,
		m.EventsProcessedTotal,
		m.ProjectorLagBlocks,
		m.BlockchainHeight,
		m.CheckpointsSavedTotal,
		m.ProcessingDuration,
		m.CircuitBreakerState,
	)

	return m
}

// SetBreakerState records the breaker state on the gauge.
func (m *Metrics) SetBreakerState(state string) {
	switch state {
	case "CLOSED":
		m.CircuitBreakerState.Set(0)
	case "HALF_OPEN":
		m.CircuitBreakerState.Set(1)
	case "OPEN":
		m.CircuitBreakerState.Set(2)
	}
}
