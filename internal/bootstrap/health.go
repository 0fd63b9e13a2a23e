package bootstrap

import (
	"sync"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mcircuitbreaker"
)

// Health aggregates worker heartbeats for the liveness and readiness probes.
// Workers write, the ops server reads; nothing else shares it.
type Health struct {
	mu sync.Mutex

	submitterHeartbeat time.Time
	projectorHeartbeat time.Time
	lastSubmitSuccess  time.Time
	projectorLagBlocks uint64

	heartbeatThreshold time.Duration
	lagBudgetBlocks    uint64

	breakerState func() mcircuitbreaker.State
}

// NewHealth creates a tracker with both heartbeats primed so a fresh process
// is live until the workers take over.
func NewHealth(heartbeatThreshold time.Duration, lagBudgetBlocks uint64, breakerState func() mcircuitbreaker.State) *Health {
	now := time.Now()

	return &Health{
		submitterHeartbeat: now,
		projectorHeartbeat: now,
		lastSubmitSuccess:  now,
		heartbeatThreshold: heartbeatThreshold,
		lagBudgetBlocks:    lagBudgetBlocks,
		breakerState:       breakerState,
	}
}

// BeatSubmitter records submitter loop progress.
func (h *Health) BeatSubmitter() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.submitterHeartbeat = time.Now()
}

// RecordSubmitSuccess records a committed submission.
func (h *Health) RecordSubmitSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastSubmitSuccess = time.Now()
}

// BeatProjector records projector progress and its current lag.
func (h *Health) BeatProjector(lagBlocks uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.projectorHeartbeat = time.Now()
	h.projectorLagBlocks = lagBlocks
}

// Alive reports process liveness: both worker loops beat recently.
func (h *Health) Alive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()

	return now.Sub(h.submitterHeartbeat) < h.heartbeatThreshold &&
		now.Sub(h.projectorHeartbeat) < h.heartbeatThreshold
}

// Ready reports readiness and the reasons it fails: projector lag within
// budget, workers beating, and the gateway breaker not OPEN.
func (h *Health) Ready() (bool, []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	reasons := make([]string, 0)
	now := time.Now()

	if now.Sub(h.submitterHeartbeat) >= h.heartbeatThreshold {
		reasons = append(reasons, "submitter stalled")
	}

	if now.Sub(h.projectorHeartbeat) >= h.heartbeatThreshold {
		reasons = append(reasons, "projector stalled")
	}

	if h.projectorLagBlocks > h.lagBudgetBlocks {
		reasons = append(reasons, "projector lag over budget")
	}

	if h.breakerState != nil && h.breakerState() == mcircuitbreaker.StateOpen {
		reasons = append(reasons, "fabric circuit open")
	}

	return len(reasons) == 0, reasons
}
