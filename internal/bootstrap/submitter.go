package bootstrap

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/fabric"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/services/command"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mlog"
)

// SubmitterWorker drains the outbox with at-least-once delivery. Claimed
// commands are submitted sequentially so FIFO per aggregate holds within a
// batch; the claim itself serializes across replicas.
type SubmitterWorker struct {
	useCase *command.UseCase
	fabric  fabric.Repository
	health  *Health
	logger  mlog.Logger

	batchSize          int
	pollInterval       time.Duration
	staleProcessingAge time.Duration
}

// NewSubmitterWorker create a new instance of SubmitterWorker.
func NewSubmitterWorker(uc *command.UseCase, fabricRepo fabric.Repository, health *Health, cfg *Config, logger mlog.Logger) *SubmitterWorker {
	return &SubmitterWorker{
		useCase:            uc,
		fabric:             fabricRepo,
		health:             health,
		logger:             logger,
		batchSize:          cfg.SubmitterBatchSize,
		pollInterval:       time.Duration(cfg.SubmitterPollIntervalMS) * time.Millisecond,
		staleProcessingAge: time.Duration(cfg.SubmitterStaleSecs) * time.Second,
	}
}

// Run claims and submits until SIGTERM. In-flight submits drain before the
// loop exits; rows stuck in PROCESSING are reclaimed by the next worker once
// the stale age elapses.
func (w *SubmitterWorker) Run(l *pkg.Launcher) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = pkg.ContextWithLogger(ctx, w.logger)

	if err := w.fabric.Connect(ctx); err != nil {
		// The breaker and per-command retries absorb a gateway that comes up
		// late; readiness stays red meanwhile.
		w.logger.Errorf("Submitter starting without fabric connection: %v", err)
	}

	w.logger.Infof("Submitter started (batch %d, poll %v)", w.batchSize, w.pollInterval)

	reaper := time.NewTicker(time.Hour)
	defer reaper.Stop()

	for {
		select {
		case <-reaper.C:
			if deleted, err := w.useCase.ReapIdempotency(ctx); err != nil {
				w.logger.Warnf("Idempotency reap failed: %v", err)
			} else if deleted > 0 {
				w.logger.Infof("Reaped %d expired idempotency rows", deleted)
			}
		default:
		}

		select {
		case <-ctx.Done():
			w.logger.Info("Submitter shutting down")

			return nil
		default:
		}

		commands, err := w.useCase.ClaimBatch(ctx, w.batchSize, w.staleProcessingAge)
		if err != nil {
			w.logger.Errorf("Claim batch failed: %v", err)

			w.sleep(ctx)

			continue
		}

		w.health.BeatSubmitter()

		if len(commands) == 0 {
			w.sleep(ctx)

			continue
		}

		for _, cmd := range commands {
			if ctx.Err() != nil {
				// Unprocessed claims go stale and get reclaimed.
				return nil
			}

			if err := w.useCase.ProcessCommand(ctx, cmd); err != nil {
				w.logger.Errorf("Store failed while finishing command %s: %v", cmd.ID, err)
			} else {
				w.health.RecordSubmitSuccess()
			}
		}
	}
}

func (w *SubmitterWorker) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(w.pollInterval):
	}
}
