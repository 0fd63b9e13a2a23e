package bootstrap

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/fabric"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/services/projection"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mlog"

	"github.com/cenkalti/backoff/v4"
)

// ProjectorWorker consumes the ordered event stream and applies read-model
// mutations through the projection use case. One consumer per
// (tenant, projectorName, channel); replicas shard by checkpoint row, never
// share one.
type ProjectorWorker struct {
	useCase *projection.UseCase
	fabric  fabric.Repository
	health  *Health
	logger  mlog.Logger
}

// NewProjectorWorker create a new instance of ProjectorWorker.
func NewProjectorWorker(uc *projection.UseCase, fabricRepo fabric.Repository, health *Health, cfg *Config, logger mlog.Logger) *ProjectorWorker {
	return &ProjectorWorker{
		useCase: uc,
		fabric:  fabricRepo,
		health:  health,
		logger:  logger,
	}
}

// Run connects, loads the checkpoint and consumes the stream until SIGTERM.
// The checkpoint co-transaction means shutdown at any instant is safe: an
// applied event is checkpointed, an unapplied one will be redelivered.
func (w *ProjectorWorker) Run(l *pkg.Launcher) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = pkg.ContextWithLogger(ctx, w.logger)

	if err := w.connectWithBackoff(ctx); err != nil {
		return err
	}

	defer w.fabric.Disconnect()

	checkpoint, err := w.useCase.LoadCheckpoint(ctx)
	if err != nil {
		return err
	}

	w.logger.Infof("Projector resuming from block %d, event index %d", checkpoint.LastBlock, checkpoint.LastEventIndex)

	// Resuming at LastBlock (not +1) lets the stream redeliver the partially
	// consumed block; the position filter below drops what was applied.
	events, err := w.fabric.StreamEvents(ctx, checkpoint.LastBlock)
	if err != nil {
		return err
	}

	// An idle chain delivers nothing; keep the heartbeat alive while the
	// stream itself is healthy.
	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				w.health.BeatProjector(0)
			}
		}
	}()

	lastBlock := checkpoint.LastBlock
	lastEventIndex := checkpoint.LastEventIndex

	for event := range events {
		if !event.After(lastBlock, lastEventIndex) {
			continue
		}

		if err := w.useCase.ApplyEvent(ctx, event); err != nil {
			if ctx.Err() != nil {
				break
			}

			// Unrecoverable invariant violation: checkpoint conflict or the
			// store gone away past its retry budget. Let the supervisor
			// restart us.
			w.logger.Fatalf("Projector stopping on unrecoverable error: %v", err)
		}

		lastBlock = event.BlockNumber
		lastEventIndex = int64(event.EventIndex)

		w.health.BeatProjector(0)
	}

	w.logger.Info("Projector shutting down")

	return nil
}

// connectWithBackoff retries the gateway connection until it succeeds or the
// context is cancelled. Readiness stays red while this loops.
func (w *ProjectorWorker) connectWithBackoff(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0

	return backoff.Retry(func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}

		if err := w.fabric.Connect(ctx); err != nil {
			w.logger.Warnf("Projector fabric connect failed, retrying: %v", err)

			return err
		}

		return nil
	}, backoff.WithContext(bo, ctx))
}
