package projection

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/mongodb/dlq"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/dbtx"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
)

// ApplyEvent runs the per-event pipeline: decode, validate, dispatch, apply
// inside the checkpoint co-transaction. Only unrecoverable invariant
// violations (checkpoint conflict, store unreachable) propagate; everything
// else is absorbed as a metric, a DLQ row, or both, so one bad event never
// stalls the stream.
func (uc *UseCase) ApplyEvent(ctx context.Context, event mmodel.BlockchainEvent) error {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "projection.apply_event")
	defer span.End()

	started := time.Now()

	envelope, ok := uc.decode(ctx, event)
	if !ok {
		// Malformed payloads are quarantined, never retried; retrying cannot
		// fix the bytes and would stall the stream.
		return uc.quarantine(ctx, event, "decode_failed", 0)
	}

	if result := uc.SchemaRegistry.Validate(envelope); !result.OK {
		uc.countEvent(event.EventName, "schema_invalid")

		logger.Warnf("Event %s at block %d failed schema validation: %v", event.EventName, event.BlockNumber, result.Errors)

		if uc.SchemaRegistry.Strict() {
			return uc.quarantine(ctx, event, "schema_validation_failed", 0)
		}
	} else if result.UnknownEvent {
		logger.Warnf("Event %s has no registered schema", event.EventName)
	}

	handler, ok := uc.Handlers.Resolve(event.EventName, envelope.EventVersion)
	if !ok {
		uc.countEvent(event.EventName, "skipped_unknown")

		logger.Warnf("No handler for event %s@%s, advancing checkpoint", event.EventName, envelope.EventVersion)

		return uc.advanceOnly(ctx, event)
	}

	if err := uc.applyWithRetry(ctx, event, handler); err != nil {
		return err
	}

	uc.countEvent(event.EventName, "applied")

	if uc.Metrics != nil {
		uc.Metrics.ProcessingDuration.Observe(time.Since(started).Seconds())
		uc.Metrics.BlockchainHeight.Set(float64(event.BlockNumber))
		uc.Metrics.CheckpointsSavedTotal.Inc()
	}

	uc.publishApplied(ctx, event)

	return nil
}

// applyWithRetry runs the handler and the checkpoint advance in one database
// transaction, retrying transient handler failures with backoff. After the
// retry budget the event is quarantined and the checkpoint still advances.
func (uc *UseCase) applyWithRetry(ctx context.Context, event mmodel.BlockchainEvent, handler EventHandler) error {
	logger := pkg.NewLoggerFromContext(ctx)

	db, err := uc.Connection.GetPrimaryDB()
	if err != nil {
		return err
	}

	var lastErr error

	for attempt := 1; attempt <= uc.DLQRetry.MaxRetries; attempt++ {
		lastErr = dbtx.RunInTransaction(ctx, db, func(ctx context.Context) error {
			if err := handler(ctx, event); err != nil {
				return err
			}

			return uc.CheckpointRepo.Advance(ctx, uc.TenantID, uc.ProjectorName, uc.Channel, event.BlockNumber, int64(event.EventIndex))
		})

		if lastErr == nil {
			return nil
		}

		if isCheckpointConflict(lastErr) {
			// Two consumers on one checkpoint row. Stop and let the operator
			// reconcile rather than fight over the row.
			return lastErr
		}

		if attempt < uc.DLQRetry.MaxRetries {
			wait := uc.DLQRetry.Backoff(attempt)
			logger.Warnf("Handler for %s at block %d failed (attempt %d/%d), retrying in %v: %v",
				event.EventName, event.BlockNumber, attempt, uc.DLQRetry.MaxRetries, wait, lastErr)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	logger.Errorf("Handler for %s at block %d exhausted retries, quarantining: %v", event.EventName, event.BlockNumber, lastErr)

	return uc.quarantine(ctx, event, lastErr.Error(), uc.DLQRetry.MaxRetries)
}

// decode interprets the payload as UTF-8 JSON. The envelope version rides in
// the payload's eventVersion field when the chaincode provides one.
func (uc *UseCase) decode(ctx context.Context, event mmodel.BlockchainEvent) (mmodel.EventEnvelope, bool) {
	logger := pkg.NewLoggerFromContext(ctx)

	var payload map[string]any

	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		uc.countEvent(event.EventName, "decode_failed")

		logger.Errorf("Event %s at block %d has malformed payload: %v", event.EventName, event.BlockNumber, err)

		return mmodel.EventEnvelope{}, false
	}

	version := constant.DefaultEventVersion
	if v, ok := payload["eventVersion"].(string); ok && v != "" {
		version = v
	}

	return mmodel.EventEnvelope{
		EventName:    event.EventName,
		EventVersion: version,
		Payload:      payload,
	}, true
}

// quarantine writes a DLQ document and advances the checkpoint so the stream
// keeps moving past the poisoned event.
func (uc *UseCase) quarantine(ctx context.Context, event mmodel.BlockchainEvent, reason string, attempts int) error {
	logger := pkg.NewLoggerFromContext(ctx)

	if uc.DLQRepo != nil {
		deadEvent := dlq.NewDeadEvent(uc.TenantID, event, reason, attempts)
		if err := uc.DLQRepo.Create(ctx, deadEvent); err != nil {
			logger.Errorf("Failed to quarantine event %s at block %d: %v", event.EventName, event.BlockNumber, err)
		}
	}

	uc.countEvent(event.EventName, "dead_lettered")

	return uc.advanceOnly(ctx, event)
}

// advanceOnly persists the checkpoint without a read-model mutation.
func (uc *UseCase) advanceOnly(ctx context.Context, event mmodel.BlockchainEvent) error {
	err := uc.CheckpointRepo.Advance(ctx, uc.TenantID, uc.ProjectorName, uc.Channel, event.BlockNumber, int64(event.EventIndex))
	if err != nil {
		return err
	}

	if uc.Metrics != nil {
		uc.Metrics.CheckpointsSavedTotal.Inc()
		uc.Metrics.BlockchainHeight.Set(float64(event.BlockNumber))
	}

	return nil
}

// publishApplied notifies downstream consumers. Failures are logged and
// dropped; delivery must never block the checkpoint.
func (uc *UseCase) publishApplied(ctx context.Context, event mmodel.BlockchainEvent) {
	if uc.Producer == nil {
		return
	}

	logger := pkg.NewLoggerFromContext(ctx)

	message := mmodel.AppliedEvent{
		EventName:   event.EventName,
		TxID:        event.TxID,
		BlockNumber: event.BlockNumber,
		EventIndex:  event.EventIndex,
		TenantID:    uc.TenantID,
		AppliedAt:   time.Now().UTC(),
	}

	if err := uc.Producer.PublishAppliedEvent(ctx, message); err != nil {
		logger.Warnf("Failed to publish applied event %s: %v", event.TxID, err)
	}
}

func (uc *UseCase) countEvent(eventName, status string) {
	if uc.Metrics != nil {
		uc.Metrics.EventsProcessedTotal.WithLabelValues(eventName, status).Inc()
	}
}

// isCheckpointConflict recognizes the conditional-advance conflict both as
// the raw sentinel and as its business-error wrapping.
func isCheckpointConflict(err error) bool {
	if errors.Is(err, constant.ErrCheckpointConflict) {
		return true
	}

	var internal pkg.InternalServerError
	return errors.As(err, &internal) && internal.Code == constant.ErrCheckpointConflict.Error()
}
