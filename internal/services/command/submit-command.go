package command

import (
	"context"
	"errors"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/fabric"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
)

// ClaimBatch pulls the next slice of submittable commands.
func (uc *UseCase) ClaimBatch(ctx context.Context, batchSize int, staleProcessingAge time.Duration) ([]*mmodel.OutboxCommand, error) {
	started := time.Now()

	commands, err := uc.OutboxRepo.ClaimBatch(ctx, batchSize, uc.MaxAttempts, staleProcessingAge, uc.RetryPolicy)
	if err != nil {
		return nil, err
	}

	if uc.Metrics != nil {
		uc.Metrics.OutboxClaimBatchSeconds.Observe(time.Since(started).Seconds())
	}

	return commands, nil
}

// ProcessCommand submits one claimed command to the ledger and records the
// outcome on the row. Errors never propagate past the worker loop; a non-nil
// return only signals that the store itself failed.
func (uc *UseCase) ProcessCommand(ctx context.Context, cmd *mmodel.OutboxCommand) error {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.process_command")
	defer span.End()

	chaincodeFn, encoder, ok := uc.Commands.Resolve(cmd.CommandType)
	if !ok {
		logger.Errorf("Command %s has unknown type %s", cmd.ID, cmd.CommandType)

		return uc.markFailed(ctx, cmd, "unknown_command_type", false)
	}

	args, err := encoder(cmd.Payload)
	if err != nil {
		logger.Errorf("Command %s payload rejected: %v", cmd.ID, err)

		return uc.markFailed(ctx, cmd, err.Error(), false)
	}

	started := time.Now()

	result, err := uc.FabricRepo.Submit(ctx, chaincodeFn, args...)
	if err != nil {
		uc.observeSubmit(started, outcomeFor(err))

		return uc.handleSubmitError(ctx, cmd, err)
	}

	uc.observeSubmit(started, "committed")

	if err := uc.OutboxRepo.MarkCommitted(ctx, cmd.ID, result.TxID, result.BlockNumber); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to mark command committed", err)

		return err
	}

	if uc.Metrics != nil {
		uc.Metrics.OutboxCommandsTotal.WithLabelValues(constant.CommandCommitted).Inc()
	}

	logger.Infof("Command %s committed as tx %s in block %d", cmd.ID, result.TxID, result.BlockNumber)

	return nil
}

func (uc *UseCase) handleSubmitError(ctx context.Context, cmd *mmodel.OutboxCommand, err error) error {
	logger := pkg.NewLoggerFromContext(ctx)

	retryable := fabric.Retryable(err)
	reason := err.Error()

	var permissionErr fabric.PermissionDeniedError
	if errors.As(err, &permissionErr) {
		// Almost always rotated credentials; the identity must be replaced.
		logger.Errorf("ALERT: fabric permission denied, wallet identity likely stale: %v", err)
	}

	if retryable && cmd.Attempts >= uc.MaxAttempts {
		reason = constant.ErrorMaxAttemptsExceeded
		retryable = false
	}

	if retryable {
		logger.Warnf("Command %s attempt %d failed (retryable): %v", cmd.ID, cmd.Attempts, err)
	} else {
		logger.Errorf("Command %s failed terminally: %v", cmd.ID, err)
	}

	return uc.markFailed(ctx, cmd, reason, retryable)
}

func (uc *UseCase) markFailed(ctx context.Context, cmd *mmodel.OutboxCommand, reason string, retryable bool) error {
	if err := uc.OutboxRepo.MarkFailed(ctx, cmd.ID, reason, retryable, uc.MaxAttempts); err != nil {
		return err
	}

	if uc.Metrics != nil {
		if retryable {
			uc.Metrics.OutboxCommandsTotal.WithLabelValues(constant.CommandPending).Inc()
		} else {
			uc.Metrics.OutboxCommandsTotal.WithLabelValues(constant.CommandFailed).Inc()
		}
	}

	return nil
}

func (uc *UseCase) observeSubmit(started time.Time, outcome string) {
	if uc.Metrics != nil {
		uc.Metrics.FabricSubmitDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
	}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, fabric.ErrCircuitOpen):
		return "circuit_open"
	case !fabric.Retryable(err):
		return "rejected"
	default:
		return "error"
	}
}
