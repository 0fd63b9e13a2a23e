package command

import (
	"context"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// EnqueueCommand records a write intent in the outbox. The caller runs this
// inside the same database transaction as any request-side bookkeeping, which
// is what makes the outbox pattern hold. Retried requests sharing
// (tenantId, commandType, requestId) get the original row's id back.
func (uc *UseCase) EnqueueCommand(ctx context.Context, input mmodel.EnqueueCommandInput) (uuid.UUID, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "command.enqueue_command")
	defer span.End()

	if err := validate.Struct(input); err != nil {
		mopentelemetry.HandleSpanError(&span, "Invalid enqueue input", err)

		if input.AggregateID == "" {
			return uuid.Nil, pkg.ValidateBusinessError(constant.ErrAggregateIDRequired, "OutboxCommand")
		}

		return uuid.Nil, err
	}

	if _, _, ok := uc.Commands.Resolve(input.CommandType); !ok {
		err := pkg.ValidateBusinessError(constant.ErrCommandTypeUnknown, "OutboxCommand", input.CommandType)

		mopentelemetry.HandleSpanError(&span, "Unknown command type", err)

		return uuid.Nil, err
	}

	cmd := &mmodel.OutboxCommand{
		ID:          pkg.GenerateUUIDv7(),
		TenantID:    input.TenantID,
		Service:     input.Service,
		CommandType: input.CommandType,
		RequestID:   input.RequestID,
		AggregateID: input.AggregateID,
		Payload:     input.Payload,
		Status:      constant.CommandPending,
	}

	id, err := uc.OutboxRepo.Enqueue(ctx, cmd)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to enqueue command", err)

		logger.Errorf("Error enqueueing command: %v", err)

		return uuid.Nil, err
	}

	if id != cmd.ID {
		logger.Infof("Command replay detected, returning existing row %s", id)
	}

	return id, nil
}
