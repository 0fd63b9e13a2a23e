package query

import (
	"context"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
)

// GetProjectorStatus reads one projector's checkpoint row.
func (uc *UseCase) GetProjectorStatus(ctx context.Context, tenantID, projectorName, channel string) (*mmodel.Checkpoint, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_projector_status")
	defer span.End()

	checkpoint, err := uc.CheckpointRepo.Load(ctx, tenantID, projectorName, channel, 0)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to load checkpoint", err)

		return nil, err
	}

	return checkpoint, nil
}
