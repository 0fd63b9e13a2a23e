package projection

import (
	"context"
	"encoding/json"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
)

type userCreatedPayload struct {
	FabricUserID string `json:"fabricUserId"`
}

// HandleUserCreated transitions an existing profile to ACTIVE and stamps the
// on-chain registration time. A missing profile is logged and skipped: the
// required PII lives off-chain, so read models are never invented from events
// alone.
func (uc *UseCase) HandleUserCreated(ctx context.Context, event mmodel.BlockchainEvent) error {
	logger := pkg.NewLoggerFromContext(ctx)

	var payload userCreatedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	found, err := uc.UserProfileRepo.Activate(ctx, payload.FabricUserID, event.Timestamp)
	if err != nil {
		return err
	}

	if !found {
		logger.Warnf("UserCreated for unknown fabric user %s, skipping", payload.FabricUserID)
	}

	return nil
}
