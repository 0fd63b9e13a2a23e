package projection

import (
	"context"
	"encoding/json"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
)

type walletFrozenPayload struct {
	WalletID     string `json:"walletId"`
	FabricUserID string `json:"fabricUserId"`
	Reason       string `json:"reason"`
}

// HandleWalletFrozen flags the wallet and projects the profile status to
// FROZEN. Status is a projected field; API code reads it but never writes it.
func (uc *UseCase) HandleWalletFrozen(ctx context.Context, event mmodel.BlockchainEvent) error {
	return uc.setFrozen(ctx, event, true, constant.UserStatusFrozen)
}

// HandleWalletUnfrozen clears the flag and projects the profile back to ACTIVE.
func (uc *UseCase) HandleWalletUnfrozen(ctx context.Context, event mmodel.BlockchainEvent) error {
	return uc.setFrozen(ctx, event, false, constant.UserStatusActive)
}

func (uc *UseCase) setFrozen(ctx context.Context, event mmodel.BlockchainEvent, frozen bool, status string) error {
	logger := pkg.NewLoggerFromContext(ctx)

	var payload walletFrozenPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	if err := uc.WalletRepo.SetFrozen(ctx, payload.WalletID, frozen); err != nil {
		return err
	}

	found, err := uc.UserProfileRepo.SetStatus(ctx, payload.FabricUserID, status)
	if err != nil {
		return err
	}

	if !found {
		logger.Warnf("Wallet freeze state changed for unknown fabric user %s", payload.FabricUserID)
	}

	return nil
}
