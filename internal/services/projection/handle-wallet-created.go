package projection

import (
	"context"
	"encoding/json"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/wallet"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"

	"github.com/shopspring/decimal"
)

type walletCreatedPayload struct {
	WalletID       string          `json:"walletId"`
	FabricUserID   string          `json:"fabricUserId"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// HandleWalletCreated upserts the wallet row keyed by walletId.
func (uc *UseCase) HandleWalletCreated(ctx context.Context, event mmodel.BlockchainEvent) error {
	var payload walletCreatedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	return uc.WalletRepo.Upsert(ctx, &wallet.Wallet{
		WalletID:      payload.WalletID,
		TenantID:      uc.TenantID,
		FabricUserID:  payload.FabricUserID,
		CachedBalance: payload.InitialBalance,
	})
}
