package query

import (
	"context"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/wallet"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
)

// GetWalletByID retrieves a projected wallet.
func (uc *UseCase) GetWalletByID(ctx context.Context, walletID string) (*wallet.Wallet, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_wallet_by_id")
	defer span.End()

	w, err := uc.WalletRepo.Find(ctx, walletID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get wallet", err)

		logger.Errorf("Error getting wallet %s: %v", walletID, err)

		return nil, err
	}

	return w, nil
}
