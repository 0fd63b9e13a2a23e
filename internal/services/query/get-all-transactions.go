package query

import (
	"context"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/transactionlog"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
)

// GetAllTransactions lists projected transaction legs for one wallet.
func (uc *UseCase) GetAllTransactions(ctx context.Context, filter transactionlog.Pagination) ([]*transactionlog.TransactionLog, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_all_transactions")
	defer span.End()

	logs, err := uc.TransactionLogRepo.FindAll(ctx, filter)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get transactions", err)

		logger.Errorf("Error getting transactions for wallet %s: %v", filter.WalletID, err)

		return nil, err
	}

	return logs, nil
}
