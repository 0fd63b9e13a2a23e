package projection

import (
	"context"
	"encoding/json"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/transactionlog"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"

	"github.com/shopspring/decimal"
)

type transferCompletedPayload struct {
	FromWalletID string          `json:"fromWalletId"`
	ToWalletID   string          `json:"toWalletId"`
	// The legacy InternalTransferEvent shape carried fromID/toID; both spell
	// the same fields.
	FromID string          `json:"fromID"`
	ToID   string          `json:"toID"`
	Amount decimal.Decimal `json:"amount"`
	Fee    decimal.Decimal `json:"fee"`
	Remark string          `json:"remark"`
}

func (p *transferCompletedPayload) normalize() {
	if p.FromWalletID == "" {
		p.FromWalletID = p.FromID
	}

	if p.ToWalletID == "" {
		p.ToWalletID = p.ToID
	}
}

// HandleTransferCompleted applies both sides of a transfer in the enclosing
// transaction: the sender loses amount plus fee, the receiver gains amount,
// and one history row per side is inserted under the (onChainTxId, side)
// natural key. The SENT leg doubles as the idempotency guard: when it already
// exists the event was applied before and the balances stay untouched.
func (uc *UseCase) HandleTransferCompleted(ctx context.Context, event mmodel.BlockchainEvent) error {
	logger := pkg.NewLoggerFromContext(ctx)

	var payload transferCompletedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	payload.normalize()

	sent := &transactionlog.TransactionLog{
		OnChainTxID:  event.TxID,
		Side:         constant.TransactionSideSent,
		TenantID:     uc.TenantID,
		WalletID:     payload.FromWalletID,
		Counterparty: payload.ToWalletID,
		Amount:       payload.Amount,
		Fee:          payload.Fee,
		Remark:       payload.Remark,
		BlockNumber:  event.BlockNumber,
		Timestamp:    event.Timestamp,
	}

	inserted, err := uc.TransactionLogRepo.Insert(ctx, sent)
	if err != nil {
		return err
	}

	if !inserted {
		logger.Infof("Transfer %s already applied, skipping", event.TxID)

		return nil
	}

	if err := uc.WalletRepo.AdjustBalance(ctx, payload.FromWalletID, payload.Amount.Add(payload.Fee).Neg()); err != nil {
		return err
	}

	if err := uc.WalletRepo.AdjustBalance(ctx, payload.ToWalletID, payload.Amount); err != nil {
		return err
	}

	received := &transactionlog.TransactionLog{
		OnChainTxID:  event.TxID,
		Side:         constant.TransactionSideReceived,
		TenantID:     uc.TenantID,
		WalletID:     payload.ToWalletID,
		Counterparty: payload.FromWalletID,
		Amount:       payload.Amount,
		Fee:          decimal.Zero,
		Remark:       payload.Remark,
		BlockNumber:  event.BlockNumber,
		Timestamp:    event.Timestamp,
	}

	if _, err := uc.TransactionLogRepo.Insert(ctx, received); err != nil {
		return err
	}

	return nil
}
