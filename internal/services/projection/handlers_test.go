package projection

import (
	"context"
	"testing"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/proposal"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/transactionlog"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/userprofile"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/wallet"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newHandlerUseCase(t *testing.T) (*UseCase, *projectionMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mocks := &projectionMocks{
		wallet:         wallet.NewMockRepository(ctrl),
		userProfile:    userprofile.NewMockRepository(ctrl),
		transactionLog: transactionlog.NewMockRepository(ctrl),
		proposal:       proposal.NewMockRepository(ctrl),
	}

	uc := &UseCase{
		WalletRepo:         mocks.wallet,
		UserProfileRepo:    mocks.userProfile,
		TransactionLogRepo: mocks.transactionLog,
		ProposalRepo:       mocks.proposal,
		TenantID:           "t-1",
	}

	return uc, mocks
}

func transferEvent(payload string) mmodel.BlockchainEvent {
	return mmodel.BlockchainEvent{
		EventName:   constant.EventTransferCompleted,
		Payload:     []byte(payload),
		TxID:        "tx-55",
		BlockNumber: 20,
		EventIndex:  3,
		Timestamp:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func Test_HandleTransferCompleted_AppliesBothLegs(t *testing.T) {
	uc, mocks := newHandlerUseCase(t)

	event := transferEvent(`{"fromWalletId":"W-A","toWalletId":"W-B","amount":"100","fee":"2","remark":"test"}`)

	mocks.transactionLog.EXPECT().
		Insert(gomock.Any(), gomock.AssignableToTypeOf(&transactionlog.TransactionLog{})).
		DoAndReturn(func(ctx context.Context, log *transactionlog.TransactionLog) (bool, error) {
			assert.Equal(t, "tx-55", log.OnChainTxID)
			assert.Equal(t, constant.TransactionSideSent, log.Side)
			assert.Equal(t, "W-A", log.WalletID)
			assert.Equal(t, "W-B", log.Counterparty)
			assert.True(t, log.Amount.Equal(decimal.NewFromInt(100)))
			assert.True(t, log.Fee.Equal(decimal.NewFromInt(2)))

			return true, nil
		}).
		Times(1)

	// Sender loses amount + fee, receiver gains amount.
	mocks.wallet.EXPECT().
		AdjustBalance(gomock.Any(), "W-A", gomock.Any()).
		DoAndReturn(func(ctx context.Context, walletID string, delta decimal.Decimal) error {
			assert.True(t, delta.Equal(decimal.NewFromInt(-102)))
			return nil
		}).
		Times(1)

	mocks.wallet.EXPECT().
		AdjustBalance(gomock.Any(), "W-B", gomock.Any()).
		DoAndReturn(func(ctx context.Context, walletID string, delta decimal.Decimal) error {
			assert.True(t, delta.Equal(decimal.NewFromInt(100)))
			return nil
		}).
		Times(1)

	mocks.transactionLog.EXPECT().
		Insert(gomock.Any(), gomock.AssignableToTypeOf(&transactionlog.TransactionLog{})).
		DoAndReturn(func(ctx context.Context, log *transactionlog.TransactionLog) (bool, error) {
			assert.Equal(t, "tx-55", log.OnChainTxID)
			assert.Equal(t, constant.TransactionSideReceived, log.Side)
			assert.Equal(t, "W-B", log.WalletID)
			assert.True(t, log.Fee.IsZero())

			return true, nil
		}).
		Times(1)

	err := uc.HandleTransferCompleted(context.TODO(), event)
	assert.NoError(t, err)
}

func Test_HandleTransferCompleted_ReplayIsNoOp(t *testing.T) {
	uc, mocks := newHandlerUseCase(t)

	event := transferEvent(`{"fromWalletId":"W-A","toWalletId":"W-B","amount":"100","fee":"2"}`)

	// SENT leg already exists: balances must stay untouched.
	mocks.transactionLog.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		Return(false, nil).
		Times(1)

	mocks.wallet.EXPECT().AdjustBalance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := uc.HandleTransferCompleted(context.TODO(), event)
	assert.NoError(t, err)
}

func Test_HandleTransferCompleted_LegacyFieldNames(t *testing.T) {
	uc, mocks := newHandlerUseCase(t)

	event := transferEvent(`{"fromID":"W-A","toID":"W-B","amount":"10"}`)

	mocks.transactionLog.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, log *transactionlog.TransactionLog) (bool, error) {
			assert.Equal(t, "W-A", log.WalletID)
			return true, nil
		}).
		Times(1)

	mocks.wallet.EXPECT().AdjustBalance(gomock.Any(), "W-A", gomock.Any()).Return(nil).Times(1)
	mocks.wallet.EXPECT().AdjustBalance(gomock.Any(), "W-B", gomock.Any()).Return(nil).Times(1)

	mocks.transactionLog.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		Return(true, nil).
		Times(1)

	err := uc.HandleTransferCompleted(context.TODO(), event)
	assert.NoError(t, err)
}

func Test_HandleUserCreated_ActivatesExistingProfile(t *testing.T) {
	uc, mocks := newHandlerUseCase(t)

	ts := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	event := mmodel.BlockchainEvent{
		EventName: constant.EventUserCreated,
		Payload:   []byte(`{"fabricUserId":"U-X"}`),
		Timestamp: ts,
	}

	mocks.userProfile.EXPECT().
		Activate(gomock.Any(), "U-X", ts).
		Return(true, nil).
		Times(1)

	err := uc.HandleUserCreated(context.TODO(), event)
	assert.NoError(t, err)
}

func Test_HandleUserCreated_UnknownProfileIsSkipped(t *testing.T) {
	uc, mocks := newHandlerUseCase(t)

	event := mmodel.BlockchainEvent{
		EventName: constant.EventUserCreated,
		Payload:   []byte(`{"fabricUserId":"U-ghost"}`),
		Timestamp: time.Now(),
	}

	// Events alone never invent profile rows; the handler logs and skips.
	mocks.userProfile.EXPECT().
		Activate(gomock.Any(), "U-ghost", gomock.Any()).
		Return(false, nil).
		Times(1)

	err := uc.HandleUserCreated(context.TODO(), event)
	assert.NoError(t, err)
}

func Test_HandleWalletFrozen_SetsFlagAndProjectsStatus(t *testing.T) {
	uc, mocks := newHandlerUseCase(t)

	event := mmodel.BlockchainEvent{
		EventName: constant.EventWalletFrozen,
		Payload:   []byte(`{"walletId":"W-1","fabricUserId":"U-1","reason":"fraud"}`),
	}

	mocks.wallet.EXPECT().SetFrozen(gomock.Any(), "W-1", true).Return(nil).Times(1)
	mocks.userProfile.EXPECT().SetStatus(gomock.Any(), "U-1", constant.UserStatusFrozen).Return(true, nil).Times(1)

	err := uc.HandleWalletFrozen(context.TODO(), event)
	assert.NoError(t, err)
}

func Test_HandleWalletUnfrozen_RestoresActive(t *testing.T) {
	uc, mocks := newHandlerUseCase(t)

	event := mmodel.BlockchainEvent{
		EventName: constant.EventWalletUnfrozen,
		Payload:   []byte(`{"walletId":"W-1","fabricUserId":"U-1"}`),
	}

	mocks.wallet.EXPECT().SetFrozen(gomock.Any(), "W-1", false).Return(nil).Times(1)
	mocks.userProfile.EXPECT().SetStatus(gomock.Any(), "U-1", constant.UserStatusActive).Return(true, nil).Times(1)

	err := uc.HandleWalletUnfrozen(context.TODO(), event)
	assert.NoError(t, err)
}

func Test_HandleVoteCast_IncrementsTally(t *testing.T) {
	uc, mocks := newHandlerUseCase(t)

	event := mmodel.BlockchainEvent{
		EventName: constant.EventVoteCast,
		Payload:   []byte(`{"proposalId":"P-1","voterId":"U-1","inFavor":true}`),
	}

	mocks.proposal.EXPECT().IncrementVote(gomock.Any(), "P-1", true).Return(nil).Times(1)

	err := uc.HandleVoteCast(context.TODO(), event)
	assert.NoError(t, err)
}

func Test_HandleProposalApproved_AppendsApprover(t *testing.T) {
	uc, mocks := newHandlerUseCase(t)

	event := mmodel.BlockchainEvent{
		EventName: constant.EventProposalApproved,
		Payload:   []byte(`{"txId":"tx-ms-1","approverId":"U-sig"}`),
	}

	mocks.proposal.EXPECT().AppendApprover(gomock.Any(), "tx-ms-1", "U-sig").Return(nil).Times(1)

	err := uc.HandleProposalApproved(context.TODO(), event)
	assert.NoError(t, err)
}
