package projection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/mongodb/dlq"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/checkpoint"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/proposal"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/transactionlog"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/userprofile"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/wallet"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/schema"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/dbtx"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mlog"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mpostgres"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mretry"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type projectionMocks struct {
	checkpoint     *checkpoint.MockRepository
	wallet         *wallet.MockRepository
	userProfile    *userprofile.MockRepository
	transactionLog *transactionlog.MockRepository
	proposal       *proposal.MockRepository
	dlq            *dlq.MockRepository
	sqlmock        sqlmock.Sqlmock
}

func newProjectionUseCase(t *testing.T) (*UseCase, *projectionMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	registry, err := schema.NewRegistry(false)
	require.NoError(t, err)

	mocks := &projectionMocks{
		checkpoint:     checkpoint.NewMockRepository(ctrl),
		wallet:         wallet.NewMockRepository(ctrl),
		userProfile:    userprofile.NewMockRepository(ctrl),
		transactionLog: transactionlog.NewMockRepository(ctrl),
		proposal:       proposal.NewMockRepository(ctrl),
		dlq:            dlq.NewMockRepository(ctrl),
		sqlmock:        mock,
	}

	uc := &UseCase{
		Connection:         &mpostgres.PostgresConnection{PrimaryDB: db, Logger: &mlog.NoneLogger{}},
		CheckpointRepo:     mocks.checkpoint,
		WalletRepo:         mocks.wallet,
		UserProfileRepo:    mocks.userProfile,
		TransactionLogRepo: mocks.transactionLog,
		ProposalRepo:       mocks.proposal,
		DLQRepo:            mocks.dlq,
		SchemaRegistry:     registry,
		Handlers:           NewHandlerRegistry(),
		DLQRetry:           mretry.Config{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, JitterFactor: 0},
		TenantID:           "t-1",
		ProjectorName:      "read-model",
		Channel:            "gxchannel",
	}
	uc.RegisterDefaultHandlers()

	return uc, mocks
}

func walletCreatedEvent() mmodel.BlockchainEvent {
	return mmodel.BlockchainEvent{
		EventName:   constant.EventWalletCreated,
		Payload:     []byte(`{"walletId":"W-1","fabricUserId":"U-1"}`),
		TxID:        "tx-1",
		BlockNumber: 10,
		TxIndex:     0,
		EventIndex:  0,
		Timestamp:   time.Now().UTC(),
	}
}

func Test_ApplyEvent_CoTransactsHandlerAndCheckpoint(t *testing.T) {
	uc, mocks := newProjectionUseCase(t)

	event := walletCreatedEvent()

	mocks.sqlmock.ExpectBegin()
	mocks.sqlmock.ExpectCommit()

	mocks.wallet.EXPECT().
		Upsert(gomock.Any(), gomock.AssignableToTypeOf(&wallet.Wallet{})).
		DoAndReturn(func(ctx context.Context, w *wallet.Wallet) error {
			// The handler must run inside the checkpoint transaction.
			assert.NotNil(t, dbtx.TxFromContext(ctx))
			assert.Equal(t, "W-1", w.WalletID)

			return nil
		}).
		Times(1)

	mocks.checkpoint.EXPECT().
		Advance(gomock.Any(), "t-1", "read-model", "gxchannel", uint64(10), int64(0)).
		Return(nil).
		Times(1)

	err := uc.ApplyEvent(context.TODO(), event)
	assert.NoError(t, err)
	assert.NoError(t, mocks.sqlmock.ExpectationsWereMet())
}

func Test_ApplyEvent_MalformedPayloadQuarantinesAndAdvances(t *testing.T) {
	uc, mocks := newProjectionUseCase(t)

	event := walletCreatedEvent()
	event.Payload = []byte(`{not json`)

	mocks.dlq.EXPECT().
		Create(gomock.Any(), gomock.AssignableToTypeOf(&dlq.DeadEvent{})).
		DoAndReturn(func(ctx context.Context, dead *dlq.DeadEvent) error {
			assert.Equal(t, "decode_failed", dead.Reason)
			assert.Equal(t, uint64(10), dead.BlockNumber)

			return nil
		}).
		Times(1)

	mocks.checkpoint.EXPECT().
		Advance(gomock.Any(), "t-1", "read-model", "gxchannel", uint64(10), int64(0)).
		Return(nil).
		Times(1)

	err := uc.ApplyEvent(context.TODO(), event)
	assert.NoError(t, err)
}

func Test_ApplyEvent_UnknownEventAdvancesOnly(t *testing.T) {
	uc, mocks := newProjectionUseCase(t)

	event := walletCreatedEvent()
	event.EventName = "BrandNewEvent"
	event.Payload = []byte(`{"anything":true}`)

	mocks.checkpoint.EXPECT().
		Advance(gomock.Any(), "t-1", "read-model", "gxchannel", uint64(10), int64(0)).
		Return(nil).
		Times(1)

	err := uc.ApplyEvent(context.TODO(), event)
	assert.NoError(t, err)
}

func Test_ApplyEvent_HandlerFailureRetriesThenQuarantines(t *testing.T) {
	uc, mocks := newProjectionUseCase(t)

	event := walletCreatedEvent()
	handlerErr := errors.New("deadlock detected")

	mocks.sqlmock.ExpectBegin()
	mocks.sqlmock.ExpectRollback()
	mocks.sqlmock.ExpectBegin()
	mocks.sqlmock.ExpectRollback()

	mocks.wallet.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		Return(handlerErr).
		Times(2)

	mocks.dlq.EXPECT().
		Create(gomock.Any(), gomock.AssignableToTypeOf(&dlq.DeadEvent{})).
		DoAndReturn(func(ctx context.Context, dead *dlq.DeadEvent) error {
			assert.Equal(t, handlerErr.Error(), dead.Reason)
			assert.Equal(t, 2, dead.Attempts)

			return nil
		}).
		Times(1)

	mocks.checkpoint.EXPECT().
		Advance(gomock.Any(), "t-1", "read-model", "gxchannel", uint64(10), int64(0)).
		Return(nil).
		Times(1)

	err := uc.ApplyEvent(context.TODO(), event)
	assert.NoError(t, err)
	assert.NoError(t, mocks.sqlmock.ExpectationsWereMet())
}

func Test_ApplyEvent_CheckpointConflictPropagates(t *testing.T) {
	uc, mocks := newProjectionUseCase(t)

	event := walletCreatedEvent()
	conflict := pkg.ValidateBusinessError(constant.ErrCheckpointConflict, "ProjectorState")

	mocks.sqlmock.ExpectBegin()
	mocks.sqlmock.ExpectRollback()

	mocks.wallet.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	mocks.checkpoint.EXPECT().
		Advance(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(conflict).
		Times(1)

	err := uc.ApplyEvent(context.TODO(), event)
	assert.Error(t, err)
	assert.True(t, isCheckpointConflict(err))
}

func Test_ApplyEvent_SchemaFailureIsAdvisory(t *testing.T) {
	uc, mocks := newProjectionUseCase(t)

	// Valid JSON, but missing the schema's required fabricUserId.
	event := walletCreatedEvent()
	event.Payload = []byte(`{"walletId":"W-1"}`)

	mocks.sqlmock.ExpectBegin()
	mocks.sqlmock.ExpectCommit()

	// The handler still runs: advisory mode applies the event anyway.
	mocks.wallet.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	mocks.checkpoint.EXPECT().
		Advance(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		Times(1)

	err := uc.ApplyEvent(context.TODO(), event)
	assert.NoError(t, err)
}
