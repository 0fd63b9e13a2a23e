package command

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/outbox"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func validEnqueueInput() mmodel.EnqueueCommandInput {
	return mmodel.EnqueueCommandInput{
		TenantID:    "t-1",
		Service:     "wallet-api",
		CommandType: constant.CommandTransferTokens,
		RequestID:   "r-1",
		AggregateID: "U-A",
		Payload:     json.RawMessage(`{"fromUserId":"U-A","toUserId":"U-B","amount":"100","remark":"test"}`),
	}
}

func Test_EnqueueCommand(t *testing.T) {
	uc := UseCase{
		OutboxRepo: outbox.NewMockRepository(gomock.NewController(t)),
		Commands:   DefaultCommandTable(),
	}

	input := validEnqueueInput()

	uc.OutboxRepo.(*outbox.MockRepository).
		EXPECT().
		Enqueue(gomock.Any(), gomock.AssignableToTypeOf(&mmodel.OutboxCommand{})).
		DoAndReturn(func(ctx context.Context, cmd *mmodel.OutboxCommand) (uuid.UUID, error) {
			assert.Equal(t, input.TenantID, cmd.TenantID)
			assert.Equal(t, input.CommandType, cmd.CommandType)
			assert.Equal(t, input.AggregateID, cmd.AggregateID)
			assert.Equal(t, constant.CommandPending, cmd.Status)

			return cmd.ID, nil
		}).
		Times(1)

	id, err := uc.EnqueueCommand(context.TODO(), input)
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
}

func Test_EnqueueCommand_MissingAggregateID(t *testing.T) {
	uc := UseCase{
		OutboxRepo: outbox.NewMockRepository(gomock.NewController(t)),
		Commands:   DefaultCommandTable(),
	}

	input := validEnqueueInput()
	input.AggregateID = ""

	_, err := uc.EnqueueCommand(context.TODO(), input)
	assert.Error(t, err)

	var validationErr pkg.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, constant.ErrAggregateIDRequired.Error(), validationErr.Code)
}

func Test_EnqueueCommand_UnknownCommandType(t *testing.T) {
	uc := UseCase{
		OutboxRepo: outbox.NewMockRepository(gomock.NewController(t)),
		Commands:   DefaultCommandTable(),
	}

	input := validEnqueueInput()
	input.CommandType = "NOT_A_COMMAND"

	_, err := uc.EnqueueCommand(context.TODO(), input)
	assert.Error(t, err)

	var validationErr pkg.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, constant.ErrCommandTypeUnknown.Error(), validationErr.Code)
}

func Test_EnqueueCommand_ReplayReturnsExistingID(t *testing.T) {
	existing := uuid.MustParse("018f2f14-0000-7000-8000-000000000001")

	uc := UseCase{
		OutboxRepo: outbox.NewMockRepository(gomock.NewController(t)),
		Commands:   DefaultCommandTable(),
	}

	uc.OutboxRepo.(*outbox.MockRepository).
		EXPECT().
		Enqueue(gomock.Any(), gomock.Any()).
		Return(existing, nil).
		Times(2)

	first, err := uc.EnqueueCommand(context.TODO(), validEnqueueInput())
	assert.NoError(t, err)

	second, err := uc.EnqueueCommand(context.TODO(), validEnqueueInput())
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}
