package outbox

import (
	"context"
	"testing"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mlog"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mpostgres"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mretry"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRetryConfig() mretry.Config {
	return mretry.Config{
		MaxRetries:     10,
		InitialBackoff: time.Second,
		MaxBackoff:     time.Minute,
		JitterFactor:   0,
	}
}

func newRepoWithMock(t *testing.T) (*OutboxPostgreSQLRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &OutboxPostgreSQLRepository{
		connection: &mpostgres.PostgresConnection{PrimaryDB: db, Logger: &mlog.NoneLogger{}},
		tableName:  "outbox_commands",
	}

	return repo, mock
}

func Test_Enqueue_ReturnsRowID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	cmd := &mmodel.OutboxCommand{
		ID:          pkg.GenerateUUIDv7(),
		TenantID:    "t-1",
		Service:     "wallet-api",
		CommandType: "TRANSFER_TOKENS",
		RequestID:   "r-1",
		AggregateID: "U-A",
		Payload:     []byte(`{}`),
	}

	mock.ExpectQuery("INSERT INTO outbox_commands").
		WithArgs(cmd.ID.String(), "t-1", "wallet-api", "TRANSFER_TOKENS", "r-1", "U-A", []byte(`{}`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(cmd.ID.String()))

	id, err := repo.Enqueue(context.TODO(), cmd)
	assert.NoError(t, err)
	assert.Equal(t, cmd.ID, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_Enqueue_ConflictReturnsExistingID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	existing := uuid.MustParse("018f2f14-0000-7000-8000-000000000001")

	cmd := &mmodel.OutboxCommand{
		ID:          pkg.GenerateUUIDv7(),
		TenantID:    "t-1",
		CommandType: "TRANSFER_TOKENS",
		RequestID:   "r-1",
		AggregateID: "U-A",
		Payload:     []byte(`{}`),
	}

	// The conflict path returns the row already holding the request id.
	mock.ExpectQuery("INSERT INTO outbox_commands").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(existing.String()))

	id, err := repo.Enqueue(context.TODO(), cmd)
	assert.NoError(t, err)
	assert.Equal(t, existing, id)
}

func Test_MarkCommitted(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id := pkg.GenerateUUIDv7()

	mock.ExpectExec("UPDATE outbox_commands").
		WithArgs(id.String(), "tx-1", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkCommitted(context.TODO(), id, "tx-1", 42)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_MarkCommitted_NotProcessing(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id := pkg.GenerateUUIDv7()

	mock.ExpectExec("UPDATE outbox_commands").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkCommitted(context.TODO(), id, "tx-1", 42)
	assert.Error(t, err)
	assert.True(t, pkg.IsEntityNotFound(err))
}

func Test_MarkFailed(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id := pkg.GenerateUUIDv7()

	mock.ExpectExec("UPDATE outbox_commands").
		WithArgs(id.String(), true, 10, "timeout").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkFailed(context.TODO(), id, "timeout", true, 10)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_ClaimBatch_SerializesAndOrders(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now()
	older := now.Add(-2 * time.Minute)

	columns := []string{
		"id", "tenant_id", "service", "command_type", "request_id", "aggregate_id",
		"payload", "status", "attempts", "last_attempt_at", "fabric_tx_id",
		"commit_block", "error", "created_at", "updated_at",
	}

	first := pkg.GenerateUUIDv7()
	second := pkg.GenerateUUIDv7()

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").
		WillReturnResult(sqlmock.NewResult(0, 0))
	// RETURNING does not preserve order; rows arrive newest first on purpose.
	mock.ExpectQuery("UPDATE outbox_commands").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(second.String(), "t-1", "api", "TRANSFER_TOKENS", "r-2", "U-A",
				[]byte(`{}`), "PROCESSING", 1, now, nil, nil, nil, now, now).
			AddRow(first.String(), "t-1", "api", "TRANSFER_TOKENS", "r-1", "U-A",
				[]byte(`{}`), "PROCESSING", 1, now, nil, nil, nil, older, now))
	mock.ExpectCommit()

	commands, err := repo.ClaimBatch(context.TODO(), 10, 10, 5*time.Minute, testRetryConfig())
	require.NoError(t, err)
	require.Len(t, commands, 2)

	// FIFO: the older command comes first.
	assert.Equal(t, first, commands[0].ID)
	assert.Equal(t, second, commands[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
