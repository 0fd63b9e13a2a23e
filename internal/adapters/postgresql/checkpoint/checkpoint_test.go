package checkpoint

import (
	"context"
	"testing"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mlog"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mpostgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*CheckpointPostgreSQLRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &CheckpointPostgreSQLRepository{
		connection: &mpostgres.PostgresConnection{PrimaryDB: db, Logger: &mlog.NoneLogger{}},
		tableName:  "projector_state",
	}

	return repo, mock
}

func Test_Load_AbsentRowSeedsStartBlock(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery("SELECT last_block, last_event_index, updated_at").
		WithArgs("t-1", "read-model", "gxchannel").
		WillReturnRows(sqlmock.NewRows([]string{"last_block", "last_event_index", "updated_at"}))

	checkpoint, err := repo.Load(context.TODO(), "t-1", "read-model", "gxchannel", 500)
	require.NoError(t, err)

	assert.Equal(t, uint64(500), checkpoint.LastBlock)
	assert.Equal(t, int64(-1), checkpoint.LastEventIndex)
}

func Test_Load_ExistingRow(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	updatedAt := time.Now()

	mock.ExpectQuery("SELECT last_block, last_event_index, updated_at").
		WillReturnRows(sqlmock.NewRows([]string{"last_block", "last_event_index", "updated_at"}).
			AddRow(int64(42), int64(3), updatedAt))

	checkpoint, err := repo.Load(context.TODO(), "t-1", "read-model", "gxchannel", 500)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), checkpoint.LastBlock)
	assert.Equal(t, int64(3), checkpoint.LastEventIndex)
}

func Test_Advance_Succeeds(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec("INSERT INTO projector_state").
		WithArgs("t-1", "read-model", "gxchannel", int64(43), int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Advance(context.TODO(), "t-1", "read-model", "gxchannel", 43, 0)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_Advance_BackwardsMoveConflicts(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	// The conditional upsert matches no row when the stored position is ahead.
	mock.ExpectExec("INSERT INTO projector_state").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Advance(context.TODO(), "t-1", "read-model", "gxchannel", 41, 0)
	assert.Error(t, err)
}
