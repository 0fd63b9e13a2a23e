package checkpoint

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/dbtx"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mpostgres"
)

// ErrCheckpointConflict means the conditional advance matched no row because
// the stored position is already ahead. Two consumers sharing one checkpoint
// row is the only way to get here during normal operation.
var ErrCheckpointConflict = constant.ErrCheckpointConflict

// Repository provides an interface for operations related to projector checkpoint entities.
//
//go:generate mockgen --destination=checkpoint.mock.go --package=checkpoint . Repository
type Repository interface {
	Load(ctx context.Context, tenantID, projectorName, channel string, startBlock uint64) (*mmodel.Checkpoint, error)
	Advance(ctx context.Context, tenantID, projectorName, channel string, lastBlock uint64, lastEventIndex int64) error
}

// CheckpointPostgreSQLRepository is a Postgresql-specific implementation of the checkpoint Repository.
type CheckpointPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewCheckpointPostgreSQLRepository returns a new instance of CheckpointPostgreSQLRepository using the given Postgres connection.
func NewCheckpointPostgreSQLRepository(pc *mpostgres.PostgresConnection) *CheckpointPostgreSQLRepository {
	r := &CheckpointPostgreSQLRepository{
		connection: pc,
		tableName:  "projector_state",
	}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

// Load reads the checkpoint row, returning (startBlock, -1) when absent so a
// fresh projector starts at the configured block.
func (r *CheckpointPostgreSQLRepository) Load(ctx context.Context, tenantID, projectorName, channel string, startBlock uint64) (*mmodel.Checkpoint, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.load_checkpoint")
	defer span.End()

	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	checkpoint := &mmodel.Checkpoint{
		TenantID:      tenantID,
		ProjectorName: projectorName,
		Channel:       channel,
	}

	var lastBlock int64

	err = dbtx.GetExecutor(ctx, db).QueryRowContext(ctx, `
		SELECT last_block, last_event_index, updated_at
		FROM projector_state
		WHERE tenant_id = $1 AND projector_name = $2 AND channel = $3`,
		tenantID, projectorName, channel,
	).Scan(&lastBlock, &checkpoint.LastEventIndex, &checkpoint.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		checkpoint.LastBlock = startBlock
		checkpoint.LastEventIndex = -1

		return checkpoint, nil
	}

	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to load checkpoint", err)

		return nil, err
	}

	checkpoint.LastBlock = uint64(lastBlock)

	return checkpoint, nil
}

// Advance upserts the checkpoint with a conditional update that refuses to
// move (last_block, last_event_index) backwards. A no-op advance to the same
// position succeeds; a backwards move returns ErrCheckpointConflict.
func (r *CheckpointPostgreSQLRepository) Advance(ctx context.Context, tenantID, projectorName, channel string, lastBlock uint64, lastEventIndex int64) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.advance_checkpoint")
	defer span.End()

	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	result, err := dbtx.GetExecutor(ctx, db).ExecContext(ctx, `
		INSERT INTO projector_state (tenant_id, projector_name, channel, last_block, last_event_index, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (tenant_id, projector_name, channel)
		DO UPDATE SET last_block = EXCLUDED.last_block, last_event_index = EXCLUDED.last_event_index, updated_at = now()
		WHERE (projector_state.last_block, projector_state.last_event_index) <= (EXCLUDED.last_block, EXCLUDED.last_event_index)`,
		tenantID, projectorName, channel, int64(lastBlock), lastEventIndex,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to advance checkpoint", err)

		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		err := pkg.ValidateBusinessError(ErrCheckpointConflict, "ProjectorState")

		mopentelemetry.HandleSpanError(&span, "Checkpoint moved backwards", err)

		return err
	}

	return nil
}
