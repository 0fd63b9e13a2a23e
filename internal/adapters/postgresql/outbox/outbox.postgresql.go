package outbox

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/dbtx"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mpostgres"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mretry"

	"github.com/google/uuid"
)

// claimAdvisoryLockKey serializes claim transactions across workers so that
// per-aggregate FIFO survives concurrent claiming. Claims are short; submits
// run outside the lock.
const claimAdvisoryLockKey = int64(0x67780001)

const commandColumns = `id, tenant_id, service, command_type, request_id, aggregate_id, payload, status, attempts, last_attempt_at, fabric_tx_id, commit_block, error, created_at, updated_at`

// Repository provides an interface for operations related to outbox command entities.
//
//go:generate mockgen --destination=outbox.mock.go --package=outbox . Repository
type Repository interface {
	Enqueue(ctx context.Context, cmd *mmodel.OutboxCommand) (uuid.UUID, error)
	ClaimBatch(ctx context.Context, limit, maxAttempts int, staleProcessingAge time.Duration, retry mretry.Config) ([]*mmodel.OutboxCommand, error)
	MarkCommitted(ctx context.Context, id uuid.UUID, fabricTxID string, blockNumber uint64) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string, retryable bool, maxAttempts int) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	LastCommittedAt(ctx context.Context) (*time.Time, error)
}

// OutboxPostgreSQLRepository is a Postgresql-specific implementation of the outbox Repository.
type OutboxPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewOutboxPostgreSQLRepository returns a new instance of OutboxPostgreSQLRepository using the given Postgres connection.
func NewOutboxPostgreSQLRepository(pc *mpostgres.PostgresConnection) *OutboxPostgreSQLRepository {
	r := &OutboxPostgreSQLRepository{
		connection: pc,
		tableName:  "outbox_commands",
	}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

// Enqueue inserts a PENDING command, or returns the id of the row already
// holding the same (tenant_id, command_type, request_id). The no-op DO UPDATE
// makes the RETURNING clause yield the existing id on conflict.
func (r *OutboxPostgreSQLRepository) Enqueue(ctx context.Context, cmd *mmodel.OutboxCommand) (uuid.UUID, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.enqueue_command")
	defer span.End()

	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return uuid.Nil, err
	}

	record := &OutboxPostgreSQLModel{}
	record.FromEntity(cmd)

	var id string

	err = dbtx.GetExecutor(ctx, db).QueryRowContext(ctx, `
		INSERT INTO outbox_commands (id, tenant_id, service, command_type, request_id, aggregate_id, payload, status, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'PENDING', 0, now(), now())
		ON CONFLICT (tenant_id, command_type, request_id)
		DO UPDATE SET updated_at = outbox_commands.updated_at
		RETURNING id`,
		record.ID,
		record.TenantID,
		record.Service,
		record.CommandType,
		record.RequestID,
		record.AggregateID,
		record.Payload,
	).Scan(&id)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to enqueue command", err)

		return uuid.Nil, err
	}

	return uuid.MustParse(id), nil
}

// ClaimBatch atomically transitions up to limit rows to PROCESSING and
// returns them ordered by creation time. Rows become claimable when PENDING
// past their backoff window, or when PROCESSING went stale. An advisory lock
// serializes claims so two workers can never interleave commands of one
// aggregate.
func (r *OutboxPostgreSQLRepository) ClaimBatch(ctx context.Context, limit, maxAttempts int, staleProcessingAge time.Duration, retry mretry.Config) ([]*mmodel.OutboxCommand, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.claim_outbox_batch")
	defer span.End()

	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	commands := make([]*mmodel.OutboxCommand, 0, limit)

	err = dbtx.RunInTransaction(ctx, db, func(ctx context.Context) error {
		executor := dbtx.GetExecutor(ctx, db)

		if _, err := executor.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, claimAdvisoryLockKey); err != nil {
			return err
		}

		rows, err := executor.QueryContext(ctx, `
			UPDATE outbox_commands oc
			SET status = 'PROCESSING', attempts = oc.attempts + 1, last_attempt_at = now(), updated_at = now()
			FROM (
				SELECT c.id
				FROM outbox_commands c
				WHERE c.attempts < $1
				  AND (
					(c.status = 'PENDING' AND (
						c.last_attempt_at IS NULL
						OR c.last_attempt_at + make_interval(secs => LEAST($2 * power(2, GREATEST(c.attempts - 1, 0)), $3)) <= now()
					))
					OR (c.status = 'PROCESSING' AND c.last_attempt_at <= now() - make_interval(secs => $4))
				  )
				  AND NOT EXISTS (
					SELECT 1
					FROM outbox_commands p
					WHERE p.aggregate_id = c.aggregate_id
					  AND p.id <> c.id
					  AND p.status = 'PROCESSING'
					  AND p.last_attempt_at > now() - make_interval(secs => $4)
				  )
				ORDER BY c.created_at ASC
				LIMIT $5
				FOR UPDATE SKIP LOCKED
			) next
			WHERE oc.id = next.id
			RETURNING `+commandColumns,
			maxAttempts,
			retry.InitialBackoff.Seconds(),
			retry.MaxBackoff.Seconds(),
			staleProcessingAge.Seconds(),
			limit,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			record := &OutboxPostgreSQLModel{}

			if err := rows.Scan(
				&record.ID,
				&record.TenantID,
				&record.Service,
				&record.CommandType,
				&record.RequestID,
				&record.AggregateID,
				&record.Payload,
				&record.Status,
				&record.Attempts,
				&record.LastAttemptAt,
				&record.FabricTxID,
				&record.CommitBlock,
				&record.Error,
				&record.CreatedAt,
				&record.UpdatedAt,
			); err != nil {
				return err
			}

			commands = append(commands, record.ToEntity())
		}

		return rows.Err()
	})
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to claim batch", err)

		return nil, err
	}

	// The claim transaction orders rows by created_at, but commands of one
	// aggregate must also be submitted in that order by the caller.
	sortByCreatedAt(commands)

	return commands, nil
}

// MarkCommitted finalizes a command with its ledger coordinates.
func (r *OutboxPostgreSQLRepository) MarkCommitted(ctx context.Context, id uuid.UUID, fabricTxID string, blockNumber uint64) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.mark_command_committed")
	defer span.End()

	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	result, err := dbtx.GetExecutor(ctx, db).ExecContext(ctx, `
		UPDATE outbox_commands
		SET status = 'COMMITTED', fabric_tx_id = $2, commit_block = $3, error = NULL, updated_at = now()
		WHERE id = $1 AND status = 'PROCESSING'`,
		id.String(), fabricTxID, int64(blockNumber),
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to mark command committed", err)

		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return pkg.WrapEntityNotFoundError("OutboxCommand", sql.ErrNoRows)
	}

	return nil
}

// MarkFailed records the failure reason. A retryable failure below the
// attempt budget goes back to PENDING; everything else is terminal FAILED.
func (r *OutboxPostgreSQLRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string, retryable bool, maxAttempts int) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.mark_command_failed")
	defer span.End()

	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	result, err := dbtx.GetExecutor(ctx, db).ExecContext(ctx, `
		UPDATE outbox_commands
		SET status = CASE WHEN $2 AND attempts < $3 THEN 'PENDING' ELSE 'FAILED' END,
		    error = $4, updated_at = now()
		WHERE id = $1 AND status = 'PROCESSING'`,
		id.String(), retryable, maxAttempts, reason,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to mark command failed", err)

		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return pkg.WrapEntityNotFoundError("OutboxCommand", sql.ErrNoRows)
	}

	return nil
}

// CountByStatus returns the row count per status, feeding metrics and the
// readiness probe.
func (r *OutboxPostgreSQLRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	db, err := r.connection.GetDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT status, count(*) FROM outbox_commands GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)

	for rows.Next() {
		var (
			status string
			count  int64
		)

		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}

		counts[status] = count
	}

	return counts, rows.Err()
}

// LastCommittedAt returns the most recent commit time, or nil when the outbox
// never committed anything.
func (r *OutboxPostgreSQLRepository) LastCommittedAt(ctx context.Context) (*time.Time, error) {
	db, err := r.connection.GetDB()
	if err != nil {
		return nil, err
	}

	var committedAt sql.NullTime

	err = db.QueryRowContext(ctx, `SELECT max(updated_at) FROM outbox_commands WHERE status = 'COMMITTED'`).Scan(&committedAt)
	if err != nil {
		return nil, err
	}

	if !committedAt.Valid {
		return nil, nil
	}

	return &committedAt.Time, nil
}

// sortByCreatedAt restores FIFO order; UPDATE ... RETURNING does not preserve
// the inner SELECT ordering.
func sortByCreatedAt(commands []*mmodel.OutboxCommand) {
	sort.SliceStable(commands, func(i, j int) bool {
		return commands[i].CreatedAt.Before(commands[j].CreatedAt)
	})
}
