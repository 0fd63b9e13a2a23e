package idempotency

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/dbtx"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mpostgres"
)

// Repository provides an interface for operations related to http idempotency entities.
//
//go:generate mockgen --destination=idempotency.mock.go --package=idempotency . Repository
type Repository interface {
	Record(ctx context.Context, record *mmodel.IdempotencyRecord, ttl time.Duration) error
	Lookup(ctx context.Context, tenantID, method, path, bodyHash, key string) (*mmodel.IdempotencyRecord, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// IdempotencyPostgreSQLRepository is a Postgresql-specific implementation of the idempotency Repository.
type IdempotencyPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewIdempotencyPostgreSQLRepository returns a new instance of IdempotencyPostgreSQLRepository using the given Postgres connection.
func NewIdempotencyPostgreSQLRepository(pc *mpostgres.PostgresConnection) *IdempotencyPostgreSQLRepository {
	r := &IdempotencyPostgreSQLRepository{
		connection: pc,
		tableName:  "http_idempotency",
	}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

// Record stores the finished response under the idempotency key. A replayed
// insert keeps the first stored response untouched, so the original bytes are
// always the ones replayed.
func (r *IdempotencyPostgreSQLRepository) Record(ctx context.Context, record *mmodel.IdempotencyRecord, ttl time.Duration) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.record_idempotency")
	defer span.End()

	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	_, err = dbtx.GetExecutor(ctx, db).ExecContext(ctx, `
		INSERT INTO http_idempotency (tenant_id, method, path, body_hash, idempotency_key, status_code, response_body, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now() + make_interval(secs => $8))
		ON CONFLICT (tenant_id, method, path, body_hash, idempotency_key) DO NOTHING`,
		record.TenantID,
		record.Method,
		record.Path,
		record.BodyHash,
		record.IdempotencyKey,
		record.StatusCode,
		record.ResponseBody,
		ttl.Seconds(),
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to record idempotency", err)

		return err
	}

	return nil
}

// Lookup returns the stored response for the key, or nil when absent or
// already expired.
func (r *IdempotencyPostgreSQLRepository) Lookup(ctx context.Context, tenantID, method, path, bodyHash, key string) (*mmodel.IdempotencyRecord, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.lookup_idempotency")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	record := &mmodel.IdempotencyRecord{
		TenantID:       tenantID,
		Method:         method,
		Path:           path,
		BodyHash:       bodyHash,
		IdempotencyKey: key,
	}

	err = db.QueryRowContext(ctx, `
		SELECT status_code, response_body, expires_at
		FROM http_idempotency
		WHERE tenant_id = $1 AND method = $2 AND path = $3 AND body_hash = $4 AND idempotency_key = $5
		  AND expires_at > now()`,
		tenantID, method, path, bodyHash, key,
	).Scan(&record.StatusCode, &record.ResponseBody, &record.ExpiresAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to lookup idempotency", err)

		return nil, err
	}

	return record, nil
}

// DeleteExpired reaps rows past their TTL and returns how many went away.
func (r *IdempotencyPostgreSQLRepository) DeleteExpired(ctx context.Context) (int64, error) {
	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		return 0, err
	}

	result, err := db.ExecContext(ctx, `DELETE FROM http_idempotency WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
