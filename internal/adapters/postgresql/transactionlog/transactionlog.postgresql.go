package transactionlog

import (
	"context"
	"strings"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/dbtx"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mpostgres"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
)

// TransactionLog is one leg of a projected transfer. A transfer produces two
// rows sharing on_chain_tx_id, one per side, so (on_chain_tx_id, side) is the
// natural key.
type TransactionLog struct {
	OnChainTxID  string          `json:"onChainTxId"`
	Side         string          `json:"side"`
	TenantID     string          `json:"tenantId"`
	WalletID     string          `json:"walletId"`
	Counterparty string          `json:"counterparty"`
	Amount       decimal.Decimal `json:"amount"`
	Fee          decimal.Decimal `json:"fee"`
	Remark       string          `json:"remark"`
	BlockNumber  uint64          `json:"blockNumber"`
	Timestamp    time.Time       `json:"timestamp"`
}

// Pagination carries the filter for listing transaction legs.
type Pagination struct {
	WalletID string
	Side     string
	Limit    uint64
	Offset   uint64
}

// Repository provides an interface for operations related to transaction history entities.
//
//go:generate mockgen --destination=transactionlog.mock.go --package=transactionlog . Repository
type Repository interface {
	Insert(ctx context.Context, log *TransactionLog) (bool, error)
	FindAll(ctx context.Context, filter Pagination) ([]*TransactionLog, error)
}

// TransactionLogPostgreSQLRepository is a Postgresql-specific implementation of the transaction history Repository.
type TransactionLogPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewTransactionLogPostgreSQLRepository returns a new instance of TransactionLogPostgreSQLRepository using the given Postgres connection.
func NewTransactionLogPostgreSQLRepository(pc *mpostgres.PostgresConnection) *TransactionLogPostgreSQLRepository {
	r := &TransactionLogPostgreSQLRepository{
		connection: pc,
		tableName:  "transaction_logs",
	}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

// Insert records one transfer leg. Replayed events hit the natural-key
// conflict and change nothing; the returned bool reports whether the row was
// new, so callers can scope balance updates by on_chain_tx_id.
func (r *TransactionLogPostgreSQLRepository) Insert(ctx context.Context, log *TransactionLog) (bool, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.insert_transaction_log")
	defer span.End()

	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return false, err
	}

	result, err := dbtx.GetExecutor(ctx, db).ExecContext(ctx, `
		INSERT INTO transaction_logs (on_chain_tx_id, side, tenant_id, wallet_id, counterparty, amount, fee, remark, block_number, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (on_chain_tx_id, side) DO NOTHING`,
		log.OnChainTxID,
		strings.ToUpper(log.Side),
		log.TenantID,
		log.WalletID,
		log.Counterparty,
		log.Amount.String(),
		log.Fee.String(),
		log.Remark,
		int64(log.BlockNumber),
		log.Timestamp,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to insert transaction log", err)

		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// FindAll retrieves transaction legs from the database using the given filter.
func (r *TransactionLogPostgreSQLRepository) FindAll(ctx context.Context, filter Pagination) ([]*TransactionLog, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_all_transaction_logs")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	if filter.Limit == 0 {
		filter.Limit = 50
	}

	builder := squirrel.Select("on_chain_tx_id", "side", "tenant_id", "wallet_id", "counterparty", "amount", "fee", "remark", "block_number", "timestamp").
		From(r.tableName).
		Where(squirrel.Eq{"wallet_id": filter.WalletID}).
		OrderBy("timestamp DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		PlaceholderFormat(squirrel.Dollar)

	if filter.Side != "" {
		builder = builder.Where(squirrel.Eq{"side": strings.ToUpper(filter.Side)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to query transaction logs", err)

		return nil, err
	}
	defer rows.Close()

	logs := make([]*TransactionLog, 0)

	for rows.Next() {
		log := &TransactionLog{}

		var amount, fee string

		if err := rows.Scan(
			&log.OnChainTxID,
			&log.Side,
			&log.TenantID,
			&log.WalletID,
			&log.Counterparty,
			&amount,
			&fee,
			&log.Remark,
			&log.BlockNumber,
			&log.Timestamp,
		); err != nil {
			return nil, err
		}

		if log.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}

		if log.Fee, err = decimal.NewFromString(fee); err != nil {
			return nil, err
		}

		logs = append(logs, log)
	}

	return logs, rows.Err()
}
