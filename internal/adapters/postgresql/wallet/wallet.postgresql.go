package wallet

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/dbtx"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mpostgres"

	"github.com/shopspring/decimal"
)

// Wallet is the projected wallet read model. Only the projector writes it.
type Wallet struct {
	WalletID      string          `json:"walletId"`
	TenantID      string          `json:"tenantId"`
	FabricUserID  string          `json:"fabricUserId"`
	CachedBalance decimal.Decimal `json:"cachedBalance"`
	IsFrozen      bool            `json:"isFrozen"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Repository provides an interface for operations related to wallet read model entities.
//
//go:generate mockgen --destination=wallet.mock.go --package=wallet . Repository
type Repository interface {
	Upsert(ctx context.Context, w *Wallet) error
	AdjustBalance(ctx context.Context, walletID string, delta decimal.Decimal) error
	SetFrozen(ctx context.Context, walletID string, frozen bool) error
	Find(ctx context.Context, walletID string) (*Wallet, error)
}

// WalletPostgreSQLRepository is a Postgresql-specific implementation of the wallet Repository.
type WalletPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewWalletPostgreSQLRepository returns a new instance of WalletPostgreSQLRepository using the given Postgres connection.
func NewWalletPostgreSQLRepository(pc *mpostgres.PostgresConnection) *WalletPostgreSQLRepository {
	r := &WalletPostgreSQLRepository{
		connection: pc,
		tableName:  "wallets",
	}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

// Upsert creates or refreshes a wallet row keyed by wallet_id. Balance is
// only seeded on insert; replayed WalletCreated events never reset it.
func (r *WalletPostgreSQLRepository) Upsert(ctx context.Context, w *Wallet) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.upsert_wallet")
	defer span.End()

	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	_, err = dbtx.GetExecutor(ctx, db).ExecContext(ctx, `
		INSERT INTO wallets (wallet_id, tenant_id, fabric_user_id, cached_balance, is_frozen, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (wallet_id)
		DO UPDATE SET fabric_user_id = EXCLUDED.fabric_user_id, updated_at = now()`,
		w.WalletID, w.TenantID, w.FabricUserID, w.CachedBalance.String(), w.IsFrozen,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to upsert wallet", err)

		return err
	}

	return nil
}

// AdjustBalance applies a signed delta to the cached balance.
func (r *WalletPostgreSQLRepository) AdjustBalance(ctx context.Context, walletID string, delta decimal.Decimal) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.adjust_wallet_balance")
	defer span.End()

	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	result, err := dbtx.GetExecutor(ctx, db).ExecContext(ctx, `
		UPDATE wallets
		SET cached_balance = cached_balance + $2::numeric, updated_at = now()
		WHERE wallet_id = $1`,
		walletID, delta.String(),
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to adjust wallet balance", err)

		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return pkg.WrapEntityNotFoundError("Wallet", sql.ErrNoRows)
	}

	return nil
}

// SetFrozen flips the frozen flag.
func (r *WalletPostgreSQLRepository) SetFrozen(ctx context.Context, walletID string, frozen bool) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.set_wallet_frozen")
	defer span.End()

	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	result, err := dbtx.GetExecutor(ctx, db).ExecContext(ctx, `
		UPDATE wallets SET is_frozen = $2, updated_at = now() WHERE wallet_id = $1`,
		walletID, frozen,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to set wallet frozen", err)

		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return pkg.WrapEntityNotFoundError("Wallet", sql.ErrNoRows)
	}

	return nil
}

// Find retrieves a wallet by id from the read pool.
func (r *WalletPostgreSQLRepository) Find(ctx context.Context, walletID string) (*Wallet, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_wallet")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	w := &Wallet{}

	var balance string

	err = db.QueryRowContext(ctx, `
		SELECT wallet_id, tenant_id, fabric_user_id, cached_balance, is_frozen, created_at, updated_at
		FROM wallets WHERE wallet_id = $1`,
		walletID,
	).Scan(&w.WalletID, &w.TenantID, &w.FabricUserID, &balance, &w.IsFrozen, &w.CreatedAt, &w.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.NewEntityNotFoundError("Wallet")
	}

	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to find wallet", err)

		return nil, err
	}

	w.CachedBalance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, err
	}

	return w, nil
}
