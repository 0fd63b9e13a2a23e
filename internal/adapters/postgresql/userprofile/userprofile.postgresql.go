package userprofile

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/dbtx"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mpostgres"
)

// UserProfile is the projected profile row. The API tier creates profiles
// with their PII during registration; the projector only flips status fields
// once the chain confirms them. Events alone never invent a profile, because
// required PII is not on-chain.
type UserProfile struct {
	ID                  string     `json:"id"`
	TenantID            string     `json:"tenantId"`
	FabricUserID        string     `json:"fabricUserId"`
	Status              string     `json:"status"`
	OnchainRegisteredAt *time.Time `json:"onchainRegisteredAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// Repository provides an interface for operations related to user profile read model entities.
//
//go:generate mockgen --destination=userprofile.mock.go --package=userprofile . Repository
type Repository interface {
	Activate(ctx context.Context, fabricUserID string, registeredAt time.Time) (bool, error)
	SetStatus(ctx context.Context, fabricUserID, status string) (bool, error)
	FindByFabricUserID(ctx context.Context, fabricUserID string) (*UserProfile, error)
}

// UserProfilePostgreSQLRepository is a Postgresql-specific implementation of the user profile Repository.
type UserProfilePostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewUserProfilePostgreSQLRepository returns a new instance of UserProfilePostgreSQLRepository using the given Postgres connection.
func NewUserProfilePostgreSQLRepository(pc *mpostgres.PostgresConnection) *UserProfilePostgreSQLRepository {
	r := &UserProfilePostgreSQLRepository{
		connection: pc,
		tableName:  "user_profiles",
	}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

// Activate transitions an existing profile to ACTIVE and stamps the on-chain
// registration time. Returns false when no profile matches fabricUserID.
func (r *UserProfilePostgreSQLRepository) Activate(ctx context.Context, fabricUserID string, registeredAt time.Time) (bool, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.activate_user_profile")
	defer span.End()

	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return false, err
	}

	result, err := dbtx.GetExecutor(ctx, db).ExecContext(ctx, `
		UPDATE user_profiles
		SET status = 'ACTIVE', onchain_registered_at = $2, updated_at = now()
		WHERE fabric_user_id = $1`,
		fabricUserID, registeredAt,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to activate user profile", err)

		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// SetStatus sets the projected status field. Returns false when no profile
// matches fabricUserID.
func (r *UserProfilePostgreSQLRepository) SetStatus(ctx context.Context, fabricUserID, status string) (bool, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.set_user_profile_status")
	defer span.End()

	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return false, err
	}

	result, err := dbtx.GetExecutor(ctx, db).ExecContext(ctx, `
		UPDATE user_profiles SET status = $2, updated_at = now() WHERE fabric_user_id = $1`,
		fabricUserID, status,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to set user profile status", err)

		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// FindByFabricUserID retrieves a profile by its chain identity.
func (r *UserProfilePostgreSQLRepository) FindByFabricUserID(ctx context.Context, fabricUserID string) (*UserProfile, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_user_profile")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	profile := &UserProfile{}

	var onchainRegisteredAt sql.NullTime

	err = db.QueryRowContext(ctx, `
		SELECT id, tenant_id, fabric_user_id, status, onchain_registered_at, created_at, updated_at
		FROM user_profiles WHERE fabric_user_id = $1`,
		fabricUserID,
	).Scan(&profile.ID, &profile.TenantID, &profile.FabricUserID, &profile.Status, &onchainRegisteredAt, &profile.CreatedAt, &profile.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.NewEntityNotFoundError("UserProfile")
	}

	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to find user profile", err)

		return nil, err
	}

	if onchainRegisteredAt.Valid {
		registeredAt := onchainRegisteredAt.Time
		profile.OnchainRegisteredAt = &registeredAt
	}

	return profile, nil
}
