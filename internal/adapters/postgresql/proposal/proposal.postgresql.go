package proposal

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/dbtx"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mpostgres"

	"github.com/lib/pq"
)

// Proposal is the projected governance proposal with its vote tallies.
type Proposal struct {
	ProposalID   string    `json:"proposalId"`
	TenantID     string    `json:"tenantId"`
	ProposerID   string    `json:"proposerId"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	VotesFor     int64     `json:"votesFor"`
	VotesAgainst int64     `json:"votesAgainst"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Approval is a multi-sig approval list keyed by the transaction being approved.
type Approval struct {
	TxID      string    `json:"txId"`
	Approvers []string  `json:"approvers"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Repository provides an interface for operations related to governance read model entities.
//
//go:generate mockgen --destination=proposal.mock.go --package=proposal . Repository
type Repository interface {
	Upsert(ctx context.Context, p *Proposal) error
	IncrementVote(ctx context.Context, proposalID string, inFavor bool) error
	AppendApprover(ctx context.Context, txID, approver string) error
	Find(ctx context.Context, proposalID string) (*Proposal, error)
}

// ProposalPostgreSQLRepository is a Postgresql-specific implementation of the governance Repository.
type ProposalPostgreSQLRepository struct {
	connection *mpostgres.PostgresConnection
	tableName  string
}

// NewProposalPostgreSQLRepository returns a new instance of ProposalPostgreSQLRepository using the given Postgres connection.
func NewProposalPostgreSQLRepository(pc *mpostgres.PostgresConnection) *ProposalPostgreSQLRepository {
	r := &ProposalPostgreSQLRepository{
		connection: pc,
		tableName:  "proposals",
	}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

// Upsert creates or refreshes a proposal keyed by proposal_id. Tallies are
// never reset by a replayed ProposalCreated.
func (r *ProposalPostgreSQLRepository) Upsert(ctx context.Context, p *Proposal) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.upsert_proposal")
	defer span.End()

	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	_, err = dbtx.GetExecutor(ctx, db).ExecContext(ctx, `
		INSERT INTO proposals (proposal_id, tenant_id, proposer_id, title, status, votes_for, votes_against, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, 0, now(), now())
		ON CONFLICT (proposal_id)
		DO UPDATE SET title = EXCLUDED.title, status = EXCLUDED.status, updated_at = now()`,
		p.ProposalID, p.TenantID, p.ProposerID, p.Title, p.Status,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to upsert proposal", err)

		return err
	}

	return nil
}

// IncrementVote bumps the tally counter for one side.
func (r *ProposalPostgreSQLRepository) IncrementVote(ctx context.Context, proposalID string, inFavor bool) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.increment_proposal_vote")
	defer span.End()

	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	result, err := dbtx.GetExecutor(ctx, db).ExecContext(ctx, `
		UPDATE proposals
		SET votes_for = votes_for + CASE WHEN $2 THEN 1 ELSE 0 END,
		    votes_against = votes_against + CASE WHEN $2 THEN 0 ELSE 1 END,
		    updated_at = now()
		WHERE proposal_id = $1`,
		proposalID, inFavor,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to increment vote", err)

		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return pkg.WrapEntityNotFoundError("Proposal", sql.ErrNoRows)
	}

	return nil
}

// AppendApprover adds one approver to the multi-sig list keyed by txID,
// keeping the list free of duplicates so replays change nothing.
func (r *ProposalPostgreSQLRepository) AppendApprover(ctx context.Context, txID, approver string) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.append_approver")
	defer span.End()

	db, err := r.connection.GetPrimaryDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	_, err = dbtx.GetExecutor(ctx, db).ExecContext(ctx, `
		INSERT INTO multisig_approvals (tx_id, approvers, updated_at)
		VALUES ($1, ARRAY[$2]::text[], now())
		ON CONFLICT (tx_id)
		DO UPDATE SET approvers = (
			SELECT array_agg(DISTINCT a) FROM unnest(multisig_approvals.approvers || EXCLUDED.approvers) AS a
		), updated_at = now()`,
		txID, approver,
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to append approver", err)

		return err
	}

	return nil
}

// Find retrieves a proposal by id from the read pool.
func (r *ProposalPostgreSQLRepository) Find(ctx context.Context, proposalID string) (*Proposal, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_proposal")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	p := &Proposal{}

	err = db.QueryRowContext(ctx, `
		SELECT proposal_id, tenant_id, proposer_id, title, status, votes_for, votes_against, created_at, updated_at
		FROM proposals WHERE proposal_id = $1`,
		proposalID,
	).Scan(&p.ProposalID, &p.TenantID, &p.ProposerID, &p.Title, &p.Status, &p.VotesFor, &p.VotesAgainst, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.NewEntityNotFoundError("Proposal")
	}

	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to find proposal", err)

		return nil, err
	}

	return p, nil
}

// FindApproval retrieves the approver list for one transaction.
func (r *ProposalPostgreSQLRepository) FindApproval(ctx context.Context, txID string) (*Approval, error) {
	db, err := r.connection.GetDB()
	if err != nil {
		return nil, err
	}

	approval := &Approval{}

	err = db.QueryRowContext(ctx, `
		SELECT tx_id, approvers, updated_at FROM multisig_approvals WHERE tx_id = $1`,
		txID,
	).Scan(&approval.TxID, pq.Array(&approval.Approvers), &approval.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.NewEntityNotFoundError("Approval")
	}

	if err != nil {
		return nil, err
	}

	return approval, nil
}
