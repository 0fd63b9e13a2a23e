package query

import (
	"context"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/proposal"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
)

// GetProposalByID retrieves a projected governance proposal with its tallies.
func (uc *UseCase) GetProposalByID(ctx context.Context, proposalID string) (*proposal.Proposal, error) {
	logger := pkg.NewLoggerFromContext(ctx)
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "query.get_proposal_by_id")
	defer span.End()

	p, err := uc.ProposalRepo.Find(ctx, proposalID)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get proposal", err)

		logger.Errorf("Error getting proposal %s: %v", proposalID, err)

		return nil, err
	}

	return p, nil
}
