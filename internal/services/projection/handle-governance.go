package projection

import (
	"context"
	"encoding/json"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/proposal"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
)

type proposalCreatedPayload struct {
	ProposalID string `json:"proposalId"`
	ProposerID string `json:"proposerId"`
	Title      string `json:"title"`
	Status     string `json:"status"`
}

// HandleProposalCreated upserts the proposal keyed by proposalId.
func (uc *UseCase) HandleProposalCreated(ctx context.Context, event mmodel.BlockchainEvent) error {
	var payload proposalCreatedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	status := payload.Status
	if status == "" {
		status = "OPEN"
	}

	return uc.ProposalRepo.Upsert(ctx, &proposal.Proposal{
		ProposalID: payload.ProposalID,
		TenantID:   uc.TenantID,
		ProposerID: payload.ProposerID,
		Title:      payload.Title,
		Status:     status,
	})
}

type voteCastPayload struct {
	ProposalID string `json:"proposalId"`
	VoterID    string `json:"voterId"`
	InFavor    bool   `json:"inFavor"`
}

// HandleVoteCast increments the tally counter keyed by proposalId.
func (uc *UseCase) HandleVoteCast(ctx context.Context, event mmodel.BlockchainEvent) error {
	var payload voteCastPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	return uc.ProposalRepo.IncrementVote(ctx, payload.ProposalID, payload.InFavor)
}

type proposalApprovedPayload struct {
	TxID       string `json:"txId"`
	ApproverID string `json:"approverId"`
}

// HandleProposalApproved appends to the multi-sig approver list keyed by txId.
func (uc *UseCase) HandleProposalApproved(ctx context.Context, event mmodel.BlockchainEvent) error {
	var payload proposalApprovedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	return uc.ProposalRepo.AppendApprover(ctx, payload.TxID, payload.ApproverID)
}
