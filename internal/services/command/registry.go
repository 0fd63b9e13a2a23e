package command

import (
	"encoding/json"
	"fmt"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"
)

// Typed payloads, one per command variant. The chaincode takes positional
// string arguments, so each encoder decodes its typed record and lays the
// fields out in the declared order.

// RegisterUserPayload registers a user's chain identity.
type RegisterUserPayload struct {
	FabricUserID string `json:"fabricUserId"`
}

// CreateWalletPayload creates a wallet for a registered user.
type CreateWalletPayload struct {
	WalletID     string `json:"walletId"`
	FabricUserID string `json:"fabricUserId"`
}

// TransferPayload moves tokens between two users.
type TransferPayload struct {
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
	Amount     string `json:"amount"`
	Remark     string `json:"remark"`
}

// FreezeWalletPayload freezes or unfreezes a wallet.
type FreezeWalletPayload struct {
	WalletID string `json:"walletId"`
	Reason   string `json:"reason"`
}

// CreateProposalPayload opens a governance proposal.
type CreateProposalPayload struct {
	ProposalID string `json:"proposalId"`
	ProposerID string `json:"proposerId"`
	Title      string `json:"title"`
}

// CastVotePayload records one vote on a proposal.
type CastVotePayload struct {
	ProposalID string `json:"proposalId"`
	VoterID    string `json:"voterId"`
	InFavor    bool   `json:"inFavor"`
}

func decodeInto[T any](payload json.RawMessage) (T, error) {
	var value T
	if err := json.Unmarshal(payload, &value); err != nil {
		return value, fmt.Errorf("malformed payload: %w", err)
	}

	return value, nil
}

// DefaultCommandTable registers the command set the chaincode declares today.
func DefaultCommandTable() *CommandTable {
	table := NewCommandTable()

	table.Register(constant.CommandRegisterUser, "1.0", "RegisterUser", func(payload json.RawMessage) ([]string, error) {
		p, err := decodeInto[RegisterUserPayload](payload)
		if err != nil {
			return nil, err
		}

		if p.FabricUserID == "" {
			return nil, fmt.Errorf("malformed payload: fabricUserId is required")
		}

		return []string{p.FabricUserID}, nil
	})

	table.Register(constant.CommandCreateWallet, "1.0", "CreateWallet", func(payload json.RawMessage) ([]string, error) {
		p, err := decodeInto[CreateWalletPayload](payload)
		if err != nil {
			return nil, err
		}

		if p.WalletID == "" || p.FabricUserID == "" {
			return nil, fmt.Errorf("malformed payload: walletId and fabricUserId are required")
		}

		return []string{p.WalletID, p.FabricUserID}, nil
	})

	table.Register(constant.CommandTransferTokens, "1.0", "TransferTokens", func(payload json.RawMessage) ([]string, error) {
		p, err := decodeInto[TransferPayload](payload)
		if err != nil {
			return nil, err
		}

		if p.FromUserID == "" || p.ToUserID == "" || p.Amount == "" {
			return nil, fmt.Errorf("malformed payload: fromUserId, toUserId and amount are required")
		}

		return []string{p.FromUserID, p.ToUserID, p.Amount, p.Remark}, nil
	})

	table.Register(constant.CommandFreezeWallet, "1.0", "FreezeWallet", func(payload json.RawMessage) ([]string, error) {
		p, err := decodeInto[FreezeWalletPayload](payload)
		if err != nil {
			return nil, err
		}

		if p.WalletID == "" {
			return nil, fmt.Errorf("malformed payload: walletId is required")
		}

		return []string{p.WalletID, p.Reason}, nil
	})

	table.Register(constant.CommandUnfreezeWallet, "1.0", "UnfreezeWallet", func(payload json.RawMessage) ([]string, error) {
		p, err := decodeInto[FreezeWalletPayload](payload)
		if err != nil {
			return nil, err
		}

		if p.WalletID == "" {
			return nil, fmt.Errorf("malformed payload: walletId is required")
		}

		return []string{p.WalletID}, nil
	})

	table.Register(constant.CommandCreateProposal, "1.0", "CreateProposal", func(payload json.RawMessage) ([]string, error) {
		p, err := decodeInto[CreateProposalPayload](payload)
		if err != nil {
			return nil, err
		}

		if p.ProposalID == "" || p.ProposerID == "" {
			return nil, fmt.Errorf("malformed payload: proposalId and proposerId are required")
		}

		return []string{p.ProposalID, p.ProposerID, p.Title}, nil
	})

	table.Register(constant.CommandCastVote, "1.0", "CastVote", func(payload json.RawMessage) ([]string, error) {
		p, err := decodeInto[CastVotePayload](payload)
		if err != nil {
			return nil, err
		}

		if p.ProposalID == "" || p.VoterID == "" {
			return nil, fmt.Errorf("malformed payload: proposalId and voterId are required")
		}

		inFavor := "false"
		if p.InFavor {
			inFavor = "true"
		}

		return []string{p.ProposalID, p.VoterID, inFavor}, nil
	})

	return table
}
