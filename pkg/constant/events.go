package constant

// Chaincode event names consumed by the projector.
const (
	EventUserCreated       = "UserCreated"
	EventWalletCreated     = "WalletCreated"
	EventTransferCompleted = "TransferCompleted"
	// EventInternalTransfer is the legacy alias some chaincode versions emit
	// for the same logical transfer. It shares schema and handler with
	// EventTransferCompleted.
	EventInternalTransfer  = "InternalTransferEvent"
	EventWalletFrozen      = "WalletFrozen"
	EventWalletUnfrozen    = "WalletUnfrozen"
	EventProposalCreated   = "ProposalCreated"
	EventVoteCast          = "VoteCast"
	EventProposalApproved  = "ProposalApproved"
)

// Command types accepted by the outbox. Each maps to a chaincode function in
// the submitter's command table.
const (
	CommandRegisterUser   = "REGISTER_USER"
	CommandCreateWallet   = "CREATE_WALLET"
	CommandTransferTokens = "TRANSFER_TOKENS"
	CommandFreezeWallet   = "FREEZE_WALLET"
	CommandUnfreezeWallet = "UNFREEZE_WALLET"
	CommandCreateProposal = "CREATE_PROPOSAL"
	CommandCastVote       = "CAST_VOTE"
)

// DefaultEventVersion is assumed when the chaincode envelope omits a version.
const DefaultEventVersion = "1.0"
