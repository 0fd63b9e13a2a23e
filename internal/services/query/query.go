// Package query hosts the read-side use cases over the projected tables. The
// API tier serves request-path reads from here and never blocks on the
// ledger; staleness is bounded by the projection lag budget.
package query

import (
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/checkpoint"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/proposal"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/transactionlog"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/userprofile"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/wallet"
)

// UseCase is a struct that aggregates various repositories for simplified access in use case implementation.
type UseCase struct {
	// WalletRepo provides an abstraction on top of the wallet read model.
	WalletRepo wallet.Repository

	// UserProfileRepo provides an abstraction on top of the user profile read model.
	UserProfileRepo userprofile.Repository

	// TransactionLogRepo provides an abstraction on top of the transaction history read model.
	TransactionLogRepo transactionlog.Repository

	// ProposalRepo provides an abstraction on top of the governance read model.
	ProposalRepo proposal.Repository

	// CheckpointRepo provides an abstraction on top of the projector state data source.
	CheckpointRepo checkpoint.Repository
}
