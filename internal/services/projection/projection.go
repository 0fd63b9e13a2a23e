// Package projection turns the ordered chaincode event stream into read-model
// state, advancing the checkpoint in the same database transaction as each
// mutation so every event has exactly-once effect.
package projection

import (
	"context"
	"fmt"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/mongodb/dlq"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/checkpoint"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/proposal"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/transactionlog"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/userprofile"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/wallet"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/rabbitmq"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/schema"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mpostgres"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mprometheus"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mretry"
)

// EventHandler applies one event's read-model mutation. It runs inside the
// checkpoint co-transaction, so every write it issues must be idempotent
// under the event's natural keys.
type EventHandler func(ctx context.Context, event mmodel.BlockchainEvent) error

// HandlerRegistry maps (eventName, eventVersion) onto handlers. New event
// types register here without touching the projector loop.
type HandlerRegistry struct {
	handlers map[string]EventHandler
}

// NewHandlerRegistry creates an empty registry.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string]EventHandler),
	}
}

// Register adds a handler for one event name and version.
func (r *HandlerRegistry) Register(eventName, version string, handler EventHandler) {
	key := eventName + "@" + version
	if _, exists := r.handlers[key]; exists {
		panic(fmt.Sprintf("handler for %s registered twice", key))
	}

	r.handlers[key] = handler
}

// Resolve returns the handler for (eventName, version).
func (r *HandlerRegistry) Resolve(eventName, version string) (EventHandler, bool) {
	handler, ok := r.handlers[eventName+"@"+version]
	return handler, ok
}

// UseCase is a struct that aggregates various repositories for simplified access in use case implementation.
type UseCase struct {
	// Connection owns the primary pool the co-transactions run on.
	Connection *mpostgres.PostgresConnection

	// CheckpointRepo provides an abstraction on top of the projector state data source.
	CheckpointRepo checkpoint.Repository

	// WalletRepo provides an abstraction on top of the wallet read model.
	WalletRepo wallet.Repository

	// UserProfileRepo provides an abstraction on top of the user profile read model.
	UserProfileRepo userprofile.Repository

	// TransactionLogRepo provides an abstraction on top of the transaction history read model.
	TransactionLogRepo transactionlog.Repository

	// ProposalRepo provides an abstraction on top of the governance read model.
	ProposalRepo proposal.Repository

	// DLQRepo quarantines events whose handler kept failing.
	DLQRepo dlq.Repository

	// Producer publishes applied-event notifications. Best-effort.
	Producer rabbitmq.ProducerRepository

	// SchemaRegistry validates envelopes before dispatch.
	SchemaRegistry *schema.Registry

	// Handlers dispatches events to their read-model mutations.
	Handlers *HandlerRegistry

	// Metrics records projector counters and gauges.
	Metrics *mprometheus.Metrics

	// DLQRetry bounds handler retries before quarantine.
	DLQRetry mretry.Config

	// TenantID, ProjectorName and Channel identify this consumer's checkpoint row.
	TenantID      string
	ProjectorName string
	Channel       string

	// StartBlock seeds the checkpoint when no row exists yet.
	StartBlock uint64
}

// RegisterDefaultHandlers wires the handler set for the events the chaincode
// declares today. The legacy InternalTransferEvent alias shares the transfer
// handler.
func (uc *UseCase) RegisterDefaultHandlers() {
	uc.Handlers.Register(constant.EventUserCreated, "1.0", uc.HandleUserCreated)
	uc.Handlers.Register(constant.EventWalletCreated, "1.0", uc.HandleWalletCreated)
	uc.Handlers.Register(constant.EventTransferCompleted, "1.0", uc.HandleTransferCompleted)
	uc.Handlers.Register(constant.EventInternalTransfer, "1.0", uc.HandleTransferCompleted)
	uc.Handlers.Register(constant.EventWalletFrozen, "1.0", uc.HandleWalletFrozen)
	uc.Handlers.Register(constant.EventWalletUnfrozen, "1.0", uc.HandleWalletUnfrozen)
	uc.Handlers.Register(constant.EventProposalCreated, "1.0", uc.HandleProposalCreated)
	uc.Handlers.Register(constant.EventVoteCast, "1.0", uc.HandleVoteCast)
	uc.Handlers.Register(constant.EventProposalApproved, "1.0", uc.HandleProposalApproved)
}

// LoadCheckpoint reads this consumer's resume position.
func (uc *UseCase) LoadCheckpoint(ctx context.Context) (*mmodel.Checkpoint, error) {
	return uc.CheckpointRepo.Load(ctx, uc.TenantID, uc.ProjectorName, uc.Channel, uc.StartBlock)
}
