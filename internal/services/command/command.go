// Package command hosts the write-side use cases: accepting commands from the
// API tier, replaying idempotent responses and draining the outbox to the
// ledger.
package command

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/fabric"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/idempotency"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/outbox"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/redis"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mprometheus"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mretry"
)

// UseCase is a struct that aggregates various repositories for simplified access in use case implementation.
type UseCase struct {
	// OutboxRepo provides an abstraction on top of the outbox data source.
	OutboxRepo outbox.Repository

	// IdempotencyRepo provides an abstraction on top of the http idempotency data source.
	IdempotencyRepo idempotency.Repository

	// IdempotencyCache fronts IdempotencyRepo with a read-through cache.
	IdempotencyCache redis.CacheRepository

	// FabricRepo provides an abstraction on top of the fabric gateway.
	FabricRepo fabric.Repository

	// Commands maps command types onto chaincode functions.
	Commands *CommandTable

	// Metrics records submitter counters and latencies.
	Metrics *mprometheus.Metrics

	// RetryPolicy shapes the claim backoff window.
	RetryPolicy mretry.Config

	// MaxAttempts bounds retries before a command goes terminal.
	MaxAttempts int
}

// ArgEncoder turns a command payload into chaincode string arguments.
type ArgEncoder func(payload json.RawMessage) ([]string, error)

type commandEntry struct {
	chaincodeFn string
	version     string
	encoder     ArgEncoder
}

// CommandTable is the registered, versioned mapping commandType ->
// (chaincodeFunction, argEncoder). Adding a command is a registration, not a
// code change in the submitter loop.
type CommandTable struct {
	entries map[string]commandEntry
}

// NewCommandTable creates an empty table.
func NewCommandTable() *CommandTable {
	return &CommandTable{
		entries: make(map[string]commandEntry),
	}
}

// Register adds one command mapping. Registering the same type twice panics:
// the table is assembled once at bootstrap and a duplicate is a wiring bug.
func (t *CommandTable) Register(commandType, version, chaincodeFn string, encoder ArgEncoder) {
	if _, exists := t.entries[commandType]; exists {
		panic(fmt.Sprintf("command type %s registered twice", commandType))
	}

	t.entries[commandType] = commandEntry{
		chaincodeFn: chaincodeFn,
		version:     version,
		encoder:     encoder,
	}
}

// Resolve returns the chaincode function and encoder for a command type.
func (t *CommandTable) Resolve(commandType string) (string, ArgEncoder, bool) {
	entry, ok := t.entries[commandType]
	if !ok {
		return "", nil, false
	}

	return entry.chaincodeFn, entry.encoder, true
}

// Types lists the registered command types, sorted for stable logs.
func (t *CommandTable) Types() []string {
	types := make([]string, 0, len(t.entries))
	for commandType := range t.entries {
		types = append(types, commandType)
	}

	sort.Strings(types)

	return types
}
