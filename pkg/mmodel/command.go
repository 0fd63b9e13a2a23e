package mmodel

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxCommand is a write intent recorded by the API tier and drained to the
// ledger by the submitter. Status only ever moves forward:
// PENDING -> PROCESSING -> (COMMITTED | PENDING | FAILED).
type OutboxCommand struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      string          `json:"tenantId"`
	Service       string          `json:"service"`
	CommandType   string          `json:"commandType"`
	RequestID     string          `json:"requestId"`
	AggregateID   string          `json:"aggregateId"`
	Payload       json.RawMessage `json:"payload"`
	Status        string          `json:"status"`
	Attempts      int             `json:"attempts"`
	LastAttemptAt *time.Time      `json:"lastAttemptAt,omitempty"`
	FabricTxID    *string         `json:"fabricTxId,omitempty"`
	CommitBlock   *uint64         `json:"commitBlock,omitempty"`
	Error         *string         `json:"error,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// EnqueueCommandInput is the payload accepted from the API tier. AggregateID
// is mandatory so per-aggregate FIFO can be enforced at claim time.
type EnqueueCommandInput struct {
	TenantID    string          `json:"tenantId" validate:"required"`
	Service     string          `json:"service" validate:"required"`
	CommandType string          `json:"commandType" validate:"required"`
	RequestID   string          `json:"requestId" validate:"required,max=255"`
	AggregateID string          `json:"aggregateId" validate:"required,max=255"`
	Payload     json.RawMessage `json:"payload" validate:"required"`
}
