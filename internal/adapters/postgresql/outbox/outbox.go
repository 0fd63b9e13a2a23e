package outbox

import (
	"database/sql"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"

	"github.com/google/uuid"
)

// OutboxPostgreSQLModel represents the entity.OutboxCommand into SQL context in Database.
type OutboxPostgreSQLModel struct {
	ID            string
	TenantID      string
	Service       string
	CommandType   string
	RequestID     string
	AggregateID   string
	Payload       []byte
	Status        string
	Attempts      int
	LastAttemptAt sql.NullTime
	FabricTxID    sql.NullString
	CommitBlock   sql.NullInt64
	Error         sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ToEntity converts an OutboxPostgreSQLModel to entity.OutboxCommand.
func (m *OutboxPostgreSQLModel) ToEntity() *mmodel.OutboxCommand {
	cmd := &mmodel.OutboxCommand{
		ID:          uuid.MustParse(m.ID),
		TenantID:    m.TenantID,
		Service:     m.Service,
		CommandType: m.CommandType,
		RequestID:   m.RequestID,
		AggregateID: m.AggregateID,
		Payload:     m.Payload,
		Status:      m.Status,
		Attempts:    m.Attempts,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}

	if m.LastAttemptAt.Valid {
		lastAttemptAt := m.LastAttemptAt.Time
		cmd.LastAttemptAt = &lastAttemptAt
	}

	if m.FabricTxID.Valid {
		fabricTxID := m.FabricTxID.String
		cmd.FabricTxID = &fabricTxID
	}

	if m.CommitBlock.Valid {
		commitBlock := uint64(m.CommitBlock.Int64)
		cmd.CommitBlock = &commitBlock
	}

	if m.Error.Valid {
		errorMessage := m.Error.String
		cmd.Error = &errorMessage
	}

	return cmd
}

// FromEntity converts an entity.OutboxCommand to OutboxPostgreSQLModel.
func (m *OutboxPostgreSQLModel) FromEntity(cmd *mmodel.OutboxCommand) {
	m.ID = cmd.ID.String()
	m.TenantID = cmd.TenantID
	m.Service = cmd.Service
	m.CommandType = cmd.CommandType
	m.RequestID = cmd.RequestID
	m.AggregateID = cmd.AggregateID
	m.Payload = cmd.Payload
	m.Status = cmd.Status
	m.Attempts = cmd.Attempts
	m.CreatedAt = cmd.CreatedAt
	m.UpdatedAt = cmd.UpdatedAt

	if cmd.LastAttemptAt != nil {
		m.LastAttemptAt = sql.NullTime{Time: *cmd.LastAttemptAt, Valid: true}
	}

	if cmd.FabricTxID != nil {
		m.FabricTxID = sql.NullString{String: *cmd.FabricTxID, Valid: true}
	}

	if cmd.CommitBlock != nil {
		m.CommitBlock = sql.NullInt64{Int64: int64(*cmd.CommitBlock), Valid: true}
	}

	if cmd.Error != nil {
		m.Error = sql.NullString{String: *cmd.Error, Valid: true}
	}
}
