package dlq

import (
	"context"
	"strings"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmongo"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holding quarantined events.
const Collection = "event_dlq"

// DeadEvent is an event whose handler kept failing (or whose payload never
// decoded). It carries everything needed to replay it by hand.
type DeadEvent struct {
	ID          string    `bson:"_id"`
	TenantID    string    `bson:"tenant_id"`
	EventName   string    `bson:"event_name"`
	Payload     []byte    `bson:"payload"`
	TxID        string    `bson:"tx_id"`
	BlockNumber uint64    `bson:"block_number"`
	TxIndex     uint32    `bson:"tx_index"`
	EventIndex  uint32    `bson:"event_index"`
	Reason      string    `bson:"reason"`
	Attempts    int       `bson:"attempts"`
	CreatedAt   time.Time `bson:"created_at"`
}

// Repository provides an interface for operations related on mongodb dead letter entities.
//
//go:generate mockgen --destination=dlq.mock.go --package=dlq . Repository
type Repository interface {
	Create(ctx context.Context, event *DeadEvent) error
	FindAll(ctx context.Context, tenantID string, limit int64) ([]*DeadEvent, error)
}

// DLQMongoDBRepository is a MongoDB-specific implementation of the dead letter Repository.
type DLQMongoDBRepository struct {
	connection *mmongo.MongoConnection
	Database   string
}

// NewDLQMongoDBRepository returns a new instance of DLQMongoDBRepository using the given MongoDB connection.
func NewDLQMongoDBRepository(mc *mmongo.MongoConnection) *DLQMongoDBRepository {
	r := &DLQMongoDBRepository{
		connection: mc,
		Database:   mc.Database,
	}

	if _, err := r.connection.GetDB(context.Background()); err != nil {
		panic("Failed to connect mongodb")
	}

	return r
}

// NewDeadEvent builds a quarantine document from a stream event.
func NewDeadEvent(tenantID string, event mmodel.BlockchainEvent, reason string, attempts int) *DeadEvent {
	return &DeadEvent{
		ID:          pkg.GenerateUUIDv7().String(),
		TenantID:    tenantID,
		EventName:   event.EventName,
		Payload:     event.Payload,
		TxID:        event.TxID,
		BlockNumber: event.BlockNumber,
		TxIndex:     event.TxIndex,
		EventIndex:  event.EventIndex,
		Reason:      reason,
		Attempts:    attempts,
		CreatedAt:   time.Now().UTC(),
	}
}

// Create quarantines one event.
func (r *DLQMongoDBRepository) Create(ctx context.Context, event *DeadEvent) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "mongodb.create_dead_event")
	defer span.End()

	db, err := r.connection.GetDB(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return err
	}

	coll := db.Database(strings.ToLower(r.Database)).Collection(Collection)

	if _, err := coll.InsertOne(ctx, event); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to insert dead event", err)

		return err
	}

	return nil
}

// FindAll lists quarantined events for operator review, newest first.
func (r *DLQMongoDBRepository) FindAll(ctx context.Context, tenantID string, limit int64) ([]*DeadEvent, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "mongodb.find_all_dead_events")
	defer span.End()

	db, err := r.connection.GetDB(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get database connection", err)

		return nil, err
	}

	coll := db.Database(strings.ToLower(r.Database)).Collection(Collection)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := coll.Find(ctx, bson.M{"tenant_id": tenantID}, opts)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to find dead events", err)

		return nil, err
	}
	defer cursor.Close(ctx)

	events := make([]*DeadEvent, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return events, nil
}
