package rabbitmq

import (
	"context"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmodel"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mrabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vmihailenco/msgpack/v5"
)

// ProducerRepository provides an interface for the applied-event fan-out producer.
//
//go:generate mockgen --destination=producer.mock.go --package=rabbitmq . ProducerRepository
type ProducerRepository interface {
	PublishAppliedEvent(ctx context.Context, message mmodel.AppliedEvent) error
}

// ProducerRabbitMQRepository is a rabbitmq implementation of the fan-out producer.
type ProducerRabbitMQRepository struct {
	conn *mrabbitmq.RabbitMQConnection
}

// NewProducerRabbitMQ returns a new instance of ProducerRabbitMQRepository using the given rabbitmq connection.
func NewProducerRabbitMQ(c *mrabbitmq.RabbitMQConnection) *ProducerRabbitMQRepository {
	prmq := &ProducerRabbitMQRepository{
		conn: c,
	}

	if _, err := c.GetChannel(); err != nil {
		panic("Failed to connect rabbitmq")
	}

	return prmq
}

// PublishAppliedEvent publishes one applied-event notification, routed by
// event name. Delivery is best-effort; callers log and move on.
func (prmq *ProducerRabbitMQRepository) PublishAppliedEvent(ctx context.Context, message mmodel.AppliedEvent) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "rabbitmq.publish_applied_event")
	defer span.End()

	channel, err := prmq.conn.GetChannel()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get rabbitmq channel", err)

		return err
	}

	body, err := msgpack.Marshal(message)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to marshal applied event", err)

		return err
	}

	err = channel.PublishWithContext(ctx,
		prmq.conn.Exchange,
		"events."+message.EventName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/msgpack",
			Body:        body,
		},
	)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to publish applied event", err)

		return err
	}

	return nil
}
