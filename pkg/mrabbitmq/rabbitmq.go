package mrabbitmq

import (
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mlog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQConnection is a hub which deal with rabbitmq connections.
type RabbitMQConnection struct {
	ConnectionStringSource string
	Exchange               string
	Queue                  string
	Connection             *amqp.Connection
	Channel                *amqp.Channel
	Connected              bool
	Logger                 mlog.Logger
}

// Connect keeps a singleton connection with rabbitmq.
func (rc *RabbitMQConnection) Connect() error {
	rc.Logger.Info("Connecting on rabbitmq...")

	conn, err := amqp.Dial(rc.ConnectionStringSource)
	if err != nil {
		rc.Logger.Errorf("failed to connect on rabbitmq: %v", err)

		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		rc.Logger.Errorf("failed to open channel on rabbitmq: %v", err)

		_ = conn.Close()

		return err
	}

	if rc.Exchange != "" {
		if err := ch.ExchangeDeclare(rc.Exchange, "topic", true, false, false, false, nil); err != nil {
			rc.Logger.Errorf("failed to declare exchange on rabbitmq: %v", err)

			_ = ch.Close()
			_ = conn.Close()

			return err
		}
	}

	rc.Logger.Info("Connected on rabbitmq ✅ ")

	rc.Connected = true
	rc.Connection = conn
	rc.Channel = ch

	return nil
}

// GetChannel returns a pointer to the rabbitmq channel, initializing it if necessary.
func (rc *RabbitMQConnection) GetChannel() (*amqp.Channel, error) {
	if rc.Channel == nil || rc.Channel.IsClosed() {
		if err := rc.Connect(); err != nil {
			rc.Logger.Infof("ERRCONECT %s", err)

			return nil, err
		}
	}

	return rc.Channel, nil
}

// Close shuts the channel and connection down.
func (rc *RabbitMQConnection) Close() {
	if rc.Channel != nil {
		_ = rc.Channel.Close()
	}

	if rc.Connection != nil {
		_ = rc.Connection.Close()
	}

	rc.Connected = false
}
