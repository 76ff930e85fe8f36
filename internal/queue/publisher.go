package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MyNameJaeff/ByteAndBrew/internal/utils"
)

const bookingQueueName = "booking.events"

// Publisher emits BookingEvents to RabbitMQ.  A Publisher with an
// empty URL is a no-op, so handlers can call Publish unconditionally.
// Publish failures are logged and swallowed: the audit trail must
// never fail a booking that already committed.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher for the given AMQP URL.  Pass an
// empty URL to disable publishing.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// Publish sends the event to the booking.events queue.  Messages are
// persistent so they survive broker restarts.
func (p *Publisher) Publish(ctx context.Context, ev BookingEvent) {
	if p == nil || p.url == "" {
		return
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("rabbitmq: dial failed, dropping booking event")
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("rabbitmq: channel open failed")
		return
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(bookingQueueName, true, false, false, false, nil); err != nil {
		utils.ErrorLogger.WithError(err).Warn("rabbitmq: queue declare failed")
		return
	}

	body, err := json.Marshal(ev)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("rabbitmq: marshal event failed")
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", bookingQueueName, false, false, pub); err != nil {
		utils.ErrorLogger.WithError(err).Warn("rabbitmq: publish failed")
	}
}
