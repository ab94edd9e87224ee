package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const statusQueueName = "application.status"

// Publisher sends ApplicationStatusEvents to the broker. A nil Publisher
// (or one with an empty URL) is a no-op, so callers never have to branch
// on whether messaging is configured.
type Publisher struct {
	url string
	log *zerolog.Logger
}

func NewPublisher(url string, log *zerolog.Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

// Publish sends one persistent message to the application.status queue.
// Failures are logged and returned; callers treat them as non-fatal so a
// broker outage never blocks the admin's status change.
func (p *Publisher) Publish(ctx context.Context, event ApplicationStatusEvent) error {
	if p == nil || p.url == "" {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Error().Err(err).Msg("amqp dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error().Err(err).Msg("amqp channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(statusQueueName, true, false, false, false, nil); err != nil {
		p.log.Error().Err(err).Msg("amqp queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", statusQueueName, false, false, pub); err != nil {
		p.log.Error().Err(err).Msg("amqp publish failed")
		return err
	}
	return nil
}
