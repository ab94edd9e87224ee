package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Notifier delivers a status-change notice to the affected member.
type Notifier interface {
	SendStatusChange(to, eventTitle, eventDate, newStatus string) error
}

// StartStatusConsumer consumes the application.status queue, writes an
// audit log line per message and hands the event to the notifier. It runs
// a reconnect loop with capped exponential backoff and never returns
// during normal operation; broken messages are rejected without requeue
// so a poison payload cannot spin the loop.
func StartStatusConsumer(url string, log *zerolog.Logger, notifier Notifier) {
	if url == "" {
		log.Info().Msg("status consumer disabled: no broker URL")
		return
	}
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("status consumer dial failed")
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, log, notifier); err != nil {
			log.Warn().Err(err).Msg("status consumer loop ended, reconnecting")
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, log *zerolog.Logger, notifier Notifier) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("set QoS failed")
	}
	if _, err := ch.QueueDeclare(statusQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(statusQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, log, notifier); err != nil {
			log.Error().Err(err).Msg("status message failed")
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, log *zerolog.Logger, notifier Notifier) error {
	var ev ApplicationStatusEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	log.Info().
		Uint64("application_id", ev.ApplicationID).
		Uint64("event_id", ev.EventID).
		Uint64("user_id", ev.UserID).
		Str("from", ev.OldStatus).
		Str("to", ev.NewStatus).
		Str("changed_at", ev.ChangedAt).
		Msg("application status changed")

	if notifier == nil || ev.Email == "" {
		return nil
	}
	if err := notifier.SendStatusChange(ev.Email, ev.EventTitle, ev.EventDate, ev.NewStatus); err != nil {
		// Mail failure is logged but does not poison the message.
		log.Error().Err(err).Str("email", ev.Email).Msg("status mail failed")
	}
	return nil
}
