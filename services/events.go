package services

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"atlas/logger"
)

const partnerExchange = "partner_events"

// EventPublisher pushes write notifications to a topic exchange for
// out-of-process collaborators (notification workers and the like). The sync
// protocol itself never depends on it: publishing is best-effort and a nil
// publisher is a no-op, so the core stays pull-only.
type EventPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Event names routed as "user.<receiver_id>".
const (
	EventNewMessage    = "new_message"
	EventPoke          = "poke"
	EventMemoryAdded   = "memory_added"
	EventCalendarEvent = "calendar_event"
)

func NewEventPublisher(url string) (*EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(
		partnerExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &EventPublisher{conn: conn, channel: channel}, nil
}

// Publish sends one event addressed to receiverID. Failures are logged and
// swallowed: the receiver picks the change up on its next poll regardless.
func (p *EventPublisher) Publish(ctx context.Context, receiverID, event string, payload any) {
	if p == nil {
		return
	}
	body, err := json.Marshal(map[string]any{
		"event":   event,
		"payload": payload,
	})
	if err != nil {
		logger.Warn("event marshal failed", "event", event, "err", err)
		return
	}
	err = p.channel.PublishWithContext(ctx,
		partnerExchange,
		"user."+receiverID,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		logger.Warn("event publish failed", "event", event, "err", err)
	}
}

func (p *EventPublisher) Close() error {
	if p == nil {
		return nil
	}
	if p.channel != nil {
		p.channel.Close()
	}
	return p.conn.Close()
}
