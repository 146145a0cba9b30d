// Package notify publishes gateway events to a message broker so other
// services (e.g. push notifications) can react to locally detected booking
// expiries. Publishing is optional: without a broker URL the no-op
// publisher is used and the gateway behaves identically.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// BookingExpired is emitted when the expiry monitor sees a booking pass its
// payment deadline locally.
type BookingExpired struct {
	PlayerID   string    `json:"player_id"`
	BookingKey string    `json:"booking_key"`
	DetectedAt time.Time `json:"detected_at"`
}

// Publisher emits gateway events.
type Publisher interface {
	PublishBookingExpired(ctx context.Context, ev BookingExpired) error
	Close() error
}

type amqpPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewAMQPPublisher connects to the broker and declares a durable topic
// exchange for gateway events.
func NewAMQPPublisher(url, exchange string) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &amqpPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *amqpPublisher) PublishBookingExpired(ctx context.Context, ev BookingExpired) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, "booking.expired", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (p *amqpPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that drops every event.
func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) PublishBookingExpired(context.Context, BookingExpired) error { return nil }
func (noopPublisher) Close() error                                                { return nil }
