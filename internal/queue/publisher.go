package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends events to RabbitMQ. The connection is opened lazily and
// re-dialled when the broker dropped it; each publish uses its own channel.
type Publisher struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
}

// NewPublisher returns a Publisher for the broker at url. No connection is
// made until the first publish.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

func (p *Publisher) connection() (*amqp.Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn, nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	p.conn = conn
	return conn, nil
}

// PublishReservationCreated publishes ev to the reservation.created queue as
// a persistent JSON message. Errors are logged and returned; callers
// normally treat them as non-fatal.
func (p *Publisher) PublishReservationCreated(ctx context.Context, ev ReservationCreatedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.publish(ctx, ReservationCreatedQueue, body); err != nil {
		log.Printf("rabbitmq: publish %s for %s failed: %v", ReservationCreatedQueue, ev.Code, err)
		return err
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, queue string, body []byte) error {
	conn, err := p.connection()
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// Close closes the broker connection if one is open.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}
