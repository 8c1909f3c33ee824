package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// HandlerFunc processes one decoded reservation event. A returned error
// rejects the message without requeueing it.
type HandlerFunc func(ctx context.Context, ev ReservationCreatedEvent) error

// Consumer reads reservation.created and hands each event to a handler.
type Consumer struct {
	url        string
	handle     HandlerFunc
	prefetch   int
	maxBackoff time.Duration
}

// NewConsumer returns a Consumer for the broker at url.
func NewConsumer(url string, handle HandlerFunc) *Consumer {
	if handle == nil {
		panic("nil handler passed to NewConsumer")
	}
	return &Consumer{url: url, handle: handle, prefetch: 50, maxBackoff: 30 * time.Second}
}

// Run connects to RabbitMQ and consumes until ctx is cancelled. Broken
// connections are re-dialled with exponential backoff, so Run only
// returns ctx.Err().
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			log.Printf("reservation-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < c.maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("reservation-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		log.Printf("reservation-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(ReservationCreatedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(ReservationCreatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.process(ctx, d)
		}
	}
}

// process decodes and handles one delivery, then acks or nacks it.
func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	if err := c.handleMessage(ctx, d.Body); err != nil {
		log.Printf("reservation-consumer: handle message failed: %v", err)
		_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
		return
	}
	_ = d.Ack(false)
}

func (c *Consumer) handleMessage(ctx context.Context, body []byte) error {
	var ev ReservationCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Code == "" || ev.Phone == "" {
		return fmt.Errorf("incomplete event %q", ev.ReservationID)
	}
	return c.handle(ctx, ev)
}
