package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"pizzeria-system/internal/logger"
)

// EventHandler processes one decoded lifecycle event.
type EventHandler func(ctx context.Context, event Event) error

// Consumer reads lifecycle events from a queue bound to the events exchange.
type Consumer struct {
	conn   *Connection
	logger *logger.Logger
}

// NewConsumer creates a consumer on an established connection.
func NewConsumer(conn *Connection, log *logger.Logger) *Consumer {
	return &Consumer{conn: conn, logger: log}
}

// Consume binds an exclusive queue to the events exchange and dispatches
// events to the handler until the context is cancelled.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	ch := c.conn.Channel()

	queue, err := ch.QueueDeclare(
		"",    // server-generated name
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare subscriber queue: %w", err)
	}

	if err := ch.QueueBind(queue.Name, "", EventsExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind subscriber queue: %w", err)
	}

	deliveries, err := ch.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack
		true,  // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			var event Event
			if err := json.Unmarshal(d.Body, &event); err != nil {
				c.logger.Error("event_decode_failed", "Dropping malformed event", "", err, nil)
				_ = d.Nack(false, false)
				continue
			}

			if err := handler(ctx, event); err != nil {
				c.logger.Error("event_handle_failed", "Event handler returned error", "", err, map[string]interface{}{
					"event_type":   event.Type,
					"order_number": event.OrderNumber,
				})
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
