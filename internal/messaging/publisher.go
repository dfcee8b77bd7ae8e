package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"pizzeria-system/internal/logger"
	"pizzeria-system/internal/models"
)

// Publisher sends lifecycle events to the events exchange. It satisfies the
// ordering service's Notifier interface: publish failures are logged and
// swallowed so a broker outage never fails an order operation.
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a publisher on an established connection.
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{conn: conn, logger: log}
}

// OrderCreated announces a newly queued order.
func (p *Publisher) OrderCreated(ctx context.Context, order models.Order) {
	p.publish(ctx, Event{
		Type:            EventOrderCreated,
		OrderNumber:     order.Number,
		Customer:        order.Customer,
		Status:          order.Status,
		PrepTimeMinutes: order.PrepTimeMinutes,
		Timestamp:       time.Now().UTC(),
	})
}

// StatusChanged announces a status edit on a queued order.
func (p *Publisher) StatusChanged(ctx context.Context, order models.Order, old models.Status) {
	p.publish(ctx, Event{
		Type:        EventStatusChanged,
		OrderNumber: order.Number,
		Customer:    order.Customer,
		Status:      order.Status,
		OldStatus:   old,
		Timestamp:   time.Now().UTC(),
	})
}

// OrderDelivered announces the queue-to-history move.
func (p *Publisher) OrderDelivered(ctx context.Context, order models.Order) {
	p.publish(ctx, Event{
		Type:        EventOrderDelivered,
		OrderNumber: order.Number,
		Customer:    order.Customer,
		Status:      order.Status,
		Timestamp:   time.Now().UTC(),
	})
}

func (p *Publisher) publish(ctx context.Context, event Event) {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			p.logger.Error("event_publish_failed", "Failed to reconnect to RabbitMQ", "", err, map[string]interface{}{
				"event_type":   event.Type,
				"order_number": event.OrderNumber,
			})
			return
		}
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("event_publish_failed", "Failed to marshal event", "", err, nil)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		EventsExchange, // exchange
		"",             // routing key (fanout)
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		p.logger.Error("event_publish_failed",
			fmt.Sprintf("Failed to publish %s event", event.Type), "", err, map[string]interface{}{
				"event_type":   event.Type,
				"order_number": event.OrderNumber,
			})
		return
	}

	p.logger.Debug("event_published",
		fmt.Sprintf("Published %s event", event.Type), "", map[string]interface{}{
			"event_type":   event.Type,
			"order_number": event.OrderNumber,
		})
}
