// Package messaging publishes order lifecycle events to RabbitMQ and feeds
// the notification subscriber. The broker is optional; the ordering core only
// sees the Notifier interface.
package messaging

import (
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"pizzeria-system/internal/config"
	"pizzeria-system/internal/logger"
)

// EventsExchange is the fanout exchange carrying all lifecycle events.
const EventsExchange = "pizzeria_events"

// Connection wraps a RabbitMQ connection with retry and reconnection logic.
type Connection struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *logger.Logger
	url     string
}

// New establishes a RabbitMQ connection and declares the event topology.
func New(cfg *config.Config, log *logger.Logger) (*Connection, error) {
	c := &Connection{
		logger: log,
		url:    cfg.RabbitMQURL(),
	}
	if err := c.connect(); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}
	return c, nil
}

// connect dials the broker with retry and sets up the topology.
func (c *Connection) connect() error {
	const maxRetries = 5
	var err error

	for i := 0; i < maxRetries; i++ {
		c.conn, err = amqp091.Dial(c.url)
		if err == nil {
			c.channel, err = c.conn.Channel()
			if err == nil {
				if setupErr := c.setupTopology(); setupErr != nil {
					c.close()
					err = setupErr
				} else {
					return nil
				}
			} else {
				c.conn.Close()
			}
		}

		if i < maxRetries-1 {
			waitTime := time.Duration(i+1) * 2 * time.Second
			c.logger.Error("rabbitmq_connection_failed",
				fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", waitTime),
				"startup", err, nil)
			time.Sleep(waitTime)
		}
	}

	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}

func (c *Connection) setupTopology() error {
	err := c.channel.ExchangeDeclare(
		EventsExchange, // name
		"fanout",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", EventsExchange, err)
	}
	return nil
}

// IsClosed reports whether the underlying connection is gone.
func (c *Connection) IsClosed() bool {
	return c.conn == nil || c.conn.IsClosed()
}

// Reconnect re-establishes a dropped connection.
func (c *Connection) Reconnect() error {
	c.close()
	return c.connect()
}

// Channel returns the active channel.
func (c *Connection) Channel() *amqp091.Channel {
	return c.channel
}

func (c *Connection) close() {
	if c.channel != nil {
		_ = c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// Close shuts the connection down.
func (c *Connection) Close() error {
	c.close()
	return nil
}
