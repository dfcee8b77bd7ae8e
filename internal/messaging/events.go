package messaging

import (
	"time"

	"pizzeria-system/internal/models"
)

// Event types published on the events exchange.
const (
	EventOrderCreated   = "order_created"
	EventStatusChanged  = "status_changed"
	EventOrderDelivered = "order_delivered"
)

// Event is the wire format of one order lifecycle notification.
type Event struct {
	Type            string        `json:"type"`
	OrderNumber     int           `json:"order_number"`
	Customer        string        `json:"customer"`
	Status          models.Status `json:"status"`
	OldStatus       models.Status `json:"old_status,omitempty"`
	PrepTimeMinutes int           `json:"prep_time_minutes,omitempty"`
	Timestamp       time.Time     `json:"timestamp"`
}
