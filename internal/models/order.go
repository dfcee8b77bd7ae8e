package models

import (
	"fmt"
	"strings"
	"time"

	"pizzeria-system/internal/menu"
)

// Status is the closed set of order states. Delivered is terminal and only
// reached through the deliver operation, never by a plain status edit.
type Status string

const (
	StatusPending        Status = "pending"
	StatusInPreparation  Status = "in_preparation"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
)

// ParseStatus maps a caller-supplied string to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusInPreparation, StatusOutForDelivery, StatusDelivered:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// Base preparation minutes per pizza size. Unrecognized sizes fall back to
// the Medium time.
var prepBaseMinutes = map[string]int{
	"Small":  15,
	"Medium": 20,
	"Large":  25,
	"Family": 30,
}

const (
	prepDefaultMinutes  = 20
	prepAddOnMinutes    = 2
	prepBeverageMinutes = 1
	prepFloorMinutes    = 10
)

// Order is an aggregate of items plus customer info and lifecycle state.
// PrepTimeMinutes is derived and recomputed whenever the item list changes.
type Order struct {
	Number          int         `json:"number"`
	Customer        string      `json:"customer"`
	Items           []OrderItem `json:"items"`
	Notes           string      `json:"notes"`
	CreatedAt       time.Time   `json:"created_at"`
	Status          Status      `json:"status"`
	PrepTimeMinutes int         `json:"prep_time_minutes"`
}

// NewOrder builds a pending order with the preparation estimate computed.
func NewOrder(number int, customer string, items []OrderItem, notes string) Order {
	o := Order{
		Number:    number,
		Customer:  customer,
		Items:     append([]OrderItem(nil), items...),
		Notes:     notes,
		CreatedAt: time.Now(),
		Status:    StatusPending,
	}
	o.RecomputePrepTime()
	return o
}

// AddItem appends an item and refreshes the preparation estimate.
func (o *Order) AddItem(item OrderItem) {
	o.Items = append(o.Items, item)
	o.RecomputePrepTime()
}

// RemoveItem deletes the item at the given zero-based position and refreshes
// the preparation estimate. It reports false when the position is out of
// range, leaving the order untouched.
func (o *Order) RemoveItem(index int) (OrderItem, bool) {
	if index < 0 || index >= len(o.Items) {
		return OrderItem{}, false
	}
	removed := o.Items[index]
	o.Items = append(o.Items[:index], o.Items[index+1:]...)
	o.RecomputePrepTime()
	return removed, true
}

// RecomputePrepTime recalculates the derived preparation estimate: per pizza,
// base minutes for the size plus 2 per add-on, times quantity; per beverage,
// 1 minute times quantity; floored at 10 minutes overall.
func (o *Order) RecomputePrepTime() {
	total := 0
	for _, item := range o.Items {
		switch item.Kind {
		case KindPizza:
			minutes, ok := prepBaseMinutes[item.Size()]
			if !ok {
				minutes = prepDefaultMinutes
			}
			minutes += len(item.AddOns()) * prepAddOnMinutes
			total += minutes * item.Quantity
		default:
			total += prepBeverageMinutes * item.Quantity
		}
	}
	if total < prepFloorMinutes {
		total = prepFloorMinutes
	}
	o.PrepTimeMinutes = total
}

// TotalValue prices the order against the catalog. Unknown names resolve to
// zero through the catalog's priced lookups rather than failing.
func (o *Order) TotalValue(cat *menu.Catalog) float64 {
	total := 0.0
	for _, item := range o.Items {
		switch item.Kind {
		case KindPizza:
			value := cat.PizzaPrice(item.Name, item.Size())
			for _, addOn := range item.AddOns() {
				value += cat.AddOnPrice(addOn)
			}
			total += value * float64(item.Quantity)
		case KindBeverage:
			total += cat.BeveragePrice(item.Name) * float64(item.Quantity)
		}
	}
	return total
}

// Describe renders the one-line order summary.
func (o *Order) Describe() string {
	lines := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, item.Describe())
	}
	return fmt.Sprintf("Order #%d | Customer: %s | Items: %s | Status: %s",
		o.Number, o.Customer, strings.Join(lines, "; "), o.Status)
}
