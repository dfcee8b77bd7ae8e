package models

import (
	"fmt"
	"strings"
)

// ItemKind is the closed set of order line kinds.
type ItemKind string

const (
	KindPizza    ItemKind = "pizza"
	KindBeverage ItemKind = "beverage"
)

// PizzaDetails carries the fields only pizza lines have.
type PizzaDetails struct {
	Size   string   `json:"size"`
	AddOns []string `json:"add_ons,omitempty"`
}

// OrderItem is a single order line referencing the catalog by name. The name
// is not validated here; boundaries that want validation check it against the
// catalog before accepting the order.
type OrderItem struct {
	Kind     ItemKind      `json:"kind"`
	Name     string        `json:"name"`
	Quantity int           `json:"quantity"`
	Details  *PizzaDetails `json:"details,omitempty"`
}

// NewPizzaItem builds a pizza line. A non-positive quantity is coerced to 1
// and duplicate add-ons are dropped, keeping first-seen order.
func NewPizzaItem(name, size string, addOns []string, quantity int) OrderItem {
	if quantity <= 0 {
		quantity = 1
	}

	seen := make(map[string]bool, len(addOns))
	unique := make([]string, 0, len(addOns))
	for _, a := range addOns {
		if seen[a] {
			continue
		}
		seen[a] = true
		unique = append(unique, a)
	}

	return OrderItem{
		Kind:     KindPizza,
		Name:     name,
		Quantity: quantity,
		Details:  &PizzaDetails{Size: size, AddOns: unique},
	}
}

// NewBeverageItem builds a beverage line. A non-positive quantity is coerced
// to 1.
func NewBeverageItem(name string, quantity int) OrderItem {
	if quantity <= 0 {
		quantity = 1
	}
	return OrderItem{
		Kind:     KindBeverage,
		Name:     name,
		Quantity: quantity,
	}
}

// Size returns the pizza size, empty for beverages.
func (i OrderItem) Size() string {
	if i.Details == nil {
		return ""
	}
	return i.Details.Size
}

// AddOns returns the pizza add-on names, nil for beverages.
func (i OrderItem) AddOns() []string {
	if i.Details == nil {
		return nil
	}
	return i.Details.AddOns
}

// Describe renders the one-line summary shown on tickets and listings.
func (i OrderItem) Describe() string {
	if i.Kind == KindPizza {
		addOns := "None"
		if len(i.AddOns()) > 0 {
			addOns = strings.Join(i.AddOns(), ", ")
		}
		return fmt.Sprintf("%dx Pizza %s (%s) - Add-ons: %s", i.Quantity, i.Name, i.Size(), addOns)
	}
	return fmt.Sprintf("%dx %s", i.Quantity, i.Name)
}
