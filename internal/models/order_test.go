package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria-system/internal/menu"
)

func testCatalog() *menu.Catalog {
	cat := menu.NewCatalog([]string{"Small", "Medium", "Large", "Family"})
	cat.SetFlavor("Margherita", menu.Flavor{
		Ingredients: []string{"Tomato sauce", "Mozzarella", "Basil"},
		Prices:      map[string]float64{"Small": 30, "Medium": 40, "Large": 52, "Family": 60},
	})
	cat.SetAddOn("Extra cheese", 5)
	cat.SetBeverage("Coca-Cola Can", menu.Beverage{Category: "Soft Drink", Price: 6})
	return cat
}

func TestNewPizzaItem_CoercesQuantityAndDedupesAddOns(t *testing.T) {
	item := NewPizzaItem("Margherita", "Large", []string{"Bacon", "Olives", "Bacon"}, 0)

	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, []string{"Bacon", "Olives"}, item.AddOns())
	assert.Equal(t, KindPizza, item.Kind)
}

func TestNewBeverageItem_CoercesQuantity(t *testing.T) {
	item := NewBeverageItem("Coca-Cola Can", -3)
	assert.Equal(t, 1, item.Quantity)
	assert.Nil(t, item.Details)
}

func TestOrderItem_Describe(t *testing.T) {
	pizza := NewPizzaItem("Margherita", "Large", []string{"Extra cheese", "Bacon"}, 2)
	assert.Equal(t, "2x Pizza Margherita (Large) - Add-ons: Extra cheese, Bacon", pizza.Describe())

	plain := NewPizzaItem("Ham", "Medium", nil, 1)
	assert.Equal(t, "1x Pizza Ham (Medium) - Add-ons: None", plain.Describe())

	beverage := NewBeverageItem("Orange Juice", 3)
	assert.Equal(t, "3x Orange Juice", beverage.Describe())
}

func TestOrder_PrepTimeScenario(t *testing.T) {
	// One Large Margherita with one add-on, quantity 2: (25+2)*2 = 54.
	item := NewPizzaItem("Margherita", "Large", []string{"Extra cheese"}, 2)
	order := NewOrder(1, "Ana (555-0101)", []OrderItem{item}, "")

	assert.Equal(t, 54, order.PrepTimeMinutes)
}

func TestOrder_PrepTimeFloor(t *testing.T) {
	order := NewOrder(1, "Ana", []OrderItem{NewBeverageItem("Coca-Cola Can", 2)}, "")
	assert.Equal(t, 10, order.PrepTimeMinutes)

	empty := NewOrder(2, "Bob", nil, "")
	assert.Equal(t, 10, empty.PrepTimeMinutes)
}

func TestOrder_PrepTimeUnknownSizeDefaultsToMedium(t *testing.T) {
	item := NewPizzaItem("Margherita", "Gigantic", nil, 1)
	order := NewOrder(1, "Ana", []OrderItem{item}, "")
	assert.Equal(t, 20, order.PrepTimeMinutes)
}

func TestOrder_PrepTimeMonotonicInQuantityAndAddOns(t *testing.T) {
	prev := 0
	for qty := 1; qty <= 5; qty++ {
		order := NewOrder(1, "Ana", []OrderItem{NewPizzaItem("Margherita", "Small", nil, qty)}, "")
		assert.GreaterOrEqual(t, order.PrepTimeMinutes, prev)
		assert.GreaterOrEqual(t, order.PrepTimeMinutes, 10)
		prev = order.PrepTimeMinutes
	}

	addOns := []string{"Extra cheese", "Bacon", "Olives"}
	prev = 0
	for n := 0; n <= len(addOns); n++ {
		order := NewOrder(1, "Ana", []OrderItem{NewPizzaItem("Margherita", "Small", addOns[:n], 1)}, "")
		assert.GreaterOrEqual(t, order.PrepTimeMinutes, prev)
		prev = order.PrepTimeMinutes
	}
}

func TestOrder_TotalValueScenario(t *testing.T) {
	// Large Margherita (52) + Extra cheese (5), quantity 2: 114.00.
	cat := testCatalog()
	item := NewPizzaItem("Margherita", "Large", []string{"Extra cheese"}, 2)
	order := NewOrder(1, "Ana (555-0101)", []OrderItem{item}, "")

	assert.InDelta(t, 114.00, order.TotalValue(cat), 0.001)
}

func TestOrder_TotalValueUnknownNamesContributeZero(t *testing.T) {
	cat := testCatalog()
	order := NewOrder(1, "Ana", []OrderItem{
		NewPizzaItem("Hawaiian", "Large", []string{"Gold leaf"}, 3),
		NewBeverageItem("Champagne", 2),
		NewBeverageItem("Coca-Cola Can", 1),
	}, "")

	assert.InDelta(t, 6.00, order.TotalValue(cat), 0.001)
}

func TestOrder_AddRemoveItemRecomputesPrepTime(t *testing.T) {
	order := NewOrder(1, "Ana", []OrderItem{NewPizzaItem("Margherita", "Small", nil, 1)}, "")
	require.Equal(t, 15, order.PrepTimeMinutes)

	order.AddItem(NewPizzaItem("Margherita", "Family", nil, 1))
	assert.Equal(t, 45, order.PrepTimeMinutes)

	removed, ok := order.RemoveItem(1)
	require.True(t, ok)
	assert.Equal(t, "Family", removed.Size())
	assert.Equal(t, 15, order.PrepTimeMinutes)

	_, ok = order.RemoveItem(5)
	assert.False(t, ok)
	assert.Len(t, order.Items, 1)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("in_preparation")
	require.NoError(t, err)
	assert.Equal(t, StatusInPreparation, s)

	_, err = ParseStatus("vaporized")
	assert.Error(t, err)
}

func TestOrder_Describe(t *testing.T) {
	order := NewOrder(7, "Ana (555-0101)", []OrderItem{NewBeverageItem("Orange Juice", 1)}, "")
	assert.Equal(t, "Order #7 | Customer: Ana (555-0101) | Items: 1x Orange Juice | Status: pending", order.Describe())
}
