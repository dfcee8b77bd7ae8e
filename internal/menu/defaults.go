package menu

// DefaultCatalog returns the built-in menu used when no catalog snapshot
// exists yet.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Sizes: []string{"Small", "Medium", "Large", "Family"},
		Flavors: map[string]Flavor{
			"Margherita": {
				Ingredients: []string{"Tomato sauce", "Mozzarella", "Basil"},
				Prices:      map[string]float64{"Small": 30, "Medium": 40, "Large": 52, "Family": 60},
			},
			"Pepperoni": {
				Ingredients: []string{"Tomato sauce", "Mozzarella", "Pepperoni", "Onion"},
				Prices:      map[string]float64{"Small": 32, "Medium": 42, "Large": 50, "Family": 62},
			},
			"Chicken & Catupiry": {
				Ingredients: []string{"Tomato sauce", "Mozzarella", "Chicken", "Catupiry"},
				Prices:      map[string]float64{"Small": 35, "Medium": 45, "Large": 58, "Family": 65},
			},
			"Portuguese": {
				Ingredients: []string{"Tomato sauce", "Mozzarella", "Ham", "Eggs", "Onion", "Peas"},
				Prices:      map[string]float64{"Small": 38, "Medium": 48, "Large": 55, "Family": 68},
			},
			"Four Cheese": {
				Ingredients: []string{"Tomato sauce", "Mozzarella", "Parmesan", "Provolone", "Gorgonzola"},
				Prices:      map[string]float64{"Small": 40, "Medium": 50, "Large": 60, "Family": 70},
			},
			"Ham": {
				Ingredients: []string{"Tomato sauce", "Ham", "Mozzarella", "Tomato slices"},
				Prices:      map[string]float64{"Small": 30, "Medium": 35, "Large": 45, "Family": 50},
			},
			"Bacon": {
				Ingredients: []string{"Tomato sauce", "Mozzarella", "Bacon", "Tomato slices"},
				Prices:      map[string]float64{"Small": 35, "Medium": 45, "Large": 55, "Family": 65},
			},
			"Napolitana": {
				Ingredients: []string{"Tomato sauce", "Mozzarella", "Tomato slices", "Grated parmesan"},
				Prices:      map[string]float64{"Small": 40, "Medium": 50, "Large": 60, "Family": 70},
			},
		},
		AddOns: map[string]float64{
			"Stuffed crust":  8,
			"Extra cheese":   5,
			"Extra cheddar":  5,
			"Bacon":          6,
			"Olives":         3,
			"Hearts of palm": 7,
		},
		Beverages: map[string]Beverage{
			"Coca-Cola Can":         {Category: "Soft Drink", Price: 6.00},
			"Pepsi Can":             {Category: "Soft Drink", Price: 6.00},
			"Fanta Orange Can":      {Category: "Soft Drink", Price: 6.00},
			"Fanta Grape Can":       {Category: "Soft Drink", Price: 6.00},
			"Orange Juice":          {Category: "Fresh Juice", Price: 7.50},
			"Lemon Juice":           {Category: "Fresh Juice", Price: 7.50},
			"Pineapple Juice":       {Category: "Fresh Juice", Price: 7.50},
			"Passion Fruit Juice":   {Category: "Fresh Juice", Price: 7.50},
			"Mineral Water 500ml":   {Category: "Water", Price: 4.00},
			"Sparkling Water 500ml": {Category: "Water", Price: 4.00},
		},
	}
}
