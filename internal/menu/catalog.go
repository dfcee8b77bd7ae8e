// Package menu holds the priced catalog of pizza flavors, add-ons, sizes and
// beverages. The catalog is the only source of truth for pricing; orders never
// cache a price.
package menu

import (
	"fmt"
	"sort"
)

// Flavor describes one pizza flavor: its ingredient list in display order and
// a price per size name.
type Flavor struct {
	Ingredients []string           `json:"ingredients"`
	Prices      map[string]float64 `json:"prices"`
}

// Beverage describes one beverage with its display category and flat price.
type Beverage struct {
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// Catalog is the full priced menu.
type Catalog struct {
	Flavors   map[string]Flavor   `json:"flavors"`
	AddOns    map[string]float64  `json:"add_ons"`
	Sizes     []string            `json:"sizes"`
	Beverages map[string]Beverage `json:"beverages"`
}

// NewCatalog returns an empty catalog with the given size order.
func NewCatalog(sizes []string) *Catalog {
	return &Catalog{
		Flavors:   make(map[string]Flavor),
		AddOns:    make(map[string]float64),
		Sizes:     append([]string(nil), sizes...),
		Beverages: make(map[string]Beverage),
	}
}

// Flavor looks up a pizza flavor by name.
func (c *Catalog) Flavor(name string) (Flavor, bool) {
	f, ok := c.Flavors[name]
	return f, ok
}

// Beverage looks up a beverage by name.
func (c *Catalog) Beverage(name string) (Beverage, bool) {
	b, ok := c.Beverages[name]
	return b, ok
}

// HasFlavor reports whether the flavor exists.
func (c *Catalog) HasFlavor(name string) bool {
	_, ok := c.Flavors[name]
	return ok
}

// HasBeverage reports whether the beverage exists.
func (c *Catalog) HasBeverage(name string) bool {
	_, ok := c.Beverages[name]
	return ok
}

// SetFlavor adds or replaces a pizza flavor.
func (c *Catalog) SetFlavor(name string, flavor Flavor) {
	c.Flavors[name] = flavor
}

// RemoveFlavor deletes a flavor. It reports false when the flavor was not
// present; removal of a missing key is a no-op.
func (c *Catalog) RemoveFlavor(name string) bool {
	if _, ok := c.Flavors[name]; !ok {
		return false
	}
	delete(c.Flavors, name)
	return true
}

// SetAddOn adds or replaces an add-on price.
func (c *Catalog) SetAddOn(name string, price float64) {
	c.AddOns[name] = price
}

// RemoveAddOn deletes an add-on, reporting whether it was present.
func (c *Catalog) RemoveAddOn(name string) bool {
	if _, ok := c.AddOns[name]; !ok {
		return false
	}
	delete(c.AddOns, name)
	return true
}

// SetBeverage adds or replaces a beverage.
func (c *Catalog) SetBeverage(name string, beverage Beverage) {
	c.Beverages[name] = beverage
}

// RemoveBeverage deletes a beverage, reporting whether it was present.
func (c *Catalog) RemoveBeverage(name string) bool {
	if _, ok := c.Beverages[name]; !ok {
		return false
	}
	delete(c.Beverages, name)
	return true
}

// DefaultSize returns the conventional default pizza size, the second entry
// of the size order (Medium in the default catalog).
func (c *Catalog) DefaultSize() string {
	if len(c.Sizes) >= 2 {
		return c.Sizes[1]
	}
	if len(c.Sizes) == 1 {
		return c.Sizes[0]
	}
	return ""
}

// PizzaPrice returns the base price for a flavor and size. Unknown flavors or
// sizes resolve to 0; every priced lookup funnels through here so the
// permissive fallback stays in one place.
func (c *Catalog) PizzaPrice(flavor, size string) float64 {
	f, ok := c.Flavors[flavor]
	if !ok {
		return 0
	}
	return f.Prices[size]
}

// AddOnPrice returns an add-on price, 0 when unknown.
func (c *Catalog) AddOnPrice(name string) float64 {
	return c.AddOns[name]
}

// BeveragePrice returns a beverage price, 0 when unknown.
func (c *Catalog) BeveragePrice(name string) float64 {
	return c.Beverages[name].Price
}

// FlavorNames returns all flavor names sorted for display.
func (c *Catalog) FlavorNames() []string {
	names := make([]string, 0, len(c.Flavors))
	for name := range c.Flavors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddOnNames returns all add-on names sorted for display.
func (c *Catalog) AddOnNames() []string {
	names := make([]string, 0, len(c.AddOns))
	for name := range c.AddOns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BeveragesByCategory groups beverage names by category, each group sorted
// for display.
func (c *Catalog) BeveragesByCategory() map[string][]string {
	groups := make(map[string][]string)
	for name, b := range c.Beverages {
		groups[b.Category] = append(groups[b.Category], name)
	}
	for _, names := range groups {
		sort.Strings(names)
	}
	return groups
}

// Clone returns a deep copy safe to hand out while the original keeps
// being mutated.
func (c *Catalog) Clone() *Catalog {
	clone := NewCatalog(c.Sizes)
	for name, f := range c.Flavors {
		prices := make(map[string]float64, len(f.Prices))
		for size, price := range f.Prices {
			prices[size] = price
		}
		clone.Flavors[name] = Flavor{
			Ingredients: append([]string(nil), f.Ingredients...),
			Prices:      prices,
		}
	}
	for name, price := range c.AddOns {
		clone.AddOns[name] = price
	}
	for name, b := range c.Beverages {
		clone.Beverages[name] = b
	}
	return clone
}

// Validate checks the catalog invariant: every flavor must price every size
// in the size order.
func (c *Catalog) Validate() error {
	for name, f := range c.Flavors {
		for _, size := range c.Sizes {
			if _, ok := f.Prices[size]; !ok {
				return fmt.Errorf("flavor %q has no price for size %q", name, size)
			}
		}
	}
	return nil
}
