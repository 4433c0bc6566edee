package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"roomservice/catalog/storage"
	"roomservice/order"
)

// MenuItem is one orderable item. Immutable for the session.
type MenuItem struct {
	Name                   string   `json:"name"`
	Price                  float64  `json:"price"`
	Category               string   `json:"category"`
	Description            string   `json:"description"`
	ModificationsAllowed   bool     `json:"modifications_allowed"`
	AvailableModifications []string `json:"available_modifications,omitempty"`
	Allergens              []string `json:"allergens,omitempty"`
	PreparationTime        int      `json:"preparation_time"`
	AvailableQuantity      int      `json:"available_quantity"`
}

// Catalog is the read-only menu lookup. Safe for concurrent readers across
// sessions; nothing mutates it after Load.
type Catalog struct {
	items  []MenuItem
	byName map[string]int
}

// Load reads the menu JSON from the given state and indexes it by name.
func Load(ctx context.Context, state storage.MenuState) (*Catalog, error) {
	b, err := state.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("read menu: %w", err)
	}
	var items []MenuItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}
	return NewCatalog(items)
}

// NewCatalog builds a catalog from in-memory items, preserving their order.
func NewCatalog(items []MenuItem) (*Catalog, error) {
	c := &Catalog{items: items, byName: make(map[string]int, len(items))}
	for i, it := range items {
		if it.Name == "" {
			return nil, fmt.Errorf("menu item %d has no name", i)
		}
		if _, dup := c.byName[it.Name]; dup {
			return nil, fmt.Errorf("duplicate menu item %q", it.Name)
		}
		if it.Price < 0 || it.PreparationTime < 0 || it.AvailableQuantity < 0 {
			return nil, fmt.Errorf("menu item %q has negative price, preparation time, or stock", it.Name)
		}
		c.byName[it.Name] = i
	}
	return c, nil
}

// Get looks up an item by its exact name.
func (c *Catalog) Get(name string) (MenuItem, bool) {
	i, ok := c.byName[name]
	if !ok {
		return MenuItem{}, false
	}
	return c.items[i], true
}

// All returns every item in menu order.
func (c *Catalog) All() []MenuItem {
	out := make([]MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

// Render formats the menu for inclusion in a prompt, one block per item.
func (c *Catalog) Render() string {
	var b strings.Builder
	for i, it := range c.items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s ($%.2f, %s): %s\n", it.Name, it.Price, it.Category, it.Description)
		fmt.Fprintf(&b, "  Preparation time: %d minutes. In stock: %d.\n", it.PreparationTime, it.AvailableQuantity)
		if it.ModificationsAllowed && len(it.AvailableModifications) > 0 {
			fmt.Fprintf(&b, "  Modifications: %s.\n", strings.Join(it.AvailableModifications, ", "))
		} else {
			b.WriteString("  Modifications: not allowed.\n")
		}
		if len(it.Allergens) > 0 {
			fmt.Fprintf(&b, "  Allergens: %s.\n", strings.Join(it.Allergens, ", "))
		}
	}
	return b.String()
}

// Totals computes the total price and overall preparation time for the given
// quantities. Preparation time is the maximum, not the sum: the kitchen
// prepares items concurrently.
func (c *Catalog) Totals(items []order.Item) (totalPrice string, prepMinutes int, err error) {
	var total float64
	for _, it := range items {
		mi, ok := c.Get(it.Name)
		if !ok {
			return "", 0, fmt.Errorf("item %q is not on the menu", it.Name)
		}
		total += mi.Price * float64(it.Quantity)
		if mi.PreparationTime > prepMinutes {
			prepMinutes = mi.PreparationTime
		}
	}
	return fmt.Sprintf("$%.2f", total), prepMinutes, nil
}
