package order

import (
	"errors"
	"fmt"
)

// ErrContract marks programming or integration errors: states that are
// unreachable when callers honor their construction contracts. These should
// abort the operation rather than be retried.
var ErrContract = errors.New("contract violation")

// Item is a single requested line of an order. Modifications compare with set
// semantics; their order never matters.
type Item struct {
	Name          string   `json:"name"`
	Quantity      int      `json:"quantity"`
	Modifications []string `json:"modifications,omitempty"`
}

// Order is a complete room service order. Construct through New so the room
// range and item constraints hold for every live Order value.
type Order struct {
	Room  int    `json:"room"`
	Items []Item `json:"items"`
}

// New builds an Order, enforcing the construction contract: room in
// [100,399], at least one item, every quantity positive.
func New(room int, items []Item) (Order, error) {
	if room < 100 || room > 399 {
		return Order{}, fmt.Errorf("room number must be between 100 and 399, got %d", room)
	}
	if len(items) == 0 {
		return Order{}, errors.New("order must contain at least one item")
	}
	for _, it := range items {
		if it.Name == "" {
			return Order{}, errors.New("order item name must not be empty")
		}
		if it.Quantity <= 0 {
			return Order{}, fmt.Errorf("quantity for %q must be positive, got %d", it.Name, it.Quantity)
		}
	}
	return Order{Room: room, Items: items}, nil
}
