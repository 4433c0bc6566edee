// Package gateway talks to the external room service fulfillment system.
// Gateway-internal failures are folded into the Rejected outcome at this
// boundary; they never cross it as errors.
package gateway

import (
	"context"
	"fmt"
	"sync/atomic"

	"roomservice/order"
)

// Outcome is the result of a placement attempt: Placed or Rejected.
type Outcome interface {
	outcome()
}

// Placed reports a successfully placed order.
type Placed struct {
	OrderID                      string `json:"order_id"`
	Message                      string `json:"message"`
	EstimatedDeliveryTimeMinutes int    `json:"estimated_delivery_time_minutes"`
	TotalPrice                   string `json:"total_price"`
}

func (Placed) outcome() {}

// Rejected reports a placement the fulfillment system refused or could not
// process.
type Rejected struct {
	Message string `json:"message"`
}

func (Rejected) outcome() {}

// Gateway places validated orders. The error return covers only local
// problems such as context cancellation.
type Gateway interface {
	Place(ctx context.Context, o order.Order) (Outcome, error)
}

// Sequence generates order identifiers. Each gateway owns its own sequence so
// multiple instances and tests do not interfere.
type Sequence struct {
	n atomic.Int64
}

func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next order id, e.g. ORDER-0001.
func (s *Sequence) Next() string {
	return fmt.Sprintf("ORDER-%04d", s.n.Add(1))
}
