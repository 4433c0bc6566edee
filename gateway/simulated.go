package gateway

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"roomservice/catalog"
	"roomservice/order"
)

// Simulated stands in for the external fulfillment system: optional network
// latency and failure events, pricing from the shared catalog.
type Simulated struct {
	catalog          *catalog.Catalog
	seq              *Sequence
	simulateFailures bool
	simulateLatency  bool
	rng              *rand.Rand
}

// SimulatedOption configures a Simulated gateway.
type SimulatedOption func(*Simulated)

// WithFailures enables random connection failures and kitchen overload events.
func WithFailures() SimulatedOption {
	return func(g *Simulated) { g.simulateFailures = true }
}

// WithoutLatency disables the simulated network delay (for tests).
func WithoutLatency() SimulatedOption {
	return func(g *Simulated) { g.simulateLatency = false }
}

// WithRand sets the random source (for deterministic tests).
func WithRand(rng *rand.Rand) SimulatedOption {
	return func(g *Simulated) { g.rng = rng }
}

// NewSimulated creates a simulated gateway with its own order sequence.
func NewSimulated(cat *catalog.Catalog, seq *Sequence, opts ...SimulatedOption) *Simulated {
	g := &Simulated{
		catalog:         cat,
		seq:             seq,
		simulateLatency: true,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Place simulates placing the order. Failure events come back as Rejected,
// never as errors; the error return covers only context cancellation.
func (g *Simulated) Place(ctx context.Context, o order.Order) (Outcome, error) {
	if g.simulateLatency {
		delay := time.Duration(100+g.rng.Intn(400)) * time.Millisecond
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if g.simulateFailures {
		if g.rng.Float64() < 0.1 {
			slog.Warn("GATEWAY: Simulated connection failure")
			return Rejected{Message: "Failed to connect to Room Service API"}, nil
		}
		if g.rng.Float64() < 0.05 {
			slog.Warn("GATEWAY: Simulated kitchen overload")
			return Rejected{Message: "Kitchen is currently at capacity. Please try again in 15 minutes."}, nil
		}
	}

	totalPrice, prepTime, err := g.catalog.Totals(o.Items)
	if err != nil {
		return Rejected{Message: err.Error()}, nil
	}

	placed := Placed{
		OrderID:                      g.seq.Next(),
		Message:                      "Order successfully placed",
		EstimatedDeliveryTimeMinutes: prepTime,
		TotalPrice:                   totalPrice,
	}
	slog.Info("GATEWAY: Order placed", "order_id", placed.OrderID, "eta_minutes", prepTime, "total_price", totalPrice)
	return placed, nil
}
