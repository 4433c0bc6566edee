package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"roomservice/gateway"
	"roomservice/order"
	"roomservice/session"
)

// OrderPlacer places the currently validated order with the fulfillment
// gateway. It refuses to run without a prior successful validation in state;
// the agent must not be able to place an unvalidated order.
type OrderPlacer struct {
	gateway gateway.Gateway
}

func NewOrderPlacer(gw gateway.Gateway) *OrderPlacer {
	return &OrderPlacer{gateway: gw}
}

func (t *OrderPlacer) Name() string  { return "order_placer" }
func (t *OrderPlacer) Title() string { return "Place Room Service Order" }
func (t *OrderPlacer) Description() string {
	return "Places a validated order with the room service system. Any order should first be validated with the `order_validator` tool and then confirmed by the user."
}

func (t *OrderPlacer) InputSchema() *jsonschema.Schema {
	// The order to place comes from conversation state, not arguments.
	return &jsonschema.Schema{Type: "object"}
}

func (t *OrderPlacer) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"message": {Type: "string"},
		},
		Required: []string{"message"},
	}
}

func (t *OrderPlacer) Run(ctx context.Context, call session.ToolCall, state *session.State) (session.Update, error) {
	if state.ValidatedOrder == nil || state.ValidationResult == nil {
		return session.Update{}, fmt.Errorf("cannot place order - no validated order in state. Ensure the order has been validated with the `order_validator` tool")
	}
	if state.ValidationResult.Status != order.StatusSuccess {
		return session.Update{}, fmt.Errorf("cannot place order - the last validation did not succeed. Re-validate the order with the `order_validator` tool")
	}

	slog.Info("TOOL: Placing order", "room", state.ValidatedOrder.Room, "call_id", call.ID)

	outcome, err := t.gateway.Place(ctx, *state.ValidatedOrder)
	if err != nil {
		return session.Update{}, fmt.Errorf("placing order: %w", err)
	}

	var content string
	switch res := outcome.(type) {
	case gateway.Placed:
		content = fmt.Sprintf(
			"Order placed successfully. Inform the user of their order ID %s and estimated delivery time of %d minutes.",
			res.OrderID, res.EstimatedDeliveryTimeMinutes,
		)
	case gateway.Rejected:
		// Validated-order state stays as-is so the user can retry placement
		// without revalidating.
		content = fmt.Sprintf("Order failed to place with error: %s.", res.Message)
	default:
		return session.Update{}, fmt.Errorf("%w: unexpected gateway outcome %T", order.ErrContract, outcome)
	}

	return session.Update{
		Messages: []session.Message{{
			Role:       session.RoleTool,
			ToolCallID: call.ID,
			Content:    content,
		}},
	}, nil
}
