package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"roomservice/order"
	"roomservice/session"
	"roomservice/validation"
)

// OrderValidator exposes the validation engine as a tool. On success it
// records the validated order in state; on a validation error it clears any
// previously validated order so a stale order can never be placed.
type OrderValidator struct {
	validator *validation.Validator
}

func NewOrderValidator(v *validation.Validator) *OrderValidator {
	return &OrderValidator{validator: v}
}

func (t *OrderValidator) Name() string  { return "order_validator" }
func (t *OrderValidator) Title() string { return "Validate Room Service Order" }
func (t *OrderValidator) Description() string {
	return "Validates a room service order against menu items and room constraints. This tool should be called only once per order."
}

func (t *OrderValidator) InputSchema() *jsonschema.Schema {
	minRoom := 100.0
	maxRoom := 399.0
	minQty := 1.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"order": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"room": {
						Type:    "integer",
						Minimum: &minRoom,
						Maximum: &maxRoom,
					},
					"items": {
						Type: "array",
						Items: &jsonschema.Schema{
							Type: "object",
							Properties: map[string]*jsonschema.Schema{
								"name":     {Type: "string"},
								"quantity": {Type: "integer", Minimum: &minQty},
								"modifications": {
									Type:  "array",
									Items: &jsonschema.Schema{Type: "string"},
								},
							},
							Required: []string{"name", "quantity"},
						},
					},
				},
				Required: []string{"room", "items"},
			},
		},
		Required: []string{"order"},
	}
}

func (t *OrderValidator) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"status":           {Type: "string"},
			"response":         {Type: "string"},
			"details":          {Type: "object"},
			"total_price":      {Type: "string"},
			"preparation_time": {Type: "integer"},
			"suggestions": {
				Type:  "array",
				Items: &jsonschema.Schema{Type: "object"},
			},
		},
		Required: []string{"status", "response", "details"},
	}
}

func (t *OrderValidator) Run(ctx context.Context, call session.ToolCall, state *session.State) (session.Update, error) {
	o, err := parseOrderArg(call.Args)
	if err != nil {
		return session.Update{}, err
	}

	slog.Info("TOOL: Validating order", "room", o.Room, "items", len(o.Items), "call_id", call.ID)

	result, err := t.validator.Validate(ctx, o)
	if err != nil {
		return session.Update{}, err
	}

	msg := session.Message{
		Role:       session.RoleTool,
		ToolCallID: call.ID,
		Content:    result.JSON(),
	}

	if result.Status == order.StatusSuccess {
		return session.Update{
			ValidatedOrder:   &o,
			ValidationResult: &result,
			Messages:         []session.Message{msg},
		}, nil
	}

	// A failed validation invalidates any previously validated order.
	return session.Update{
		ClearValidatedOrder: true,
		ValidationResult:    &result,
		Messages:            []session.Message{msg},
	}, nil
}

func parseOrderArg(args map[string]any) (order.Order, error) {
	raw, ok := args["order"]
	if !ok {
		return order.Order{}, fmt.Errorf("missing required argument %q", "order")
	}

	// Round-trip through JSON so the loosely typed argument map decodes into
	// the concrete order shape.
	b, err := json.Marshal(raw)
	if err != nil {
		return order.Order{}, fmt.Errorf("invalid order argument: %w", err)
	}
	var payload struct {
		Room  int          `json:"room"`
		Items []order.Item `json:"items"`
	}
	if err := json.Unmarshal(b, &payload); err != nil {
		return order.Order{}, fmt.Errorf("invalid order argument: %w", err)
	}

	return order.New(payload.Room, payload.Items)
}
