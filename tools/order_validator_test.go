package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomservice/catalog"
	"roomservice/order"
	"roomservice/session"
	"roomservice/validation"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.NewCatalog([]catalog.MenuItem{
		{
			Name:                   "Club Sandwich",
			Price:                  18.50,
			Category:               "Main",
			Description:            "Triple-decker with turkey and bacon",
			ModificationsAllowed:   true,
			AvailableModifications: []string{"extra bacon", "no tomato"},
			PreparationTime:        20,
			AvailableQuantity:      12,
		},
		{
			Name:              "Still Water",
			Price:             6.00,
			Category:          "Beverage",
			Description:       "Bottled still mineral water",
			PreparationTime:   2,
			AvailableQuantity: 40,
		},
	})
	require.NoError(t, err)
	return cat
}

func orderArgs(room int, items ...map[string]any) map[string]any {
	anyItems := make([]any, len(items))
	for i, it := range items {
		anyItems[i] = it
	}
	return map[string]any{
		"order": map[string]any{
			"room":  float64(room),
			"items": anyItems,
		},
	}
}

func TestOrderValidatorRunSuccess(t *testing.T) {
	tool := NewOrderValidator(validation.NewValidator(testCatalog(t), nil))
	state := session.New()

	call := session.ToolCall{
		ID:   "call-1",
		Name: tool.Name(),
		Args: orderArgs(101, map[string]any{
			"name":          "Club Sandwich",
			"quantity":      float64(2),
			"modifications": []any{"no tomato"},
		}),
	}

	update, err := tool.Run(context.Background(), call, state)
	require.NoError(t, err)

	require.NotNil(t, update.ValidatedOrder)
	assert.Equal(t, 101, update.ValidatedOrder.Room)
	require.Len(t, update.ValidatedOrder.Items, 1)
	assert.Equal(t, "Club Sandwich", update.ValidatedOrder.Items[0].Name)

	require.NotNil(t, update.ValidationResult)
	assert.Equal(t, order.StatusSuccess, update.ValidationResult.Status)
	assert.False(t, update.ClearValidatedOrder)

	require.Len(t, update.Messages, 1)
	assert.Equal(t, session.RoleTool, update.Messages[0].Role)
	assert.Equal(t, "call-1", update.Messages[0].ToolCallID)
	assert.Contains(t, update.Messages[0].Content, `"status": "Success"`)
}

func TestOrderValidatorRunValidationError(t *testing.T) {
	tool := NewOrderValidator(validation.NewValidator(testCatalog(t), nil))
	state := session.New()

	call := session.ToolCall{
		ID:   "call-2",
		Name: tool.Name(),
		Args: orderArgs(101, map[string]any{
			"name":     "InvalidItem",
			"quantity": float64(1),
		}),
	}

	update, err := tool.Run(context.Background(), call, state)
	require.NoError(t, err)

	assert.Nil(t, update.ValidatedOrder)
	assert.True(t, update.ClearValidatedOrder)
	require.NotNil(t, update.ValidationResult)
	assert.Equal(t, order.StatusError, update.ValidationResult.Status)

	require.Len(t, update.Messages, 1)
	assert.Contains(t, update.Messages[0].Content, string(order.ReasonNotOnMenu))
}

func TestOrderValidatorRunBadArguments(t *testing.T) {
	tool := NewOrderValidator(validation.NewValidator(testCatalog(t), nil))

	tests := []struct {
		name          string
		args          map[string]any
		errorContains string
	}{
		{
			name:          "missing order argument",
			args:          map[string]any{},
			errorContains: `missing required argument "order"`,
		},
		{
			name:          "room out of range",
			args:          orderArgs(425, map[string]any{"name": "Still Water", "quantity": float64(1)}),
			errorContains: "room number must be between 100 and 399",
		},
		{
			name:          "empty items",
			args:          orderArgs(101),
			errorContains: "at least one item",
		},
		{
			name:          "order is not an object",
			args:          map[string]any{"order": "a sandwich please"},
			errorContains: "invalid order argument",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := session.ToolCall{ID: "call-3", Name: tool.Name(), Args: tt.args}
			_, err := tool.Run(context.Background(), call, session.New())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestOrderValidatorSchema(t *testing.T) {
	tool := NewOrderValidator(validation.NewValidator(testCatalog(t), nil))

	assert.Equal(t, "order_validator", tool.Name())

	schema := tool.InputSchema()
	require.NotNil(t, schema)
	require.Contains(t, schema.Properties, "order")

	orderSchema := schema.Properties["order"]
	require.Contains(t, orderSchema.Properties, "room")
	require.Contains(t, orderSchema.Properties, "items")
	require.NotNil(t, orderSchema.Properties["room"].Minimum)
	assert.Equal(t, 100.0, *orderSchema.Properties["room"].Minimum)
}
