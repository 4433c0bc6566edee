package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomservice/catalog"
	"roomservice/order"
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
		{
			Name:              "French Fries",
			Price:             8.00,
			Category:          "Side",
			Description:       "Hand-cut fries",
			PreparationTime:   15,
			AvailableQuantity: 5,
		},
	})
	require.NoError(t, err)
	return cat
}

type stubSuggester struct {
	suggestions []order.Suggestion
	err         error
	calls       int
	gotInvalid  []order.InvalidItem
}

func (s *stubSuggester) Suggest(ctx context.Context, invalid []order.InvalidItem) ([]order.Suggestion, error) {
	s.calls++
	s.gotInvalid = invalid
	return s.suggestions, s.err
}

func TestValidRoom(t *testing.T) {
	v := NewValidator(testCatalog(t), nil)

	tests := []struct {
		room  int
		valid bool
	}{
		{room: 101, valid: true}, // room 1 on floor 1
		{room: 220, valid: true}, // room 20 on floor 2
		{room: 315, valid: true}, // room 15 on floor 3
		{room: 100, valid: true}, // room 0 on floor 1
		{room: 320, valid: true}, // room 20 on floor 3, the highest room
		{room: 199, valid: false},
		{room: 121, valid: false},
	}

	for _, tt := range tests {
		valid, err := v.ValidRoom(tt.room)
		require.NoError(t, err)
		assert.Equal(t, tt.valid, valid, "room %d", tt.room)
	}
}

func TestValidRoomOutOfRangeIsContractViolation(t *testing.T) {
	v := NewValidator(testCatalog(t), nil)

	for _, room := range []int{-101, 0, 99, 425} {
		_, err := v.ValidRoom(room)
		require.Error(t, err, "room %d", room)
		assert.ErrorIs(t, err, order.ErrContract)
	}
}

func TestValidateSuccess(t *testing.T) {
	v := NewValidator(testCatalog(t), nil)

	o, err := order.New(101, []order.Item{
		{Name: "Club Sandwich", Quantity: 2, Modifications: []string{"extra bacon", "no tomato"}},
		{Name: "Still Water", Quantity: 1},
	})
	require.NoError(t, err)

	result, err := v.Validate(context.Background(), o)
	require.NoError(t, err)

	assert.Equal(t, order.StatusSuccess, result.Status)
	assert.Equal(t, "$43.00", result.TotalPrice)
	assert.Equal(t, 20, result.PreparationTime)
	assert.Equal(t,
		"The requested order of 2 Club Sandwich with extra bacon, no tomato, 1 Still Water, "+
			"will cost $43.00 and can be prepared in approximately 20 minutes. "+
			"Inform the user of this and request their confirmation to place this order. "+
			"The `order_placer` tool may be used to place this order after confirmation.",
		result.Response,
	)

	detail, ok := result.Details.(order.SuccessDetail)
	require.True(t, ok)
	assert.Equal(t, "101", detail.ValidRoom)
	require.Len(t, detail.ValidItems, 2)
	assert.Equal(t, "Club Sandwich", detail.ValidItems[0].Name)
	assert.Equal(t, 2, detail.ValidItems[0].ValidQuantity)
	assert.ElementsMatch(t, []string{"extra bacon", "no tomato"}, detail.ValidItems[0].ValidModifications)
}

func TestValidateItemFailures(t *testing.T) {
	tests := []struct {
		name   string
		item   order.Item
		reason order.InvalidReason
		check  func(t *testing.T, it order.InvalidItem)
	}{
		{
			name:   "item not on the menu",
			item:   order.Item{Name: "InvalidItem", Quantity: 1},
			reason: order.ReasonNotOnMenu,
			check: func(t *testing.T, it order.InvalidItem) {
				assert.Nil(t, it.ValidQuantity)
				assert.Nil(t, it.InvalidQuantity)
			},
		},
		{
			name:   "quantity above stock",
			item:   order.Item{Name: "French Fries", Quantity: 100},
			reason: order.ReasonOutOfStock,
			check: func(t *testing.T, it order.InvalidItem) {
				require.NotNil(t, it.ValidQuantity)
				require.NotNil(t, it.InvalidQuantity)
				assert.Equal(t, 5, *it.ValidQuantity)
				assert.Equal(t, 95, *it.InvalidQuantity)
			},
		},
		{
			name:   "modifications on a non-modifiable item",
			item:   order.Item{Name: "Still Water", Quantity: 1, Modifications: []string{"extra ice"}},
			reason: order.ReasonModsNotAllowed,
			check: func(t *testing.T, it order.InvalidItem) {
				require.NotNil(t, it.ValidQuantity)
				assert.Equal(t, 1, *it.ValidQuantity)
				assert.ElementsMatch(t, []string{"extra ice"}, it.InvalidMods)
			},
		},
		{
			name:   "modification not on the whitelist",
			item:   order.Item{Name: "Club Sandwich", Quantity: 1, Modifications: []string{"add pineapple"}},
			reason: order.ReasonInvalidModification,
			check: func(t *testing.T, it order.InvalidItem) {
				require.NotNil(t, it.ValidQuantity)
				assert.Equal(t, 1, *it.ValidQuantity)
				assert.ElementsMatch(t, []string{"add pineapple"}, it.InvalidMods)
			},
		},
		{
			name:   "mixed valid and invalid modifications",
			item:   order.Item{Name: "Club Sandwich", Quantity: 1, Modifications: []string{"no tomato", "add pineapple"}},
			reason: order.ReasonInvalidModification,
			check: func(t *testing.T, it order.InvalidItem) {
				assert.ElementsMatch(t, []string{"no tomato"}, it.ValidModifications)
				assert.ElementsMatch(t, []string{"add pineapple"}, it.InvalidMods)
			},
		},
		{
			name: "stock check wins over modification checks",
			item: order.Item{Name: "Still Water", Quantity: 100, Modifications: []string{"extra ice"}},
			// Checks run in a fixed order and the first failure wins.
			reason: order.ReasonOutOfStock,
			check: func(t *testing.T, it order.InvalidItem) {
				require.NotNil(t, it.ValidQuantity)
				assert.Equal(t, 40, *it.ValidQuantity)
			},
		},
	}

	v := NewValidator(testCatalog(t), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := order.New(101, []order.Item{tt.item})
			require.NoError(t, err)

			result, err := v.Validate(context.Background(), o)
			require.NoError(t, err)
			assert.Equal(t, order.StatusError, result.Status)
			assert.Empty(t, result.TotalPrice)

			detail, ok := result.Details.(order.ErrorDetail)
			require.True(t, ok)
			require.NotNil(t, detail.ValidRoom)
			require.Len(t, detail.InvalidItems, 1)

			invalid := detail.InvalidItems[0]
			assert.Equal(t, tt.item.Name, invalid.Name)
			assert.Equal(t, tt.reason, invalid.Reason)
			if tt.check != nil {
				tt.check(t, invalid)
			}
		})
	}
}

func TestValidateInvalidRoom(t *testing.T) {
	v := NewValidator(testCatalog(t), nil)

	o, err := order.New(121, []order.Item{{Name: "Still Water", Quantity: 1}})
	require.NoError(t, err)

	result, err := v.Validate(context.Background(), o)
	require.NoError(t, err)

	assert.Equal(t, order.StatusError, result.Status)
	assert.Equal(t, "Room number is invalid. Please ask the user to clarify the room number.", result.Response)

	detail, ok := result.Details.(order.ErrorDetail)
	require.True(t, ok)
	require.NotNil(t, detail.InvalidRoom)
	assert.Equal(t, "121", *detail.InvalidRoom)
	assert.Nil(t, detail.ValidRoom)
	assert.Len(t, detail.ValidItems, 1)
	assert.Empty(t, detail.InvalidItems)
}

func TestValidateInvalidRoomAndItems(t *testing.T) {
	v := NewValidator(testCatalog(t), nil)

	o, err := order.New(199, []order.Item{{Name: "InvalidItem", Quantity: 1}})
	require.NoError(t, err)

	result, err := v.Validate(context.Background(), o)
	require.NoError(t, err)

	assert.Equal(t, order.StatusError, result.Status)
	assert.Equal(t,
		"Room number is invalid. Some requested items cannot be prepared. "+
			"Please ask the user to clarify the room number and clarify the items they would like to order.",
		result.Response,
	)
}

func TestValidateAttachesSuggestions(t *testing.T) {
	suggester := &stubSuggester{
		suggestions: []order.Suggestion{{
			OriginalItem: order.InvalidItem{Name: "InvalidItem", Reason: order.ReasonNotOnMenu},
			Suggestion:   "Try the Club Sandwich instead.",
			FixedItem:    &order.Item{Name: "Club Sandwich", Quantity: 1},
		}},
	}
	v := NewValidator(testCatalog(t), suggester)

	o, err := order.New(101, []order.Item{{Name: "InvalidItem", Quantity: 1}})
	require.NoError(t, err)

	result, err := v.Validate(context.Background(), o)
	require.NoError(t, err)

	assert.Equal(t, 1, suggester.calls)
	require.Len(t, suggester.gotInvalid, 1)
	assert.Equal(t, "InvalidItem", suggester.gotInvalid[0].Name)

	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "Try the Club Sandwich instead.", result.Suggestions[0].Suggestion)
	assert.Contains(t, result.Response, "Suggestions for the invalid items are included in this result")
}

func TestValidateToleratesSuggesterFailure(t *testing.T) {
	suggester := &stubSuggester{err: errors.New("inference unavailable")}
	v := NewValidator(testCatalog(t), suggester)

	o, err := order.New(101, []order.Item{{Name: "InvalidItem", Quantity: 1}})
	require.NoError(t, err)

	result, err := v.Validate(context.Background(), o)
	require.NoError(t, err)

	assert.Equal(t, order.StatusError, result.Status)
	assert.Empty(t, result.Suggestions)
	assert.NotContains(t, result.Response, "Suggestions")
}

func TestValidateSkipsSuggesterOnSuccess(t *testing.T) {
	suggester := &stubSuggester{}
	v := NewValidator(testCatalog(t), suggester)

	o, err := order.New(101, []order.Item{{Name: "Still Water", Quantity: 1}})
	require.NoError(t, err)

	result, err := v.Validate(context.Background(), o)
	require.NoError(t, err)

	assert.Equal(t, order.StatusSuccess, result.Status)
	assert.Zero(t, suggester.calls)
}
