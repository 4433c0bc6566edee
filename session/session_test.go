package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomservice/order"
)

func TestNew(t *testing.T) {
	a := New()
	b := New()

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Empty(t, a.Messages)
	assert.Nil(t, a.ValidatedOrder)
}

func TestApply(t *testing.T) {
	o, err := order.New(101, []order.Item{{Name: "Still Water", Quantity: 1}})
	require.NoError(t, err)
	result := order.NewSuccessResult("ok", order.SuccessDetail{ValidRoom: "101"}, "$6.00", 2)

	tests := []struct {
		name  string
		setup func(s *State)
		upd   Update
		check func(t *testing.T, s *State)
	}{
		{
			name: "messages are appended in order",
			upd: Update{Messages: []Message{
				{Role: RoleTool, ToolCallID: "call-1", Content: "first"},
				{Role: RoleTool, ToolCallID: "call-2", Content: "second"},
			}},
			check: func(t *testing.T, s *State) {
				require.Len(t, s.Messages, 3)
				assert.Equal(t, "first", s.Messages[1].Content)
				assert.Equal(t, "second", s.Messages[2].Content)
			},
		},
		{
			name: "validated order and result are recorded",
			upd:  Update{ValidatedOrder: &o, ValidationResult: &result},
			check: func(t *testing.T, s *State) {
				require.NotNil(t, s.ValidatedOrder)
				assert.Equal(t, 101, s.ValidatedOrder.Room)
				require.NotNil(t, s.ValidationResult)
				assert.Equal(t, order.StatusSuccess, s.ValidationResult.Status)
			},
		},
		{
			name: "clear removes a previously validated order",
			setup: func(s *State) {
				s.ValidatedOrder = &o
			},
			upd: Update{ClearValidatedOrder: true, ValidationResult: &result},
			check: func(t *testing.T, s *State) {
				assert.Nil(t, s.ValidatedOrder)
				assert.NotNil(t, s.ValidationResult)
			},
		},
		{
			name: "empty update leaves state untouched",
			setup: func(s *State) {
				s.ValidatedOrder = &o
				s.ValidationResult = &result
			},
			upd: Update{},
			check: func(t *testing.T, s *State) {
				assert.NotNil(t, s.ValidatedOrder)
				assert.NotNil(t, s.ValidationResult)
				assert.Len(t, s.Messages, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.Append(Message{Role: RoleUser, Content: "hello"})
			if tt.setup != nil {
				tt.setup(s)
			}
			s.Apply(tt.upd)
			tt.check(t, s)
		})
	}
}
