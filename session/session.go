package session

import (
	"github.com/google/uuid"

	"roomservice/order"
)

// Message roles. The system prompt is not stored in history; the orchestrator
// passes it to the reasoning engine on every call.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry in the conversation history.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a structured request from the reasoning engine to invoke a
// named capability.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Reply is what one reasoning-engine invocation produces: assistant text,
// tool-call requests, or both.
type Reply struct {
	Text      string     `json:"text,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// State is the mutable conversation state for one session. Sessions never
// share state; a single session is turn-sequential, so no locking here.
type State struct {
	ID                    string
	Messages              []Message
	ValidatedOrder        *order.Order
	ValidationResult      *order.Result
	ConsecutiveToolErrors int
}

// New creates an empty session state with a fresh identifier.
func New() *State {
	return &State{ID: uuid.NewString()}
}

// Append adds messages to the history.
func (s *State) Append(msgs ...Message) {
	s.Messages = append(s.Messages, msgs...)
}

// Update describes the state changes a tool wants applied. The orchestrator
// applies updates atomically between tool calls, preserving dispatch order.
type Update struct {
	Messages            []Message
	ValidatedOrder      *order.Order
	ClearValidatedOrder bool
	ValidationResult    *order.Result
}

// Apply merges an update into the state.
func (s *State) Apply(u Update) {
	if u.ClearValidatedOrder {
		s.ValidatedOrder = nil
	}
	if u.ValidatedOrder != nil {
		s.ValidatedOrder = u.ValidatedOrder
	}
	if u.ValidationResult != nil {
		s.ValidationResult = u.ValidationResult
	}
	s.Append(u.Messages...)
}
