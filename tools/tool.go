package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"roomservice/session"
)

// Tool is an executable capability the reasoning engine can request. Run
// receives the originating call (arguments plus call id) and the shared
// conversation state, and returns the state changes to apply. Tools never
// mutate the state themselves; the orchestrator applies updates between
// calls.
type Tool interface {
	Name() string
	Title() string
	Description() string
	InputSchema() *jsonschema.Schema
	OutputSchema() *jsonschema.Schema
	Run(ctx context.Context, call session.ToolCall, state *session.State) (session.Update, error)
}
