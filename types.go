package roomservice

import (
	"context"
	"net/http"

	"roomservice/order"
	"roomservice/session"
	"roomservice/tools"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ToolProvider resolves tool names to capabilities. A lookup miss is a
// configuration error; the orchestrator does not recover from it.
type ToolProvider interface {
	GetTools() []tools.Tool
	GetTool(name string) (tools.Tool, error)
}

// ReasoningEngine is the opaque reasoning capability: given history, the tool
// catalog, and system instructions, produce a reply or tool-call requests.
type ReasoningEngine interface {
	Infer(ctx context.Context, history []session.Message, catalog []tools.Tool, system string) (session.Reply, error)
}

// SuggestionEngine is the structured-output variant used for menu
// suggestions. A reply that does not match the expected shape comes back as
// an error.
type SuggestionEngine interface {
	InferSuggestions(ctx context.Context, prompt string) (order.SuggestionsReply, error)
}

// Agent drives one conversation turn and returns the latest assistant reply.
type Agent interface {
	Turn(ctx context.Context, userInput string) (string, error)
}
