package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomservice/order"
	"roomservice/session"
)

func TestEngineReplaysScript(t *testing.T) {
	engine := NewEngine(
		Step{Reply: session.Reply{ToolCalls: []session.ToolCall{{ID: "call-1", Name: "order_validator"}}}},
		Step{Reply: session.Reply{Text: "done"}},
	)

	reply, err := engine.Infer(context.Background(), nil, nil, "system")
	require.NoError(t, err)
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "order_validator", reply.ToolCalls[0].Name)

	reply, err = engine.Infer(context.Background(), nil, nil, "system")
	require.NoError(t, err)
	assert.Equal(t, "done", reply.Text)
	assert.Equal(t, 2, engine.Calls())

	_, err = engine.Infer(context.Background(), nil, nil, "system")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script exhausted")
}

func TestEngineScriptedError(t *testing.T) {
	engine := NewEngine(Step{Err: errors.New("model overloaded")})

	_, err := engine.Infer(context.Background(), nil, nil, "system")
	assert.EqualError(t, err, "model overloaded")
}

func TestSuggestionEngine(t *testing.T) {
	canned := order.SuggestionsReply{Suggestions: []order.Suggestion{{Suggestion: "try something else"}}}
	engine := NewSuggestionEngine(canned, nil)

	reply, err := engine.InferSuggestions(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, canned, reply)
	assert.Equal(t, 1, engine.Invoked)

	failing := NewSuggestionEngine(order.SuggestionsReply{}, errors.New("inference unavailable"))
	_, err = failing.InferSuggestions(context.Background(), "prompt")
	assert.Error(t, err)
}
