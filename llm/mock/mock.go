// Package mock provides deterministic reasoning engines for tests and
// offline runs. Real engines may not be so kind.
package mock

import (
	"context"
	"fmt"
	"log/slog"

	"roomservice/order"
	"roomservice/session"
	"roomservice/tools"
)

// Step is one scripted reasoning-engine response.
type Step struct {
	Reply session.Reply
	Err   error
}

// Engine replays a fixed script of replies, one per Infer call.
type Engine struct {
	steps []Step
	next  int
}

// NewEngine creates a scripted engine.
func NewEngine(steps ...Step) *Engine {
	return &Engine{steps: steps}
}

// Infer returns the next scripted step.
func (e *Engine) Infer(ctx context.Context, history []session.Message, catalog []tools.Tool, system string) (session.Reply, error) {
	slog.Info("MOCK_ENGINE: Invoked", "messages_len", len(history), "step", e.next+1)

	if e.next >= len(e.steps) {
		return session.Reply{}, fmt.Errorf("mock engine script exhausted after %d steps", len(e.steps))
	}
	step := e.steps[e.next]
	e.next++
	return step.Reply, step.Err
}

// Calls reports how many Infer calls the engine has served.
func (e *Engine) Calls() int {
	return e.next
}

// SuggestionEngine returns a canned structured-suggestions reply.
type SuggestionEngine struct {
	Reply   order.SuggestionsReply
	Err     error
	Invoked int
}

// NewSuggestionEngine creates a canned suggestion engine.
func NewSuggestionEngine(reply order.SuggestionsReply, err error) *SuggestionEngine {
	return &SuggestionEngine{Reply: reply, Err: err}
}

// InferSuggestions returns the canned reply.
func (e *SuggestionEngine) InferSuggestions(ctx context.Context, prompt string) (order.SuggestionsReply, error) {
	e.Invoked++
	if e.Err != nil {
		return order.SuggestionsReply{}, e.Err
	}
	return e.Reply, nil
}
