// Package agent drives the conversation: reasoning-engine call, tool-call
// detection, sequential tool dispatch, and loop or terminate.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"roomservice"
	"roomservice/session"
)

// ErrSessionFailed marks an unrecoverable session: too many consecutive tool
// failures. No automatic retry; the user is told to contact a human.
var ErrSessionFailed = errors.New("session failed: please contact a human for assistance")

// EscalationMessage is what the driver shows the user when the session fails.
const EscalationMessage = "I'm sorry, something has gone wrong on our end. Please contact the front desk for assistance with your order."

// Orchestrator is the per-session state machine. It is turn-sequential: one
// reasoning call or tool invocation is in flight at a time, and tool effects
// are sequenced onto the same state in dispatch order.
type Orchestrator struct {
	engine           roomservice.ReasoningEngine
	toolProvider     roomservice.ToolProvider
	state            *session.State
	systemPrompt     string
	maxIterations    int
	maxConsecErrors  int
	logger           roomservice.TurnLogger
	turnsTaken       int
}

// NewOrchestrator initializes an orchestrator with a fresh session state.
func NewOrchestrator(engine roomservice.ReasoningEngine, tp roomservice.ToolProvider, systemPrompt string, maxIterations, maxConsecErrors int, logger roomservice.TurnLogger) *Orchestrator {
	return &Orchestrator{
		engine:          engine,
		toolProvider:    tp,
		state:           session.New(),
		systemPrompt:    systemPrompt,
		maxIterations:   maxIterations,
		maxConsecErrors: maxConsecErrors,
		logger:          logger,
	}
}

// State exposes the session state for inspection in tests and drivers.
func (o *Orchestrator) State() *session.State {
	return o.state
}

// Turn runs one conversation turn: append the user utterance, then loop
// reasoning call -> tool dispatch until a reply arrives with no tool-call
// requests. Control then returns to the caller; the next utterance starts a
// new turn on the same state.
func (o *Orchestrator) Turn(ctx context.Context, userInput string) (string, error) {
	o.turnsTaken++
	slog.Info("ORCHESTRATOR: Starting turn", "session_id", o.state.ID, "turn", o.turnsTaken)

	o.state.Append(session.Message{Role: session.RoleUser, Content: userInput})

	for iter := 0; iter < o.maxIterations; iter++ {
		turnLog := roomservice.TurnLog{Turn: o.turnsTaken, Iteration: iter + 1, Timestamp: time.Now()}
		if iter == 0 {
			turnLog.UserInput = userInput
		}

		slog.Info("ORCHESTRATOR: Invoking reasoning engine",
			"turn", o.turnsTaken,
			"iteration", iter+1,
			"messages_count", len(o.state.Messages),
		)

		reply, err := o.engine.Infer(ctx, o.state.Messages, o.toolProvider.GetTools(), o.systemPrompt)
		if err != nil {
			turnLog.Error = err.Error()
			o.logTurn(turnLog)
			return "", fmt.Errorf("reasoning engine: %w", err)
		}
		turnLog.Reply = reply

		o.state.Append(session.Message{
			Role:      session.RoleAssistant,
			Content:   reply.Text,
			ToolCalls: reply.ToolCalls,
		})

		slog.Info("ORCHESTRATOR: Reply received",
			"iteration", iter+1,
			"text_length", len(reply.Text),
			"tool_calls", len(reply.ToolCalls),
		)

		// A reply with no tool-call requests ends the turn.
		if len(reply.ToolCalls) == 0 {
			o.logTurn(turnLog)
			return reply.Text, nil
		}

		// Dispatch sequentially in the order returned; tool effects must not
		// race on the shared state.
		var toolLogs []roomservice.ToolCallLog
		for _, call := range reply.ToolCalls {
			tlog := roomservice.ToolCallLog{Name: call.Name, CallID: call.ID, Input: call.Args}

			tool, err := o.toolProvider.GetTool(call.Name)
			if err != nil {
				// The reasoning engine only sees registered tools, so an
				// unknown name is a configuration error, not a user error.
				tlog.Error = err.Error()
				turnLog.ToolCalls = append(toolLogs, tlog)
				o.logTurn(turnLog)
				return "", fmt.Errorf("unknown tool %q: %w", call.Name, err)
			}

			update, err := tool.Run(ctx, call, o.state)
			if err != nil {
				tlog.Error = err.Error()
				toolLogs = append(toolLogs, tlog)

				o.state.ConsecutiveToolErrors++
				o.state.Append(session.Message{
					Role:       session.RoleTool,
					ToolCallID: call.ID,
					Content:    fmt.Sprintf("Error: %v", err),
				})
				slog.Warn("ORCHESTRATOR: Tool call failed",
					"name", call.Name,
					"error", err,
					"consecutive_errors", o.state.ConsecutiveToolErrors,
				)

				if o.state.ConsecutiveToolErrors >= o.maxConsecErrors {
					turnLog.ToolCalls = toolLogs
					turnLog.Error = fmt.Sprintf("%d consecutive tool failures", o.state.ConsecutiveToolErrors)
					o.logTurn(turnLog)
					return "", fmt.Errorf("%d consecutive tool failures: %w", o.state.ConsecutiveToolErrors, ErrSessionFailed)
				}
				continue
			}

			o.state.Apply(update)
			o.state.ConsecutiveToolErrors = 0
			toolLogs = append(toolLogs, tlog)

			slog.Info("ORCHESTRATOR: Tool executed", "name", call.Name, "iteration", iter+1)
		}

		turnLog.ToolCalls = toolLogs
		o.logTurn(turnLog)
	}

	return "", fmt.Errorf("turn exceeded %d iterations without a final reply", o.maxIterations)
}

func (o *Orchestrator) logTurn(turn roomservice.TurnLog) {
	if o.logger != nil {
		if err := o.logger.LogTurn(turn); err != nil {
			slog.Error("Failed to log orchestrator turn", "error", err, "turn", turn.Turn)
		}
	}
}
