package roomservice

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// TurnLogger is the interface for orchestrator transcript logging.
type TurnLogger interface {
	LogTurn(turn TurnLog) error
}

// NewTurnLogFilePath returns a file path keyed by session id so transcripts
// from concurrent sessions land in separate files.
func NewTurnLogFilePath(sessionID string) string {
	return fmt.Sprintf("./logs/%d.%s.json", time.Now().Unix(), sessionID)
}

// TurnLog represents a single orchestrator iteration within a turn.
type TurnLog struct {
	Turn      int           `json:"turn"`
	Iteration int           `json:"iteration"`
	Timestamp time.Time     `json:"timestamp"`
	UserInput string        `json:"user_input,omitempty"`
	Reply     any           `json:"reply,omitempty"`
	ToolCalls []ToolCallLog `json:"tool_calls,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// ToolCallLog represents one tool dispatch within an iteration.
type ToolCallLog struct {
	Name   string         `json:"name"`
	CallID string         `json:"call_id,omitempty"`
	Input  map[string]any `json:"input"`
	Error  string         `json:"error,omitempty"`
}

// FileTurnLogger accumulates turn logs and flushes them as one JSON document.
type FileTurnLogger struct {
	turns  []TurnLog
	writer io.Writer
}

func NewFileTurnLogger(writer io.Writer) *FileTurnLogger {
	return &FileTurnLogger{
		turns:  make([]TurnLog, 0),
		writer: writer,
	}
}

// LogTurn buffers a turn log entry (does not flush immediately).
func (l *FileTurnLogger) LogTurn(turn TurnLog) error {
	l.turns = append(l.turns, turn)
	return nil
}

// Flush writes all accumulated entries to the writer and clears the buffer.
func (l *FileTurnLogger) Flush() error {
	if l.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"conversation_session": map[string]any{
			"timestamp": time.Now(),
			"turns":     l.turns,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal turn log: %w", err)
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write turn log: %w", err)
	}

	l.turns = l.turns[:0]
	return nil
}

// NoOpTurnLogger discards all log entries.
type NoOpTurnLogger struct{}

func NewNoOpTurnLogger() *NoOpTurnLogger {
	return &NoOpTurnLogger{}
}

func (n *NoOpTurnLogger) LogTurn(turn TurnLog) error {
	return nil
}

// StdoutTurnLogger writes each entry as a JSON line to stdout (for
// Lambda/CloudWatch).
type StdoutTurnLogger struct{}

func NewStdoutTurnLogger() *StdoutTurnLogger {
	return &StdoutTurnLogger{}
}

func (l *StdoutTurnLogger) LogTurn(turn TurnLog) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
