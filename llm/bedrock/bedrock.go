// Package bedrock implements the reasoning-engine capabilities over the
// Bedrock Converse API.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"roomservice/order"
	"roomservice/session"
	"roomservice/tools"
)

const (
	// defaultModelID is an inference profile ID or ARN, not the foundation
	// model's ID.
	// See https://docs.aws.amazon.com/bedrock/latest/userguide/inference-profiles.html.
	defaultModelID = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"

	defaultMaxTokens = 1024

	// Low temperature and top_p keep outputs more deterministic, which is
	// better for tool use and structured output.
	defaultTemperature = 0.2
	defaultTopP        = 0.9
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type Options struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// Client implements both the chat and the structured-suggestions engines.
type Client struct {
	brc  bedrockRuntimeClient
	opts Options
}

func NewClient(brc bedrockRuntimeClient, opts Options) *Client {
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaultTopP
	}
	return &Client{
		brc:  brc,
		opts: opts,
	}
}

// Infer sends the conversation through the Converse API and returns the
// assistant reply.
func (c *Client) Infer(ctx context.Context, history []session.Message, catalog []tools.Tool, system string) (session.Reply, error) {
	slog.Info("LLM_CLIENT: Invoked", "messages_len", len(history), "tools_len", len(catalog))

	msgs, err := converseMessages(history)
	if err != nil {
		return session.Reply{}, err
	}

	var toolSpecs []types.Tool
	for _, t := range catalog {
		spec, err := buildToolSpec(t)
		if err != nil {
			return session.Reply{}, err
		}
		toolSpecs = append(toolSpecs, &types.ToolMemberToolSpec{Value: spec})
	}

	in := &bedrockruntime.ConverseInput{
		ModelId:  &c.opts.ModelID,
		System:   []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: system}},
		Messages: msgs,
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(c.opts.MaxTokens),
			Temperature: aws.Float32(c.opts.Temperature),
			TopP:        aws.Float32(c.opts.TopP),
		},
		ToolConfig: &types.ToolConfiguration{Tools: toolSpecs, ToolChoice: &types.ToolChoiceMemberAuto{}},
	}

	out, err := c.brc.Converse(ctx, in)
	if err != nil {
		return session.Reply{}, fmt.Errorf("bedrock converse failed: %w", err)
	}

	slog.Info("LLM_CLIENT: Converse succeeded",
		"stop_reason", out.StopReason,
		"latency_ms", aws.ToInt64(out.Metrics.LatencyMs),
		"input_tokens", aws.ToInt32(out.Usage.InputTokens),
		"output_tokens", aws.ToInt32(out.Usage.OutputTokens),
	)

	switch out.StopReason {
	case "tool_use":
		calls, err := toolCallsFromOutput(out)
		if err != nil {
			return session.Reply{}, fmt.Errorf("failed to parse tool calls: %w", err)
		}
		return session.Reply{ToolCalls: calls}, nil

	case "end_turn", "stop_sequence":
		return session.Reply{Text: textFromOutput(out)}, nil

	case "max_tokens":
		return session.Reply{}, fmt.Errorf("model hit MaxTokens limit; consider increasing MaxTokens")

	case "safety", "content_filtered":
		return session.Reply{}, fmt.Errorf("model response blocked by Bedrock safety filters")

	default:
		calls, err := toolCallsFromOutput(out)
		if err != nil {
			return session.Reply{}, fmt.Errorf("failed to parse tool calls: %w", err)
		}
		return session.Reply{Text: textFromOutput(out), ToolCalls: calls}, nil
	}
}

// InferSuggestions runs a single-prompt Converse call and parses the reply as
// the structured suggestions shape.
func (c *Client) InferSuggestions(ctx context.Context, prompt string) (order.SuggestionsReply, error) {
	in := &bedrockruntime.ConverseInput{
		ModelId: &c.opts.ModelID,
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: prompt}},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(c.opts.MaxTokens),
			Temperature: aws.Float32(c.opts.Temperature),
			TopP:        aws.Float32(c.opts.TopP),
		},
	}

	out, err := c.brc.Converse(ctx, in)
	if err != nil {
		return order.SuggestionsReply{}, fmt.Errorf("bedrock converse failed: %w", err)
	}

	var reply order.SuggestionsReply
	if err := json.Unmarshal([]byte(textFromOutput(out)), &reply); err != nil {
		return order.SuggestionsReply{}, fmt.Errorf("malformed suggestions reply: %w", err)
	}
	return reply, nil
}

func converseMessages(history []session.Message) ([]types.Message, error) {
	var msgs []types.Message
	for _, m := range history {
		switch m.Role {
		case session.RoleUser:
			msgs = append(msgs, types.Message{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: m.Content}},
			})

		case session.RoleAssistant:
			msg := types.Message{Role: types.ConversationRoleAssistant}
			if m.Content != "" {
				msg.Content = append(msg.Content, &types.ContentBlockMemberText{Value: m.Content})
			}
			for _, tc := range m.ToolCalls {
				msg.Content = append(msg.Content, &types.ContentBlockMemberToolUse{
					Value: types.ToolUseBlock{
						ToolUseId: aws.String(tc.ID),
						Name:      aws.String(tc.Name),
						Input:     document.NewLazyDocument(tc.Args),
					},
				})
			}
			msgs = append(msgs, msg)

		case session.RoleTool:
			// Converse carries tool results as user-role content tied to the
			// original toolUseId.
			msgs = append(msgs, types.Message{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberToolResult{
					Value: types.ToolResultBlock{
						ToolUseId: aws.String(m.ToolCallID),
						Status:    types.ToolResultStatusSuccess,
						Content: []types.ToolResultContentBlock{
							&types.ToolResultContentBlockMemberText{Value: m.Content},
						},
					},
				}},
			})

		default:
			return nil, fmt.Errorf("unsupported message role %q", m.Role)
		}
	}
	return msgs, nil
}

// buildToolSpec constructs a ToolSpecification for a tool.
func buildToolSpec(t tools.Tool) (types.ToolSpecification, error) {
	// Pre-marshal the schema so its custom MarshalJSON applies, then parse it
	// back into the loose map the document system wants.
	schemaJSON, err := json.Marshal(t.InputSchema())
	if err != nil {
		return types.ToolSpecification{}, fmt.Errorf("failed to marshal tool schema for %s: %w", t.Name(), err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return types.ToolSpecification{}, fmt.Errorf("failed to unmarshal tool schema for %s: %w", t.Name(), err)
	}

	return types.ToolSpecification{
		Name:        aws.String(t.Name()),
		Description: aws.String(t.Description()),
		InputSchema: &types.ToolInputSchemaMemberJson{
			Value: document.NewLazyDocument(schemaMap),
		},
	}, nil
}

func textFromOutput(out *bedrockruntime.ConverseOutput) string {
	if out == nil || out.Output == nil {
		return ""
	}
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil {
		return ""
	}

	var text string
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t.Value != "" {
			if text != "" {
				text += "\n"
			}
			text += t.Value
		}
	}
	return text
}

func toolCallsFromOutput(out *bedrockruntime.ConverseOutput) ([]session.ToolCall, error) {
	var calls []session.ToolCall

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil || msg.Value.Content == nil {
		return calls, nil
	}

	for _, cb := range msg.Value.Content {
		tu, ok := cb.(*types.ContentBlockMemberToolUse)
		if !ok || tu == nil {
			continue
		}

		var args map[string]any
		if err := tu.Value.Input.UnmarshalSmithyDocument(&args); err != nil {
			args = map[string]any{}
		}

		calls = append(calls, session.ToolCall{
			ID:   aws.ToString(tu.Value.ToolUseId),
			Name: aws.ToString(tu.Value.Name),
			Args: args,
		})
	}

	return calls, nil
}
