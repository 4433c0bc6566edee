// Package openai implements the reasoning-engine capabilities over the
// OpenAI chat completions API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"roomservice/order"
	"roomservice/session"
	"roomservice/tools"
)

const (
	defaultModelID = "gpt-4o-mini"

	// 1k is a good balance for cost and safety; raise it when expecting
	// longer replies.
	defaultMaxTokens = 1024

	// Low temperature keeps outputs more deterministic, which is better for
	// tool use and structured output.
	defaultTemperature = 0.2

	defaultTopP = 0.9
)

type Options struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// Client implements both the chat and the structured-suggestions engines.
type Client struct {
	client openai.Client
	opts   Options
}

// NewClient creates a client. baseURL may be empty to use the default API
// endpoint.
func NewClient(apiKey, baseURL string, opts Options) *Client {
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

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}

	return &Client{
		client: openai.NewClient(reqOpts...),
		opts:   opts,
	}
}

// Infer sends the history plus tool catalog and returns the assistant reply.
func (c *Client) Infer(ctx context.Context, history []session.Message, catalog []tools.Tool, system string) (session.Reply, error) {
	slog.Info("LLM_CLIENT: Invoked", "messages_len", len(history), "tools_len", len(catalog))

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	msgs = append(msgs, openai.SystemMessage(system))
	for _, m := range history {
		param, err := messageParam(m)
		if err != nil {
			return session.Reply{}, err
		}
		msgs = append(msgs, param)
	}

	toolParams, err := toolParams(catalog)
	if err != nil {
		return session.Reply{}, err
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(c.opts.ModelID),
		Messages:            msgs,
		Tools:               toolParams,
		MaxCompletionTokens: openai.Int(int64(c.opts.MaxTokens)),
		Temperature:         openai.Float(float64(c.opts.Temperature)),
		TopP:                openai.Float(float64(c.opts.TopP)),
	})
	if err != nil {
		return session.Reply{}, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return session.Reply{}, fmt.Errorf("chat completion returned no choices")
	}

	choice := resp.Choices[0]
	reply := session.Reply{Text: choice.Message.Content}
	for _, tc := range choice.Message.ToolCalls {
		var args map[string]any
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return session.Reply{}, fmt.Errorf("malformed tool call arguments for %q: %w", tc.Function.Name, err)
		}
		reply.ToolCalls = append(reply.ToolCalls, session.ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: args,
		})
	}

	slog.Info("LLM_CLIENT: Reply received",
		"finish_reason", choice.FinishReason,
		"text_len", len(reply.Text),
		"tool_calls", len(reply.ToolCalls),
	)
	return reply, nil
}

// InferSuggestions asks for a JSON object matching the suggestions shape. A
// reply that does not parse comes back as an error; the caller degrades to
// no suggestions.
func (c *Client) InferSuggestions(ctx context.Context, prompt string) (order.SuggestionsReply, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(c.opts.ModelID),
		Messages:            []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		MaxCompletionTokens: openai.Int(int64(c.opts.MaxTokens)),
		Temperature:         openai.Float(float64(c.opts.Temperature)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return order.SuggestionsReply{}, fmt.Errorf("suggestions completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return order.SuggestionsReply{}, fmt.Errorf("suggestions completion returned no choices")
	}

	var reply order.SuggestionsReply
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &reply); err != nil {
		return order.SuggestionsReply{}, fmt.Errorf("malformed suggestions reply: %w", err)
	}
	return reply, nil
}

func messageParam(m session.Message) (openai.ChatCompletionMessageParamUnion, error) {
	switch m.Role {
	case session.RoleUser:
		return openai.UserMessage(m.Content), nil

	case session.RoleAssistant:
		asst := openai.ChatCompletionAssistantMessageParam{}
		if m.Content != "" {
			asst.Content.OfString = openai.String(m.Content)
		}
		for _, tc := range m.ToolCalls {
			args, err := json.Marshal(tc.Args)
			if err != nil {
				return openai.ChatCompletionMessageParamUnion{}, fmt.Errorf("marshal tool call args for %q: %w", tc.Name, err)
			}
			asst.ToolCalls = append(asst.ToolCalls, openai.ChatCompletionMessageToolCallParam{
				ID: tc.ID,
				Function: openai.ChatCompletionMessageToolCallFunctionParam{
					Name:      tc.Name,
					Arguments: string(args),
				},
			})
		}
		return openai.ChatCompletionMessageParamUnion{OfAssistant: &asst}, nil

	case session.RoleTool:
		return openai.ToolMessage(m.Content, m.ToolCallID), nil

	default:
		return openai.ChatCompletionMessageParamUnion{}, fmt.Errorf("unsupported message role %q", m.Role)
	}
}

func toolParams(catalog []tools.Tool) ([]openai.ChatCompletionToolParam, error) {
	params := make([]openai.ChatCompletionToolParam, 0, len(catalog))
	for _, t := range catalog {
		// Pre-marshal the schema so its custom MarshalJSON applies, then
		// parse it back into the loose map the SDK wants.
		schemaJSON, err := json.Marshal(t.InputSchema())
		if err != nil {
			return nil, fmt.Errorf("marshal tool schema for %s: %w", t.Name(), err)
		}
		var schemaMap map[string]any
		if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
			return nil, fmt.Errorf("unmarshal tool schema for %s: %w", t.Name(), err)
		}

		params = append(params, openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name(),
				Description: openai.String(t.Description()),
				Parameters:  shared.FunctionParameters(schemaMap),
			},
		})
	}
	return params, nil
}
