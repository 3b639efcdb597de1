package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gitbot/internal/conversation"
	"github.com/fyrsmithlabs/gitbot/internal/tools"
)

// Response is a normalized LLM reply: either a final answer (no tool
// calls) or an ordered batch of tool calls, possibly with interleaved
// commentary text.
type Response struct {
	Text      string
	ToolCalls []tools.ToolCall
}

// Final reports whether the turn can end with this response.
func (r Response) Final() bool {
	return len(r.ToolCalls) == 0
}

// Client wraps a chat model with the conversation/catalog codec.
type Client struct {
	model  llms.Model
	logger *zap.Logger
}

// NewClient wraps an already-constructed model.
func NewClient(model llms.Model, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{model: model, logger: logger}
}

// Chat sends the system prompt, the full conversation, and the tool catalog
// to the model and normalizes the reply. Temperature is pinned to zero so
// tool selection stays deterministic.
func (c *Client) Chat(ctx context.Context, system string, log *conversation.Log, catalog []tools.ToolSpec) (Response, error) {
	messages := make([]llms.MessageContent, 0, log.Len()+1)
	if system != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	messages = append(messages, encodeLog(log)...)

	opts := []llms.CallOption{llms.WithTemperature(0)}
	if len(catalog) > 0 {
		opts = append(opts, llms.WithTools(encodeCatalog(catalog)))
	}

	resp, err := c.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return Response{}, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("model returned no choices")
	}

	choice := resp.Choices[0]
	out := Response{Text: choice.Content}
	for _, tc := range choice.ToolCalls {
		call, err := decodeToolCall(tc)
		if err != nil {
			c.logger.Warn("dropping malformed tool call", zap.Error(err))
			continue
		}
		out.ToolCalls = append(out.ToolCalls, call)
	}

	c.logger.Debug("model reply",
		zap.Int("tool_calls", len(out.ToolCalls)),
		zap.Bool("final", out.Final()))
	return out, nil
}

// encodeLog converts the conversation into provider messages, preserving
// order and the call/result correlation.
func encodeLog(log *conversation.Log) []llms.MessageContent {
	var out []llms.MessageContent
	for _, msg := range log.Messages() {
		switch msg.Role {
		case conversation.RoleUser:
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		case conversation.RoleAssistant:
			mc := llms.MessageContent{Role: llms.ChatMessageTypeAI}
			if msg.Content != "" {
				mc.Parts = append(mc.Parts, llms.TextContent{Text: msg.Content})
			}
			for _, call := range msg.ToolCalls {
				mc.Parts = append(mc.Parts, llms.ToolCall{
					ID:   call.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      call.Name,
						Arguments: encodeArguments(call.Arguments),
					},
				})
			}
			out = append(out, mc)
		case conversation.RoleTool:
			if msg.ToolResult == nil {
				continue
			}
			out = append(out, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: msg.ToolResult.CallID,
						Content:    msg.ToolResult.Text(),
					},
				},
			})
		}
	}
	return out
}

// encodeCatalog converts registry specs into the function-calling schema.
func encodeCatalog(catalog []tools.ToolSpec) []llms.Tool {
	out := make([]llms.Tool, 0, len(catalog))
	for _, spec := range catalog {
		out = append(out, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.Schema(),
			},
		})
	}
	return out
}

func encodeArguments(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func decodeToolCall(tc llms.ToolCall) (tools.ToolCall, error) {
	if tc.FunctionCall == nil {
		return tools.ToolCall{}, fmt.Errorf("tool call without function payload")
	}

	args := map[string]any{}
	if raw := tc.FunctionCall.Arguments; raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return tools.ToolCall{}, fmt.Errorf("tool call %s: bad arguments: %w", tc.FunctionCall.Name, err)
		}
	}

	id := tc.ID
	if id == "" {
		// Some providers omit correlation ids; synthesize one so the
		// result can still be matched back.
		id = uuid.NewString()
	}

	return tools.ToolCall{ID: id, Name: tc.FunctionCall.Name, Arguments: args}, nil
}
