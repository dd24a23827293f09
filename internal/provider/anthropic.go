package provider

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/petasbytes/tool-agent/memory"
	"github.com/petasbytes/tool-agent/tools"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const DefaultAnthropicModel = string(anthropic.ModelClaude3_7SonnetLatest)

// Anthropic talks to the Messages API. Retries are left to the SDK.
type Anthropic struct {
	client *anthropic.Client
	opts   Options
}

func NewAnthropic(opts Options) *Anthropic {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	c := anthropic.NewClient(reqOpts...)
	return &Anthropic{client: &c, opts: opts}
}

func (a *Anthropic) anthropicTools(defs []tools.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, d := range defs {
		var schema anthropic.ToolInputSchemaParam
		if d.InputSchema != nil {
			schema.Properties = d.InputSchema.Properties
			schema.Required = d.InputSchema.Required
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        d.Name,
			Description: anthropic.String(d.Description),
			InputSchema: schema,
		}})
	}
	return out
}

func (a *Anthropic) messages(transcript memory.Transcript) []anthropic.MessageParam {
	conv := make([]anthropic.MessageParam, 0, len(transcript))
	for _, t := range transcript {
		switch t.Kind {
		case memory.KindUser:
			conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Text)))
		case memory.KindToolCall:
			toolUse := anthropic.ToolUseBlockParam{
				ID:    t.CallID,
				Name:  t.Tool,
				Input: map[string]any{"input": t.Argument},
			}
			conv = append(conv, anthropic.NewAssistantMessage(anthropic.ContentBlockParamUnion{OfToolUse: &toolUse}))
		case memory.KindToolResult:
			conv = append(conv, anthropic.NewUserMessage(anthropic.NewToolResultBlock(t.CallID, t.Text, t.IsError)))
		case memory.KindFinal:
			conv = append(conv, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Text)))
		}
	}
	return conv
}

func (a *Anthropic) Next(ctx context.Context, transcript memory.Transcript, defs []tools.ToolDefinition) ([]memory.Turn, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.opts.Model),
		MaxTokens:   int64(a.opts.maxTokens()),
		Messages:    a.messages(transcript),
		Temperature: anthropic.Float(a.opts.Temperature),
	}
	if a.opts.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: a.opts.System}}
	}
	if len(defs) > 0 {
		params.Tools = a.anthropicTools(defs)
	}

	log.Debug().
		Str("provider", KindAnthropic).
		Str("model", a.opts.Model).
		Int("messages", len(params.Messages)).
		Msg("Anthropic request")

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, classify(KindAnthropic, anthropicStatus(err), err)
	}

	var calls []memory.Turn
	var text []string
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			if v.Text != "" {
				text = append(text, v.Text)
			}
		case anthropic.ToolUseBlock:
			arg, err := decodeArgument(v.JSON.Input.Raw())
			if err != nil {
				return nil, malformed(KindAnthropic, "tool_use %s: %v", v.Name, err)
			}
			calls = append(calls, memory.ToolCallRequest(callID(v.ID), v.Name, arg))
		}
	}
	if len(calls) > 0 {
		return calls, nil
	}
	answer := strings.TrimSpace(strings.Join(text, "\n"))
	if answer == "" {
		return nil, malformed(KindAnthropic, "message has neither text nor tool_use blocks (stop_reason=%s)", msg.StopReason)
	}
	return []memory.Turn{memory.FinalAnswer(answer)}, nil
}

func anthropicStatus(err error) int {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
