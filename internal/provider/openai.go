package provider

import (
	"context"
	"math"
	"strings"

	"github.com/petasbytes/tool-agent/memory"
	"github.com/petasbytes/tool-agent/tools"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"
)

const (
	OpenAIBaseURL = "https://api.openai.com/v1"
	GitHubBaseURL = "https://models.github.ai/inference"
)

// OpenAI speaks the chat completions wire format. It serves api.openai.com
// and any compatible gateway such as GitHub Models.
type OpenAI struct {
	name   string
	client *go_openai.Client
	opts   Options
}

func NewOpenAI(name string, opts Options) *OpenAI {
	config := go_openai.DefaultConfig(opts.APIKey)
	switch {
	case opts.BaseURL != "":
		config.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	case name == KindGitHub:
		config.BaseURL = GitHubBaseURL
	}
	if opts.HTTPClient != nil {
		config.HTTPClient = opts.HTTPClient
	}
	return &OpenAI{name: name, client: go_openai.NewClientWithConfig(config), opts: opts}
}

func (o *OpenAI) Next(ctx context.Context, transcript memory.Transcript, defs []tools.ToolDefinition) ([]memory.Turn, error) {
	req := o.buildRequest(transcript, defs)

	log.Debug().
		Str("provider", o.name).
		Str("model", req.Model).
		Int("messages", len(req.Messages)).
		Int("tools", len(req.Tools)).
		Msg("OpenAI request")

	var resp go_openai.ChatCompletionResponse
	err := withRetry(ctx, o.opts.MaxRetries, func(ctx context.Context) error {
		r, err := o.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return classify(o.name, openAIStatus(err), err)
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o.parseResponse(resp)
}

func (o *OpenAI) buildRequest(transcript memory.Transcript, defs []tools.ToolDefinition) go_openai.ChatCompletionRequest {
	msgs := make([]go_openai.ChatCompletionMessage, 0, len(transcript)+1)
	if o.opts.System != "" {
		msgs = append(msgs, go_openai.ChatCompletionMessage{Role: go_openai.ChatMessageRoleSystem, Content: o.opts.System})
	}
	for _, t := range transcript {
		switch t.Kind {
		case memory.KindUser:
			msgs = append(msgs, go_openai.ChatCompletionMessage{Role: go_openai.ChatMessageRoleUser, Content: t.Text})
		case memory.KindToolCall:
			msgs = append(msgs, go_openai.ChatCompletionMessage{
				Role: go_openai.ChatMessageRoleAssistant,
				ToolCalls: []go_openai.ToolCall{{
					ID:   t.CallID,
					Type: go_openai.ToolTypeFunction,
					Function: go_openai.FunctionCall{
						Name:      t.Tool,
						Arguments: encodeArgument(t.Argument),
					},
				}},
			})
		case memory.KindToolResult:
			msgs = append(msgs, go_openai.ChatCompletionMessage{
				Role:       go_openai.ChatMessageRoleTool,
				Content:    t.Text,
				Name:       t.Tool,
				ToolCallID: t.CallID,
			})
		case memory.KindFinal:
			msgs = append(msgs, go_openai.ChatCompletionMessage{Role: go_openai.ChatMessageRoleAssistant, Content: t.Text})
		}
	}

	// go-openai drops a zero temperature (omitempty), which the server reads
	// as its default of 1; the smallest non-zero float keeps decoding greedy.
	temperature := float32(o.opts.Temperature)
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	req := go_openai.ChatCompletionRequest{
		Model:       o.opts.Model,
		Messages:    msgs,
		MaxTokens:   o.opts.maxTokens(),
		Temperature: temperature,
	}
	if len(defs) > 0 {
		openaiTools := make([]go_openai.Tool, 0, len(defs))
		for _, d := range defs {
			openaiTools = append(openaiTools, go_openai.Tool{
				Type: go_openai.ToolTypeFunction,
				Function: &go_openai.FunctionDefinition{
					Name:        d.Name,
					Description: d.Description,
					Parameters:  d.InputSchema,
				},
			})
		}
		req.Tools = openaiTools
		req.ToolChoice = "auto"
	}
	return req
}

func (o *OpenAI) parseResponse(resp go_openai.ChatCompletionResponse) ([]memory.Turn, error) {
	if len(resp.Choices) == 0 {
		return nil, malformed(o.name, "response has no choices")
	}
	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) > 0 {
		out := make([]memory.Turn, 0, len(msg.ToolCalls))
		for _, tc := range msg.ToolCalls {
			if tc.Function.Name == "" {
				return nil, malformed(o.name, "tool call %q has no function name", tc.ID)
			}
			arg, err := decodeArgument(tc.Function.Arguments)
			if err != nil {
				return nil, malformed(o.name, "tool call %s: %v", tc.Function.Name, err)
			}
			out = append(out, memory.ToolCallRequest(callID(tc.ID), tc.Function.Name, arg))
		}
		return out, nil
	}
	if strings.TrimSpace(msg.Content) == "" {
		return nil, malformed(o.name, "response has neither content nor tool calls (finish_reason=%s)", resp.Choices[0].FinishReason)
	}
	return []memory.Turn{memory.FinalAnswer(msg.Content)}, nil
}

func openAIStatus(err error) int {
	var apiErr *go_openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *go_openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
