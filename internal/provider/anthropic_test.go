package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/petasbytes/tool-agent/memory"
	"github.com/petasbytes/tool-agent/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropic(ft *fakeTransport) *Anthropic {
	return NewAnthropic(Options{
		Model:      DefaultAnthropicModel,
		APIKey:     "test-key",
		System:     "You are a helpful assistant.",
		MaxRetries: 0,
		HTTPClient: &http.Client{Transport: ft},
	})
}

func TestAnthropic_ToolUse(t *testing.T) {
	resp := `{
	"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-3-7-sonnet-latest",
	"content": [
		{"type": "text", "text": "Let me reverse that."},
		{"type": "tool_use", "id": "tu_1", "name": "reverse_string", "input": {"input": "Hello World"}}
	],
	"stop_reason": "tool_use",
	"usage": {"input_tokens": 10, "output_tokens": 5}
	}`
	ft := &fakeTransport{responses: []fakeResponse{{status: 200, body: resp}}}
	turns, err := newTestAnthropic(ft).Next(context.Background(), memory.Transcript{memory.UserMessage("Reverse 'Hello World'")}, tools.Default(nil).Definitions())
	require.NoError(t, err)
	assert.Equal(t, []memory.Turn{memory.ToolCallRequest("tu_1", "reverse_string", "Hello World")}, turns)

	var body struct {
		System      []struct{ Text string } `json:"system"`
		Temperature *float64                `json:"temperature"`
		Tools       []struct {
			Name        string         `json:"name"`
			InputSchema map[string]any `json:"input_schema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(ft.requests[0], &body))
	require.Len(t, body.System, 1)
	assert.Equal(t, "You are a helpful assistant.", body.System[0].Text)
	require.NotNil(t, body.Temperature)
	assert.Equal(t, 0.0, *body.Temperature)
	require.Len(t, body.Tools, 3)
	assert.Equal(t, "calculator", body.Tools[0].Name)
	assert.Contains(t, body.Tools[0].InputSchema, "properties")
	assert.Equal(t, "object", body.Tools[0].InputSchema["type"])
	assert.Equal(t, []any{"input"}, body.Tools[0].InputSchema["required"])
}

func TestAnthropic_TranscriptMapping(t *testing.T) {
	resp := `{"id":"msg_2","type":"message","role":"assistant","model":"m",
	"content":[{"type":"text","text":"It is 110."}],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`
	ft := &fakeTransport{responses: []fakeResponse{{status: 200, body: resp}}}

	tr := memory.Transcript{
		memory.UserMessage("What is 25 * 4 + 10?"),
		memory.ToolCallRequest("tu_1", "calculator", "25 * 4 + 10"),
		memory.ToolResult("tu_1", "calculator", "110"),
	}
	turns, err := newTestAnthropic(ft).Next(context.Background(), tr, tools.Default(nil).Definitions())
	require.NoError(t, err)
	assert.Equal(t, []memory.Turn{memory.FinalAnswer("It is 110.")}, turns)

	var body struct {
		Messages []struct {
			Role    string `json:"role"`
			Content []struct {
				Type      string         `json:"type"`
				ID        string         `json:"id"`
				ToolUseID string         `json:"tool_use_id"`
				Input     map[string]any `json:"input"`
			} `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(ft.requests[0], &body))
	require.Len(t, body.Messages, 3)
	assert.Equal(t, "user", body.Messages[0].Role)
	assert.Equal(t, "assistant", body.Messages[1].Role)
	assert.Equal(t, "tool_use", body.Messages[1].Content[0].Type)
	assert.Equal(t, "tu_1", body.Messages[1].Content[0].ID)
	assert.Equal(t, "25 * 4 + 10", body.Messages[1].Content[0].Input["input"])
	assert.Equal(t, "user", body.Messages[2].Role)
	assert.Equal(t, "tool_result", body.Messages[2].Content[0].Type)
	assert.Equal(t, "tu_1", body.Messages[2].Content[0].ToolUseID)
}

func TestAnthropic_Unauthorized(t *testing.T) {
	ft := &fakeTransport{responses: []fakeResponse{{status: 401, body: `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`}}}
	_, err := newTestAnthropic(ft).Next(context.Background(), memory.Transcript{memory.UserMessage("hi")}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthentication), "got %v", err)
}

func TestAnthropic_EmptyContentIsMalformed(t *testing.T) {
	resp := `{"id":"msg_3","type":"message","role":"assistant","model":"m","content":[],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`
	ft := &fakeTransport{responses: []fakeResponse{{status: 200, body: resp}}}
	_, err := newTestAnthropic(ft).Next(context.Background(), memory.Transcript{memory.UserMessage("hi")}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse), "got %v", err)
}
