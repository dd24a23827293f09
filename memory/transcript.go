package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindUser       Kind = "user"
	KindToolCall   Kind = "tool_call"
	KindToolResult Kind = "tool_result"
	KindFinal      Kind = "final"
)

// Turn is one entry of a transcript. Which fields are set depends on Kind:
// Text for user/tool_result/final, Tool and CallID for tool_call/tool_result,
// Argument for tool_call.
type Turn struct {
	Kind     Kind   `json:"kind"`
	Text     string `json:"text,omitempty"`
	Tool     string `json:"tool,omitempty"`
	Argument string `json:"argument,omitempty"`
	CallID   string `json:"call_id,omitempty"`
	IsError  bool   `json:"is_error,omitempty"`
}

func UserMessage(text string) Turn {
	return Turn{Kind: KindUser, Text: text}
}

func ToolCallRequest(callID, tool, argument string) Turn {
	return Turn{Kind: KindToolCall, CallID: callID, Tool: tool, Argument: argument}
}

func ToolResult(callID, tool, text string) Turn {
	return Turn{Kind: KindToolResult, CallID: callID, Tool: tool, Text: text}
}

// ToolError is a tool result describing a failure the model can react to,
// such as an unknown tool name.
func ToolError(callID, tool, text string) Turn {
	return Turn{Kind: KindToolResult, CallID: callID, Tool: tool, Text: text, IsError: true}
}

func FinalAnswer(text string) Turn {
	return Turn{Kind: KindFinal, Text: text}
}

func (t Turn) String() string {
	switch t.Kind {
	case KindUser:
		return fmt.Sprintf("user: %s", t.Text)
	case KindToolCall:
		return fmt.Sprintf("call %s(%q) [%s]", t.Tool, t.Argument, t.CallID)
	case KindToolResult:
		return fmt.Sprintf("result %s [%s]: %s", t.Tool, t.CallID, t.Text)
	case KindFinal:
		return fmt.Sprintf("final: %s", t.Text)
	default:
		return fmt.Sprintf("unknown(%s)", t.Kind)
	}
}

// Transcript is the ordered record of one query, oldest first.
type Transcript []Turn

// Final returns the final answer turn, if the transcript has one.
func (tr Transcript) Final() (Turn, bool) {
	if len(tr) == 0 || tr[len(tr)-1].Kind != KindFinal {
		return Turn{}, false
	}
	return tr[len(tr)-1], true
}

// ToolResults returns the tool_result turns in order.
func (tr Transcript) ToolResults() []Turn {
	var out []Turn
	for _, t := range tr {
		if t.Kind == KindToolResult {
			out = append(out, t)
		}
	}
	return out
}

// Validate checks the transcript shape: it opens with a user message, every
// tool call is immediately answered by one result with the same tool and call
// id, results never appear unasked, and nothing follows a final answer.
func (tr Transcript) Validate() error {
	if len(tr) == 0 {
		return errors.New("transcript is empty")
	}
	if tr[0].Kind != KindUser {
		return errors.Errorf("transcript starts with %s, want user", tr[0].Kind)
	}
	for i := 0; i < len(tr); i++ {
		t := tr[i]
		switch t.Kind {
		case KindUser:
		case KindToolCall:
			if i+1 >= len(tr) {
				return errors.Errorf("turn %d: tool call %s has no result", i, t.CallID)
			}
			next := tr[i+1]
			if next.Kind != KindToolResult || next.CallID != t.CallID || next.Tool != t.Tool {
				return errors.Errorf("turn %d: tool call %s/%s not followed by its result", i, t.Tool, t.CallID)
			}
			i++
		case KindToolResult:
			return errors.Errorf("turn %d: tool result %s without a preceding call", i, t.CallID)
		case KindFinal:
			if i != len(tr)-1 {
				return errors.Errorf("turn %d: final answer is not the last turn", i)
			}
		default:
			return errors.Errorf("turn %d: unknown kind %q", i, t.Kind)
		}
	}
	return nil
}

// SaveTranscript writes tr as indented JSON to dir/name.json, creating dir.
func SaveTranscript(dir, name string, tr Transcript) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "mkdir %s", dir)
	}
	b, err := json.MarshalIndent(tr, "", " ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", errors.Wrapf(err, "write %s", path)
	}
	return path, nil
}

// LoadTranscript reads a transcript written by SaveTranscript.
func LoadTranscript(path string) (Transcript, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tr Transcript
	if err := json.Unmarshal(b, &tr); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return tr, nil
}
