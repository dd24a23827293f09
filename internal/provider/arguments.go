package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/petasbytes/tool-agent/tools"
	"github.com/pkg/errors"
)

// encodeArgument wraps a single string argument in the tools.Input shape.
func encodeArgument(arg string) string {
	b, _ := json.Marshal(tools.Input{Input: arg})
	return string(b)
}

// decodeArgument extracts the single string argument from model-produced JSON.
// It accepts {"input": ...}, an empty object, or an object with exactly one
// scalar field under another name, since models sometimes rename the field.
func decodeArgument(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return "", nil
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return "", errors.Wrap(err, "tool arguments are not a JSON object")
	}
	if v, ok := fields["input"]; ok {
		return scalar(v)
	}
	switch len(fields) {
	case 0:
		return "", nil
	case 1:
		for _, v := range fields {
			return scalar(v)
		}
	}
	return "", errors.Errorf("tool arguments have %d fields and no \"input\"", len(fields))
}

func scalar(v any) (string, error) {
	switch tv := v.(type) {
	case string:
		return tv, nil
	case float64, bool:
		return fmt.Sprint(tv), nil
	case nil:
		return "", nil
	default:
		return "", errors.Errorf("tool argument must be a scalar, got %T", v)
	}
}

func callID(id string) string {
	if id != "" {
		return id
	}
	return "call_" + uuid.NewString()
}
