package provider

import (
	"context"
	"net/http"
	"strings"

	"github.com/petasbytes/tool-agent/memory"
	"github.com/petasbytes/tool-agent/tools"
	"github.com/pkg/errors"
)

// Model is the narrow interface the agent loop talks to.
type Model interface {
	Next(ctx context.Context, transcript memory.Transcript, defs []tools.ToolDefinition) ([]memory.Turn, error)
}

// ModelFunc adapts a function to Model.
type ModelFunc func(ctx context.Context, transcript memory.Transcript, defs []tools.ToolDefinition) ([]memory.Turn, error)

func (f ModelFunc) Next(ctx context.Context, transcript memory.Transcript, defs []tools.ToolDefinition) ([]memory.Turn, error) {
	return f(ctx, transcript, defs)
}

const (
	KindOpenAI    = "openai"
	KindGitHub    = "github"
	KindAnthropic = "anthropic"
)

const defaultMaxTokens = 1024

// Options configures a backend. Endpoint and credential are plain data so the
// same adapter serves every gateway speaking its wire format.
type Options struct {
	Model       string
	Temperature float64
	BaseURL     string
	APIKey      string
	MaxTokens   int
	MaxRetries  int
	System      string
	HTTPClient  *http.Client
}

func (o Options) maxTokens() int {
	if o.MaxTokens <= 0 {
		return defaultMaxTokens
	}
	return o.MaxTokens
}

// New builds the backend named by kind.
func New(kind string, opts Options) (Model, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, newError(kind, ErrAuthentication, 0, errors.New("no API key configured"))
	}
	if opts.Model == "" {
		return nil, errors.Errorf("provider %s: model is required", kind)
	}
	switch kind {
	case KindOpenAI, KindGitHub:
		return NewOpenAI(kind, opts), nil
	case KindAnthropic:
		return NewAnthropic(opts), nil
	default:
		return nil, errors.Errorf("unknown provider %q", kind)
	}
}
