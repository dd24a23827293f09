// Package demo runs the fixed example queries against a configured model and
// prints the results for a human reader.
package demo

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/petasbytes/tool-agent/internal/config"
	"github.com/petasbytes/tool-agent/internal/prompt"
	"github.com/petasbytes/tool-agent/internal/provider"
	"github.com/petasbytes/tool-agent/internal/runner"
	"github.com/petasbytes/tool-agent/memory"
	"github.com/petasbytes/tool-agent/tools"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var DefaultQueries = []string{
	"What time is it right now?",
	"What is 25 * 4 + 10?",
	"Reverse the string 'Hello World'",
}

const separatorWidth = 50

// ModelFactory builds the model once the credential is known to be present.
type ModelFactory func(cfg *config.Config, system string) (provider.Model, error)

func DefaultModelFactory(cfg *config.Config, system string) (provider.Model, error) {
	return provider.New(cfg.Provider, cfg.ProviderOptions(system))
}

type Demo struct {
	Config   *config.Config
	Out      io.Writer
	NewModel ModelFactory
	// Now drives get_current_time; nil means the wall clock.
	Now     func() time.Time
	Queries []string
}

func New(cfg *config.Config, out io.Writer) *Demo {
	return &Demo{Config: cfg, Out: out, NewModel: DefaultModelFactory}
}

// Run executes every query in order. A failing query is reported and the next
// one runs, except for authentication failures, which end the run. A missing
// credential is reported before any model is built.
func (d *Demo) Run(ctx context.Context) error {
	d.printf("🤖 Go Tool Agent Starting...\n\n")

	if err := d.Config.CheckCredential(); err != nil {
		d.printf("%s", d.Config.Remediation())
		return err
	}

	p := prompt.Default()
	model, err := d.NewModel(d.Config, p.System)
	if err != nil {
		return errors.Wrap(err, "build model")
	}
	log.Debug().
		Str("provider", d.Config.Provider).
		Str("model", d.Config.Model).
		Str("prompt", fmt.Sprintf("%s@v%d", p.Name, p.Version)).
		Msg("agent configured")

	opts := []runner.Option{
		runner.WithMaxIterations(d.Config.MaxIterations),
		runner.WithRequestTimeout(d.Config.RequestTimeout),
		runner.WithTokenBudget(d.Config.TokenBudget),
	}
	if d.Config.Verbose {
		opts = append(opts, runner.WithObserver(d.printTurn))
	}
	r := runner.New(model, tools.Default(d.Now), opts...)

	queries := d.Queries
	if len(queries) == 0 {
		queries = DefaultQueries
	}

	d.printf("Running example queries:\n\n")
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.printf("\n📝 Query: %s\n", q)
		d.printf("%s\n", strings.Repeat("─", separatorWidth))

		if d.Config.Verbose {
			d.printf("\n> Entering new agent session...\n")
		}
		s, err := r.Run(ctx, q)
		if d.Config.Verbose {
			d.printf("\n> Finished session.\n")
		}
		d.saveTranscript(i, s)

		if err != nil {
			d.printf("❌ Error: %v\n\n", err)
			if errors.Is(err, provider.ErrAuthentication) || errors.Is(err, context.Canceled) {
				return err
			}
			continue
		}
		d.printf("\n✅ Result: %s\n\n", s.Answer)
	}

	d.printf("\n🎉 Agent demo complete!\n")
	return nil
}

func (d *Demo) printTurn(_ string, t memory.Turn) {
	switch t.Kind {
	case memory.KindToolCall:
		d.printf("Invoking: `%s` with `%s`\n", t.Tool, t.Argument)
	case memory.KindToolResult:
		d.printf("%s\n", t.Text)
	case memory.KindFinal:
		d.printf("%s\n", t.Text)
	}
}

func (d *Demo) saveTranscript(i int, s *runner.Session) {
	if d.Config.TranscriptDir == "" || s == nil {
		return
	}
	name := fmt.Sprintf("%02d-%s", i+1, s.ID)
	path, err := memory.SaveTranscript(d.Config.TranscriptDir, name, s.Transcript)
	if err != nil {
		log.Warn().Err(err).Str("session", s.ID).Msg("failed to save transcript")
		return
	}
	log.Debug().Str("path", path).Msg("transcript saved")
}

func (d *Demo) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(d.Out, format, args...)
}
