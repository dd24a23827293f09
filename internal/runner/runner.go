package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/petasbytes/tool-agent/internal/provider"
	"github.com/petasbytes/tool-agent/internal/telemetry"
	"github.com/petasbytes/tool-agent/internal/windowing"
	"github.com/petasbytes/tool-agent/memory"
	"github.com/petasbytes/tool-agent/tools"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrMaxIterations is returned when the model has not produced a final answer
// within MaxIterations round-trips.
var ErrMaxIterations = errors.New("maximum iterations reached without a final answer")

const (
	DefaultMaxIterations  = 10
	DefaultRequestTimeout = 60 * time.Second
)

// Runner is stateless between queries; each Run gets a fresh Session.
type Runner struct {
	Model          provider.Model
	Tools          *tools.Registry
	MaxIterations  int
	RequestTimeout time.Duration
	// TokenBudget enables transcript windowing before each model call when > 0.
	TokenBudget int
	Counter     windowing.TokenCounter
	// Observer, when set, sees every turn as it is appended.
	Observer func(sessionID string, t memory.Turn)
}

type Option func(*Runner)

func WithMaxIterations(n int) Option { return func(r *Runner) { r.MaxIterations = n } }

func WithRequestTimeout(d time.Duration) Option { return func(r *Runner) { r.RequestTimeout = d } }

func WithTokenBudget(budget int) Option { return func(r *Runner) { r.TokenBudget = budget } }

func WithObserver(fn func(sessionID string, t memory.Turn)) Option {
	return func(r *Runner) { r.Observer = fn }
}

func New(model provider.Model, reg *tools.Registry, opts ...Option) *Runner {
	r := &Runner{
		Model:          model,
		Tools:          reg,
		MaxIterations:  DefaultMaxIterations,
		RequestTimeout: DefaultRequestTimeout,
		Counter:        windowing.HeuristicCounter{},
	}
	for _, o := range opts {
		o(r)
	}
	if r.MaxIterations < 1 {
		r.MaxIterations = DefaultMaxIterations
	}
	return r
}

// Run answers query. The returned session is never nil; on failure its State
// is StateFailed and the error names the session.
func (r *Runner) Run(ctx context.Context, query string) (*Session, error) {
	s := newSession(telemetry.NewSessionID(), query)
	ctx = telemetry.WithSessionID(ctx, s.ID)
	logger := log.With().Str("session", s.ID).Logger()

	telemetry.EmitQueryFeatures(ctx, query)
	r.observe(s, s.Transcript[0])
	logger.Debug().Str("query", query).Msg("session started")

	err := r.loop(ctx, s, &logger)
	if err != nil {
		s.State = StateFailed
		err = errors.Wrapf(err, "session %s", s.ID)
		logger.Debug().Err(err).Int("iterations", s.Iterations).Msg("session failed")
	} else {
		logger.Debug().Int("iterations", s.Iterations).Msg("session done")
	}
	telemetry.EmitSessionEnd(ctx, string(s.State), s.Iterations, s.Transcript, err)
	return s, err
}

func (r *Runner) loop(ctx context.Context, s *Session, logger *zerolog.Logger) error {
	defs := r.Tools.Definitions()
	for s.Iterations < r.MaxIterations {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.State = StateAwaitingModel
		s.Iterations++

		turns, err := r.callModel(ctx, s, defs, logger)
		if err != nil {
			return err
		}

		if len(turns) == 1 && turns[0].Kind == memory.KindFinal {
			r.append(s, turns[0])
			s.Answer = turns[0].Text
			s.State = StateDone
			return nil
		}

		s.State = StateExecutingTool
		for _, call := range turns {
			r.append(s, call)
			r.append(s, r.execTool(ctx, call, logger))
		}
	}
	return errors.Wrapf(ErrMaxIterations, "after %d model calls", s.Iterations)
}

func (r *Runner) callModel(ctx context.Context, s *Session, defs []tools.ToolDefinition, logger *zerolog.Logger) ([]memory.Turn, error) {
	window := s.Transcript
	if r.TokenBudget > 0 {
		var stats windowing.Stats
		window, stats = windowing.PrepareWindow(s.Transcript, r.TokenBudget, r.Counter)
		telemetry.Emit(ctx, telemetry.EventWindow, map[string]any{
			"iteration":          s.Iterations,
			"budget":             stats.Budget,
			"total_estimated":    stats.Total,
			"included_groups":    stats.IncludedGroups,
			"skipped_groups":     stats.SkippedGroups,
			"over_budget_newest": stats.OverBudgetNewest,
		})
	}

	callCtx, cancel := context.WithTimeout(ctx, r.RequestTimeout)
	defer cancel()

	start := time.Now()
	turns, err := r.Model.Next(callCtx, window, defs)
	elapsed := time.Since(start)

	if err == nil {
		err = checkTurns(turns)
	}
	if err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, provider.ErrTransport) {
		err = &provider.Error{Provider: "runner", Kind: provider.ErrTransport, Err: errors.Wrapf(err, "model call exceeded %s", r.RequestTimeout)}
	}

	fields := map[string]any{
		"iteration":   s.Iterations,
		"duration_ms": elapsed.Milliseconds(),
		"messages":    len(window),
		"turns":       len(turns),
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	telemetry.Emit(ctx, telemetry.EventModelCall, fields)
	logger.Debug().Int("iteration", s.Iterations).Dur("elapsed", elapsed).Int("turns", len(turns)).Err(err).Msg("model call")
	return turns, err
}

// checkTurns enforces the adapter contract: one final answer or one or more
// tool calls, never a mix.
func checkTurns(turns []memory.Turn) error {
	if len(turns) == 0 {
		return errors.Wrap(provider.ErrMalformedResponse, "model returned no turns")
	}
	if len(turns) == 1 && turns[0].Kind == memory.KindFinal {
		return nil
	}
	for _, t := range turns {
		if t.Kind != memory.KindToolCall {
			return errors.Wrapf(provider.ErrMalformedResponse, "model returned %s turn alongside tool calls", t.Kind)
		}
	}
	return nil
}

// execTool runs one call. Unknown tools, tool errors and panics become error
// results so the model can recover; they never fail the session.
func (r *Runner) execTool(ctx context.Context, call memory.Turn, logger *zerolog.Logger) (result memory.Turn) {
	start := time.Now()
	emit := func(result memory.Turn, errStr string) {
		fields := map[string]any{
			"tool_name":   call.Tool,
			"duration_ms": time.Since(start).Milliseconds(),
			"input_size":  len(call.Argument),
			"output_size": len(result.Text),
			"error":       nil,
		}
		if errStr != "" {
			fields["error"] = errStr
		}
		telemetry.Emit(ctx, telemetry.EventToolExec, fields)
		logger.Debug().Str("tool", call.Tool).Str("call_id", call.CallID).Bool("is_error", result.IsError).Msg("tool executed")
	}

	def, err := r.Tools.Lookup(call.Tool)
	if err != nil {
		result = memory.ToolError(call.CallID, call.Tool, "Error: "+err.Error())
		emit(result, "tool not found")
		return result
	}

	defer func() {
		if p := recover(); p != nil {
			result = memory.ToolError(call.CallID, call.Tool, fmt.Sprintf("Error: tool %s panicked: %v", call.Tool, p))
			emit(result, "tool panic")
		}
	}()

	out, err := def.Function(call.Argument)
	if err != nil {
		// the detailed message goes to the model, telemetry gets a generic one
		result = memory.ToolError(call.CallID, call.Tool, "Error: "+err.Error())
		emit(result, "tool error")
		return result
	}
	result = memory.ToolResult(call.CallID, call.Tool, out)
	emit(result, "")
	return result
}

func (r *Runner) append(s *Session, t memory.Turn) {
	s.Transcript = append(s.Transcript, t)
	r.observe(s, t)
}

func (r *Runner) observe(s *Session, t memory.Turn) {
	if r.Observer != nil {
		r.Observer(s.ID, t)
	}
}
