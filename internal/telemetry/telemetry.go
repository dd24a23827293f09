// Package telemetry appends one JSON line per agent event to a local file.
// It is opt-in and never changes the outcome of a session.
package telemetry

import (
	"context"

	"github.com/petasbytes/tool-agent/internal/metrics"
	"github.com/petasbytes/tool-agent/memory"
)

// Event names.
const (
	EventQueryFeatures = "query_features"
	EventModelCall     = "model_call"
	EventToolExec      = "tool_exec"
	EventSessionEnd    = "session_end"
	EventWindow        = "window_prepared"
)

// Emit writes a single event line when a sink is configured. The session id
// carried by ctx, if any, is added as session_id.
func Emit(ctx context.Context, name string, fields map[string]any) {
	mu.Lock()
	defer mu.Unlock()
	if sink == nil {
		return
	}
	e := sink.Log().Str("event", name)
	if id, ok := SessionIDFromContext(ctx); ok {
		e = e.Str("session_id", id)
	}
	e.Fields(fields).Send()
}

// EmitQueryFeatures records text features of the user query.
func EmitQueryFeatures(ctx context.Context, query string) {
	if !Enabled() {
		return
	}
	Emit(ctx, EventQueryFeatures, map[string]any{
		"features_version": "1",
		"query":            metrics.CountFeatures(query),
	})
}

// EmitSessionEnd records how a session ended with a summary of its transcript.
func EmitSessionEnd(ctx context.Context, state string, iterations int, tr memory.Transcript, err error) {
	if !Enabled() {
		return
	}
	fields := map[string]any{
		"state":      state,
		"iterations": iterations,
		"summary":    metrics.Summarize(tr),
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	Emit(ctx, EventSessionEnd, fields)
}
