package telemetry_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petasbytes/tool-agent/internal/telemetry"
	"github.com/petasbytes/tool-agent/memory"
)

func readEvents(t *testing.T, dir string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, telemetry.EventsFile))
	if err != nil {
		t.Fatalf("failed to read events file: %v", err)
	}
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var ev map[string]any
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, ev)
	}
	return out
}

func enable(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "events")
	if err := telemetry.Configure(telemetry.Options{Enabled: true, Dir: dir}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	t.Cleanup(func() { _ = telemetry.Close() })
	return dir
}

func TestEmit_DisabledWritesNothing(t *testing.T) {
	dir := t.TempDir()
	if err := telemetry.Configure(telemetry.Options{Enabled: false, Dir: dir}); err != nil {
		t.Fatal(err)
	}
	telemetry.Emit(context.Background(), "test_event", map[string]any{"foo": "bar"})
	if telemetry.Enabled() {
		t.Fatal("telemetry should be disabled")
	}
	if _, err := os.Stat(filepath.Join(dir, telemetry.EventsFile)); !os.IsNotExist(err) {
		t.Fatalf("expected no events file, stat err=%v", err)
	}
}

func TestEmit_HappyPath(t *testing.T) {
	dir := enable(t)
	ctx := telemetry.WithSessionID(context.Background(), "s-1")

	telemetry.Emit(ctx, "test_event", map[string]any{"foo": "bar", "num": 42})
	telemetry.Emit(context.Background(), "second", nil)

	events := readEvents(t, dir)
	if len(events) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(events))
	}
	ev := events[0]
	if ev["event"] != "test_event" || ev["foo"] != "bar" || ev["num"] != float64(42) || ev["session_id"] != "s-1" {
		t.Fatalf("unexpected event: %v", ev)
	}
	if _, ok := ev["time"].(string); !ok {
		t.Fatalf("missing time field: %v", ev)
	}
	if _, ok := events[1]["session_id"]; ok {
		t.Fatalf("session_id should be absent without one in context: %v", events[1])
	}
}

func TestEmitQueryFeatures(t *testing.T) {
	dir := enable(t)
	telemetry.EmitQueryFeatures(context.Background(), "What is 25 * 4 + 10?")

	events := readEvents(t, dir)
	if len(events) != 1 || events[0]["event"] != telemetry.EventQueryFeatures {
		t.Fatalf("unexpected events: %v", events)
	}
	q, ok := events[0]["query"].(map[string]any)
	if !ok || q["words"] != float64(7) || q["lines"] != float64(1) {
		t.Fatalf("unexpected features: %v", events[0]["query"])
	}
}

func TestEmitSessionEnd(t *testing.T) {
	dir := enable(t)
	tr := memory.Transcript{
		memory.UserMessage("q"),
		memory.ToolCallRequest("1", "calculator", "1+1"),
		memory.ToolResult("1", "calculator", "2"),
	}
	telemetry.EmitSessionEnd(context.Background(), "failed", 10, tr, errors.New("boom"))

	events := readEvents(t, dir)
	ev := events[0]
	if ev["state"] != "failed" || ev["iterations"] != float64(10) || ev["error"] != "boom" {
		t.Fatalf("unexpected event: %v", ev)
	}
	summary := ev["summary"].(map[string]any)
	if summary["tool_calls"] != float64(1) || summary["answered"] != false {
		t.Fatalf("unexpected summary: %v", summary)
	}
}

func TestConfigure_ReopenAppends(t *testing.T) {
	dir := enable(t)
	telemetry.Emit(context.Background(), "one", nil)
	if err := telemetry.Configure(telemetry.Options{Enabled: true, Dir: dir}); err != nil {
		t.Fatal(err)
	}
	telemetry.Emit(context.Background(), "two", nil)
	if got := len(readEvents(t, dir)); got != 2 {
		t.Fatalf("expected 2 events after reopen, got %d", got)
	}
}
