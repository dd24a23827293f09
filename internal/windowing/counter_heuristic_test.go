package windowing_test

import (
	"testing"

	"github.com/petasbytes/tool-agent/internal/windowing"
	"github.com/petasbytes/tool-agent/memory"
)

func TestHeuristicCounter_CountsRunes(t *testing.T) {
	h := windowing.HeuristicCounter{}
	overhead := h.CountTurn(memory.UserMessage(""))
	if overhead != 4 {
		t.Fatalf("per-turn overhead changed: got %d want 4", overhead)
	}
	// "héllo" is 5 runes, 6 bytes
	if got, want := h.CountTurn(memory.UserMessage("héllo")), 5+overhead; got != want {
		t.Fatalf("got=%d want=%d", got, want)
	}
}

func TestHeuristicCounter_ToolCallCountsNameAndArgument(t *testing.T) {
	h := windowing.HeuristicCounter{}
	got := h.CountTurn(memory.ToolCallRequest("id-is-free", "calculator", "1+1"))
	if want := 10 + 3 + 4; got != want {
		t.Fatalf("got=%d want=%d", got, want)
	}
}

func TestHeuristicCounter_GroupSumsTurns(t *testing.T) {
	h := windowing.HeuristicCounter{}
	tr := memory.Transcript{
		memory.ToolCallRequest("c1", "calculator", "1+1"),
		memory.ToolResult("c1", "calculator", "2"),
	}
	g := windowing.Group{Kind: windowing.GroupPair, Start: 0, End: 2}
	if got, want := h.CountGroup(g, tr), 17+5; got != want {
		t.Fatalf("got=%d want=%d", got, want)
	}
	// out-of-range end is clamped
	g.End = 10
	if got := h.CountGroup(g, tr); got != 22 {
		t.Fatalf("clamped count got=%d", got)
	}
}
