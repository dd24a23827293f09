package windowing_test

import (
	"testing"

	"github.com/petasbytes/tool-agent/internal/windowing"
	"github.com/petasbytes/tool-agent/memory"
)

// costs with the heuristic counter:
// user "q" = 5, calculator pair = 17 + 5 = 22, reverse pair = 20 + 6 = 26.
func twoCallTranscript() memory.Transcript {
	return memory.Transcript{
		memory.UserMessage("q"),
		memory.ToolCallRequest("a", "calculator", "1+1"),
		memory.ToolResult("a", "calculator", "2"),
		memory.ToolCallRequest("b", "reverse_string", "ab"),
		memory.ToolResult("b", "reverse_string", "ba"),
	}
}

func TestPrepareWindow_DisabledBudgetReturnsAll(t *testing.T) {
	tr := twoCallTranscript()
	window, stats := windowing.PrepareWindow(tr, 0, windowing.HeuristicCounter{})
	if len(window) != len(tr) || stats.SkippedGroups != 0 || stats.Total != 53 {
		t.Fatalf("unexpected result: len=%d stats=%+v", len(window), stats)
	}
}

func TestPrepareWindow_AllFit(t *testing.T) {
	tr := twoCallTranscript()
	window, stats := windowing.PrepareWindow(tr, 100, nil)
	if len(window) != len(tr) || stats.IncludedGroups != 3 || stats.SkippedGroups != 0 || stats.Total != 53 {
		t.Fatalf("unexpected result: len=%d stats=%+v", len(window), stats)
	}
}

func TestPrepareWindow_PinsQueryAndDropsOldestPair(t *testing.T) {
	tr := twoCallTranscript()
	window, stats := windowing.PrepareWindow(tr, 31, windowing.HeuristicCounter{})

	if stats.Total != 31 || stats.IncludedGroups != 2 || stats.SkippedGroups != 1 || stats.OverBudgetNewest {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(window) != 3 {
		t.Fatalf("unexpected window length: got %d want 3", len(window))
	}
	if window[0].Kind != memory.KindUser || window[1].CallID != "b" || window[2].CallID != "b" {
		t.Fatalf("unexpected window: %v", window)
	}
	if err := window.Validate(); err != nil {
		t.Fatalf("trimmed window is not a valid transcript: %v", err)
	}
}

func TestPrepareWindow_NewestGroupOverBudgetStillSent(t *testing.T) {
	tr := twoCallTranscript()
	window, stats := windowing.PrepareWindow(tr, 10, windowing.HeuristicCounter{})

	if !stats.OverBudgetNewest || stats.IncludedGroups != 2 || stats.Total != 31 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(window) != 3 || window[1].CallID != "b" {
		t.Fatalf("unexpected window: %v", window)
	}
}

func TestPrepareWindow_QueryOnly(t *testing.T) {
	tr := memory.Transcript{memory.UserMessage("a long enough query")}
	window, stats := windowing.PrepareWindow(tr, 5, windowing.HeuristicCounter{})
	if len(window) != 1 || !stats.OverBudgetNewest || stats.IncludedGroups != 1 {
		t.Fatalf("unexpected result: window=%v stats=%+v", window, stats)
	}
}

func TestPrepareWindow_Empty(t *testing.T) {
	window, stats := windowing.PrepareWindow(nil, 123, windowing.HeuristicCounter{})
	if window != nil || stats.Budget != 123 || stats.Total != 0 || stats.OverBudgetNewest {
		t.Fatalf("unexpected result: window=%v stats=%+v", window, stats)
	}
}
