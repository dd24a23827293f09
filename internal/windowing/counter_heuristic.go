package windowing

import (
	"unicode/utf8"

	"github.com/petasbytes/tool-agent/memory"
)

// TokenCounter estimates input-token cost for turns or groups.
type TokenCounter interface {
	CountTurn(t memory.Turn) int
	CountGroup(g Group, all memory.Transcript) int
}

// HeuristicCounter is the default deterministic estimator: the rune count of
// every text-bearing field plus a fixed per-turn overhead.
type HeuristicCounter struct{}

// Fixed per-turn overhead; changing this requires updating the guard test.
const turnOverhead = 4

func (HeuristicCounter) CountTurn(t memory.Turn) int {
	n := turnOverhead
	switch t.Kind {
	case memory.KindToolCall:
		n += utf8.RuneCountInString(t.Tool) + utf8.RuneCountInString(t.Argument)
	default:
		n += utf8.RuneCountInString(t.Text)
	}
	return n
}

func (h HeuristicCounter) CountGroup(g Group, all memory.Transcript) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountTurn(all[i])
	}
	return total
}
