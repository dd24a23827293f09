package windowing

import (
	"github.com/petasbytes/tool-agent/memory"
	"github.com/rs/zerolog/log"
)

// GroupKind denotes the atomic unit type when preparing a send window.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupPair
)

func (k GroupKind) String() string {
	if k == GroupPair {
		return "pair"
	}
	return "singleton"
}

// Group describes a contiguous span of turns [Start, End) in the transcript.
type Group struct {
	Kind  GroupKind
	Start int // inclusive
	End   int // exclusive
}

// GroupTurns splits a transcript into units that are never separated.
// Invariants:
// - A pair is a tool_call immediately followed by the tool_result with the
//   same call id and tool name.
// - Error results pair the same way as successful ones.
// - Anything else is a singleton, so an orphaned call or result never drags
//   an unrelated turn along with it.
func GroupTurns(tr memory.Transcript) []Group {
	groups := make([]Group, 0, len(tr))
	for i := 0; i < len(tr); {
		if tr[i].Kind == memory.KindToolCall {
			if i+1 < len(tr) && matches(tr[i], tr[i+1]) {
				groups = append(groups, Group{Kind: GroupPair, Start: i, End: i + 2})
				i += 2
				continue
			}
			log.Debug().Int("idx", i).Str("call_id", tr[i].CallID).Msg("windowing: tool call without adjacent result")
		}
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1})
		i++
	}
	return groups
}

func matches(call, result memory.Turn) bool {
	return result.Kind == memory.KindToolResult &&
		result.CallID == call.CallID &&
		result.Tool == call.Tool
}
