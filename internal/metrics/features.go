// Package metrics derives cheap, deterministic numbers from session text and
// transcripts for telemetry events.
package metrics

import (
	"strings"
	"unicode/utf8"

	"github.com/petasbytes/tool-agent/memory"
)

// Features holds basic text features of a string.
type Features struct {
	Bytes int `json:"bytes"`
	Runes int `json:"runes"`
	Words int `json:"words"`
	Lines int `json:"lines"`
}

// CountFeatures computes byte, rune, word and line counts for s.
func CountFeatures(s string) Features {
	return Features{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
		Lines: countLines(s),
	}
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}

// Summary describes the shape of a finished transcript.
type Summary struct {
	Turns      int            `json:"turns"`
	ToolCalls  int            `json:"tool_calls"`
	ToolErrors int            `json:"tool_errors"`
	ByTool     map[string]int `json:"by_tool"`
	Answered   bool           `json:"answered"`
	Answer     Features       `json:"answer"`
}

// Summarize counts tool usage in tr.
func Summarize(tr memory.Transcript) Summary {
	s := Summary{Turns: len(tr), ByTool: map[string]int{}}
	for _, t := range tr {
		switch t.Kind {
		case memory.KindToolCall:
			s.ToolCalls++
			s.ByTool[t.Tool]++
		case memory.KindToolResult:
			if t.IsError {
				s.ToolErrors++
			}
		}
	}
	if final, ok := tr.Final(); ok {
		s.Answered = true
		s.Answer = CountFeatures(final.Text)
	}
	return s
}
