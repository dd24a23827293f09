package windowing

import (
	"github.com/petasbytes/tool-agent/memory"
	"github.com/rs/zerolog/log"
)

// Stats summarizes the result of window preparation.
//
// Fields:
// - Total: estimated tokens for the returned window.
// - Budget: the input token budget used.
// - IncludedGroups: number of groups included, the pinned query counting as one.
// - SkippedGroups: total groups minus IncludedGroups.
// - OverBudgetNewest: true when the query plus the newest group alone exceed Budget.
type Stats struct {
	Total            int
	Budget           int
	IncludedGroups   int
	SkippedGroups    int
	OverBudgetNewest bool
}

// PrepareWindow returns the part of tr (oldest to newest) to send to the model.
//
// Rules:
// - A budget of zero or less disables windowing: tr is returned unchanged.
// - The leading user message is pinned; the model cannot answer without it.
// - Whole groups are added scanning newest to oldest while the total fits.
// - The newest group is always sent, even over budget, because the loop
//   cannot make progress without the latest tool result; OverBudgetNewest
//   reports that case.
func PrepareWindow(tr memory.Transcript, budget int, c TokenCounter) (memory.Transcript, Stats) {
	if len(tr) == 0 {
		return nil, Stats{Budget: budget}
	}
	if c == nil {
		c = HeuristicCounter{}
	}
	groups := GroupTurns(tr)

	if budget <= 0 {
		total := 0
		for _, g := range groups {
			total += c.CountGroup(g, tr)
		}
		return tr, Stats{Total: total, Budget: budget, IncludedGroups: len(groups)}
	}

	var pinned *Group
	rest := groups
	if tr[0].Kind == memory.KindUser {
		pinned = &groups[0]
		rest = groups[1:]
	}

	total := 0
	if pinned != nil {
		total = c.CountGroup(*pinned, tr)
	}

	included := 0
	startIdx := len(rest)
	over := false
	for gi := len(rest) - 1; gi >= 0; gi-- {
		cost := c.CountGroup(rest[gi], tr)
		if total+cost <= budget {
			total += cost
			included++
			startIdx = gi
			continue
		}
		if included == 0 {
			log.Debug().Int("budget", budget).Int("cost", cost).Msg("windowing: newest group over budget")
			total += cost
			included++
			startIdx = gi
			over = true
		}
		break
	}
	if pinned != nil && len(rest) == 0 && total > budget {
		over = true
	}

	window := make(memory.Transcript, 0, len(tr))
	if pinned != nil {
		window = append(window, tr[pinned.Start:pinned.End]...)
		included++
	}
	if startIdx < len(rest) {
		window = append(window, tr[rest[startIdx].Start:]...)
	}

	stats := Stats{
		Total:            total,
		Budget:           budget,
		IncludedGroups:   included,
		SkippedGroups:    len(groups) - included,
		OverBudgetNewest: over,
	}
	if stats.SkippedGroups > 0 {
		log.Debug().
			Int("budget", budget).
			Int("total", total).
			Int("included", stats.IncludedGroups).
			Int("skipped", stats.SkippedGroups).
			Msg("windowing: trimmed transcript")
	}
	return window, stats
}
