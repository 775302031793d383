package usecase

import (
	"sort"

	"github.com/smartdiet/backend/internal/domain"
	"github.com/smartdiet/backend/internal/knowledge"
)

// Ranker orders suggestions by the priority of the categories behind them
type Ranker struct {
	priorities knowledge.PriorityTable
}

// NewRanker creates a ranker; a nil table falls back to the built-in priorities
func NewRanker(priorities knowledge.PriorityTable) *Ranker {
	if priorities == nil {
		priorities = knowledge.DefaultPriorityTable()
	}
	return &Ranker{priorities: priorities}
}

// Score returns the highest priority among the suggestion's categories.
// Unknown categories and empty explanation sets score 0.
func (r *Ranker) Score(suggestion string, explanations domain.Explanations) int {
	best := 0
	for _, category := range explanations[suggestion] {
		if p := r.priorities.Priority(category); p > best {
			best = p
		}
	}
	return best
}

// Rank orders suggestions by descending score, then ascending text.
// A limit <= 0 returns the full ordering.
func (r *Ranker) Rank(suggestions []string, explanations domain.Explanations, limit int) []string {
	ranked := r.RankDetailed(suggestions, explanations, limit)
	out := make([]string, len(ranked))
	for i, rs := range ranked {
		out[i] = rs.Suggestion
	}
	return out
}

// RankDetailed is Rank with the categories and score of each entry attached
func (r *Ranker) RankDetailed(suggestions []string, explanations domain.Explanations, limit int) []domain.RankedSuggestion {
	ranked := make([]domain.RankedSuggestion, 0, len(suggestions))
	for _, s := range suggestions {
		categories := make([]string, len(explanations[s]))
		copy(categories, explanations[s])
		ranked = append(ranked, domain.RankedSuggestion{
			Suggestion: s,
			Categories: categories,
			Priority:   r.Score(s, explanations),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Priority != ranked[j].Priority {
			return ranked[i].Priority > ranked[j].Priority
		}
		return ranked[i].Suggestion < ranked[j].Suggestion
	})

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}
