package usecase

import (
	"sort"

	"github.com/smartdiet/backend/internal/domain"
	"github.com/smartdiet/backend/internal/knowledge"
)

// InferenceEngine maps user attributes to suggestions using a rule catalog
type InferenceEngine struct {
	rules knowledge.RuleCatalog
}

// NewInferenceEngine creates an engine over the given catalog. A nil catalog
// falls back to the built-in rules.
func NewInferenceEngine(rules knowledge.RuleCatalog) *InferenceEngine {
	if rules == nil {
		rules = knowledge.DefaultRuleCatalog()
	}
	return &InferenceEngine{rules: rules}
}

// Infer returns the deduplicated suggestions for attrs and, for each
// suggestion, the categories that produced it.
//
// When attrs has no weight status but carries a non-zero weight and height,
// the status and BMI are inferred and written back onto attrs. The engine
// needs exclusive access to attrs for the duration of the call.
func (e *InferenceEngine) Infer(attrs *domain.UserAttributes) (domain.Suggestions, domain.Explanations) {
	if attrs == nil {
		return domain.Suggestions{}, domain.Explanations{}
	}

	e.backfillWeightStatus(attrs)

	sources := make(map[string]map[string]struct{})
	for _, category := range []string{attrs.Condition(), attrs.WeightStatus, attrs.DietPreference} {
		if category == "" {
			continue
		}
		for _, s := range e.rules[category] {
			set, ok := sources[s]
			if !ok {
				set = make(map[string]struct{})
				sources[s] = set
			}
			set[category] = struct{}{}
		}
	}

	suggestions := make(domain.Suggestions, 0, len(sources))
	explanations := make(domain.Explanations, len(sources))
	for s, set := range sources {
		suggestions = append(suggestions, s)
		explanations[s] = sortedKeys(set)
	}
	sort.Strings(suggestions)

	return suggestions, explanations
}

// backfillWeightStatus never overwrites a weight status already present
func (e *InferenceEngine) backfillWeightStatus(attrs *domain.UserAttributes) {
	if attrs.WeightStatus != "" {
		return
	}
	if attrs.WeightKg == nil || attrs.HeightCm == nil || *attrs.WeightKg == 0 || *attrs.HeightCm == 0 {
		return
	}
	bmi := ComputeBMI(attrs.WeightKg, attrs.HeightCm)
	status := ClassifyWeightStatus(bmi)
	if status == "" {
		return
	}
	attrs.WeightStatus = status
	attrs.BMI = bmi
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
