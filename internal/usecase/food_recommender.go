package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/smartdiet/backend/internal/domain"
)

// Scoring weights
const (
	scoreVegetarianMatch   = 2
	scoreDiabeticMatch     = 3
	scoreHypertensionMatch = 3
	scoreGoalMatch         = 2
	scoreStaple            = 3
	penaltyBarcodeName     = -5
	penaltySizeToken       = -2
)

var (
	barcodeNamePattern = regexp.MustCompile(`^[0-9\s\-()]+$`)
	sizeTokenPattern   = regexp.MustCompile(`(?i)\b\d+\s?(?:ml|l|cl|g|kg)\b`)
)

// FoodRecommender scores catalog foods against a user profile
type FoodRecommender struct {
	staples *regexp.Regexp
}

// NewFoodRecommender builds a recommender matching the given staple keywords
// case-insensitively as substrings. An empty list uses domain.DefaultStapleKeywords.
func NewFoodRecommender(stapleKeywords []string) *FoodRecommender {
	if len(stapleKeywords) == 0 {
		stapleKeywords = domain.DefaultStapleKeywords
	}
	quoted := make([]string, 0, len(stapleKeywords))
	for _, k := range stapleKeywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(k))
	}

	r := &FoodRecommender{}
	if len(quoted) > 0 {
		r.staples = regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
	}
	return r
}

// WeightGoal derives the food weight goal from a weight status
func WeightGoal(weightStatus string) string {
	switch weightStatus {
	case domain.WeightOverweight:
		return domain.GoalLoss
	case domain.WeightUnderweight:
		return domain.GoalGain
	default:
		return domain.GoalMaintain
	}
}

// Score computes the relevance of one food for attrs
func (r *FoodRecommender) Score(attrs *domain.UserAttributes, food domain.FoodRecord) int {
	return r.score(attrs.Condition(), attrs.DietPreference, WeightGoal(attrs.WeightStatus), food)
}

func (r *FoodRecommender) score(condition, dietPref, goal string, food domain.FoodRecord) int {
	name := strings.TrimSpace(food.Name)
	s := 0

	if dietPref == domain.DietVegetarian && food.Vegetarian {
		s += scoreVegetarianMatch
	}
	if condition == domain.ConditionDiabetic && food.DiabeticFriendly {
		s += scoreDiabeticMatch
	}
	if condition == domain.ConditionHypertension && food.HypertensionFriendly {
		s += scoreHypertensionMatch
	}
	if food.WeightGoal == goal {
		s += scoreGoalMatch
	}

	if r.staples != nil && r.staples.MatchString(name) {
		s += scoreStaple
	}

	if barcodeNamePattern.MatchString(name) {
		s += penaltyBarcodeName
	}
	if sizeTokenPattern.MatchString(name) {
		s += penaltySizeToken
	}
	return s
}

type scoredFood struct {
	name  string
	score int
}

// Recommend returns up to maxItems food names for attrs, best first.
// Foods scoring above zero are preferred; when none do, the full ranking is
// used instead. Names are deduplicated case-insensitively and empty names are
// skipped. maxItems <= 0 uses domain.DefaultMaxFoods.
func (r *FoodRecommender) Recommend(attrs *domain.UserAttributes, foods []domain.FoodRecord, maxItems int) []string {
	result := []string{}
	if attrs == nil || len(foods) == 0 {
		return result
	}
	if maxItems <= 0 {
		maxItems = domain.DefaultMaxFoods
	}

	condition := attrs.Condition()
	dietPref := attrs.DietPreference
	if dietPref == "" {
		dietPref = domain.ConditionNormal
	}
	goal := WeightGoal(attrs.WeightStatus)

	ranked := make([]scoredFood, len(foods))
	for i, f := range foods {
		ranked[i] = scoredFood{name: f.Name, score: r.score(condition, dietPref, goal, f)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].name < ranked[j].name
	})

	candidates := make([]string, 0, len(ranked))
	for _, f := range ranked {
		if f.score > 0 {
			candidates = append(candidates, f.name)
		}
	}
	if len(candidates) == 0 {
		for _, f := range ranked {
			candidates = append(candidates, f.name)
		}
	}

	seen := make(map[string]bool, maxItems)
	for _, name := range candidates {
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, name)
		if len(result) >= maxItems {
			break
		}
	}
	return result
}
