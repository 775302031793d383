package usecase

import (
	"strings"
	"testing"

	"github.com/smartdiet/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightGoal(t *testing.T) {
	assert.Equal(t, domain.GoalLoss, WeightGoal(domain.WeightOverweight))
	assert.Equal(t, domain.GoalGain, WeightGoal(domain.WeightUnderweight))
	assert.Equal(t, domain.GoalMaintain, WeightGoal(domain.WeightNormal))
	assert.Equal(t, domain.GoalMaintain, WeightGoal(""))
}

func TestFoodRecommender_Score(t *testing.T) {
	r := NewFoodRecommender(nil)

	tests := []struct {
		name  string
		attrs domain.UserAttributes
		food  domain.FoodRecord
		want  int
	}{
		{
			name:  "vegetarian match",
			attrs: domain.UserAttributes{DietPreference: domain.DietVegetarian},
			food:  domain.FoodRecord{Name: "Plain thing", Vegetarian: true},
			want:  2,
		},
		{
			name:  "diabetic match",
			attrs: domain.UserAttributes{HealthCondition: domain.ConditionDiabetic},
			food:  domain.FoodRecord{Name: "Plain thing", DiabeticFriendly: true},
			want:  3,
		},
		{
			name:  "hypertension flag ignored for diabetic",
			attrs: domain.UserAttributes{HealthCondition: domain.ConditionDiabetic},
			food:  domain.FoodRecord{Name: "Plain thing", HypertensionFriendly: true},
			want:  0,
		},
		{
			name:  "hypertension match",
			attrs: domain.UserAttributes{HealthCondition: domain.ConditionHypertension},
			food:  domain.FoodRecord{Name: "Plain thing", HypertensionFriendly: true},
			want:  3,
		},
		{
			name:  "weight goal match",
			attrs: domain.UserAttributes{WeightStatus: domain.WeightOverweight},
			food:  domain.FoodRecord{Name: "Plain thing", WeightGoal: domain.GoalLoss},
			want:  2,
		},
		{
			name:  "absent status means maintain",
			attrs: domain.UserAttributes{},
			food:  domain.FoodRecord{Name: "Plain thing", WeightGoal: domain.GoalMaintain},
			want:  2,
		},
		{
			name:  "staple keyword case-insensitive substring",
			attrs: domain.UserAttributes{},
			food:  domain.FoodRecord{Name: "Masala DOSA"},
			want:  3,
		},
		{
			name:  "barcode-like name",
			attrs: domain.UserAttributes{},
			food:  domain.FoodRecord{Name: "123-456"},
			want:  -5,
		},
		{
			name:  "size token",
			attrs: domain.UserAttributes{},
			food:  domain.FoodRecord{Name: "Orange juice 500 ml"},
			want:  -2,
		},
		{
			name:  "size token without space",
			attrs: domain.UserAttributes{},
			food:  domain.FoodRecord{Name: "Crisps 40G pack"},
			want:  -2,
		},
		{
			name:  "digits inside a word are not a size",
			attrs: domain.UserAttributes{},
			food:  domain.FoodRecord{Name: "Vitamin B12g"},
			want:  0,
		},
		{
			name: "everything combined",
			attrs: domain.UserAttributes{
				HealthCondition: domain.ConditionDiabetic,
				WeightStatus:    domain.WeightUnderweight,
				DietPreference:  domain.DietVegetarian,
			},
			food: domain.FoodRecord{
				Name:             "Paneer tikka 200g",
				Vegetarian:       true,
				DiabeticFriendly: true,
				WeightGoal:       domain.GoalGain,
			},
			want: 2 + 3 + 2 + 3 - 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := tt.attrs
			assert.Equal(t, tt.want, r.Score(&attrs, tt.food))
		})
	}
}

func TestFoodRecommender_CustomStaples(t *testing.T) {
	r := NewFoodRecommender([]string{"kimchi", " ", "a+b"})
	attrs := &domain.UserAttributes{}

	assert.Equal(t, 3, r.Score(attrs, domain.FoodRecord{Name: "Fresh Kimchi"}))
	assert.Equal(t, 3, r.Score(attrs, domain.FoodRecord{Name: "the a+b bowl"}))
	assert.Equal(t, 0, r.Score(attrs, domain.FoodRecord{Name: "Dosa"}))
}

func TestFoodRecommender_Recommend(t *testing.T) {
	r := NewFoodRecommender(nil)

	t.Run("empty catalog", func(t *testing.T) {
		got := r.Recommend(&domain.UserAttributes{}, nil, 6)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("positive scores first, barcode excluded", func(t *testing.T) {
		foods := []domain.FoodRecord{
			{Name: "123-456", Vegetarian: true, DiabeticFriendly: true},
			{Name: "Ragi dosa", Vegetarian: true, DiabeticFriendly: true},
			{Name: "Cola", WeightGoal: domain.GoalGain},
			{Name: "Apple slices", Vegetarian: true},
		}
		attrs := &domain.UserAttributes{
			HealthCondition: domain.ConditionDiabetic,
			DietPreference:  domain.DietVegetarian,
		}

		got := r.Recommend(attrs, foods, 6)

		assert.Equal(t, []string{"Ragi dosa", "Apple slices"}, got)
	})

	t.Run("ties break by name", func(t *testing.T) {
		foods := []domain.FoodRecord{
			{Name: "Rasam"},
			{Name: "Dal tadka"},
			{Name: "Idli"},
		}

		got := r.Recommend(&domain.UserAttributes{}, foods, 6)

		assert.Equal(t, []string{"Dal tadka", "Idli", "Rasam"}, got)
	})

	t.Run("falls back to full ranking when nothing scores", func(t *testing.T) {
		foods := []domain.FoodRecord{
			{Name: "Zucchini chips 100g"},
			{Name: "Cola"},
			{Name: "999"},
		}

		got := r.Recommend(&domain.UserAttributes{}, foods, 6)

		assert.Equal(t, []string{"Cola", "Zucchini chips 100g", "999"}, got)
	})

	t.Run("deduplicates case-insensitively and skips empty names", func(t *testing.T) {
		foods := []domain.FoodRecord{
			{Name: "Oats"},
			{Name: "OATS"},
			{Name: ""},
			{Name: "oats"},
			{Name: "Egg curry"},
		}

		got := r.Recommend(&domain.UserAttributes{}, foods, 6)

		assert.Equal(t, []string{"Egg curry", "OATS"}, got)
		seen := map[string]bool{}
		for _, name := range got {
			key := strings.ToLower(name)
			assert.False(t, seen[key])
			seen[key] = true
		}
	})

	t.Run("respects max items", func(t *testing.T) {
		foods := make([]domain.FoodRecord, 0, 20)
		for _, n := range domain.DefaultStapleKeywords[:20] {
			foods = append(foods, domain.FoodRecord{Name: n})
		}

		assert.Len(t, r.Recommend(&domain.UserAttributes{}, foods, 4), 4)
		assert.Len(t, r.Recommend(&domain.UserAttributes{}, foods, 0), domain.DefaultMaxFoods)
	})

	t.Run("nil attributes", func(t *testing.T) {
		got := r.Recommend(nil, []domain.FoodRecord{{Name: "Idli"}}, 6)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
}
