package openfoodfacts

import (
	"testing"

	"github.com/smartdiet/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name    string
		product domain.OFFProduct
		want    string
	}{
		{"english name preferred", domain.OFFProduct{ProductNameEN: "Oats", ProductName: "Avoine"}, "Oats"},
		{"falls back to default name", domain.OFFProduct{ProductName: " Avoine "}, "Avoine"},
		{"appends first brand", domain.OFFProduct{ProductName: "Poha", Brands: "Tata, Other"}, "Poha (Tata)"},
		{"brand already in name", domain.OFFProduct{ProductName: "Quaker Oats", Brands: "quaker"}, "Quaker Oats"},
		{"no name", domain.OFFProduct{Brands: "Tata"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.product))
		})
	}
}

func TestExcluded(t *testing.T) {
	withNutriments := map[string]any{"fat_100g": 1.0}

	tests := []struct {
		name    string
		product domain.OFFProduct
		pname   string
		want    bool
	}{
		{"regular food", domain.OFFProduct{Nutriments: withNutriments}, "Rolled Oats", false},
		{"empty name", domain.OFFProduct{Nutriments: withNutriments}, "", true},
		{"no nutriments", domain.OFFProduct{}, "Rolled Oats", true},
		{"beverage category", domain.OFFProduct{Nutriments: withNutriments, CategoriesTags: []string{"en:beverages"}}, "Juice", true},
		{"barcode name", domain.OFFProduct{Nutriments: withNutriments}, "890 1234 (5)", true},
		{"water in name", domain.OFFProduct{Nutriments: withNutriments}, "Sparkling Mineral Water", true},
		{"soda in name", domain.OFFProduct{Nutriments: withNutriments}, "Lime SODA", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Excluded(tt.product, tt.pname))
		})
	}
}

func TestMapToFoodRecord(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name    string
		product domain.OFFProduct
		want    domain.FoodRecord
	}{
		{
			name: "light vegetarian food",
			product: domain.OFFProduct{
				IngredientsAnalysisTags: []string{"en:vegetarian"},
				CategoriesTags:          []string{"en:fish-products"},
				Nutriments: map[string]any{
					"energy-kcal_100g": 90.0,
					"sugars_100g":      2.0,
					"sodium_100g":      0.05,
					"fat_100g":         1.5,
				},
			},
			want: domain.FoodRecord{
				Name:                 "x",
				Vegetarian:           true,
				DiabeticFriendly:     true,
				HypertensionFriendly: true,
				WeightGoal:           domain.GoalLoss,
			},
		},
		{
			name: "rich meat product",
			product: domain.OFFProduct{
				CategoriesTags: []string{"en:meats", "en:sausages"},
				Nutriments: map[string]any{
					"energy-kcal_100g": 310.0,
					"sugars_100g":      1.0,
					"salt_100g":        2.1,
					"fat_100g":         25.0,
				},
			},
			want: domain.FoodRecord{Name: "x", WeightGoal: domain.GoalGain},
		},
		{
			name: "kilojoules and string values",
			product: domain.OFFProduct{
				Nutriments: map[string]any{
					"energy_100g": "627.6",
					"sugars_100g": "4",
					"salt_100g":   "0.2",
					"fat_100g":    "8",
				},
			},
			want: domain.FoodRecord{
				Name:                 "x",
				Vegetarian:           true,
				DiabeticFriendly:     true,
				HypertensionFriendly: true,
				WeightGoal:           domain.GoalMaintain,
			},
		},
		{
			name:    "missing nutriments keep defaults",
			product: domain.OFFProduct{Nutriments: map[string]any{"proteins_100g": 3.0}},
			want:    domain.FoodRecord{Name: "x", Vegetarian: true, WeightGoal: domain.GoalMaintain},
		},
		{
			name: "unparseable values are ignored",
			product: domain.OFFProduct{Nutriments: map[string]any{
				"energy-kcal_100g": "n/a",
				"sugars_100g":      true,
				"fat_100g":         1.0,
			}},
			want: domain.FoodRecord{Name: "x", Vegetarian: true, WeightGoal: domain.GoalMaintain},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapToFoodRecord(tt.product, "x", th))
		})
	}
}
