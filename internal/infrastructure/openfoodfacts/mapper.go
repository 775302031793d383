package openfoodfacts

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/smartdiet/backend/internal/domain"
)

// Thresholds are the per-100g heuristics used to flag a product. Sugar, fat,
// sodium and salt are in grams; energy is in kcal.
type Thresholds struct {
	DiabeticMaxSugars     float64
	DiabeticMaxKcal       float64
	HypertensionMaxSodium float64
	HypertensionMaxSalt   float64
	LossMaxKcal           float64
	LossMaxFat            float64
	GainMinKcal           float64
	GainMinFat            float64
}

// DefaultThresholds returns the stock heuristics
func DefaultThresholds() Thresholds {
	return Thresholds{
		DiabeticMaxSugars:     5.0,
		DiabeticMaxKcal:       150,
		HypertensionMaxSodium: 0.12,
		HypertensionMaxSalt:   0.3,
		LossMaxKcal:           120,
		LossMaxFat:            5,
		GainMinKcal:           250,
		GainMinFat:            15,
	}
}

const kJPerKcal = 4.184

var (
	excludedCategories = map[string]bool{
		"en:beverages":   true,
		"en:waters":      true,
		"en:water":       true,
		"en:soft-drinks": true,
		"en:sodas":       true,
		"en:teas":        true,
		"en:coffees":     true,
	}

	excludedNameTerms = []string{"water", "eau", "mineral water", "aqua", "soda"}

	nonVegetarianTerms = []string{"meat", "fish", "seafood", "poultry"}

	barcodeNamePattern = regexp.MustCompile(`^[0-9\s\-()]+$`)
)

// NormalizeName returns the English (or default) product name, suffixed with
// the first brand in parentheses when the name does not already mention it.
func NormalizeName(p domain.OFFProduct) string {
	name := strings.TrimSpace(p.ProductNameEN)
	if name == "" {
		name = strings.TrimSpace(p.ProductName)
	}
	if name == "" {
		return ""
	}
	brand := strings.TrimSpace(strings.Split(p.Brands, ",")[0])
	if brand != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(brand)) {
		return name + " (" + brand + ")"
	}
	return name
}

// Excluded reports whether a product should be left out of the catalog:
// beverages, waters, barcode-like names and products without nutriments.
func Excluded(p domain.OFFProduct, name string) bool {
	if name == "" || len(p.Nutriments) == 0 {
		return true
	}
	for _, c := range p.CategoriesTags {
		if excludedCategories[c] {
			return true
		}
	}
	if barcodeNamePattern.MatchString(name) {
		return true
	}
	lower := strings.ToLower(name)
	for _, term := range excludedNameTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// MapToFoodRecord converts a product into a catalog row using t
func MapToFoodRecord(p domain.OFFProduct, name string, t Thresholds) domain.FoodRecord {
	n := nutriments(p.Nutriments)

	kcal, hasKcal := n.get("energy-kcal_100g")
	if !hasKcal {
		kcal, hasKcal = n.get("energy-kcal_serving")
	}
	if !hasKcal {
		if kj, ok := n.get("energy_100g"); ok {
			kcal, hasKcal = math.Round(kj/kJPerKcal*10)/10, true
		}
	}
	sugars, hasSugars := n.get("sugars_100g")
	sodium, hasSodium := n.get("sodium_100g")
	salt, hasSalt := n.get("salt_100g")
	fat, hasFat := n.get("fat_100g")

	record := domain.FoodRecord{
		Name:       name,
		Vegetarian: isVegetarian(p),
		WeightGoal: domain.GoalMaintain,
	}

	if hasSugars && hasKcal {
		record.DiabeticFriendly = sugars <= t.DiabeticMaxSugars && kcal <= t.DiabeticMaxKcal
	}

	switch {
	case hasSodium:
		record.HypertensionFriendly = sodium <= t.HypertensionMaxSodium
	case hasSalt:
		record.HypertensionFriendly = salt <= t.HypertensionMaxSalt
	}

	if hasKcal && hasFat {
		switch {
		case kcal <= t.LossMaxKcal && fat <= t.LossMaxFat:
			record.WeightGoal = domain.GoalLoss
		case kcal >= t.GainMinKcal || fat >= t.GainMinFat:
			record.WeightGoal = domain.GoalGain
		}
	}

	return record
}

func isVegetarian(p domain.OFFProduct) bool {
	for _, tag := range p.IngredientsAnalysisTags {
		if tag == "en:vegan" || tag == "en:vegetarian" {
			return true
		}
	}
	joined := strings.Join(p.CategoriesTags, "|")
	for _, term := range nonVegetarianTerms {
		if strings.Contains(joined, term) {
			return false
		}
	}
	return true
}

// nutriments reads numeric values that the API returns as numbers or strings
type nutriments map[string]any

func (n nutriments) get(key string) (float64, bool) {
	switch v := n[key].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
