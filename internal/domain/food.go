package domain

// DefaultMaxFoods is the food list size used when none is requested
const DefaultMaxFoods = 6

// DefaultStapleKeywords favours familiar South Asian and everyday healthy foods
var DefaultStapleKeywords = []string{
	"idli", "dosa", "upma", "poha", "ragi", "roti", "chapati", "paratha", "bajra", "jowar",
	"khichdi", "dal", "rajma", "chole", "curd", "yogurt", "sambar", "rasam", "paneer", "palak",
	"bhindi", "baingan", "sprout", "oats", "brown rice", "millet", "quinoa", "salad", "soup",
	"grilled chicken", "tandoori", "fish", "egg", "lentil", "lentils", "whole wheat", "wholegrain",
	"bread", "bagel",
}

// FoodRecord is one row of the food catalog
type FoodRecord struct {
	Name                 string `json:"name"`
	Vegetarian           bool   `json:"vegetarian"`
	DiabeticFriendly     bool   `json:"diabetic_friendly"`
	HypertensionFriendly bool   `json:"hypertension_friendly"`
	WeightGoal           string `json:"weight_goal"` // "loss", "gain", "maintain" or empty
}

// OFFProduct is a product returned by the Open Food Facts search API
type OFFProduct struct {
	ProductName             string         `json:"product_name"`
	ProductNameEN           string         `json:"product_name_en"`
	Brands                  string         `json:"brands"`
	CategoriesTags          []string       `json:"categories_tags"`
	IngredientsTags         []string       `json:"ingredients_tags"`
	IngredientsAnalysisTags []string       `json:"ingredients_analysis_tags"`
	NutritionGradesTags     []string       `json:"nutrition_grades_tags"`
	Nutriments              map[string]any `json:"nutriments"`
}

// OFFSearchResponse is one page of Open Food Facts search results
type OFFSearchResponse struct {
	Count    int          `json:"count"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Products []OFFProduct `json:"products"`
}

// OFFSearchParams selects one page of a search strategy
type OFFSearchParams struct {
	Page     int
	PageSize int
	Label    string // optional labels tag filter, e.g. "en:nutrition-facts-completed"
}
