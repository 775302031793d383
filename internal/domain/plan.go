package domain

import (
	"encoding/json"
	"time"
)

// Suggestions is a sorted, duplicate-free list of suggestion texts
type Suggestions []string

// Explanations maps a suggestion to the sorted category labels that produced it
type Explanations map[string][]string

// RankedSuggestion is a suggestion with its provenance and ranking score
type RankedSuggestion struct {
	Suggestion string   `json:"suggestion"`
	Categories []string `json:"categories"`
	Priority   int      `json:"priority"`
}

// DietPlan is the full result handed to front ends and report writers
type DietPlan struct {
	Profile           UserAttributes     `json:"profile"`
	RankedSuggestions []RankedSuggestion `json:"ranked_suggestions"`
	Explanations      Explanations       `json:"explanations"`
	RecommendedFoods  []string           `json:"recommended_foods"`
	Source            string             `json:"source"` // "Engine" or "Cache"
	GeneratedAt       time.Time          `json:"generated_at"`
}

// Measurement is a numeric form field that may arrive as a JSON number or as
// a string with a decimal comma ("72,5"). Parsing happens at the boundary.
type Measurement string

// UnmarshalJSON accepts a number, a string or null
func (m *Measurement) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Measurement(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*m = Measurement(n.String())
	return nil
}

// SuggestRequest is the inbound payload of the HTTP front end
type SuggestRequest struct {
	Name            string      `json:"name"`
	Age             *int        `json:"age,omitempty"`
	HealthCondition string      `json:"health_condition"`
	WeightStatus    string      `json:"weight_status"`
	DietPreference  string      `json:"diet_preference"`
	WeightKg        Measurement `json:"weight_kg"`
	HeightCm        Measurement `json:"height_cm"`
	Limit           int         `json:"limit"`
	MaxFoods        int         `json:"max_foods"`
}
