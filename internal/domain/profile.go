package domain

// Health condition labels
const (
	ConditionNormal          = "Normal"
	ConditionDiabetic        = "Diabetic"
	ConditionHypertension    = "Hypertension"
	ConditionAnemia          = "Anemia"
	ConditionHighCholesterol = "HighCholesterol"
	ConditionKidneyFriendly  = "KidneyFriendly"
)

// Weight status labels
const (
	WeightUnderweight = "Underweight"
	WeightNormal      = "Normal"
	WeightOverweight  = "Overweight"
)

// Diet preference labels
const (
	DietVegetarian    = "Vegetarian"
	DietNonVegetarian = "NonVegetarian"
)

// Weight goals carried by food records
const (
	GoalLoss     = "loss"
	GoalGain     = "gain"
	GoalMaintain = "maintain"
)

// UserAttributes is the per-request user record fed to the inference engine.
// Empty strings mean "absent". WeightStatus and BMI may be written back by
// the engine when they are inferred from WeightKg and HeightCm.
type UserAttributes struct {
	Name            string   `json:"name"`
	Age             int      `json:"age"`
	HealthCondition string   `json:"health_condition"`
	WeightStatus    string   `json:"weight_status,omitempty"`
	DietPreference  string   `json:"diet_preference,omitempty"`
	WeightKg        *float64 `json:"weight_kg,omitempty"`
	HeightCm        *float64 `json:"height_cm,omitempty"`
	BMI             *float64 `json:"bmi,omitempty"`
}

// Condition returns the health condition, defaulting to Normal.
func (u *UserAttributes) Condition() string {
	if u.HealthCondition == "" {
		return ConditionNormal
	}
	return u.HealthCondition
}

// Clone returns a deep copy so callers can snapshot a record without aliasing
// the optional numeric fields.
func (u *UserAttributes) Clone() UserAttributes {
	out := *u
	out.WeightKg = copyFloat(u.WeightKg)
	out.HeightCm = copyFloat(u.HeightCm)
	out.BMI = copyFloat(u.BMI)
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Float is a helper for building optional numeric attributes.
func Float(v float64) *float64 {
	return &v
}

// Accepted categorical values, used by the front ends for validation.
var (
	WeightStatusOptions    = []string{WeightUnderweight, WeightOverweight, WeightNormal}
	HealthConditionOptions = []string{ConditionDiabetic, ConditionHypertension, ConditionNormal}
	DietPreferenceOptions  = []string{DietVegetarian, DietNonVegetarian}
)
