package usecase

import (
	"math"

	"github.com/smartdiet/backend/internal/domain"
)

// BMI band boundaries; each band includes its lower bound
const (
	bmiUnderweightBelow = 18.5
	bmiOverweightFrom   = 25.0
)

// ComputeBMI returns weight / height(m)^2 rounded to one decimal, or nil when
// either input is missing, non-positive or not a finite number.
func ComputeBMI(weightKg, heightCm *float64) *float64 {
	if weightKg == nil || heightCm == nil {
		return nil
	}
	w, h := *weightKg, *heightCm
	if !isFinite(w) || !isFinite(h) || w <= 0 || h <= 0 {
		return nil
	}
	meters := h / 100.0
	bmi := math.Round(w/(meters*meters)*10) / 10
	if !isFinite(bmi) {
		return nil
	}
	return &bmi
}

// ClassifyWeightStatus maps a BMI to a weight status label; nil maps to ""
func ClassifyWeightStatus(bmi *float64) string {
	if bmi == nil {
		return ""
	}
	switch {
	case *bmi < bmiUnderweightBelow:
		return domain.WeightUnderweight
	case *bmi < bmiOverweightFrom:
		return domain.WeightNormal
	default:
		return domain.WeightOverweight
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
