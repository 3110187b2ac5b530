package domain

import (
	"errors"
	"math"
)

// BMICategory is the classification derived from a body-mass index.
type BMICategory string

const (
	BMIUnderweight BMICategory = "Underweight"
	BMINormal      BMICategory = "Normal"
	BMIOverweight  BMICategory = "Overweight"
	BMIObese       BMICategory = "Obese"
)

var (
	ErrInvalidHeight = errors.New("height must be a positive number")
	ErrInvalidWeight = errors.New("weight must be a positive number")
)

// CategorizeBMI applies the exclusive upper bounds 18.5, 25 and 30.
func CategorizeBMI(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// ComputeBMI derives bmi = weight / (height/100)^2 from centimetres and kilograms.
// The unrounded index is both stored and categorised; rounding is left to display.
func ComputeBMI(heightCm, weightKg float64) (BodyMetrics, error) {
	if !(heightCm > 0) || math.IsInf(heightCm, 0) {
		return BodyMetrics{}, ErrInvalidHeight
	}
	if !(weightKg > 0) || math.IsInf(weightKg, 0) {
		return BodyMetrics{}, ErrInvalidWeight
	}
	meters := heightCm / 100
	bmi := weightKg / (meters * meters)
	return BodyMetrics{
		Height:   heightCm,
		Weight:   weightKg,
		BMI:      bmi,
		Category: CategorizeBMI(bmi),
	}, nil
}
