// Package units converts mass values between the metric storage unit and the
// unit a user prefers to see.
package units

import (
	"fitbattle-service/internal/models"

	"github.com/shopspring/decimal"
)

var lbPerKg = decimal.RequireFromString("2.20462")

// KgToLb converts kilograms to pounds rounded half away from zero to one decimal.
func KgToLb(kg float64) float64 {
	return round1(decimal.NewFromFloat(kg).Mul(lbPerKg))
}

// LbToKg converts pounds to kilograms rounded half away from zero to one decimal.
func LbToKg(lb float64) float64 {
	return round1(decimal.NewFromFloat(lb).DivRound(lbPerKg, 8))
}

func round1(d decimal.Decimal) float64 {
	v, _ := d.Round(1).Float64()
	return v
}

// IsMass reports whether param is expressed in a mass unit. Only body weight
// follows the user's unit preference.
func IsMass(param models.MetricParam) bool {
	return param == models.MetricWeight
}

// Present converts a stored value for display.
func Present(v float64, param models.MetricParam, pref models.UnitPreference) float64 {
	if pref == models.UnitImperial && IsMass(param) {
		return KgToLb(v)
	}
	return v
}

// PresentPtr is Present for optional values.
func PresentPtr(v *float64, param models.MetricParam, pref models.UnitPreference) *float64 {
	if v == nil {
		return nil
	}
	p := Present(*v, param, pref)
	return &p
}

// Normalize converts an inbound value in the user's unit to storage units.
func Normalize(v float64, param models.MetricParam, pref models.UnitPreference) float64 {
	if pref == models.UnitImperial && IsMass(param) {
		return LbToKg(v)
	}
	return v
}

// NormalizePtr is Normalize for optional values.
func NormalizePtr(v *float64, param models.MetricParam, pref models.UnitPreference) *float64 {
	if v == nil {
		return nil
	}
	n := Normalize(*v, param, pref)
	return &n
}
