package models

import "time"

// MetricParam names a body-composition attribute of a WeightStat.
type MetricParam string

const (
	MetricWeight     MetricParam = "weight"
	MetricBMI        MetricParam = "bmi"
	MetricBodyFat    MetricParam = "body_fat"
	MetricMuscleMass MetricParam = "muscle_mass"
	MetricBodyWater  MetricParam = "body_water"
	MetricBoneMass   MetricParam = "bone_mass"
)

/** --------------------ENTITIES-------------------- */
// WeightStat is one append-only body measurement. Every field is optional,
// mass values are stored in kilograms.
type WeightStat struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index:idx_weight_stats_user_date;not null" json:"user_id"`
	Date       time.Time `gorm:"index:idx_weight_stats_user_date;not null" json:"date"`
	Weight     *float64  `gorm:"type:decimal(5,2)" json:"weight"`
	BMI        *float64  `gorm:"column:bmi;type:decimal(5,2)" json:"bmi"`
	BodyFat    *float64  `gorm:"type:decimal(5,2)" json:"body_fat"`
	MuscleMass *float64  `gorm:"type:decimal(5,2)" json:"muscle_mass"`
	BodyWater  *float64  `gorm:"type:decimal(5,2)" json:"body_water"`
	BoneMass   *float64  `gorm:"type:decimal(5,2)" json:"bone_mass"`
}

// Value returns the attribute matching param, or nil when it is unset or
// param names no attribute.
func (w *WeightStat) Value(param MetricParam) *float64 {
	switch param {
	case MetricWeight:
		return w.Weight
	case MetricBMI:
		return w.BMI
	case MetricBodyFat:
		return w.BodyFat
	case MetricMuscleMass:
		return w.MuscleMass
	case MetricBodyWater:
		return w.BodyWater
	case MetricBoneMass:
		return w.BoneMass
	}
	return nil
}

// Empty reports whether no attribute is set.
func (w *WeightStat) Empty() bool {
	return w.Weight == nil && w.BMI == nil && w.BodyFat == nil &&
		w.MuscleMass == nil && w.BodyWater == nil && w.BoneMass == nil
}

/** -------------------- DTOs -------------------- */
// WeightStatRequest carries a new measurement. Weight is in the caller's
// preferred unit. Bounds keep every value inside a decimal(5,2) column.
type WeightStatRequest struct {
	Weight     *float64 `json:"weight,omitempty" binding:"omitempty,gt=0,lte=999.99"`
	BMI        *float64 `json:"bmi,omitempty" binding:"omitempty,gte=0,lte=100"`
	BodyFat    *float64 `json:"body_fat,omitempty" binding:"omitempty,gte=0,lte=100"`
	MuscleMass *float64 `json:"muscle_mass,omitempty" binding:"omitempty,gte=0,lte=999.99"`
	BodyWater  *float64 `json:"body_water,omitempty" binding:"omitempty,gte=0,lte=100"`
	BoneMass   *float64 `json:"bone_mass,omitempty" binding:"omitempty,gte=0,lte=100"`
}

type WeightStatResponse struct {
	ID         uint      `json:"id"`
	Date       time.Time `json:"date"`
	Weight     *float64  `json:"weight"`
	BMI        *float64  `json:"bmi"`
	BodyFat    *float64  `json:"body_fat"`
	MuscleMass *float64  `json:"muscle_mass"`
	BodyWater  *float64  `json:"body_water"`
	BoneMass   *float64  `json:"bone_mass"`
}
