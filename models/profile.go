package models

import (
	"time"
)

// Baseline goals applied when a profile is created lazily or a goal
// field is missing.
const (
	DefaultDailyCalories = 2000 // kcal
	DefaultDailyProtein  = 150  // g
	DefaultDailyCarbs    = 250  // g
	DefaultDailyFats     = 70   // g
	DefaultDailyWater    = 2000 // ml
)

// Profile holds a user's daily nutrient targets and body measurements.
// One row per user, created lazily on first authenticated access.
type Profile struct {
	UserID        uint `gorm:"primaryKey"`
	DailyCalories float64
	DailyProtein  float64
	DailyCarbs    float64
	DailyFats     float64
	DailyWater    float64
	Height        float64
	Weight        float64
	HeightUnit    string `gorm:"size:8;default:cm"`
	WeightUnit    string `gorm:"size:8;default:kg"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Goals is the resolved goal set handed to the aggregation consumers.
type Goals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Water    float64 `json:"water"`
}

// DefaultGoals returns the fixed baseline goal set.
func DefaultGoals() Goals {
	return Goals{
		Calories: DefaultDailyCalories,
		Protein:  DefaultDailyProtein,
		Carbs:    DefaultDailyCarbs,
		Fats:     DefaultDailyFats,
		Water:    DefaultDailyWater,
	}
}

// Goals resolves the profile's targets, falling back to the baseline
// for any field that was never set.
func (p *Profile) Goals() Goals {
	g := DefaultGoals()
	if p == nil {
		return g
	}
	if p.DailyCalories > 0 {
		g.Calories = p.DailyCalories
	}
	if p.DailyProtein > 0 {
		g.Protein = p.DailyProtein
	}
	if p.DailyCarbs > 0 {
		g.Carbs = p.DailyCarbs
	}
	if p.DailyFats > 0 {
		g.Fats = p.DailyFats
	}
	if p.DailyWater > 0 {
		g.Water = p.DailyWater
	}
	return g
}
