package models

import "gorm.io/gorm"

// WaterEntry is one logged water portion. Never mutated, only deleted.
type WaterEntry struct {
	gorm.Model
	UserID   uint    `gorm:"index;not null"`
	AmountML float64 `gorm:"not null"`
}
