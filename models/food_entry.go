package models

import (
	"strings"

	"gorm.io/gorm"
)

// FoodEntry is one logged meal. Entries are immutable once created;
// deletion is the only mutation.
type FoodEntry struct {
	gorm.Model
	UserID      uint    `gorm:"index;not null"`
	Name        string  `gorm:"not null"`
	Calories    float64
	Protein     float64
	Carbs       float64
	Fats        float64
	Quantity    int    `gorm:"default:1"`
	ImageURL    string
	Ingredients string `gorm:"type:text"` // comma-separated, ordered
}

func (e *FoodEntry) IngredientList() []string {
	if e.Ingredients == "" {
		return nil
	}
	parts := strings.Split(e.Ingredients, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func JoinIngredients(items []string) string {
	return strings.Join(items, ",")
}
