package services

import (
	"carbculator/models"
)

// AttainmentStatus colors one calendar day.
type AttainmentStatus string

const (
	StatusGoalsMet    AttainmentStatus = "goals_met"
	StatusGoalsNotMet AttainmentStatus = "goals_not_met"
	StatusNoMeals     AttainmentStatus = "no_meals"
)

// Classify maps a day's aggregate plus the user's goals to exactly one
// status.
//
// Band policy (fixed here, see tests): calories, carbs and fats are met
// at-or-under their goal; protein is met at-or-over its goal, since
// under-target protein is the common deficiency in this domain.
// Comparisons are inclusive: landing exactly on a goal counts as met.
// A zero/absent goal excludes that field from the verdict entirely.
// Water is informational only and never part of the verdict.
func Classify(agg DailyAggregate, goals models.Goals) AttainmentStatus {
	if agg.EntryCount == 0 {
		return StatusNoMeals
	}

	type check struct {
		goal, total float64
		atOrOver    bool
	}
	for _, c := range []check{
		{goals.Calories, agg.Totals.Calories, false},
		{goals.Carbs, agg.Totals.Carbs, false},
		{goals.Fats, agg.Totals.Fats, false},
		{goals.Protein, agg.Totals.Protein, true},
	} {
		if c.goal <= 0 {
			continue
		}
		if c.atOrOver && c.total < c.goal {
			return StatusGoalsNotMet
		}
		if !c.atOrOver && c.total > c.goal {
			return StatusGoalsNotMet
		}
	}
	return StatusGoalsMet
}
