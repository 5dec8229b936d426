package services

import (
	"errors"
	"math"
	"time"

	"carbculator/models"
	"carbculator/pkg/logger"
)

// ErrInvalidWindow is returned when an aggregation window has
// end <= start.
var ErrInvalidWindow = errors.New("invalid window: end must be after start")

// Window is a half-open time interval [Start, End). An entry created
// exactly at Start is included, one created exactly at End is not.
type Window struct {
	Start time.Time
	End   time.Time
}

// DayWindow builds the window covering the calendar day of date.
func DayWindow(date time.Time) Window {
	start := dayStart(date)
	return Window{Start: start, End: start.Add(24 * time.Hour)}
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Days is ceil of the window span in days, never below 1.
func (w Window) Days() int {
	d := int(math.Ceil(w.End.Sub(w.Start).Hours() / 24))
	if d < 1 {
		d = 1
	}
	return d
}

type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Water    float64 `json:"water"`
}

// DailyAggregate is one day's totals, computed on demand and never
// persisted.
type DailyAggregate struct {
	Date       time.Time `json:"date"`
	Totals     Totals    `json:"totals"`
	EntryCount int       `json:"entry_count"`
}

type RangeAggregate struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Totals      Totals    `json:"totals"`
	Averages    Totals    `json:"averages"`
	DaysInRange int       `json:"days_in_range"`
	EntryCount  int       `json:"entry_count"`
}

type AggregationService struct {
	log *logger.Logger
}

func NewAggregationService(log *logger.Logger) *AggregationService {
	return &AggregationService{log: log}
}

// Aggregate sums the entries falling inside the half-open window.
// Entries carrying a negative or non-finite macro value are excluded
// and logged as data-quality anomalies rather than failing the call.
// The function is pure: deterministic for identical inputs and safe to
// call concurrently.
func (s *AggregationService) Aggregate(entries []models.FoodEntry, water []models.WaterEntry, w Window) (*RangeAggregate, error) {
	if !w.End.After(w.Start) {
		return nil, ErrInvalidWindow
	}

	agg := &RangeAggregate{Start: w.Start, End: w.End, DaysInRange: w.Days()}

	for i := range entries {
		e := &entries[i]
		if !w.Contains(e.CreatedAt) {
			continue
		}
		if !validMacros(e) {
			s.log.Warnw("excluding food entry with anomalous macros",
				"entry_id", e.ID, "user_id", e.UserID,
				"calories", e.Calories, "protein", e.Protein,
				"carbs", e.Carbs, "fats", e.Fats)
			continue
		}
		agg.Totals.Calories += e.Calories
		agg.Totals.Protein += e.Protein
		agg.Totals.Carbs += e.Carbs
		agg.Totals.Fats += e.Fats
		agg.EntryCount++
	}

	for i := range water {
		e := &water[i]
		if !w.Contains(e.CreatedAt) {
			continue
		}
		if !isFinite(e.AmountML) || e.AmountML <= 0 {
			s.log.Warnw("excluding water entry with anomalous amount",
				"entry_id", e.ID, "user_id", e.UserID, "amount_ml", e.AmountML)
			continue
		}
		agg.Totals.Water += e.AmountML
	}

	days := float64(agg.DaysInRange)
	agg.Averages = Totals{
		Calories: agg.Totals.Calories / days,
		Protein:  agg.Totals.Protein / days,
		Carbs:    agg.Totals.Carbs / days,
		Fats:     agg.Totals.Fats / days,
		Water:    agg.Totals.Water / days,
	}
	return agg, nil
}

// AggregateDay aggregates a single calendar day.
func (s *AggregationService) AggregateDay(entries []models.FoodEntry, water []models.WaterEntry, date time.Time) (*DailyAggregate, error) {
	w := DayWindow(date)
	agg, err := s.Aggregate(entries, water, w)
	if err != nil {
		return nil, err
	}
	return &DailyAggregate{
		Date:       w.Start,
		Totals:     agg.Totals,
		EntryCount: agg.EntryCount,
	}, nil
}

func validMacros(e *models.FoodEntry) bool {
	for _, v := range []float64{e.Calories, e.Protein, e.Carbs, e.Fats} {
		if !isFinite(v) || v < 0 {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
