package services

import (
	"context"
	"math"
	"time"

	"carbculator/models"
)

// ProgressService composes the entry gateway, the aggregation engine
// and the classifier into the payloads the UI renders.
type ProgressService struct {
	entries  *EntryService
	agg      *AggregationService
	profiles *ProfileService
	cache    *ProgressCache
}

func NewProgressService(entries *EntryService, agg *AggregationService, profiles *ProfileService, cache *ProgressCache) *ProgressService {
	return &ProgressService{entries: entries, agg: agg, profiles: profiles, cache: cache}
}

type NutrientProgress struct {
	Consumed float64 `json:"consumed"`
	Goal     float64 `json:"goal"`
	Percent  float64 `json:"percent"`
}

type DailyProgressResponse struct {
	Date       string                      `json:"date"`
	Totals     Totals                      `json:"totals"`
	EntryCount int                         `json:"entry_count"`
	Progress   map[string]NutrientProgress `json:"progress"`
	Status     AttainmentStatus            `json:"status"`
}

type RangeSummaryResponse struct {
	Aggregate RangeAggregate `json:"aggregate"`
	Goals     models.Goals   `json:"goals"`
}

// DailyProgress aggregates one calendar day and reports consumed vs
// goal per nutrient.
func (s *ProgressService) DailyProgress(ctx context.Context, userID uint, date time.Time) (*DailyProgressResponse, error) {
	goals, err := s.goalsFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	w := DayWindow(date)
	agg, err := s.rangeAggregate(ctx, userID, w)
	if err != nil {
		return nil, err
	}
	day := DailyAggregate{Date: w.Start, Totals: agg.Totals, EntryCount: agg.EntryCount}

	return &DailyProgressResponse{
		Date:       w.Start.Format("2006-01-02"),
		Totals:     day.Totals,
		EntryCount: day.EntryCount,
		Status:     Classify(day, goals),
		Progress: map[string]NutrientProgress{
			"calories": {Consumed: day.Totals.Calories, Goal: goals.Calories, Percent: pct(day.Totals.Calories, goals.Calories)},
			"protein":  {Consumed: day.Totals.Protein, Goal: goals.Protein, Percent: pct(day.Totals.Protein, goals.Protein)},
			"carbs":    {Consumed: day.Totals.Carbs, Goal: goals.Carbs, Percent: pct(day.Totals.Carbs, goals.Carbs)},
			"fats":     {Consumed: day.Totals.Fats, Goal: goals.Fats, Percent: pct(day.Totals.Fats, goals.Fats)},
			"water":    {Consumed: day.Totals.Water, Goal: goals.Water, Percent: pct(day.Totals.Water, goals.Water)},
		},
	}, nil
}

// RangeSummary aggregates [from's day start, to's day start + 24h).
func (s *ProgressService) RangeSummary(ctx context.Context, userID uint, from, to time.Time) (*RangeSummaryResponse, error) {
	goals, err := s.goalsFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	w := Window{Start: dayStart(from), End: dayStart(to).Add(24 * time.Hour)}
	agg, err := s.rangeAggregate(ctx, userID, w)
	if err != nil {
		return nil, err
	}
	return &RangeSummaryResponse{Aggregate: *agg, Goals: goals}, nil
}

// MonthStatuses classifies every day of the month in one pass over the
// month's entries: O(days) classifications, not O(entries).
func (s *ProgressService) MonthStatuses(ctx context.Context, userID uint, year int, month time.Month) (map[string]AttainmentStatus, error) {
	goals, err := s.goalsFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	w := Window{Start: first, End: first.AddDate(0, 1, 0)}

	food, err := s.entries.QueryFoodEntries(ctx, userID, w)
	if err != nil {
		return nil, err
	}
	water, err := s.entries.QueryWaterEntries(ctx, userID, w)
	if err != nil {
		return nil, err
	}
	return s.classifyDays(food, water, w, goals)
}

// classifyDays buckets entries per calendar day and classifies each day
// of the window. Timestamps are normalized into the window's location
// before bucketing: the DB driver may hand back a different zone (often
// the session zone), and keying on the raw instant would shift
// late-evening entries into the wrong day.
func (s *ProgressService) classifyDays(food []models.FoodEntry, water []models.WaterEntry, w Window, goals models.Goals) (map[string]AttainmentStatus, error) {
	loc := w.Start.Location()

	foodByDay := make(map[string][]models.FoodEntry)
	for _, e := range food {
		k := dayStart(e.CreatedAt.In(loc)).Format("2006-01-02")
		foodByDay[k] = append(foodByDay[k], e)
	}
	waterByDay := make(map[string][]models.WaterEntry)
	for _, e := range water {
		k := dayStart(e.CreatedAt.In(loc)).Format("2006-01-02")
		waterByDay[k] = append(waterByDay[k], e)
	}

	out := make(map[string]AttainmentStatus)
	for d := w.Start; d.Before(w.End); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		day, err := s.agg.AggregateDay(foodByDay[key], waterByDay[key], d)
		if err != nil {
			return nil, err
		}
		out[key] = Classify(*day, goals)
	}
	return out, nil
}

func (s *ProgressService) rangeAggregate(ctx context.Context, userID uint, w Window) (*RangeAggregate, error) {
	if agg, ok := s.cache.Get(ctx, userID, w); ok {
		return agg, nil
	}
	food, err := s.entries.QueryFoodEntries(ctx, userID, w)
	if err != nil {
		return nil, err
	}
	water, err := s.entries.QueryWaterEntries(ctx, userID, w)
	if err != nil {
		return nil, err
	}
	agg, err := s.agg.Aggregate(food, water, w)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, userID, w, agg)
	return agg, nil
}

func (s *ProgressService) goalsFor(ctx context.Context, userID uint) (models.Goals, error) {
	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return models.Goals{}, err
	}
	return profile.Goals(), nil
}

func pct(consumed, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return round2(consumed / goal * 100)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
