package services

import (
	"math"
	"testing"
	"time"

	"carbculator/models"
	"carbculator/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func foodAt(t time.Time, cal, prot, carbs, fats float64) models.FoodEntry {
	e := models.FoodEntry{Calories: cal, Protein: prot, Carbs: carbs, Fats: fats, Quantity: 1}
	e.CreatedAt = t
	return e
}

func waterAt(t time.Time, ml float64) models.WaterEntry {
	e := models.WaterEntry{AmountML: ml}
	e.CreatedAt = t
	return e
}

func TestAggregateSumsFilteredEntries(t *testing.T) {
	svc := NewAggregationService(logger.Nop())
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	w := Window{Start: day, End: day.Add(24 * time.Hour)}

	entries := []models.FoodEntry{
		foodAt(day.Add(8*time.Hour), 400, 30, 50, 10),
		foodAt(day.Add(13*time.Hour), 600, 40, 70, 20),
	}
	water := []models.WaterEntry{
		waterAt(day.Add(9*time.Hour), 350),
		waterAt(day.Add(15*time.Hour), 500),
	}

	agg, err := svc.Aggregate(entries, water, w)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, agg.Totals.Calories)
	assert.Equal(t, 70.0, agg.Totals.Protein)
	assert.Equal(t, 120.0, agg.Totals.Carbs)
	assert.Equal(t, 30.0, agg.Totals.Fats)
	assert.Equal(t, 850.0, agg.Totals.Water)
	assert.Equal(t, 2, agg.EntryCount)
	assert.Equal(t, 1, agg.DaysInRange)
	assert.Equal(t, agg.Totals, agg.Averages)
}

func TestAggregateWindowIsHalfOpen(t *testing.T) {
	svc := NewAggregationService(logger.Nop())
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	w := Window{Start: day, End: day.Add(24 * time.Hour)}

	entries := []models.FoodEntry{
		foodAt(day, 100, 0, 0, 0),                   // exactly at start: included
		foodAt(day.Add(24*time.Hour), 200, 0, 0, 0), // exactly at end: excluded
		foodAt(day.Add(-time.Nanosecond), 400, 0, 0, 0),
	}

	agg, err := svc.Aggregate(entries, nil, w)
	require.NoError(t, err)
	assert.Equal(t, 100.0, agg.Totals.Calories)
	assert.Equal(t, 1, agg.EntryCount)
}

func TestAggregateRejectsDegenerateWindow(t *testing.T) {
	svc := NewAggregationService(logger.Nop())
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.Aggregate(nil, nil, Window{Start: day, End: day})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.Aggregate(nil, nil, Window{Start: day, End: day.Add(-time.Hour)})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestAggregateExcludesAnomalousEntries(t *testing.T) {
	svc := NewAggregationService(logger.Nop())
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	w := Window{Start: day, End: day.Add(24 * time.Hour)}

	entries := []models.FoodEntry{
		foodAt(day.Add(time.Hour), 500, 20, 60, 15),
		foodAt(day.Add(2*time.Hour), -100, 10, 10, 5), // negative: excluded
		foodAt(day.Add(3*time.Hour), math.NaN(), 0, 0, 0),
		foodAt(day.Add(4*time.Hour), math.Inf(1), 0, 0, 0),
	}
	water := []models.WaterEntry{
		waterAt(day.Add(time.Hour), 250),
		waterAt(day.Add(2*time.Hour), -50),
	}

	agg, err := svc.Aggregate(entries, water, w)
	require.NoError(t, err)
	assert.Equal(t, 500.0, agg.Totals.Calories)
	assert.Equal(t, 1, agg.EntryCount)
	assert.Equal(t, 250.0, agg.Totals.Water)
}

func TestAggregateAveragesOverMultipleDays(t *testing.T) {
	svc := NewAggregationService(logger.Nop())
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	w := Window{Start: start, End: start.AddDate(0, 0, 4)}

	entries := []models.FoodEntry{
		foodAt(start.Add(10*time.Hour), 800, 40, 80, 20),
		foodAt(start.AddDate(0, 0, 2).Add(10*time.Hour), 1200, 60, 120, 40),
	}

	agg, err := svc.Aggregate(entries, nil, w)
	require.NoError(t, err)
	assert.Equal(t, 4, agg.DaysInRange)
	assert.Equal(t, 2000.0, agg.Totals.Calories)
	assert.Equal(t, 500.0, agg.Averages.Calories)
	assert.Equal(t, 25.0, agg.Averages.Protein)
}

func TestAggregateDaysCeilPartialDay(t *testing.T) {
	svc := NewAggregationService(logger.Nop())
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	agg, err := svc.Aggregate(nil, nil, Window{Start: start, End: start.Add(36 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, 2, agg.DaysInRange)

	agg, err = svc.Aggregate(nil, nil, Window{Start: start, End: start.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, 1, agg.DaysInRange)
}

// Aggregating a day must equal the sum of aggregating its sub-intervals.
func TestAggregateIsAdditiveOverSubIntervals(t *testing.T) {
	svc := NewAggregationService(logger.Nop())
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	noon := day.Add(12 * time.Hour)

	entries := []models.FoodEntry{
		foodAt(day.Add(7*time.Hour), 300, 20, 30, 10),
		foodAt(noon, 450, 35, 40, 12), // exactly on the split boundary
		foodAt(day.Add(19*time.Hour), 700, 45, 80, 25),
	}
	water := []models.WaterEntry{
		waterAt(day.Add(8*time.Hour), 200),
		waterAt(day.Add(20*time.Hour), 500),
	}

	full, err := svc.Aggregate(entries, water, Window{Start: day, End: day.Add(24 * time.Hour)})
	require.NoError(t, err)
	morning, err := svc.Aggregate(entries, water, Window{Start: day, End: noon})
	require.NoError(t, err)
	evening, err := svc.Aggregate(entries, water, Window{Start: noon, End: day.Add(24 * time.Hour)})
	require.NoError(t, err)

	assert.Equal(t, full.Totals.Calories, morning.Totals.Calories+evening.Totals.Calories)
	assert.Equal(t, full.Totals.Protein, morning.Totals.Protein+evening.Totals.Protein)
	assert.Equal(t, full.Totals.Water, morning.Totals.Water+evening.Totals.Water)
	assert.Equal(t, full.EntryCount, morning.EntryCount+evening.EntryCount)
}

func TestAggregateDay(t *testing.T) {
	svc := NewAggregationService(logger.Nop())
	afternoon := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

	entries := []models.FoodEntry{
		foodAt(afternoon.Add(-time.Hour), 500, 30, 40, 15),
	}

	day, err := svc.AggregateDay(entries, nil, afternoon)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), day.Date)
	assert.Equal(t, 500.0, day.Totals.Calories)
	assert.Equal(t, 1, day.EntryCount)
}

func TestDayWindow(t *testing.T) {
	d := time.Date(2025, 3, 10, 17, 45, 12, 0, time.UTC)
	w := DayWindow(d)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, 24*time.Hour, w.End.Sub(w.Start))
}
