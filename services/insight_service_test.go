package services

import (
	"testing"
	"time"

	"carbculator/models"

	"github.com/stretchr/testify/assert"
)

func TestParseInsightResponseThreeSections(t *testing.T) {
	out := ParseInsightResponse("A\n\nB\n\nC")
	assert.Equal(t, "A", out.Trends)
	assert.Equal(t, "B", out.Recommendations)
	assert.Equal(t, "C", out.Goals)
	assert.False(t, out.Partial)
}

func TestParseInsightResponseKeepsExtraBlankLinesInGoals(t *testing.T) {
	// Only the first two delimiters split; the rest stays in the third
	// section.
	out := ParseInsightResponse("A\n\nB\n\nC\n\nD")
	assert.Equal(t, "C\n\nD", out.Goals)
	assert.False(t, out.Partial)
}

func TestParseInsightResponseSingleSectionIsPartial(t *testing.T) {
	out := ParseInsightResponse("A")
	assert.Equal(t, "A", out.Trends)
	assert.Equal(t, InsightUnavailable, out.Recommendations)
	assert.Equal(t, InsightUnavailable, out.Goals)
	assert.True(t, out.Partial)
}

func TestParseInsightResponseTwoSectionsIsPartial(t *testing.T) {
	out := ParseInsightResponse("A\n\nB")
	assert.Equal(t, "A", out.Trends)
	assert.Equal(t, "B", out.Recommendations)
	assert.Equal(t, InsightUnavailable, out.Goals)
	assert.True(t, out.Partial)
}

func TestParseInsightResponseEmpty(t *testing.T) {
	out := ParseInsightResponse("   \n ")
	assert.Equal(t, InsightUnavailable, out.Trends)
	assert.Equal(t, InsightUnavailable, out.Recommendations)
	assert.Equal(t, InsightUnavailable, out.Goals)
	assert.True(t, out.Partial)
}

func TestBuildSummaryCarriesNoEntryDetail(t *testing.T) {
	agg := &RangeAggregate{
		Start:       time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		Totals:      Totals{Calories: 14000, Protein: 900, Carbs: 1600, Fats: 450, Water: 12000},
		Averages:    Totals{Calories: 2000, Protein: 128.57, Carbs: 228.57, Fats: 64.29, Water: 1714.29},
		DaysInRange: 7,
		EntryCount:  21,
	}
	goals := models.Goals{Calories: 2000, Protein: 150, Carbs: 250, Fats: 70, Water: 2000}

	req := BuildSummary("2025-03-01 to 2025-03-07", agg, goals)
	assert.Equal(t, "2025-03-01 to 2025-03-07", req.RangeLabel)
	assert.Equal(t, 7, req.Days)
	assert.Equal(t, agg.Totals, req.Totals)
	assert.Equal(t, agg.Averages, req.Averages)
	assert.Equal(t, goals, req.Goals)
}
