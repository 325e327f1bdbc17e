package services

import (
	"testing"

	"github.com/aurixon/api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakdownScope(t *testing.T) {
	tests := map[string]string{
		"stationary_combustion": Scope1,
		"mobile_sources":        Scope1,
		"refrigeration_ac":      Scope1,
		"electricity":           Scope2,
		"steam":                 Scope2,
		"fire_suppression":      Scope3,
		"purchased_gases":       Scope3,
		"business_travel_air":   Scope3,
		"waste":                 Scope3,
		"offsets":               Scope3,
		"something_else":        Scope3,
	}
	for activityType, want := range tests {
		assert.Equal(t, want, BreakdownScope(activityType), activityType)
	}
}

func TestFoldScopes_SumMatchesInput(t *testing.T) {
	totals := []repository.ActivityTotal{
		{ActivityType: "electricity", Emissions: 12.5},
		{ActivityType: "refrigeration_ac", Emissions: 3.25},
		{ActivityType: "commuting", Emissions: 7},
		{ActivityType: "steam", Emissions: 0.25},
	}
	scopes := FoldScopes(totals)
	require.Len(t, scopes, 3)
	assert.Equal(t, 3.25, scopes[Scope1])
	assert.Equal(t, 12.75, scopes[Scope2])
	assert.Equal(t, 7.0, scopes[Scope3])
	assert.InDelta(t, 23.0, scopes[Scope1]+scopes[Scope2]+scopes[Scope3], 1e-9)
}

func TestScoreTrafficLight_ByTotal(t *testing.T) {
	scopes := map[string]float64{Scope1: 50, Scope2: 300, Scope3: 650}
	tl := ScoreTrafficLight(scopes, 1000, CompanyMetrics{}, "business_travel_air")

	assert.Equal(t, RatingYellow, tl.Overall)
	require.Len(t, tl.Scopes, 3)
	assert.Equal(t, RatingGreen, tl.Scopes[0].Rating)
	assert.Equal(t, RatingYellow, tl.Scopes[1].Rating)
	assert.Equal(t, RatingRed, tl.Scopes[2].Rating)
	assert.Equal(t, "Scope 3 (Value Chain)", tl.Scopes[2].Label)

	require.Len(t, tl.Improvements, 2)
	assert.Equal(t, "Scope 2 (Energy)", tl.Improvements[0].Category)
	assert.Equal(t, PriorityMedium, tl.Improvements[0].Priority)
	assert.Len(t, tl.Improvements[0].Actions, 2)
	assert.Equal(t, PriorityHigh, tl.Improvements[1].Priority)
	assert.Len(t, tl.Improvements[1].Actions, 3)

	assert.Empty(t, tl.IntensityMetrics)
	require.NotEmpty(t, tl.Recommendations)
	assert.Contains(t, tl.Recommendations[0], "business travel air")
	assert.Contains(t, tl.Recommendations, "Set a reduction target for Scope 3 (Value Chain) emissions")
	assert.Contains(t, tl.Recommendations, "Track emissions monthly to catch increases early")
}

func TestScoreTrafficLight_ByEmployee(t *testing.T) {
	employees := 200.0
	revenue := 4.0
	tl := ScoreTrafficLight(map[string]float64{}, 1600, CompanyMetrics{Employees: &employees, Revenue: &revenue}, "")

	assert.Equal(t, RatingYellow, tl.Overall, "8 MT per employee")
	require.Len(t, tl.IntensityMetrics, 2)
	assert.Equal(t, IntensityMetric{Type: "per_employee", Value: 8}, tl.IntensityMetrics[0])
	assert.Equal(t, IntensityMetric{Type: "per_revenue", Value: 400}, tl.IntensityMetrics[1])
	assert.Empty(t, tl.Improvements)
}

func TestScoreTrafficLight_Boundaries(t *testing.T) {
	assert.Equal(t, RatingGreen, rateScope(100))
	assert.Equal(t, RatingYellow, rateScope(100.01))
	assert.Equal(t, RatingYellow, rateScope(500))
	assert.Equal(t, RatingRed, rateScope(500.01))

	zero := 0.0
	tl := ScoreTrafficLight(nil, 500, CompanyMetrics{Employees: &zero}, "")
	assert.Equal(t, RatingGreen, tl.Overall, "unusable headcount falls back to the total")
	assert.Contains(t, tl.Recommendations, "Maintain current performance and extend data coverage to all Scope 3 categories")

	tl = ScoreTrafficLight(nil, 1000.5, CompanyMetrics{}, "")
	assert.Equal(t, RatingRed, tl.Overall)
}
