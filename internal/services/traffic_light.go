package services

import (
	"fmt"
	"math"
	"strings"
)

// Rating is a qualitative traffic-light score.
type Rating string

const (
	RatingGreen  Rating = "green"
	RatingYellow Rating = "yellow"
	RatingRed    Rating = "red"
)

// Scope ceilings in MT CO2e.
const (
	ScopeGreenCeiling  = 100.0
	ScopeYellowCeiling = 500.0
)

// Overall ceilings, per employee when headcount is known and absolute otherwise.
const (
	PerEmployeeGreenLimit  = 5.0
	PerEmployeeYellowLimit = 10.0
	TotalGreenCeiling      = 500.0
	TotalYellowCeiling     = 1000.0
)

// Improvement priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

// ScopeScore is the rating of one breakdown scope.
type ScopeScore struct {
	Scope     string  `json:"scope"`
	Label     string  `json:"label"`
	Emissions float64 `json:"emissions"`
	Rating    Rating  `json:"rating"`
}

// Improvement is a block of actions for a scope that is not green.
type Improvement struct {
	Category string   `json:"category"`
	Priority string   `json:"priority"`
	Actions  []string `json:"actions"`
}

// IntensityMetric is an intensity figure shown next to the overall rating.
type IntensityMetric struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// TrafficLight is the full scoring pass over a period.
type TrafficLight struct {
	Overall          Rating            `json:"overall"`
	Scopes           []ScopeScore      `json:"scopes"`
	IntensityMetrics []IntensityMetric `json:"intensityMetrics,omitempty"`
	Improvements     []Improvement     `json:"improvements"`
	Recommendations  []string          `json:"recommendations"`
}

// CompanyMetrics are optional figures that refine the overall rating.
type CompanyMetrics struct {
	Employees *float64
	Revenue   *float64
}

var scopeLabels = map[string]string{
	Scope1: "Scope 1 (Direct)",
	Scope2: "Scope 2 (Energy)",
	Scope3: "Scope 3 (Value Chain)",
}

var scopeActions = map[string][]string{
	Scope1: {
		"Switch stationary equipment to lower-carbon fuels",
		"Electrify or right-size the vehicle fleet",
		"Inspect refrigeration systems for leaks and move to low-GWP refrigerants",
	},
	Scope2: {
		"Run an energy audit of the largest facilities",
		"Procure renewable electricity through a green tariff or PPA",
		"Upgrade lighting and HVAC to high-efficiency equipment",
	},
	Scope3: {
		"Replace short-haul flights with rail or virtual meetings",
		"Introduce a commuting programme for public transport and car sharing",
		"Engage key suppliers and logistics partners on their emissions",
	},
}

func rateScope(emissions float64) Rating {
	switch {
	case emissions <= ScopeGreenCeiling:
		return RatingGreen
	case emissions <= ScopeYellowCeiling:
		return RatingYellow
	default:
		return RatingRed
	}
}

func usable(v *float64) bool {
	return v != nil && *v > 0 && !math.IsInf(*v, 0) && !math.IsNaN(*v)
}

// ScoreTrafficLight rates a period from its scope breakdown and total. The
// overall rating uses emissions per employee when the headcount is known.
// topActivity names the highest-emitting activity type, if any.
func ScoreTrafficLight(scopes map[string]float64, total float64, metrics CompanyMetrics, topActivity string) TrafficLight {
	tl := TrafficLight{
		Scopes:          make([]ScopeScore, 0, len(ScopeLabels)),
		Improvements:    []Improvement{},
		Recommendations: []string{},
	}

	for _, scope := range ScopeLabels {
		score := ScopeScore{
			Scope:     scope,
			Label:     scopeLabels[scope],
			Emissions: scopes[scope],
			Rating:    rateScope(scopes[scope]),
		}
		tl.Scopes = append(tl.Scopes, score)

		switch score.Rating {
		case RatingRed:
			tl.Improvements = append(tl.Improvements, Improvement{
				Category: score.Label,
				Priority: PriorityHigh,
				Actions:  scopeActions[scope],
			})
		case RatingYellow:
			tl.Improvements = append(tl.Improvements, Improvement{
				Category: score.Label,
				Priority: PriorityMedium,
				Actions:  scopeActions[scope][:2],
			})
		}
	}

	if usable(metrics.Employees) {
		perEmployee := total / *metrics.Employees
		tl.IntensityMetrics = append(tl.IntensityMetrics, IntensityMetric{Type: "per_employee", Value: perEmployee})
		switch {
		case perEmployee < PerEmployeeGreenLimit:
			tl.Overall = RatingGreen
		case perEmployee < PerEmployeeYellowLimit:
			tl.Overall = RatingYellow
		default:
			tl.Overall = RatingRed
		}
	} else {
		switch {
		case total <= TotalGreenCeiling:
			tl.Overall = RatingGreen
		case total <= TotalYellowCeiling:
			tl.Overall = RatingYellow
		default:
			tl.Overall = RatingRed
		}
	}
	if usable(metrics.Revenue) {
		tl.IntensityMetrics = append(tl.IntensityMetrics, IntensityMetric{Type: "per_revenue", Value: total / *metrics.Revenue})
	}

	tl.Recommendations = recommend(tl, topActivity)
	return tl
}

func recommend(tl TrafficLight, topActivity string) []string {
	var recs []string

	if topActivity != "" {
		name := strings.ReplaceAll(topActivity, "_", " ")
		recs = append(recs, fmt.Sprintf("Prioritise reductions in %s, the largest emission source this period", name))
	}
	for _, s := range tl.Scopes {
		if s.Rating == RatingRed {
			recs = append(recs, fmt.Sprintf("Set a reduction target for %s emissions", s.Label))
		}
	}

	switch tl.Overall {
	case RatingRed:
		recs = append(recs, "Adopt a science-based target and review progress quarterly")
	case RatingYellow:
		recs = append(recs, "Track emissions monthly to catch increases early")
	default:
		recs = append(recs, "Maintain current performance and extend data coverage to all Scope 3 categories")
	}
	return recs
}
