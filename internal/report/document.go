// Package report assembles emissions reports and renders them as PDF,
// CSV or XLSX artifacts.
package report

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/aurixon/api/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNoCalculations is returned by tabular renderers when the period has
// no calculation results.
var ErrNoCalculations = errors.New("no calculations found for this period")

// Header identifies the company and period a report covers.
type Header struct {
	CompanyName string
	Industry    string
	PeriodName  string
	StartDate   time.Time
	EndDate     time.Time
	Status      string
}

// GasShare is one gas with its share of the total.
type GasShare struct {
	Gas     string
	Mass    float64
	Percent float64
}

// ScopeRow is one scope with its traffic-light rating.
type ScopeRow struct {
	Label     string
	Emissions float64
	Rating    string
}

// IntensityLine is a printable intensity figure.
type IntensityLine struct {
	Label string
	Value float64
}

// BreakdownRow is one activity type with its share of the total.
type BreakdownRow struct {
	ActivityType string
	Emissions    float64
	Count        int
	Percent      float64
}

// DetailRow is one calculation result.
type DetailRow struct {
	ID           uuid.UUID
	ActivityType string
	Total        float64
	CO2          float64
	CH4          float64
	N2O          float64
	CalculatedAt time.Time
	CalculatedBy string
}

// Improvement is a prioritised block of actions.
type Improvement struct {
	Category string
	Priority string
	Actions  []string
}

// ActivityLine is the per-type input to Assemble.
type ActivityLine struct {
	ActivityType string
	Emissions    float64
	Count        int
}

// Score is the traffic-light input to Assemble.
type Score struct {
	Overall         string
	Scopes          []ScopeRow
	Intensity       []IntensityLine
	Improvements    []Improvement
	Recommendations []string
}

// Options select optional report sections.
type Options struct {
	IncludeDetails   bool
	IncludeBreakdown bool
}

// DefaultOptions includes every section.
func DefaultOptions() Options {
	return Options{IncludeDetails: true, IncludeBreakdown: true}
}

// Input is everything Assemble needs.
type Input struct {
	Company     models.Company
	Period      models.ReportingPeriod
	Totals      models.GasBreakdown
	Activities  []ActivityLine
	Results     []models.CalculationResult
	Score       Score
	Options     Options
	GeneratedAt time.Time
}

// Document is a fully assembled report, ready to render.
type Document struct {
	Header          Header
	TotalEmissions  float64
	Overall         string
	Composition     []GasShare
	Scopes          []ScopeRow
	Intensity       []IntensityLine
	Breakdown       []BreakdownRow
	Details         []DetailRow
	Improvements    []Improvement
	Recommendations []string
	Options         Options
	GeneratedAt     time.Time
}

// percentOf returns part as a percentage of whole, rounded to one
// decimal. A zero whole yields zero.
func percentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	p, _ := decimal.NewFromFloat(part).
		Div(decimal.NewFromFloat(whole)).
		Mul(decimal.NewFromInt(100)).
		Round(1).
		Float64()
	return p
}

// Assemble builds a Document. Breakdown rows are ordered by emissions,
// highest first. Detail rows keep the order of in.Results.
func Assemble(in Input) *Document {
	total := in.Totals.TotalEmissionsMTCO2e

	doc := &Document{
		Header: Header{
			CompanyName: in.Company.Name,
			Industry:    in.Company.Industry,
			PeriodName:  in.Period.PeriodName,
			StartDate:   in.Period.StartDate,
			EndDate:     in.Period.EndDate,
			Status:      string(in.Period.Status),
		},
		TotalEmissions: total,
		Overall:        in.Score.Overall,
		Composition: []GasShare{
			{Gas: "CO2", Mass: in.Totals.CO2MT, Percent: percentOf(in.Totals.CO2MT, total)},
			{Gas: "CH4", Mass: in.Totals.CH4MT, Percent: percentOf(in.Totals.CH4MT, total)},
			{Gas: "N2O", Mass: in.Totals.N2OMT, Percent: percentOf(in.Totals.N2OMT, total)},
		},
		Scopes:          in.Score.Scopes,
		Intensity:       in.Score.Intensity,
		Improvements:    in.Score.Improvements,
		Recommendations: in.Score.Recommendations,
		Options:         in.Options,
		GeneratedAt:     in.GeneratedAt,
	}

	doc.Breakdown = make([]BreakdownRow, 0, len(in.Activities))
	for _, a := range in.Activities {
		doc.Breakdown = append(doc.Breakdown, BreakdownRow{
			ActivityType: a.ActivityType,
			Emissions:    a.Emissions,
			Count:        a.Count,
			Percent:      percentOf(a.Emissions, total),
		})
	}
	sort.SliceStable(doc.Breakdown, func(i, j int) bool {
		return doc.Breakdown[i].Emissions > doc.Breakdown[j].Emissions
	})

	doc.Details = make([]DetailRow, 0, len(in.Results))
	for _, r := range in.Results {
		doc.Details = append(doc.Details, DetailRow{
			ID:           r.ID,
			ActivityType: r.ActivityType,
			Total:        r.Result.TotalEmissionsMTCO2e,
			CO2:          r.Result.CO2MT,
			CH4:          r.Result.CH4MT,
			N2O:          r.Result.N2OMT,
			CalculatedAt: r.CalculatedAt,
			CalculatedBy: r.CalculatedByEmail,
		})
	}
	return doc
}

// formatFixed renders v with a fixed number of decimals.
func formatFixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// formatPlain renders v without trailing zeros.
func formatPlain(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// activityLabel turns an activity type into a display name.
func activityLabel(activityType string) string {
	words := strings.Split(activityType, "_")
	for i, w := range words {
		if w == "ac" {
			words[i] = "AC"
			continue
		}
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
