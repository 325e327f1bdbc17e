package models

import (
	"time"

	"github.com/google/uuid"
)

// GasBreakdown holds emissions per greenhouse gas, in metric tons.
type GasBreakdown struct {
	TotalEmissionsMTCO2e float64 `json:"total_emissions_mt_co2e"`
	CO2MT                float64 `json:"co2_mt"`
	CH4MT                float64 `json:"ch4_mt"`
	N2OMT                float64 `json:"n2o_mt"`
}

// DualResult is one side of a Scope 2 dual report.
type DualResult struct {
	GasBreakdown
	// IsFallback is set when market-based factors were unavailable and
	// location-based factors were used instead.
	IsFallback bool `json:"is_fallback,omitempty"`
}

// EmissionResult is the payload produced by the emissions calculator for
// one activity. Scope 2 activities may carry both location-based and
// market-based sub-results; the top-level figures are the reported ones.
type EmissionResult struct {
	GasBreakdown
	LocationBased *DualResult `json:"location_based,omitempty"`
	MarketBased   *DualResult `json:"market_based,omitempty"`
}

// CalculationResult is the stored result for one activity. There is at
// most one per (ActivityType, ActivityID); recalculation replaces it.
type CalculationResult struct {
	ID                uuid.UUID              `json:"id"`
	ReportingPeriodID uuid.UUID              `json:"reporting_period_id"`
	ActivityType      string                 `json:"activity_type"`
	ActivityID        uuid.UUID              `json:"activity_id"`
	Result            EmissionResult         `json:"result"`
	InputData         map[string]interface{} `json:"input_data,omitempty"`
	CalculatedBy      *uuid.UUID             `json:"calculated_by,omitempty"`
	CalculatedByEmail string                 `json:"calculated_by_email,omitempty"`
	CalculatedAt      time.Time              `json:"calculated_at"`
}
