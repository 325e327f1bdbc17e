package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
)

// Scan implements sql.Scanner for reading a result payload from a jsonb column.
// A NULL payload scans as the zero result.
func (r *EmissionResult) Scan(value interface{}) error {
	if value == nil {
		*r = EmissionResult{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to scan EmissionResult: expected []byte or string, got %T", value)
	}

	var decoded EmissionResult
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("failed to unmarshal emission result: %w", err)
	}
	if err := decoded.Validate(); err != nil {
		return err
	}

	*r = decoded
	return nil
}

// Value implements driver.Valuer for writing a result payload to a jsonb column.
func (r EmissionResult) Value() (driver.Value, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal emission result: %w", err)
	}
	return string(payload), nil
}

// Validate rejects payloads the aggregation arithmetic cannot use.
func (r EmissionResult) Validate() error {
	if err := r.GasBreakdown.validate("result"); err != nil {
		return err
	}
	if r.LocationBased != nil {
		if err := r.LocationBased.validate("location_based"); err != nil {
			return err
		}
	}
	if r.MarketBased != nil {
		if err := r.MarketBased.validate("market_based"); err != nil {
			return err
		}
	}
	return nil
}

func (g GasBreakdown) validate(section string) error {
	values := map[string]float64{
		"total_emissions_mt_co2e": g.TotalEmissionsMTCO2e,
		"co2_mt":                  g.CO2MT,
		"ch4_mt":                  g.CH4MT,
		"n2o_mt":                  g.N2OMT,
	}
	for name, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s.%s must be a finite number", section, name)
		}
		if v < 0 {
			return fmt.Errorf("%s.%s must be non-negative", section, name)
		}
	}
	return nil
}
