package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aurixon/api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EmissionTotals are the summed gas figures over a set of calculation results.
type EmissionTotals struct {
	Total            float64
	CO2              float64
	CH4              float64
	N2O              float64
	PeriodCount      int
	CalculationCount int
}

// ActivityTotal is the summed emissions of one activity type.
type ActivityTotal struct {
	ActivityType string
	Emissions    float64
	Count        int
}

// MonthlyTotal is the summed emissions of periods starting in one month.
type MonthlyTotal struct {
	Month     time.Time
	Emissions float64
}

// IndustryStats describes per-company totals across an industry.
type IndustryStats struct {
	Average float64
	Median  float64
	P25     float64
	P75     float64
	Count   int
}

// EmissionsRepository aggregates stored calculation results. Every query
// joins reporting_periods and filters on its company_id, so results of
// another company are never included. Empty sums are zero.
type EmissionsRepository interface {
	// Totals sums the company's results, optionally for one period only.
	Totals(ctx context.Context, companyID uuid.UUID, periodID *uuid.UUID) (EmissionTotals, error)

	// ByActivityType sums and counts per activity type, highest emissions first.
	ByActivityType(ctx context.Context, companyID uuid.UUID, periodID *uuid.UUID) ([]ActivityTotal, error)

	// MonthlyTrend sums results by the month of their period's start date,
	// for periods starting on or after since, oldest month first.
	MonthlyTrend(ctx context.Context, companyID uuid.UUID, since time.Time) ([]MonthlyTotal, error)

	// PeriodTotal is the summed total of one of the company's periods.
	PeriodTotal(ctx context.Context, companyID, periodID uuid.UUID) (float64, error)

	// IndustryDistribution describes the all-time totals of every company
	// in the industry except excludeCompanyID.
	IndustryDistribution(ctx context.Context, industry string, excludeCompanyID uuid.UUID) (IndustryStats, error)
}

type emissionsRepository struct {
	db *database.Database
}

// NewEmissionsRepository creates a new instance of EmissionsRepository.
func NewEmissionsRepository(db *database.Database) EmissionsRepository {
	return &emissionsRepository{db: db}
}

const totalExpr = `COALESCE(SUM((cr.result_data->>'total_emissions_mt_co2e')::double precision), 0)`

// scopedArgs builds the company filter and its arguments. The optional
// period filter becomes @period_id.
func scopedArgs(companyID uuid.UUID, periodID *uuid.UUID) (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{"company_id": companyID}
	where := `rp.company_id = @company_id`
	if periodID != nil {
		where += ` AND rp.id = @period_id`
		args["period_id"] = *periodID
	}
	return where, args
}

func (r *emissionsRepository) Totals(ctx context.Context, companyID uuid.UUID, periodID *uuid.UUID) (EmissionTotals, error) {
	where, args := scopedArgs(companyID, periodID)
	query := `
		SELECT ` + totalExpr + `,
			COALESCE(SUM((cr.result_data->>'co2_mt')::double precision), 0),
			COALESCE(SUM((cr.result_data->>'ch4_mt')::double precision), 0),
			COALESCE(SUM((cr.result_data->>'n2o_mt')::double precision), 0),
			COUNT(DISTINCT cr.reporting_period_id),
			COUNT(*)
		FROM calculation_results cr
		JOIN reporting_periods rp ON rp.id = cr.reporting_period_id
		WHERE ` + where

	var t EmissionTotals
	err := r.db.Pool.QueryRow(ctx, query, args).Scan(
		&t.Total, &t.CO2, &t.CH4, &t.N2O, &t.PeriodCount, &t.CalculationCount,
	)
	if err != nil {
		return EmissionTotals{}, fmt.Errorf("failed to sum emissions for company %s: %w", companyID, err)
	}
	return t, nil
}

func (r *emissionsRepository) ByActivityType(ctx context.Context, companyID uuid.UUID, periodID *uuid.UUID) ([]ActivityTotal, error) {
	where, args := scopedArgs(companyID, periodID)
	query := `
		SELECT cr.activity_type, ` + totalExpr + ` AS emissions, COUNT(*)
		FROM calculation_results cr
		JOIN reporting_periods rp ON rp.id = cr.reporting_period_id
		WHERE ` + where + `
		GROUP BY cr.activity_type
		ORDER BY emissions DESC, cr.activity_type ASC`

	rows, err := r.db.Pool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to group emissions by activity type: %w", err)
	}
	defer rows.Close()

	totals := []ActivityTotal{}
	for rows.Next() {
		var t ActivityTotal
		if err := rows.Scan(&t.ActivityType, &t.Emissions, &t.Count); err != nil {
			return nil, fmt.Errorf("failed to scan activity total row: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity total rows: %w", err)
	}
	return totals, nil
}

func (r *emissionsRepository) MonthlyTrend(ctx context.Context, companyID uuid.UUID, since time.Time) ([]MonthlyTotal, error) {
	query := `
		SELECT date_trunc('month', rp.start_date)::date AS month, ` + totalExpr + `
		FROM calculation_results cr
		JOIN reporting_periods rp ON rp.id = cr.reporting_period_id
		WHERE rp.company_id = $1 AND rp.start_date >= $2
		GROUP BY month
		ORDER BY month ASC`

	rows, err := r.db.Pool.Query(ctx, query, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly trend for company %s: %w", companyID, err)
	}
	defer rows.Close()

	trend := []MonthlyTotal{}
	for rows.Next() {
		var m MonthlyTotal
		if err := rows.Scan(&m.Month, &m.Emissions); err != nil {
			return nil, fmt.Errorf("failed to scan monthly trend row: %w", err)
		}
		trend = append(trend, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly trend rows: %w", err)
	}
	return trend, nil
}

func (r *emissionsRepository) PeriodTotal(ctx context.Context, companyID, periodID uuid.UUID) (float64, error) {
	query := `
		SELECT ` + totalExpr + `
		FROM calculation_results cr
		JOIN reporting_periods rp ON rp.id = cr.reporting_period_id
		WHERE rp.company_id = $1 AND rp.id = $2`

	var total float64
	if err := r.db.Pool.QueryRow(ctx, query, companyID, periodID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum emissions for period %s: %w", periodID, err)
	}
	return total, nil
}

func (r *emissionsRepository) IndustryDistribution(ctx context.Context, industry string, excludeCompanyID uuid.UUID) (IndustryStats, error) {
	query := `
		WITH per_company AS (
			SELECT c.id, ` + totalExpr + ` AS total
			FROM companies c
			JOIN reporting_periods rp ON rp.company_id = c.id
			JOIN calculation_results cr ON cr.reporting_period_id = rp.id
			WHERE c.industry = $1 AND c.id <> $2
			GROUP BY c.id
		)
		SELECT
			COALESCE(AVG(total), 0),
			COALESCE(PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY total), 0),
			COALESCE(PERCENTILE_CONT(0.25) WITHIN GROUP (ORDER BY total), 0),
			COALESCE(PERCENTILE_CONT(0.75) WITHIN GROUP (ORDER BY total), 0),
			COUNT(*)
		FROM per_company`

	var s IndustryStats
	err := r.db.Pool.QueryRow(ctx, query, industry, excludeCompanyID).Scan(
		&s.Average, &s.Median, &s.P25, &s.P75, &s.Count,
	)
	if err != nil {
		return IndustryStats{}, fmt.Errorf("failed to query %q industry distribution: %w", industry, err)
	}
	return s, nil
}
