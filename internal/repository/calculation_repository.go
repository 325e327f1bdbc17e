package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aurixon/api/internal/database"
	"github.com/aurixon/api/internal/models"
	"github.com/google/uuid"
)

// CalculationRepository defines data access for stored calculation results.
type CalculationRepository interface {
	// Upsert stores res, replacing any earlier result for the same
	// activity. created reports whether a new row was inserted.
	Upsert(ctx context.Context, res *models.CalculationResult) (created bool, err error)

	// ListByPeriod returns the period's results with the calculating user's
	// email, most recently calculated first. The period must belong to
	// companyID; otherwise the list is empty.
	ListByPeriod(ctx context.Context, companyID, periodID uuid.UUID) ([]models.CalculationResult, error)
}

type calculationRepository struct {
	db *database.Database
}

// NewCalculationRepository creates a new instance of CalculationRepository.
func NewCalculationRepository(db *database.Database) CalculationRepository {
	return &calculationRepository{db: db}
}

func (r *calculationRepository) Upsert(ctx context.Context, res *models.CalculationResult) (bool, error) {
	var input []byte
	if res.InputData != nil {
		b, err := json.Marshal(res.InputData)
		if err != nil {
			return false, fmt.Errorf("failed to encode input data: %w", err)
		}
		input = b
	}

	query := `
		INSERT INTO calculation_results
			(reporting_period_id, activity_type, activity_id, result_data, input_data, calculated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (activity_type, activity_id) DO UPDATE SET
			reporting_period_id = EXCLUDED.reporting_period_id,
			result_data = EXCLUDED.result_data,
			input_data = EXCLUDED.input_data,
			calculated_by = EXCLUDED.calculated_by,
			calculated_at = NOW()
		RETURNING id, calculated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.db.Pool.QueryRow(ctx, query,
		res.ReportingPeriodID, res.ActivityType, res.ActivityID,
		res.Result, input, res.CalculatedBy,
	).Scan(&res.ID, &res.CalculatedAt, &inserted)
	if err != nil {
		return false, fmt.Errorf("failed to store calculation result for %s %s: %w",
			res.ActivityType, res.ActivityID, err)
	}
	return inserted, nil
}

func (r *calculationRepository) ListByPeriod(ctx context.Context, companyID, periodID uuid.UUID) ([]models.CalculationResult, error) {
	query := `
		SELECT cr.id, cr.reporting_period_id, cr.activity_type, cr.activity_id,
			cr.result_data, cr.input_data, cr.calculated_by, COALESCE(u.email, ''), cr.calculated_at
		FROM calculation_results cr
		JOIN reporting_periods rp ON rp.id = cr.reporting_period_id
		LEFT JOIN users u ON u.id = cr.calculated_by
		WHERE cr.reporting_period_id = $1 AND rp.company_id = $2
		ORDER BY cr.calculated_at DESC, cr.id ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, periodID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculation results for period %s: %w", periodID, err)
	}
	defer rows.Close()

	results := []models.CalculationResult{}
	for rows.Next() {
		var (
			res   models.CalculationResult
			input []byte
		)
		err := rows.Scan(
			&res.ID,
			&res.ReportingPeriodID,
			&res.ActivityType,
			&res.ActivityID,
			&res.Result,
			&input,
			&res.CalculatedBy,
			&res.CalculatedByEmail,
			&res.CalculatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calculation result row: %w", err)
		}
		if len(input) > 0 {
			if err := json.Unmarshal(input, &res.InputData); err != nil {
				return nil, fmt.Errorf("failed to decode input data of result %s: %w", res.ID, err)
			}
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating calculation result rows: %w", err)
	}
	return results, nil
}
