package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aurixon/api/internal/database"
	"github.com/aurixon/api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PeriodRepository defines data access for reporting periods. Every
// lookup is scoped by company: a period owned by another company is
// reported exactly like a missing one.
type PeriodRepository interface {
	// Create inserts p and fills in its ID and timestamps.
	Create(ctx context.Context, p *models.ReportingPeriod) error

	// FindByID returns nil, nil when the period does not exist or belongs
	// to another company.
	FindByID(ctx context.Context, companyID, periodID uuid.UUID) (*models.ReportingPeriod, error)

	// ListByCompany returns the company's periods, most recent start first.
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.ReportingPeriod, error)

	// Update writes name, dates, type, standard and status. It returns
	// false when no period matched.
	Update(ctx context.Context, p *models.ReportingPeriod) (bool, error)

	// Delete removes the period and, through cascading keys, everything it owns.
	Delete(ctx context.Context, companyID, periodID uuid.UUID) (bool, error)

	// FindLatest returns the company's period with the latest start date.
	FindLatest(ctx context.Context, companyID uuid.UUID) (*models.ReportingPeriod, error)

	// FindPrevious returns the latest period starting strictly before before.
	FindPrevious(ctx context.Context, companyID uuid.UUID, before time.Time) (*models.ReportingPeriod, error)
}

type periodRepository struct {
	db *database.Database
}

// NewPeriodRepository creates a new instance of PeriodRepository.
func NewPeriodRepository(db *database.Database) PeriodRepository {
	return &periodRepository{db: db}
}

const periodColumns = `
	id, company_id, period_name, start_date, end_date,
	period_type, reporting_standard, status, created_at, updated_at`

func scanPeriod(row pgx.Row) (*models.ReportingPeriod, error) {
	var p models.ReportingPeriod
	err := row.Scan(
		&p.ID,
		&p.CompanyID,
		&p.PeriodName,
		&p.StartDate,
		&p.EndDate,
		&p.PeriodType,
		&p.ReportingStandard,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *periodRepository) Create(ctx context.Context, p *models.ReportingPeriod) error {
	query := `
		INSERT INTO reporting_periods
			(company_id, period_name, start_date, end_date, period_type, reporting_standard, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.Pool.QueryRow(ctx, query,
		p.CompanyID, p.PeriodName, p.StartDate, p.EndDate,
		string(p.PeriodType), p.ReportingStandard, string(p.Status),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reporting period for company %s: %w", p.CompanyID, err)
	}
	return nil
}

func (r *periodRepository) FindByID(ctx context.Context, companyID, periodID uuid.UUID) (*models.ReportingPeriod, error) {
	query := `SELECT ` + periodColumns + `
		FROM reporting_periods
		WHERE id = $1 AND company_id = $2`

	p, err := scanPeriod(r.db.Pool.QueryRow(ctx, query, periodID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query reporting period %s: %w", periodID, err)
	}
	return p, nil
}

func (r *periodRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.ReportingPeriod, error) {
	query := `SELECT ` + periodColumns + `
		FROM reporting_periods
		WHERE company_id = $1
		ORDER BY start_date DESC, created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reporting periods for company %s: %w", companyID, err)
	}
	defer rows.Close()

	periods := []models.ReportingPeriod{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reporting period row: %w", err)
		}
		periods = append(periods, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reporting period rows: %w", err)
	}
	return periods, nil
}

func (r *periodRepository) Update(ctx context.Context, p *models.ReportingPeriod) (bool, error) {
	query := `
		UPDATE reporting_periods
		SET period_name = $3, start_date = $4, end_date = $5, period_type = $6,
			reporting_standard = $7, status = $8, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING updated_at
	`
	err := r.db.Pool.QueryRow(ctx, query,
		p.ID, p.CompanyID, p.PeriodName, p.StartDate, p.EndDate,
		string(p.PeriodType), p.ReportingStandard, string(p.Status),
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update reporting period %s: %w", p.ID, err)
	}
	return true, nil
}

func (r *periodRepository) Delete(ctx context.Context, companyID, periodID uuid.UUID) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM reporting_periods WHERE id = $1 AND company_id = $2`, periodID, companyID)
	if err != nil {
		return false, fmt.Errorf("failed to delete reporting period %s: %w", periodID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *periodRepository) FindLatest(ctx context.Context, companyID uuid.UUID) (*models.ReportingPeriod, error) {
	query := `SELECT ` + periodColumns + `
		FROM reporting_periods
		WHERE company_id = $1
		ORDER BY start_date DESC, created_at DESC
		LIMIT 1`

	p, err := scanPeriod(r.db.Pool.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest period for company %s: %w", companyID, err)
	}
	return p, nil
}

func (r *periodRepository) FindPrevious(ctx context.Context, companyID uuid.UUID, before time.Time) (*models.ReportingPeriod, error) {
	query := `SELECT ` + periodColumns + `
		FROM reporting_periods
		WHERE company_id = $1 AND start_date < $2
		ORDER BY start_date DESC, created_at DESC
		LIMIT 1`

	p, err := scanPeriod(r.db.Pool.QueryRow(ctx, query, companyID, before))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query previous period for company %s: %w", companyID, err)
	}
	return p, nil
}
