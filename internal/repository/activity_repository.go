package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aurixon/api/internal/catalog"
	"github.com/aurixon/api/internal/database"
	"github.com/aurixon/api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ActivityRepository defines data access for the per-variant activity
// tables. Table and column names come from the catalog only; values are
// always bound as parameters.
type ActivityRepository interface {
	// Create inserts a and fills in its ID and timestamps.
	Create(ctx context.Context, v catalog.Variant, a *models.Activity) error

	// FindByID returns nil, nil when no activity of the variant with that
	// id belongs to the company.
	FindByID(ctx context.Context, v catalog.Variant, companyID, id uuid.UUID) (*models.Activity, error)

	// List returns the company's activities of one variant, optionally
	// restricted to one period, newest first.
	List(ctx context.Context, v catalog.Variant, companyID uuid.UUID, periodID *uuid.UUID) ([]models.Activity, error)

	// Update replaces every variant field of a and moves its calculation
	// result along with it when the period changes. It returns false when
	// no activity matched.
	Update(ctx context.Context, v catalog.Variant, a *models.Activity) (bool, error)

	// Delete removes the activity and its calculation result.
	Delete(ctx context.Context, v catalog.Variant, companyID, id uuid.UUID) (bool, error)
}

type activityRepository struct {
	db *database.Database
}

// NewActivityRepository creates a new instance of ActivityRepository.
func NewActivityRepository(db *database.Database) ActivityRepository {
	return &activityRepository{db: db}
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func activitySelect(v catalog.Variant) string {
	cols := []string{
		"id::text AS id",
		"company_id::text AS company_id",
		"reporting_period_id::text AS reporting_period_id",
		"entered_by::text AS entered_by",
		"created_at",
		"updated_at",
	}
	for _, c := range v.Columns() {
		cols = append(cols, ident(c))
	}
	return strings.Join(cols, ", ")
}

// toActivity converts a row read with activitySelect.
func toActivity(v catalog.Variant, row map[string]any) (models.Activity, error) {
	a := models.Activity{Type: string(v.Type), Fields: make(map[string]interface{}, len(v.Fields))}

	var err error
	if a.ID, err = uuid.Parse(fmt.Sprint(row["id"])); err != nil {
		return a, fmt.Errorf("bad activity id: %w", err)
	}
	if a.CompanyID, err = uuid.Parse(fmt.Sprint(row["company_id"])); err != nil {
		return a, fmt.Errorf("bad company id: %w", err)
	}
	if a.ReportingPeriodID, err = uuid.Parse(fmt.Sprint(row["reporting_period_id"])); err != nil {
		return a, fmt.Errorf("bad reporting period id: %w", err)
	}
	if s, ok := row["entered_by"].(string); ok {
		id, err := uuid.Parse(s)
		if err != nil {
			return a, fmt.Errorf("bad entered_by: %w", err)
		}
		a.EnteredBy = &id
	}
	a.CreatedAt, _ = row["created_at"].(time.Time)
	a.UpdatedAt, _ = row["updated_at"].(time.Time)

	for _, c := range v.Columns() {
		a.Fields[c] = row[c]
	}
	return a, nil
}

func (r *activityRepository) Create(ctx context.Context, v catalog.Variant, a *models.Activity) error {
	cols := []string{"company_id", "reporting_period_id", "entered_by"}
	args := []any{a.CompanyID, a.ReportingPeriodID, a.EnteredBy}
	for _, c := range v.Columns() {
		cols = append(cols, ident(c))
		args = append(args, a.Fields[c])
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id, created_at, updated_at`,
		ident(v.Table), strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	if err := r.db.Pool.QueryRow(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert %s activity: %w", v.Type, err)
	}
	a.Type = string(v.Type)
	return nil
}

func (r *activityRepository) FindByID(ctx context.Context, v catalog.Variant, companyID, id uuid.UUID) (*models.Activity, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND company_id = $2`,
		activitySelect(v), ident(v.Table))

	rows, err := r.db.Pool.Query(ctx, query, id, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s activity %s: %w", v.Type, id, err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s activity %s: %w", v.Type, id, err)
	}

	a, err := toActivity(v, row)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *activityRepository) List(ctx context.Context, v catalog.Variant, companyID uuid.UUID, periodID *uuid.UUID) ([]models.Activity, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE company_id = $1`, activitySelect(v), ident(v.Table))
	args := []any{companyID}
	if periodID != nil {
		query += ` AND reporting_period_id = $2`
		args = append(args, *periodID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s activities: %w", v.Type, err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s activities: %w", v.Type, err)
	}

	activities := make([]models.Activity, 0, len(maps))
	for _, m := range maps {
		a, err := toActivity(v, m)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, nil
}

func (r *activityRepository) Update(ctx context.Context, v catalog.Variant, a *models.Activity) (bool, error) {
	sets := []string{"reporting_period_id = $3", "updated_at = NOW()"}
	args := []any{a.ID, a.CompanyID, a.ReportingPeriodID}
	for _, c := range v.Columns() {
		args = append(args, a.Fields[c])
		sets = append(sets, fmt.Sprintf("%s = $%d", ident(c), len(args)))
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1 AND company_id = $2 RETURNING created_at, updated_at`,
		ident(v.Table), strings.Join(sets, ", "))

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin update of %s activity %s: %w", v.Type, a.ID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.QueryRow(ctx, query, args...).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update %s activity %s: %w", v.Type, a.ID, err)
	}

	// The stored result follows the activity when it moves to another period
	if _, err := tx.Exec(ctx,
		`UPDATE calculation_results SET reporting_period_id = $3
		WHERE activity_type = $1 AND activity_id = $2 AND reporting_period_id <> $3`,
		string(v.Type), a.ID, a.ReportingPeriodID,
	); err != nil {
		return false, fmt.Errorf("failed to move calculation result of %s activity %s: %w", v.Type, a.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit update of %s activity %s: %w", v.Type, a.ID, err)
	}
	a.Type = string(v.Type)
	return true, nil
}

func (r *activityRepository) Delete(ctx context.Context, v catalog.Variant, companyID, id uuid.UUID) (bool, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin delete of %s activity %s: %w", v.Type, id, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND company_id = $2`, ident(v.Table)), id, companyID)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s activity %s: %w", v.Type, id, err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM calculation_results WHERE activity_type = $1 AND activity_id = $2`,
		string(v.Type), id,
	); err != nil {
		return false, fmt.Errorf("failed to delete calculation result of %s activity %s: %w", v.Type, id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit delete of %s activity %s: %w", v.Type, id, err)
	}
	return true, nil
}
