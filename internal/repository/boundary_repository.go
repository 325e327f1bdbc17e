package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aurixon/api/internal/database"
	"github.com/aurixon/api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BoundaryRepository defines data access for per-period boundary answers.
// Callers are responsible for checking period ownership first.
type BoundaryRepository interface {
	// Get returns nil, nil when the period has no boundary record.
	Get(ctx context.Context, periodID uuid.UUID) (*models.BoundaryQuestions, error)

	// Upsert creates the period's record or merges flags into the existing
	// one. Flags not present keep their stored value. created reports
	// whether a new record was inserted. Unknown flag names are rejected.
	Upsert(ctx context.Context, periodID uuid.UUID, flags models.BoundaryFlags) (record *models.BoundaryQuestions, created bool, err error)
}

type boundaryRepository struct {
	db *database.Database
}

// NewBoundaryRepository creates a new instance of BoundaryRepository.
func NewBoundaryRepository(db *database.Database) BoundaryRepository {
	return &boundaryRepository{db: db}
}

// boundarySelect lists the record columns in models.BoundaryFlagNames order.
func boundarySelect() string {
	cols := []string{"id", "reporting_period_id"}
	for _, flag := range models.BoundaryFlagNames {
		cols = append(cols, models.BoundaryColumn(flag))
	}
	return strings.Join(append(cols, "created_at", "updated_at"), ", ")
}

// scanBoundary reads a row laid out by boundarySelect, plus any extra targets.
func scanBoundary(row pgx.Row, extra ...any) (*models.BoundaryQuestions, error) {
	var rec models.BoundaryQuestions
	values := make([]bool, len(models.BoundaryFlagNames))

	targets := []any{&rec.ID, &rec.ReportingPeriodID}
	for i := range values {
		targets = append(targets, &values[i])
	}
	targets = append(targets, &rec.CreatedAt, &rec.UpdatedAt)
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	rec.Flags = make(models.BoundaryFlags, len(values))
	for i, flag := range models.BoundaryFlagNames {
		rec.Flags[flag] = values[i]
	}
	return &rec, nil
}

func (r *boundaryRepository) Get(ctx context.Context, periodID uuid.UUID) (*models.BoundaryQuestions, error) {
	query := `SELECT ` + boundarySelect() + ` FROM boundary_questions WHERE reporting_period_id = $1`

	rec, err := scanBoundary(r.db.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query boundary questions for period %s: %w", periodID, err)
	}
	return rec, nil
}

func (r *boundaryRepository) Upsert(ctx context.Context, periodID uuid.UUID, flags models.BoundaryFlags) (*models.BoundaryQuestions, bool, error) {
	names := make([]string, 0, len(flags))
	for name := range flags {
		if !models.IsBoundaryFlag(name) {
			return nil, false, fmt.Errorf("unknown boundary flag %q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	cols := []string{"reporting_period_id"}
	placeholders := []string{"$1"}
	updates := []string{"updated_at = NOW()"}
	args := []any{periodID}
	for i, name := range names {
		col := models.BoundaryColumn(name)
		cols = append(cols, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		args = append(args, flags[name])
	}

	// xmax is zero only on a freshly inserted row version.
	query := fmt.Sprintf(`
		INSERT INTO boundary_questions (%s)
		VALUES (%s)
		ON CONFLICT (reporting_period_id) DO UPDATE SET %s
		RETURNING %s, (xmax = 0) AS inserted`,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
		boundarySelect(),
	)

	var inserted bool
	rec, err := scanBoundary(r.db.Pool.QueryRow(ctx, query, args...), &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert boundary questions for period %s: %w", periodID, err)
	}
	return rec, inserted, nil
}
