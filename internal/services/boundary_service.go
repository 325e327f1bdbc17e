package services

import (
	"context"
	"fmt"

	"github.com/aurixon/api/internal/logger"
	"github.com/aurixon/api/internal/models"
	"github.com/aurixon/api/internal/repository"
	"github.com/google/uuid"
)

// BoundaryService manages the per-period boundary answers.
type BoundaryService interface {
	// SetAnswers merges answers into the period's boundary record, creating
	// it if needed. Keys may carry the storage prefix or not. created
	// reports whether the record is new.
	// Returns ErrPeriodNotFound if the period is not the company's.
	// Returns *ValidationError for unknown keys and for a flag answered
	// differently under both key forms.
	SetAnswers(ctx context.Context, companyID, periodID uuid.UUID, answers map[string]bool) (flags models.BoundaryFlags, created bool, err error)

	// GetAnswers returns the stored flags, unprefixed.
	// Returns ErrPeriodNotFound or ErrBoundaryNotFound.
	GetAnswers(ctx context.Context, companyID, periodID uuid.UUID) (models.BoundaryFlags, error)

	// GetSummary derives scope enablement from the stored flags.
	GetSummary(ctx context.Context, companyID, periodID uuid.UUID) (models.BoundarySummary, error)
}

type boundaryService struct {
	periods    repository.PeriodRepository
	boundaries repository.BoundaryRepository
	log        *logger.Logger
}

// NewBoundaryService creates a new instance of BoundaryService.
func NewBoundaryService(periods repository.PeriodRepository, boundaries repository.BoundaryRepository, log *logger.Logger) BoundaryService {
	return &boundaryService{
		periods:    periods,
		boundaries: boundaries,
		log:        log,
	}
}

// ownedPeriod loads a period through the company filter.
func ownedPeriod(ctx context.Context, repo repository.PeriodRepository, companyID, periodID uuid.UUID) (*models.ReportingPeriod, error) {
	period, err := repo.FindByID(ctx, companyID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reporting period: %w", err)
	}
	if period == nil {
		return nil, fmt.Errorf("%w: %s", ErrPeriodNotFound, periodID)
	}
	return period, nil
}

func (s *boundaryService) SetAnswers(ctx context.Context, companyID, periodID uuid.UUID, answers map[string]bool) (models.BoundaryFlags, bool, error) {
	flags, unknown, conflicting := models.NormalizeBoundaryFlags(answers)
	if len(unknown) > 0 || len(conflicting) > 0 {
		msgs := make([]string, 0, len(unknown)+len(conflicting))
		for _, key := range unknown {
			msgs = append(msgs, "Unknown boundary question: "+key)
		}
		for _, name := range conflicting {
			msgs = append(msgs, fmt.Sprintf("Conflicting answers for boundary question: %s and %s", name, models.BoundaryColumn(name)))
		}
		return nil, false, NewValidationError(msgs...)
	}

	if _, err := ownedPeriod(ctx, s.periods, companyID, periodID); err != nil {
		return nil, false, err
	}

	rec, created, err := s.boundaries.Upsert(ctx, periodID, flags)
	if err != nil {
		s.log.Error("Failed to store boundary questions", err, map[string]interface{}{
			"company_id": companyID,
			"period_id":  periodID,
		})
		return nil, false, fmt.Errorf("failed to store boundary questions: %w", err)
	}

	s.log.Info("Boundary questions saved", map[string]interface{}{
		"company_id": companyID,
		"period_id":  periodID,
		"created":    created,
		"answered":   len(flags),
	})
	return rec.Flags, created, nil
}

func (s *boundaryService) GetAnswers(ctx context.Context, companyID, periodID uuid.UUID) (models.BoundaryFlags, error) {
	if _, err := ownedPeriod(ctx, s.periods, companyID, periodID); err != nil {
		return nil, err
	}

	rec, err := s.boundaries.Get(ctx, periodID)
	if err != nil {
		s.log.Error("Failed to load boundary questions", err, map[string]interface{}{
			"company_id": companyID,
			"period_id":  periodID,
		})
		return nil, fmt.Errorf("failed to load boundary questions: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: period %s", ErrBoundaryNotFound, periodID)
	}
	return rec.Flags, nil
}

func (s *boundaryService) GetSummary(ctx context.Context, companyID, periodID uuid.UUID) (models.BoundarySummary, error) {
	flags, err := s.GetAnswers(ctx, companyID, periodID)
	if err != nil {
		return models.BoundarySummary{}, err
	}
	return models.SummarizeBoundary(flags), nil
}
