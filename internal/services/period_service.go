package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aurixon/api/internal/logger"
	"github.com/aurixon/api/internal/models"
	"github.com/aurixon/api/internal/repository"
	"github.com/google/uuid"
)

// DefaultReportingStandard is used when a period names none.
const DefaultReportingStandard = "GHG Protocol"

// PeriodInput is the writable part of a reporting period.
type PeriodInput struct {
	PeriodName        string
	StartDate         time.Time
	EndDate           time.Time
	PeriodType        models.PeriodType
	ReportingStandard string
	Status            models.PeriodStatus
}

// PeriodService manages the lifecycle of reporting periods.
type PeriodService interface {
	Create(ctx context.Context, companyID uuid.UUID, in PeriodInput) (*models.ReportingPeriod, error)
	List(ctx context.Context, companyID uuid.UUID) ([]models.ReportingPeriod, error)
	Get(ctx context.Context, companyID, periodID uuid.UUID) (*models.ReportingPeriod, error)

	// Update replaces the period's attributes. A status change must follow
	// draft, active, closed; anything else returns ErrInvalidTransition.
	Update(ctx context.Context, companyID, periodID uuid.UUID, in PeriodInput) (*models.ReportingPeriod, error)

	// Delete removes the period together with everything it owns.
	Delete(ctx context.Context, companyID, periodID uuid.UUID) error
}

type periodService struct {
	repo repository.PeriodRepository
	log  *logger.Logger
}

// NewPeriodService creates a new instance of PeriodService.
func NewPeriodService(repo repository.PeriodRepository, log *logger.Logger) PeriodService {
	return &periodService{repo: repo, log: log}
}

// normalize fills defaults and validates in.
func (in *PeriodInput) normalize() error {
	var msgs []string

	in.PeriodName = strings.TrimSpace(in.PeriodName)
	if in.PeriodName == "" {
		msgs = append(msgs, "Required field missing: period_name")
	}
	if in.StartDate.IsZero() {
		msgs = append(msgs, "Required field missing: start_date")
	}
	if in.EndDate.IsZero() {
		msgs = append(msgs, "Required field missing: end_date")
	}
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() && !in.EndDate.After(in.StartDate) {
		msgs = append(msgs, "end_date must be after start_date")
	}

	if in.PeriodType == "" {
		in.PeriodType = models.PeriodAnnual
	}
	if !in.PeriodType.Valid() {
		msgs = append(msgs, "Invalid period_type. Expected one of: annual, quarterly, monthly, custom")
	}
	if in.Status == "" {
		in.Status = models.PeriodDraft
	}
	if !in.Status.Valid() {
		msgs = append(msgs, "Invalid status. Expected one of: draft, active, closed")
	}
	if strings.TrimSpace(in.ReportingStandard) == "" {
		in.ReportingStandard = DefaultReportingStandard
	}

	if len(msgs) > 0 {
		return NewValidationError(msgs...)
	}
	return nil
}

func (s *periodService) Create(ctx context.Context, companyID uuid.UUID, in PeriodInput) (*models.ReportingPeriod, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	p := &models.ReportingPeriod{
		CompanyID:         companyID,
		PeriodName:        in.PeriodName,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		PeriodType:        in.PeriodType,
		ReportingStandard: in.ReportingStandard,
		Status:            in.Status,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("Failed to create reporting period", err, map[string]interface{}{
			"company_id": companyID,
		})
		return nil, fmt.Errorf("failed to create reporting period: %w", err)
	}

	s.log.Info("Reporting period created", map[string]interface{}{
		"company_id": companyID,
		"period_id":  p.ID,
	})
	return p, nil
}

func (s *periodService) List(ctx context.Context, companyID uuid.UUID) ([]models.ReportingPeriod, error) {
	periods, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		s.log.Error("Failed to list reporting periods", err, map[string]interface{}{
			"company_id": companyID,
		})
		return nil, fmt.Errorf("failed to list reporting periods: %w", err)
	}
	return periods, nil
}

func (s *periodService) Get(ctx context.Context, companyID, periodID uuid.UUID) (*models.ReportingPeriod, error) {
	return ownedPeriod(ctx, s.repo, companyID, periodID)
}

func (s *periodService) Update(ctx context.Context, companyID, periodID uuid.UUID, in PeriodInput) (*models.ReportingPeriod, error) {
	current, err := ownedPeriod(ctx, s.repo, companyID, periodID)
	if err != nil {
		return nil, err
	}

	if in.Status == "" {
		in.Status = current.Status
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(in.Status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, in.Status)
	}

	current.PeriodName = in.PeriodName
	current.StartDate = in.StartDate
	current.EndDate = in.EndDate
	current.PeriodType = in.PeriodType
	current.ReportingStandard = in.ReportingStandard
	current.Status = in.Status

	ok, err := s.repo.Update(ctx, current)
	if err != nil {
		s.log.Error("Failed to update reporting period", err, map[string]interface{}{
			"company_id": companyID,
			"period_id":  periodID,
		})
		return nil, fmt.Errorf("failed to update reporting period: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPeriodNotFound, periodID)
	}

	s.log.Info("Reporting period updated", map[string]interface{}{
		"company_id": companyID,
		"period_id":  periodID,
		"status":     current.Status,
	})
	return current, nil
}

func (s *periodService) Delete(ctx context.Context, companyID, periodID uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, companyID, periodID)
	if err != nil {
		s.log.Error("Failed to delete reporting period", err, map[string]interface{}{
			"company_id": companyID,
			"period_id":  periodID,
		})
		return fmt.Errorf("failed to delete reporting period: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrPeriodNotFound, periodID)
	}

	s.log.Info("Reporting period deleted", map[string]interface{}{
		"company_id": companyID,
		"period_id":  periodID,
	})
	return nil
}
