package services

import (
	"context"
	"fmt"

	"github.com/aurixon/api/internal/logger"
	"github.com/aurixon/api/internal/models"
	"github.com/aurixon/api/internal/repository"
	"github.com/google/uuid"
)

// CalculationInput is one result delivered by the emissions calculator.
type CalculationInput struct {
	ActivityType string
	ActivityID   uuid.UUID
	Result       models.EmissionResult
	InputData    map[string]interface{}
}

// CalculationService records and lists calculation results.
type CalculationService interface {
	// Record stores the result for an activity of the period. A later
	// result for the same activity replaces the earlier one; created
	// reports whether no result existed before.
	Record(ctx context.Context, companyID, periodID uuid.UUID, calculatedBy *uuid.UUID, in CalculationInput) (res *models.CalculationResult, created bool, err error)

	List(ctx context.Context, companyID, periodID uuid.UUID) ([]models.CalculationResult, error)
}

type calculationService struct {
	periods      repository.PeriodRepository
	activities   repository.ActivityRepository
	calculations repository.CalculationRepository
	log          *logger.Logger
}

// NewCalculationService creates a new instance of CalculationService.
func NewCalculationService(
	periods repository.PeriodRepository,
	activities repository.ActivityRepository,
	calculations repository.CalculationRepository,
	log *logger.Logger,
) CalculationService {
	return &calculationService{
		periods:      periods,
		activities:   activities,
		calculations: calculations,
		log:          log,
	}
}

func (s *calculationService) Record(ctx context.Context, companyID, periodID uuid.UUID, calculatedBy *uuid.UUID, in CalculationInput) (*models.CalculationResult, bool, error) {
	v, err := lookupVariant(in.ActivityType)
	if err != nil {
		return nil, false, err
	}
	if err := in.Result.Validate(); err != nil {
		return nil, false, NewValidationError(err.Error())
	}
	if _, err := ownedPeriod(ctx, s.periods, companyID, periodID); err != nil {
		return nil, false, err
	}

	// The activity must belong to the same company and period
	activity, err := s.activities.FindByID(ctx, v, companyID, in.ActivityID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load activity: %w", err)
	}
	if activity == nil || activity.ReportingPeriodID != periodID {
		return nil, false, fmt.Errorf("%w: %s %s", ErrActivityNotFound, v.Type, in.ActivityID)
	}

	res := &models.CalculationResult{
		ReportingPeriodID: periodID,
		ActivityType:      string(v.Type),
		ActivityID:        in.ActivityID,
		Result:            in.Result,
		InputData:         in.InputData,
		CalculatedBy:      calculatedBy,
	}
	log := s.log.ForCompany(companyID.String(), periodID.String())

	// Recalculation replaces the stored result
	created, err := s.calculations.Upsert(ctx, res)
	if err != nil {
		log.Error("Failed to store calculation result", err, map[string]interface{}{
			"activity_type": v.Type,
			"activity_id":   in.ActivityID,
		})
		return nil, false, fmt.Errorf("failed to store calculation result: %w", err)
	}

	log.Info("Calculation result recorded", map[string]interface{}{
		"activity_type": v.Type,
		"activity_id":   in.ActivityID,
		"total":         res.Result.TotalEmissionsMTCO2e,
		"created":       created,
	})
	return res, created, nil
}

func (s *calculationService) List(ctx context.Context, companyID, periodID uuid.UUID) ([]models.CalculationResult, error) {
	if _, err := ownedPeriod(ctx, s.periods, companyID, periodID); err != nil {
		return nil, err
	}
	results, err := s.calculations.ListByPeriod(ctx, companyID, periodID)
	if err != nil {
		s.log.ForCompany(companyID.String(), periodID.String()).Error("Failed to list calculation results", err, nil)
		return nil, fmt.Errorf("failed to list calculation results: %w", err)
	}
	return results, nil
}
