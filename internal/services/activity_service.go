package services

import (
	"context"
	"fmt"

	"github.com/aurixon/api/internal/catalog"
	"github.com/aurixon/api/internal/logger"
	"github.com/aurixon/api/internal/models"
	"github.com/aurixon/api/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const periodField = "reporting_period_id"

// readOnlyFields are common attributes a client may echo back on update.
// They are ignored rather than rejected.
var readOnlyFields = []string{"id", "activity_type", "company_id", "entered_by", "created_at", "updated_at"}

// ActivityService manages raw activity entries of every variant.
type ActivityService interface {
	// Create validates body against the variant schema and stores it.
	// body must name a reporting_period_id owned by the company.
	Create(ctx context.Context, companyID uuid.UUID, enteredBy *uuid.UUID, activityType string, body map[string]interface{}) (*models.Activity, error)

	Get(ctx context.Context, companyID uuid.UUID, activityType string, id uuid.UUID) (*models.Activity, error)

	// List returns the company's activities of one type, optionally for one period.
	List(ctx context.Context, companyID uuid.UUID, activityType string, periodID *uuid.UUID) ([]models.Activity, error)

	// Update fully replaces the variant fields of an activity.
	Update(ctx context.Context, companyID uuid.UUID, activityType string, id uuid.UUID, body map[string]interface{}) (*models.Activity, error)

	Delete(ctx context.Context, companyID uuid.UUID, activityType string, id uuid.UUID) error

	// ListByPeriod returns every activity of a period keyed by activity type.
	// Types without entries are omitted.
	ListByPeriod(ctx context.Context, companyID, periodID uuid.UUID) (map[catalog.ActivityType][]models.Activity, error)
}

type activityService struct {
	periods    repository.PeriodRepository
	activities repository.ActivityRepository
	log        *logger.Logger
}

// NewActivityService creates a new instance of ActivityService.
func NewActivityService(periods repository.PeriodRepository, activities repository.ActivityRepository, log *logger.Logger) ActivityService {
	return &activityService{
		periods:    periods,
		activities: activities,
		log:        log,
	}
}

func lookupVariant(activityType string) (catalog.Variant, error) {
	v, ok := catalog.Lookup(activityType)
	if !ok {
		return catalog.Variant{}, fmt.Errorf("%w: %q", ErrUnknownActivityType, activityType)
	}
	return v, nil
}

// splitBody separates the period reference from the variant fields and
// validates both.
func splitBody(v catalog.Variant, body map[string]interface{}) (uuid.UUID, map[string]interface{}, error) {
	fields := make(map[string]interface{}, len(body))
	for k, val := range body {
		fields[k] = val
	}
	for _, k := range readOnlyFields {
		delete(fields, k)
	}

	var msgs []string
	var periodID uuid.UUID

	raw, present := fields[periodField]
	delete(fields, periodField)
	switch s, ok := raw.(string); {
	case !present || raw == nil || (ok && s == ""):
		msgs = append(msgs, "Required field missing: "+periodField)
	case !ok:
		msgs = append(msgs, periodField+" must be a string")
	default:
		id, err := uuid.Parse(s)
		if err != nil {
			msgs = append(msgs, periodField+" must be a valid UUID")
		}
		periodID = id
	}

	values, problems := v.Validate(fields)
	msgs = append(msgs, problems...)
	if len(msgs) > 0 {
		return uuid.Nil, nil, NewValidationError(msgs...)
	}
	return periodID, values, nil
}

func (s *activityService) Create(ctx context.Context, companyID uuid.UUID, enteredBy *uuid.UUID, activityType string, body map[string]interface{}) (*models.Activity, error) {
	v, err := lookupVariant(activityType)
	if err != nil {
		return nil, err
	}
	periodID, values, err := splitBody(v, body)
	if err != nil {
		return nil, err
	}
	if _, err := ownedPeriod(ctx, s.periods, companyID, periodID); err != nil {
		return nil, err
	}

	a := &models.Activity{
		CompanyID:         companyID,
		ReportingPeriodID: periodID,
		EnteredBy:         enteredBy,
		Fields:            values,
	}
	if err := s.activities.Create(ctx, v, a); err != nil {
		s.log.Error("Failed to create activity", err, map[string]interface{}{
			"company_id":    companyID,
			"activity_type": v.Type,
		})
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	s.log.Info("Activity created", map[string]interface{}{
		"company_id":    companyID,
		"period_id":     periodID,
		"activity_type": v.Type,
		"activity_id":   a.ID,
	})
	return a, nil
}

func (s *activityService) Get(ctx context.Context, companyID uuid.UUID, activityType string, id uuid.UUID) (*models.Activity, error) {
	v, err := lookupVariant(activityType)
	if err != nil {
		return nil, err
	}
	a, err := s.activities.FindByID(ctx, v, companyID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrActivityNotFound, v.Type, id)
	}
	return a, nil
}

func (s *activityService) List(ctx context.Context, companyID uuid.UUID, activityType string, periodID *uuid.UUID) ([]models.Activity, error) {
	v, err := lookupVariant(activityType)
	if err != nil {
		return nil, err
	}
	list, err := s.activities.List(ctx, v, companyID, periodID)
	if err != nil {
		s.log.Error("Failed to list activities", err, map[string]interface{}{
			"company_id":    companyID,
			"activity_type": v.Type,
		})
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return list, nil
}

func (s *activityService) Update(ctx context.Context, companyID uuid.UUID, activityType string, id uuid.UUID, body map[string]interface{}) (*models.Activity, error) {
	v, err := lookupVariant(activityType)
	if err != nil {
		return nil, err
	}
	periodID, values, err := splitBody(v, body)
	if err != nil {
		return nil, err
	}
	if _, err := ownedPeriod(ctx, s.periods, companyID, periodID); err != nil {
		return nil, err
	}

	existing, err := s.activities.FindByID(ctx, v, companyID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrActivityNotFound, v.Type, id)
	}

	existing.ReportingPeriodID = periodID
	existing.Fields = values
	ok, err := s.activities.Update(ctx, v, existing)
	if err != nil {
		s.log.Error("Failed to update activity", err, map[string]interface{}{
			"company_id":    companyID,
			"activity_type": v.Type,
			"activity_id":   id,
		})
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrActivityNotFound, v.Type, id)
	}
	return existing, nil
}

func (s *activityService) Delete(ctx context.Context, companyID uuid.UUID, activityType string, id uuid.UUID) error {
	v, err := lookupVariant(activityType)
	if err != nil {
		return err
	}
	ok, err := s.activities.Delete(ctx, v, companyID, id)
	if err != nil {
		s.log.Error("Failed to delete activity", err, map[string]interface{}{
			"company_id":    companyID,
			"activity_type": v.Type,
			"activity_id":   id,
		})
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrActivityNotFound, v.Type, id)
	}

	s.log.Info("Activity deleted", map[string]interface{}{
		"company_id":    companyID,
		"activity_type": v.Type,
		"activity_id":   id,
	})
	return nil
}

func (s *activityService) ListByPeriod(ctx context.Context, companyID, periodID uuid.UUID) (map[catalog.ActivityType][]models.Activity, error) {
	if _, err := ownedPeriod(ctx, s.periods, companyID, periodID); err != nil {
		return nil, err
	}

	variants := catalog.Variants()
	lists := make([][]models.Activity, len(variants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, v := range variants {
		i, v := i, v
		g.Go(func() error {
			list, err := s.activities.List(gctx, v, companyID, &periodID)
			if err != nil {
				return err
			}
			lists[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("Failed to list period activities", err, map[string]interface{}{
			"company_id": companyID,
			"period_id":  periodID,
		})
		return nil, fmt.Errorf("failed to list period activities: %w", err)
	}

	out := make(map[catalog.ActivityType][]models.Activity)
	for i, v := range variants {
		if len(lists[i]) > 0 {
			out[v.Type] = lists[i]
		}
	}
	return out, nil
}
