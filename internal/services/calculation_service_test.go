package services

import (
	"context"
	"testing"

	"github.com/aurixon/api/internal/catalog"
	"github.com/aurixon/api/internal/logger"
	"github.com/aurixon/api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordCalculation(t *testing.T) {
	periods := new(MockPeriodRepository)
	activities := new(MockActivityRepository)
	calculations := new(MockCalculationRepository)
	svc := NewCalculationService(periods, activities, calculations, logger.New("test"))

	companyID, userID := uuid.New(), uuid.New()
	period := ownedBy(companyID)
	activity := &models.Activity{ID: uuid.New(), ReportingPeriodID: period.ID}

	periods.On("FindByID", mock.Anything, companyID, period.ID).Return(period, nil)
	activities.On("FindByID", mock.Anything, catalog.Electricity, companyID, activity.ID).Return(activity, nil)
	calculations.On("Upsert", mock.Anything, mock.AnythingOfType("*models.CalculationResult")).Return(true, nil).Once()
	calculations.On("Upsert", mock.Anything, mock.AnythingOfType("*models.CalculationResult")).Return(false, nil).Once()

	in := CalculationInput{
		ActivityType: "electricity",
		ActivityID:   activity.ID,
		Result: models.EmissionResult{
			GasBreakdown: models.GasBreakdown{TotalEmissionsMTCO2e: 42, CO2MT: 41.5, CH4MT: 0.3, N2OMT: 0.2},
		},
		InputData: map[string]interface{}{"amount": 1000},
	}

	res, created, err := svc.Record(context.Background(), companyID, period.ID, &userID, in)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "electricity", res.ActivityType)
	assert.Equal(t, period.ID, res.ReportingPeriodID)
	assert.Equal(t, &userID, res.CalculatedBy)

	in.Result.TotalEmissionsMTCO2e = 40
	_, created, err = svc.Record(context.Background(), companyID, period.ID, &userID, in)
	require.NoError(t, err)
	assert.False(t, created, "recalculation replaces the earlier result")
	calculations.AssertExpectations(t)
}

func TestRecordCalculation_ActivityInOtherPeriod(t *testing.T) {
	periods := new(MockPeriodRepository)
	activities := new(MockActivityRepository)
	calculations := new(MockCalculationRepository)
	svc := NewCalculationService(periods, activities, calculations, logger.New("test"))

	companyID := uuid.New()
	period := ownedBy(companyID)
	activity := &models.Activity{ID: uuid.New(), ReportingPeriodID: uuid.New()}

	periods.On("FindByID", mock.Anything, companyID, period.ID).Return(period, nil)
	activities.On("FindByID", mock.Anything, catalog.Waste, companyID, activity.ID).Return(activity, nil)

	_, _, err := svc.Record(context.Background(), companyID, period.ID, nil, CalculationInput{
		ActivityType: "waste",
		ActivityID:   activity.ID,
		Result:       models.EmissionResult{GasBreakdown: models.GasBreakdown{TotalEmissionsMTCO2e: 1}},
	})
	assert.ErrorIs(t, err, ErrActivityNotFound)
	calculations.AssertNotCalled(t, "Upsert")
}

func TestRecordCalculation_InvalidResult(t *testing.T) {
	svc := NewCalculationService(new(MockPeriodRepository), new(MockActivityRepository), new(MockCalculationRepository), logger.New("test"))

	_, _, err := svc.Record(context.Background(), uuid.New(), uuid.New(), nil, CalculationInput{
		ActivityType: "waste",
		ActivityID:   uuid.New(),
		Result:       models.EmissionResult{GasBreakdown: models.GasBreakdown{TotalEmissionsMTCO2e: -1}},
	})
	_, ok := AsValidationError(err)
	assert.True(t, ok)

	_, _, err = svc.Record(context.Background(), uuid.New(), uuid.New(), nil, CalculationInput{ActivityType: "nope"})
	assert.ErrorIs(t, err, ErrUnknownActivityType)
}

func TestListCalculations_ForeignPeriod(t *testing.T) {
	periods := new(MockPeriodRepository)
	calculations := new(MockCalculationRepository)
	svc := NewCalculationService(periods, new(MockActivityRepository), calculations, logger.New("test"))

	companyID, periodID := uuid.New(), uuid.New()
	periods.On("FindByID", mock.Anything, companyID, periodID).Return(nil, nil)

	_, err := svc.List(context.Background(), companyID, periodID)
	assert.ErrorIs(t, err, ErrPeriodNotFound)
	calculations.AssertNotCalled(t, "ListByPeriod")
}
