package handlers

import (
	"context"
	"time"

	"github.com/aurixon/api/internal/catalog"
	"github.com/aurixon/api/internal/models"
	"github.com/aurixon/api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) KPIs(ctx context.Context, companyID uuid.UUID, periodID *uuid.UUID) (*services.KPIs, error) {
	args := m.Called(ctx, companyID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.KPIs), args.Error(1)
}

func (m *MockDashboardService) Intensity(ctx context.Context, companyID, periodID uuid.UUID, in services.IntensityInput) (*services.IntensityResult, error) {
	args := m.Called(ctx, companyID, periodID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.IntensityResult), args.Error(1)
}

func (m *MockDashboardService) Alerts(ctx context.Context, companyID uuid.UUID, th services.AlertThresholds) ([]services.Alert, error) {
	args := m.Called(ctx, companyID, th)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.Alert), args.Error(1)
}

func (m *MockDashboardService) Benchmark(ctx context.Context, companyID, periodID uuid.UUID, industry string) (*services.Benchmark, error) {
	args := m.Called(ctx, companyID, periodID, industry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Benchmark), args.Error(1)
}

func (m *MockDashboardService) TargetProgress(ctx context.Context, companyID uuid.UUID, in services.TargetInput) (*services.TargetProgress, error) {
	args := m.Called(ctx, companyID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TargetProgress), args.Error(1)
}

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Generate(ctx context.Context, companyID, periodID uuid.UUID, opts services.ExportOptions) (*services.Artifact, error) {
	args := m.Called(ctx, companyID, periodID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Artifact), args.Error(1)
}

func (m *MockExportService) Release(a *services.Artifact) {
	m.Called(a)
}

func (m *MockExportService) Email(ctx context.Context, companyID, periodID uuid.UUID, recipient string, opts services.ExportOptions) (*services.Artifact, error) {
	args := m.Called(ctx, companyID, periodID, recipient, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Artifact), args.Error(1)
}

func (m *MockExportService) Cleanup(maxAge time.Duration) (int, error) {
	args := m.Called(maxAge)
	return args.Int(0), args.Error(1)
}

type MockBoundaryService struct {
	mock.Mock
}

func (m *MockBoundaryService) SetAnswers(ctx context.Context, companyID, periodID uuid.UUID, answers map[string]bool) (models.BoundaryFlags, bool, error) {
	args := m.Called(ctx, companyID, periodID, answers)
	flags, _ := args.Get(0).(models.BoundaryFlags)
	return flags, args.Bool(1), args.Error(2)
}

func (m *MockBoundaryService) GetAnswers(ctx context.Context, companyID, periodID uuid.UUID) (models.BoundaryFlags, error) {
	args := m.Called(ctx, companyID, periodID)
	flags, _ := args.Get(0).(models.BoundaryFlags)
	return flags, args.Error(1)
}

func (m *MockBoundaryService) GetSummary(ctx context.Context, companyID, periodID uuid.UUID) (models.BoundarySummary, error) {
	args := m.Called(ctx, companyID, periodID)
	return args.Get(0).(models.BoundarySummary), args.Error(1)
}

type MockPeriodService struct {
	mock.Mock
}

func (m *MockPeriodService) Create(ctx context.Context, companyID uuid.UUID, in services.PeriodInput) (*models.ReportingPeriod, error) {
	args := m.Called(ctx, companyID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReportingPeriod), args.Error(1)
}

func (m *MockPeriodService) List(ctx context.Context, companyID uuid.UUID) ([]models.ReportingPeriod, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReportingPeriod), args.Error(1)
}

func (m *MockPeriodService) Get(ctx context.Context, companyID, periodID uuid.UUID) (*models.ReportingPeriod, error) {
	args := m.Called(ctx, companyID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReportingPeriod), args.Error(1)
}

func (m *MockPeriodService) Update(ctx context.Context, companyID, periodID uuid.UUID, in services.PeriodInput) (*models.ReportingPeriod, error) {
	args := m.Called(ctx, companyID, periodID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReportingPeriod), args.Error(1)
}

func (m *MockPeriodService) Delete(ctx context.Context, companyID, periodID uuid.UUID) error {
	return m.Called(ctx, companyID, periodID).Error(0)
}

type MockActivityService struct {
	mock.Mock
}

func (m *MockActivityService) Create(ctx context.Context, companyID uuid.UUID, enteredBy *uuid.UUID, activityType string, body map[string]interface{}) (*models.Activity, error) {
	args := m.Called(ctx, companyID, enteredBy, activityType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Activity), args.Error(1)
}

func (m *MockActivityService) Get(ctx context.Context, companyID uuid.UUID, activityType string, id uuid.UUID) (*models.Activity, error) {
	args := m.Called(ctx, companyID, activityType, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Activity), args.Error(1)
}

func (m *MockActivityService) List(ctx context.Context, companyID uuid.UUID, activityType string, periodID *uuid.UUID) ([]models.Activity, error) {
	args := m.Called(ctx, companyID, activityType, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Activity), args.Error(1)
}

func (m *MockActivityService) Update(ctx context.Context, companyID uuid.UUID, activityType string, id uuid.UUID, body map[string]interface{}) (*models.Activity, error) {
	args := m.Called(ctx, companyID, activityType, id, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Activity), args.Error(1)
}

func (m *MockActivityService) Delete(ctx context.Context, companyID uuid.UUID, activityType string, id uuid.UUID) error {
	return m.Called(ctx, companyID, activityType, id).Error(0)
}

func (m *MockActivityService) ListByPeriod(ctx context.Context, companyID, periodID uuid.UUID) (map[catalog.ActivityType][]models.Activity, error) {
	args := m.Called(ctx, companyID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[catalog.ActivityType][]models.Activity), args.Error(1)
}

type MockCalculationService struct {
	mock.Mock
}

func (m *MockCalculationService) Record(ctx context.Context, companyID, periodID uuid.UUID, calculatedBy *uuid.UUID, in services.CalculationInput) (*models.CalculationResult, bool, error) {
	args := m.Called(ctx, companyID, periodID, calculatedBy, in)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.CalculationResult), args.Bool(1), args.Error(2)
}

func (m *MockCalculationService) List(ctx context.Context, companyID, periodID uuid.UUID) ([]models.CalculationResult, error) {
	args := m.Called(ctx, companyID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CalculationResult), args.Error(1)
}
