package services

import (
	"context"
	"time"

	"github.com/aurixon/api/internal/catalog"
	"github.com/aurixon/api/internal/mailer"
	"github.com/aurixon/api/internal/models"
	"github.com/aurixon/api/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPeriodRepository is a mock implementation of PeriodRepository for testing
type MockPeriodRepository struct {
	mock.Mock
}

func periodOrNil(args mock.Arguments) (*models.ReportingPeriod, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReportingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) Create(ctx context.Context, p *models.ReportingPeriod) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPeriodRepository) FindByID(ctx context.Context, companyID, periodID uuid.UUID) (*models.ReportingPeriod, error) {
	return periodOrNil(m.Called(ctx, companyID, periodID))
}

func (m *MockPeriodRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.ReportingPeriod, error) {
	args := m.Called(ctx, companyID)
	list, _ := args.Get(0).([]models.ReportingPeriod)
	return list, args.Error(1)
}

func (m *MockPeriodRepository) Update(ctx context.Context, p *models.ReportingPeriod) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockPeriodRepository) Delete(ctx context.Context, companyID, periodID uuid.UUID) (bool, error) {
	args := m.Called(ctx, companyID, periodID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPeriodRepository) FindLatest(ctx context.Context, companyID uuid.UUID) (*models.ReportingPeriod, error) {
	return periodOrNil(m.Called(ctx, companyID))
}

func (m *MockPeriodRepository) FindPrevious(ctx context.Context, companyID uuid.UUID, before time.Time) (*models.ReportingPeriod, error) {
	return periodOrNil(m.Called(ctx, companyID, before))
}

// MockBoundaryRepository is a mock implementation of BoundaryRepository for testing
type MockBoundaryRepository struct {
	mock.Mock
}

func (m *MockBoundaryRepository) Get(ctx context.Context, periodID uuid.UUID) (*models.BoundaryQuestions, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BoundaryQuestions), args.Error(1)
}

func (m *MockBoundaryRepository) Upsert(ctx context.Context, periodID uuid.UUID, flags models.BoundaryFlags) (*models.BoundaryQuestions, bool, error) {
	args := m.Called(ctx, periodID, flags)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.BoundaryQuestions), args.Bool(1), args.Error(2)
}

// MockActivityRepository is a mock implementation of ActivityRepository for testing
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, v catalog.Variant, a *models.Activity) error {
	args := m.Called(ctx, v.Type, a)
	return args.Error(0)
}

func (m *MockActivityRepository) FindByID(ctx context.Context, v catalog.Variant, companyID, id uuid.UUID) (*models.Activity, error) {
	args := m.Called(ctx, v.Type, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Activity), args.Error(1)
}

func (m *MockActivityRepository) List(ctx context.Context, v catalog.Variant, companyID uuid.UUID, periodID *uuid.UUID) ([]models.Activity, error) {
	args := m.Called(ctx, v.Type, companyID, periodID)
	list, _ := args.Get(0).([]models.Activity)
	return list, args.Error(1)
}

func (m *MockActivityRepository) Update(ctx context.Context, v catalog.Variant, a *models.Activity) (bool, error) {
	args := m.Called(ctx, v.Type, a)
	return args.Bool(0), args.Error(1)
}

func (m *MockActivityRepository) Delete(ctx context.Context, v catalog.Variant, companyID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, v.Type, companyID, id)
	return args.Bool(0), args.Error(1)
}

// MockCalculationRepository is a mock implementation of CalculationRepository for testing
type MockCalculationRepository struct {
	mock.Mock
}

func (m *MockCalculationRepository) Upsert(ctx context.Context, res *models.CalculationResult) (bool, error) {
	args := m.Called(ctx, res)
	return args.Bool(0), args.Error(1)
}

func (m *MockCalculationRepository) ListByPeriod(ctx context.Context, companyID, periodID uuid.UUID) ([]models.CalculationResult, error) {
	args := m.Called(ctx, companyID, periodID)
	list, _ := args.Get(0).([]models.CalculationResult)
	return list, args.Error(1)
}

// MockEmissionsRepository is a mock implementation of EmissionsRepository for testing
type MockEmissionsRepository struct {
	mock.Mock
}

func (m *MockEmissionsRepository) Totals(ctx context.Context, companyID uuid.UUID, periodID *uuid.UUID) (repository.EmissionTotals, error) {
	args := m.Called(ctx, companyID, periodID)
	return args.Get(0).(repository.EmissionTotals), args.Error(1)
}

func (m *MockEmissionsRepository) ByActivityType(ctx context.Context, companyID uuid.UUID, periodID *uuid.UUID) ([]repository.ActivityTotal, error) {
	args := m.Called(ctx, companyID, periodID)
	list, _ := args.Get(0).([]repository.ActivityTotal)
	return list, args.Error(1)
}

func (m *MockEmissionsRepository) MonthlyTrend(ctx context.Context, companyID uuid.UUID, since time.Time) ([]repository.MonthlyTotal, error) {
	args := m.Called(ctx, companyID, since)
	list, _ := args.Get(0).([]repository.MonthlyTotal)
	return list, args.Error(1)
}

func (m *MockEmissionsRepository) PeriodTotal(ctx context.Context, companyID, periodID uuid.UUID) (float64, error) {
	args := m.Called(ctx, companyID, periodID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockEmissionsRepository) IndustryDistribution(ctx context.Context, industry string, excludeCompanyID uuid.UUID) (repository.IndustryStats, error) {
	args := m.Called(ctx, industry, excludeCompanyID)
	return args.Get(0).(repository.IndustryStats), args.Error(1)
}

// MockCompanyRepository is a mock implementation of CompanyRepository for testing
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

// MockPaymentRepository is a mock implementation of PaymentRepository for testing
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) IsPaid(ctx context.Context, companyID, periodID uuid.UUID) (bool, error) {
	args := m.Called(ctx, companyID, periodID)
	return args.Bool(0), args.Error(1)
}

// MockSender is a mock implementation of mailer.Sender for testing
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
