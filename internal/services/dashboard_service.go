package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/aurixon/api/internal/logger"
	"github.com/aurixon/api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Default alert thresholds.
const (
	DefaultHighEmissionThreshold    = 1000.0
	DefaultMonthlyIncreaseThreshold = 0.15
	DefaultScope1Threshold          = 500.0
	DefaultScope2Threshold          = 500.0
)

// TrendMonths is how far back the KPI trend reaches.
const TrendMonths = 12

// Alert severities.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// Benchmark rankings.
const (
	RankingTopQuartile    = "Top 25% (Low Emissions)"
	RankingBelowAverage   = "Below Average"
	RankingAboveAverage   = "Above Average"
	RankingBottomQuartile = "Top 75% (High Emissions)"
)

// GHGComposition holds summed gas masses in metric tons.
type GHGComposition struct {
	CO2 float64 `json:"co2"`
	CH4 float64 `json:"ch4"`
	N2O float64 `json:"n2o"`
}

// ActivityBreakdown is one activity type's share of the KPIs.
type ActivityBreakdown struct {
	ActivityType  string  `json:"activityType"`
	Emissions     float64 `json:"emissions"`
	ActivityCount int     `json:"activityCount"`
}

// TrendPoint is the emissions of periods starting in one month.
type TrendPoint struct {
	Month     string  `json:"month"`
	Emissions float64 `json:"emissions"`
}

// KPIs is the dashboard rollup for a company.
type KPIs struct {
	TotalEmissions    float64             `json:"totalEmissions"`
	GHGComposition    GHGComposition      `json:"ghgComposition"`
	ScopeBreakdown    map[string]float64  `json:"scopeBreakdown"`
	ActivityBreakdown []ActivityBreakdown `json:"activityBreakdown"`
	PeriodCount       int                 `json:"periodCount"`
	CalculationCount  int                 `json:"calculationCount"`
	Trends            []TrendPoint        `json:"trends"`
}

// IntensityInput holds the optional denominators for intensity ratios.
type IntensityInput struct {
	Revenue         *float64
	Employees       *float64
	SquareMeters    *float64
	ProductionUnits *float64
}

// Intensity holds the ratios whose denominator was usable.
type Intensity struct {
	PerRevenue        *float64 `json:"perRevenue,omitempty"`
	RevenueUnit       string   `json:"revenueUnit,omitempty"`
	PerEmployee       *float64 `json:"perEmployee,omitempty"`
	PerSquareMeter    *float64 `json:"perSquareMeter,omitempty"`
	PerProductionUnit *float64 `json:"perProductionUnit,omitempty"`
}

// IntensityResult is a period total with its intensity ratios.
type IntensityResult struct {
	TotalEmissions float64   `json:"totalEmissions"`
	Intensity      Intensity `json:"intensity"`
}

// AlertThresholds configures alert generation.
type AlertThresholds struct {
	HighEmission    float64
	MonthlyIncrease float64
	Scope1          float64
	Scope2          float64
}

// DefaultAlertThresholds returns the standard thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		HighEmission:    DefaultHighEmissionThreshold,
		MonthlyIncrease: DefaultMonthlyIncreaseThreshold,
		Scope1:          DefaultScope1Threshold,
		Scope2:          DefaultScope2Threshold,
	}
}

// Alert is one threshold breach of the latest period.
type Alert struct {
	AlertType  string  `json:"alertType"`
	Severity   string  `json:"severity"`
	Message    string  `json:"message"`
	PeriodName string  `json:"periodName"`
	Value      float64 `json:"value"`
	Threshold  float64 `json:"threshold"`
}

// Benchmark compares a company's period total with its industry.
type Benchmark struct {
	CompanyEmissions float64  `json:"companyEmissions"`
	Industry         string   `json:"industry"`
	IndustryAverage  float64  `json:"industryAverage"`
	IndustryMedian   float64  `json:"industryMedian"`
	Percentile25     float64  `json:"percentile25"`
	Percentile75     float64  `json:"percentile75"`
	CompanyCount     int      `json:"companyCount"`
	Ranking          string   `json:"ranking,omitempty"`
	PercentageDiff   *float64 `json:"percentageDiff,omitempty"`
}

// TargetInput describes a reduction target.
type TargetInput struct {
	BaselinePeriodID uuid.UUID
	BaselineYear     int
	TargetYear       int
	ReductionPercent float64
}

// TargetProgress reports progress toward a reduction target. Progress may
// be negative when emissions rose and above 100 when the target is beaten.
type TargetProgress struct {
	BaselineYear      int     `json:"baselineYear"`
	BaselineEmissions float64 `json:"baselineEmissions"`
	TargetYear        int     `json:"targetYear"`
	TargetEmissions   float64 `json:"targetEmissions"`
	ReductionPercent  float64 `json:"reductionPercent"`
	CurrentEmissions  float64 `json:"currentEmissions"`
	ReductionAchieved float64 `json:"reductionAchieved"`
	ReductionRequired float64 `json:"reductionRequired"`
	ProgressPercent   float64 `json:"progressPercent"`
	OnTrack           bool    `json:"onTrack"`
	YearsRemaining    int     `json:"yearsRemaining"`
}

// DashboardService computes the read-only dashboard analytics. Every
// figure is restricted to the asking company: a period of another company
// contributes nothing and yields zeroed results.
type DashboardService interface {
	// KPIs rolls up all of the company's results, or one period's.
	KPIs(ctx context.Context, companyID uuid.UUID, periodID *uuid.UUID) (*KPIs, error)

	// Intensity divides a period's total by each usable denominator.
	Intensity(ctx context.Context, companyID, periodID uuid.UUID, in IntensityInput) (*IntensityResult, error)

	// Alerts checks the company's latest period against th. A company
	// without periods has no alerts.
	Alerts(ctx context.Context, companyID uuid.UUID, th AlertThresholds) ([]Alert, error)

	// Benchmark compares a period total with other companies of the industry.
	Benchmark(ctx context.Context, companyID, periodID uuid.UUID, industry string) (*Benchmark, error)

	// TargetProgress measures the latest period against a baseline target.
	TargetProgress(ctx context.Context, companyID uuid.UUID, in TargetInput) (*TargetProgress, error)
}

type dashboardService struct {
	periods   repository.PeriodRepository
	emissions repository.EmissionsRepository
	log       *logger.Logger
	now       func() time.Time
}

// DashboardOption configures a DashboardService.
type DashboardOption func(*dashboardService)

// WithClock sets the time source used for trends and years remaining.
func WithClock(now func() time.Time) DashboardOption {
	return func(s *dashboardService) { s.now = now }
}

// NewDashboardService creates a new instance of DashboardService.
func NewDashboardService(periods repository.PeriodRepository, emissions repository.EmissionsRepository, log *logger.Logger, opts ...DashboardOption) DashboardService {
	s := &dashboardService{
		periods:   periods,
		emissions: emissions,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *dashboardService) KPIs(ctx context.Context, companyID uuid.UUID, periodID *uuid.UUID) (*KPIs, error) {
	var (
		totals  repository.EmissionTotals
		byType  []repository.ActivityTotal
		monthly []repository.MonthlyTotal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.emissions.Totals(gctx, companyID, periodID)
		return err
	})
	g.Go(func() error {
		var err error
		byType, err = s.emissions.ByActivityType(gctx, companyID, periodID)
		return err
	})
	g.Go(func() error {
		var err error
		monthly, err = s.emissions.MonthlyTrend(gctx, companyID, s.now().AddDate(0, -TrendMonths, 0))
		return err
	})
	log := s.log.ForCompany(companyID.String(), optionalID(periodID))
	if err := g.Wait(); err != nil {
		log.Error("Failed to compute KPIs", err, nil)
		return nil, fmt.Errorf("failed to compute KPIs: %w", err)
	}

	kpis := &KPIs{
		TotalEmissions: totals.Total,
		GHGComposition: GHGComposition{
			CO2: totals.CO2,
			CH4: totals.CH4,
			N2O: totals.N2O,
		},
		ScopeBreakdown:    FoldScopes(byType),
		ActivityBreakdown: make([]ActivityBreakdown, 0, len(byType)),
		PeriodCount:       totals.PeriodCount,
		CalculationCount:  totals.CalculationCount,
		Trends:            make([]TrendPoint, 0, len(monthly)),
	}
	for _, t := range byType {
		kpis.ActivityBreakdown = append(kpis.ActivityBreakdown, ActivityBreakdown{
			ActivityType:  t.ActivityType,
			Emissions:     t.Emissions,
			ActivityCount: t.Count,
		})
	}
	for _, m := range monthly {
		kpis.Trends = append(kpis.Trends, TrendPoint{
			Month:     m.Month.Format("2006-01"),
			Emissions: m.Emissions,
		})
	}

	log.Info("KPIs computed", map[string]interface{}{
		"total":        kpis.TotalEmissions,
		"calculations": kpis.CalculationCount,
	})
	return kpis, nil
}

// optionalID renders an optional period filter for log context.
func optionalID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// ratio divides total by a denominator that was supplied, is finite and
// is positive. Otherwise it returns nil.
func ratio(total float64, denominator *float64) *float64 {
	if denominator == nil {
		return nil
	}
	d := *denominator
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return nil
	}
	r := total / d
	return &r
}

func (s *dashboardService) Intensity(ctx context.Context, companyID, periodID uuid.UUID, in IntensityInput) (*IntensityResult, error) {
	total, err := s.emissions.PeriodTotal(ctx, companyID, periodID)
	if err != nil {
		s.log.ForCompany(companyID.String(), periodID.String()).Error("Failed to load period total", err, nil)
		return nil, fmt.Errorf("failed to load period total: %w", err)
	}

	res := &IntensityResult{
		TotalEmissions: total,
		Intensity: Intensity{
			PerRevenue:        ratio(total, in.Revenue),
			PerEmployee:       ratio(total, in.Employees),
			PerSquareMeter:    ratio(total, in.SquareMeters),
			PerProductionUnit: ratio(total, in.ProductionUnits),
		},
	}
	if res.Intensity.PerRevenue != nil {
		res.Intensity.RevenueUnit = "$1M"
	}
	return res, nil
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func (s *dashboardService) Alerts(ctx context.Context, companyID uuid.UUID, th AlertThresholds) ([]Alert, error) {
	alerts := []Alert{}

	latest, err := s.periods.FindLatest(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest period: %w", err)
	}
	if latest == nil {
		return alerts, nil
	}

	total, err := s.emissions.PeriodTotal(ctx, companyID, latest.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest period total: %w", err)
	}

	if total > th.HighEmission {
		alerts = append(alerts, Alert{
			AlertType: "High Emissions Detected",
			Severity:  SeverityHigh,
			Message: fmt.Sprintf("Total emissions of %s MT CO2e exceed threshold of %s MT CO2e",
				fixed(total, 2), decimal.NewFromFloat(th.HighEmission).String()),
			PeriodName: latest.PeriodName,
			Value:      total,
			Threshold:  th.HighEmission,
		})
	}

	previous, err := s.periods.FindPrevious(ctx, companyID, latest.StartDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load previous period: %w", err)
	}
	if previous != nil {
		prevTotal, err := s.emissions.PeriodTotal(ctx, companyID, previous.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load previous period total: %w", err)
		}
		if prevTotal > 0 {
			increase := (total - prevTotal) / prevTotal
			if increase > th.MonthlyIncrease {
				alerts = append(alerts, Alert{
					AlertType:  "Significant Increase Detected",
					Severity:   SeverityMedium,
					Message:    fmt.Sprintf("Emissions increased by %s%% from previous period", fixed(increase*100, 1)),
					PeriodName: latest.PeriodName,
					Value:      increase,
					Threshold:  th.MonthlyIncrease,
				})
			}
		}
	}

	byType, err := s.emissions.ByActivityType(ctx, companyID, &latest.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest period breakdown: %w", err)
	}
	scopes := FoldScopes(byType)
	for _, check := range []struct {
		scope     string
		threshold float64
	}{
		{Scope1, th.Scope1},
		{Scope2, th.Scope2},
	} {
		emissions := scopes[check.scope]
		if emissions > check.threshold {
			alerts = append(alerts, Alert{
				AlertType: check.scope + " Threshold Exceeded",
				Severity:  SeverityMedium,
				Message: fmt.Sprintf("%s emissions of %s MT CO2e exceed threshold",
					check.scope, fixed(emissions, 2)),
				PeriodName: latest.PeriodName,
				Value:      emissions,
				Threshold:  check.threshold,
			})
		}
	}

	s.log.ForCompany(companyID.String(), latest.ID.String()).Info("Alerts generated", map[string]interface{}{
		"count": len(alerts),
	})
	return alerts, nil
}

// rank places value in the industry quartiles.
func rank(value float64, stats repository.IndustryStats) string {
	switch {
	case value < stats.P25:
		return RankingTopQuartile
	case value < stats.Median:
		return RankingBelowAverage
	case value < stats.P75:
		return RankingAboveAverage
	default:
		return RankingBottomQuartile
	}
}

func (s *dashboardService) Benchmark(ctx context.Context, companyID, periodID uuid.UUID, industry string) (*Benchmark, error) {
	if industry == "" {
		return nil, NewValidationError("Required field missing: industry")
	}

	var (
		total float64
		stats repository.IndustryStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.emissions.PeriodTotal(gctx, companyID, periodID)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.emissions.IndustryDistribution(gctx, industry, companyID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.ForCompany(companyID.String(), periodID.String()).Error("Failed to compute benchmark", err, map[string]interface{}{
			"industry": industry,
		})
		return nil, fmt.Errorf("failed to compute benchmark: %w", err)
	}

	b := &Benchmark{
		CompanyEmissions: total,
		Industry:         industry,
		IndustryAverage:  stats.Average,
		IndustryMedian:   stats.Median,
		Percentile25:     stats.P25,
		Percentile75:     stats.P75,
		CompanyCount:     stats.Count,
	}
	if stats.Median != 0 {
		b.Ranking = rank(total, stats)
		if stats.Average != 0 {
			diff, _ := decimal.NewFromFloat((total - stats.Average) / stats.Average * 100).Round(1).Float64()
			b.PercentageDiff = &diff
		}
	}
	return b, nil
}

func (s *dashboardService) TargetProgress(ctx context.Context, companyID uuid.UUID, in TargetInput) (*TargetProgress, error) {
	baseline, err := s.emissions.PeriodTotal(ctx, companyID, in.BaselinePeriodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline total: %w", err)
	}

	var current float64
	latest, err := s.periods.FindLatest(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest period: %w", err)
	}
	if latest != nil {
		current, err = s.emissions.PeriodTotal(ctx, companyID, latest.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load current total: %w", err)
		}
	}

	p := ComputeTargetProgress(in, baseline, current, s.now())

	s.log.ForCompany(companyID.String(), in.BaselinePeriodID.String()).Info("Target progress computed", map[string]interface{}{
		"progress": p.ProgressPercent,
		"on_track": p.OnTrack,
	})
	return p, nil
}

// ComputeTargetProgress applies the target arithmetic to known totals.
func ComputeTargetProgress(in TargetInput, baseline, current float64, now time.Time) *TargetProgress {
	target := baseline * (1 - in.ReductionPercent/100)
	achieved := baseline - current
	required := baseline - target

	var progress float64
	if required > 0 {
		progress = achieved / required * 100
	}

	return &TargetProgress{
		BaselineYear:      in.BaselineYear,
		BaselineEmissions: baseline,
		TargetYear:        in.TargetYear,
		TargetEmissions:   target,
		ReductionPercent:  in.ReductionPercent,
		CurrentEmissions:  current,
		ReductionAchieved: achieved,
		ReductionRequired: required,
		ProgressPercent:   progress,
		OnTrack:           progress >= 50,
		YearsRemaining:    in.TargetYear - now.Year(),
	}
}
