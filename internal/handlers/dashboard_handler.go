package handlers

import (
	"net/http"

	"github.com/aurixon/api/internal/middleware"
	"github.com/aurixon/api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DashboardHandler serves the analytics endpoints.
type DashboardHandler struct {
	service services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler instance.
func NewDashboardHandler(service services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// KPIsRequest holds the query parameters of the KPI endpoint.
type KPIsRequest struct {
	PeriodID string `form:"periodId" binding:"omitempty,uuid"`
}

// IntensityRequest holds the optional intensity denominators.
type IntensityRequest struct {
	Revenue         *float64 `json:"revenue"`
	Employees       *float64 `json:"employees"`
	SquareMeters    *float64 `json:"squareMeters"`
	ProductionUnits *float64 `json:"productionUnits"`
}

// AlertsRequest overrides the default alert thresholds.
type AlertsRequest struct {
	HighEmissionThreshold    *float64 `json:"highEmissionThreshold" binding:"omitempty,gte=0"`
	MonthlyIncreaseThreshold *float64 `json:"monthlyIncreaseThreshold" binding:"omitempty,gte=0"`
	Scope1Threshold          *float64 `json:"scope1Threshold" binding:"omitempty,gte=0"`
	Scope2Threshold          *float64 `json:"scope2Threshold" binding:"omitempty,gte=0"`
}

// BenchmarkRequest holds the query parameters of the benchmark endpoint.
type BenchmarkRequest struct {
	Industry string `form:"industry" binding:"required"`
}

// TargetProgressRequest describes a reduction target.
type TargetProgressRequest struct {
	BaselinePeriodID string  `json:"baselinePeriodId" binding:"required,uuid"`
	BaselineYear     int     `json:"baselineYear" binding:"required,gte=1900"`
	TargetYear       int     `json:"targetYear" binding:"required,gtefield=BaselineYear"`
	ReductionPercent float64 `json:"reductionPercent" binding:"gte=0,lte=100"`
}

// KPIs handles GET /api/v1/dashboard/kpis/:companyId.
func (h *DashboardHandler) KPIs(c *gin.Context) {
	companyID, ok := uuidParam(c, "companyId")
	if !ok {
		return
	}
	var req KPIsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	var periodID *uuid.UUID
	if req.PeriodID != "" {
		id := uuid.MustParse(req.PeriodID)
		periodID = &id
	}

	kpis, err := h.service.KPIs(c.Request.Context(), companyID, periodID)
	if err != nil {
		serviceError(c, err, "Failed to get KPIs")
		return
	}
	success(c, http.StatusOK, gin.H{"kpis": kpis})
}

// Intensity handles POST /api/v1/dashboard/intensity/:companyId/:periodId.
func (h *DashboardHandler) Intensity(c *gin.Context) {
	companyID, periodID, ok := companyAndPeriod(c)
	if !ok {
		return
	}
	var req IntensityRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	res, err := h.service.Intensity(c.Request.Context(), companyID, periodID, services.IntensityInput{
		Revenue:         req.Revenue,
		Employees:       req.Employees,
		SquareMeters:    req.SquareMeters,
		ProductionUnits: req.ProductionUnits,
	})
	if err != nil {
		serviceError(c, err, "Failed to calculate emissions intensity")
		return
	}
	success(c, http.StatusOK, gin.H{"intensity": res})
}

// Alerts handles POST /api/v1/dashboard/alerts/:companyId.
func (h *DashboardHandler) Alerts(c *gin.Context) {
	companyID, ok := uuidParam(c, "companyId")
	if !ok {
		return
	}
	var req AlertsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	th := services.DefaultAlertThresholds()
	if req.HighEmissionThreshold != nil {
		th.HighEmission = *req.HighEmissionThreshold
	}
	if req.MonthlyIncreaseThreshold != nil {
		th.MonthlyIncrease = *req.MonthlyIncreaseThreshold
	}
	if req.Scope1Threshold != nil {
		th.Scope1 = *req.Scope1Threshold
	}
	if req.Scope2Threshold != nil {
		th.Scope2 = *req.Scope2Threshold
	}

	alerts, err := h.service.Alerts(c.Request.Context(), companyID, th)
	if err != nil {
		serviceError(c, err, "Failed to generate alerts")
		return
	}
	success(c, http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

// Benchmark handles GET /api/v1/dashboard/benchmark/:companyId/:periodId.
func (h *DashboardHandler) Benchmark(c *gin.Context) {
	companyID, periodID, ok := companyAndPeriod(c)
	if !ok {
		return
	}
	var req BenchmarkRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	b, err := h.service.Benchmark(c.Request.Context(), companyID, periodID, req.Industry)
	if err != nil {
		serviceError(c, err, "Failed to get benchmark comparison")
		return
	}
	success(c, http.StatusOK, gin.H{"benchmark": b})
}

// TargetProgress handles POST /api/v1/dashboard/target-progress/:companyId.
func (h *DashboardHandler) TargetProgress(c *gin.Context) {
	companyID, ok := uuidParam(c, "companyId")
	if !ok {
		return
	}
	var req TargetProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Computing target progress", map[string]interface{}{
			"baseline_period_id": req.BaselinePeriodID,
			"target_year":        req.TargetYear,
		})
	}

	p, err := h.service.TargetProgress(c.Request.Context(), companyID, services.TargetInput{
		BaselinePeriodID: uuid.MustParse(req.BaselinePeriodID),
		BaselineYear:     req.BaselineYear,
		TargetYear:       req.TargetYear,
		ReductionPercent: req.ReductionPercent,
	})
	if err != nil {
		serviceError(c, err, "Failed to get target progress")
		return
	}
	success(c, http.StatusOK, gin.H{"progress": p})
}
