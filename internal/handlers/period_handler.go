package handlers

import (
	"net/http"
	"time"

	"github.com/aurixon/api/internal/models"
	"github.com/aurixon/api/internal/services"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// PeriodHandler serves reporting period CRUD and the per-period activity view.
type PeriodHandler struct {
	periods    services.PeriodService
	activities services.ActivityService
}

// NewPeriodHandler creates a new PeriodHandler instance.
func NewPeriodHandler(periods services.PeriodService, activities services.ActivityService) *PeriodHandler {
	return &PeriodHandler{periods: periods, activities: activities}
}

// PeriodRequest is the body of create and update calls. Dates are
// YYYY-MM-DD.
type PeriodRequest struct {
	PeriodName        string `json:"period_name" binding:"required,max=255"`
	StartDate         string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate           string `json:"end_date" binding:"required,datetime=2006-01-02"`
	PeriodType        string `json:"period_type" binding:"omitempty,oneof=annual quarterly monthly custom"`
	ReportingStandard string `json:"reporting_standard" binding:"max=100"`
	Status            string `json:"status" binding:"omitempty,oneof=draft active closed"`
}

func (r PeriodRequest) input() services.PeriodInput {
	start, _ := time.Parse(dateLayout, r.StartDate)
	end, _ := time.Parse(dateLayout, r.EndDate)
	return services.PeriodInput{
		PeriodName:        r.PeriodName,
		StartDate:         start,
		EndDate:           end,
		PeriodType:        models.PeriodType(r.PeriodType),
		ReportingStandard: r.ReportingStandard,
		Status:            models.PeriodStatus(r.Status),
	}
}

// Create handles POST /api/v1/companies/:companyId/reporting-periods.
func (h *PeriodHandler) Create(c *gin.Context) {
	companyID, ok := uuidParam(c, "companyId")
	if !ok {
		return
	}
	var req PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.periods.Create(c.Request.Context(), companyID, req.input())
	if err != nil {
		serviceError(c, err, "Failed to create reporting period")
		return
	}
	success(c, http.StatusCreated, gin.H{"reportingPeriod": p})
}

// List handles GET /api/v1/companies/:companyId/reporting-periods.
func (h *PeriodHandler) List(c *gin.Context) {
	companyID, ok := uuidParam(c, "companyId")
	if !ok {
		return
	}
	periods, err := h.periods.List(c.Request.Context(), companyID)
	if err != nil {
		serviceError(c, err, "Failed to list reporting periods")
		return
	}
	if periods == nil {
		periods = []models.ReportingPeriod{}
	}
	success(c, http.StatusOK, gin.H{"reportingPeriods": periods, "count": len(periods)})
}

// Get handles GET /api/v1/companies/:companyId/reporting-periods/:periodId.
func (h *PeriodHandler) Get(c *gin.Context) {
	companyID, periodID, ok := companyAndPeriod(c)
	if !ok {
		return
	}
	p, err := h.periods.Get(c.Request.Context(), companyID, periodID)
	if err != nil {
		serviceError(c, err, "Failed to load reporting period")
		return
	}
	success(c, http.StatusOK, gin.H{"reportingPeriod": p})
}

// Update handles PUT /api/v1/companies/:companyId/reporting-periods/:periodId.
func (h *PeriodHandler) Update(c *gin.Context) {
	companyID, periodID, ok := companyAndPeriod(c)
	if !ok {
		return
	}
	var req PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.periods.Update(c.Request.Context(), companyID, periodID, req.input())
	if err != nil {
		serviceError(c, err, "Failed to update reporting period")
		return
	}
	success(c, http.StatusOK, gin.H{"reportingPeriod": p})
}

// Delete handles DELETE /api/v1/companies/:companyId/reporting-periods/:periodId.
func (h *PeriodHandler) Delete(c *gin.Context) {
	companyID, periodID, ok := companyAndPeriod(c)
	if !ok {
		return
	}
	if err := h.periods.Delete(c.Request.Context(), companyID, periodID); err != nil {
		serviceError(c, err, "Failed to delete reporting period")
		return
	}
	success(c, http.StatusOK, gin.H{"message": "Reporting period deleted"})
}

// Activities handles GET .../reporting-periods/:periodId/activities and
// returns every activity of the period grouped by type.
func (h *PeriodHandler) Activities(c *gin.Context) {
	companyID, periodID, ok := companyAndPeriod(c)
	if !ok {
		return
	}
	byType, err := h.activities.ListByPeriod(c.Request.Context(), companyID, periodID)
	if err != nil {
		serviceError(c, err, "Failed to list period activities")
		return
	}

	total := 0
	for _, list := range byType {
		total += len(list)
	}
	success(c, http.StatusOK, gin.H{
		"reportingPeriodId": periodID,
		"activities":        byType,
		"count":             total,
	})
}
