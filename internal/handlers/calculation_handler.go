package handlers

import (
	"net/http"

	"github.com/aurixon/api/internal/models"
	"github.com/aurixon/api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CalculationHandler receives results from the emissions calculator.
type CalculationHandler struct {
	service services.CalculationService
}

// NewCalculationHandler creates a new CalculationHandler instance.
func NewCalculationHandler(service services.CalculationService) *CalculationHandler {
	return &CalculationHandler{service: service}
}

// CalculationRequest is one calculated activity.
type CalculationRequest struct {
	ActivityType string                 `json:"activity_type" binding:"required"`
	ActivityID   string                 `json:"activity_id" binding:"required,uuid"`
	Result       *models.EmissionResult `json:"result" binding:"required"`
	InputData    map[string]interface{} `json:"input_data"`
}

// Record handles PUT .../reporting-periods/:periodId/calculations. A
// result for an activity that already has one replaces it.
func (h *CalculationHandler) Record(c *gin.Context) {
	companyID, periodID, ok := companyAndPeriod(c)
	if !ok {
		return
	}
	var req CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, created, err := h.service.Record(c.Request.Context(), companyID, periodID, userID(c), services.CalculationInput{
		ActivityType: req.ActivityType,
		ActivityID:   uuid.MustParse(req.ActivityID),
		Result:       *req.Result,
		InputData:    req.InputData,
	})
	if err != nil {
		serviceError(c, err, "Failed to store calculation result")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	success(c, status, gin.H{"calculation": res})
}

// List handles GET .../reporting-periods/:periodId/calculations.
func (h *CalculationHandler) List(c *gin.Context) {
	companyID, periodID, ok := companyAndPeriod(c)
	if !ok {
		return
	}
	results, err := h.service.List(c.Request.Context(), companyID, periodID)
	if err != nil {
		serviceError(c, err, "Failed to list calculation results")
		return
	}
	if results == nil {
		results = []models.CalculationResult{}
	}
	success(c, http.StatusOK, gin.H{"calculations": results, "count": len(results)})
}
