package handlers

import (
	"net/http"

	apierrors "github.com/aurixon/api/internal/errors"
	"github.com/aurixon/api/internal/services"
	"github.com/gin-gonic/gin"
)

// BoundaryHandler serves the boundary questionnaire of a reporting period.
type BoundaryHandler struct {
	service services.BoundaryService
}

// NewBoundaryHandler creates a new BoundaryHandler instance.
func NewBoundaryHandler(service services.BoundaryService) *BoundaryHandler {
	return &BoundaryHandler{service: service}
}

// Set handles POST .../reporting-periods/:periodId/boundary-questions.
// The body is a flat object of boolean answers. It answers 201 when the
// record is created and 200 when an existing one is updated.
func (h *BoundaryHandler) Set(c *gin.Context) {
	companyID, periodID, ok := companyAndPeriod(c)
	if !ok {
		return
	}

	var answers map[string]bool
	if err := c.ShouldBindJSON(&answers); err != nil {
		apierrors.BadRequest(c, "Boundary answers must be an object of boolean values", nil)
		return
	}
	if len(answers) == 0 {
		apierrors.BadRequest(c, "At least one boundary answer is required", nil)
		return
	}

	flags, created, err := h.service.SetAnswers(c.Request.Context(), companyID, periodID, answers)
	if err != nil {
		serviceError(c, err, "Failed to save boundary questions")
		return
	}

	status, message := http.StatusOK, "Boundary questions updated"
	if created {
		status, message = http.StatusCreated, "Boundary questions created"
	}
	success(c, status, gin.H{
		"message":           message,
		"boundaryQuestions": flags,
	})
}

// Get handles GET .../reporting-periods/:periodId/boundary-questions.
func (h *BoundaryHandler) Get(c *gin.Context) {
	companyID, periodID, ok := companyAndPeriod(c)
	if !ok {
		return
	}

	flags, err := h.service.GetAnswers(c.Request.Context(), companyID, periodID)
	if err != nil {
		serviceError(c, err, "Failed to load boundary questions")
		return
	}
	success(c, http.StatusOK, gin.H{"boundaryQuestions": flags})
}

// Summary handles GET .../reporting-periods/:periodId/boundary-summary.
func (h *BoundaryHandler) Summary(c *gin.Context) {
	companyID, periodID, ok := companyAndPeriod(c)
	if !ok {
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), companyID, periodID)
	if err != nil {
		serviceError(c, err, "Failed to summarise boundary questions")
		return
	}
	success(c, http.StatusOK, gin.H{
		"reportingPeriodId": periodID,
		"summary":           summary,
	})
}
