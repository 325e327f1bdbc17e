package handlers

import (
	"net/http"

	apierrors "github.com/aurixon/api/internal/errors"
	"github.com/aurixon/api/internal/models"
	"github.com/aurixon/api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivityHandler serves raw activity entries. The :activityType path
// parameter accepts hyphens or underscores.
type ActivityHandler struct {
	service services.ActivityService
}

// NewActivityHandler creates a new ActivityHandler instance.
func NewActivityHandler(service services.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// ListActivitiesRequest holds the query parameters of the list endpoint.
type ListActivitiesRequest struct {
	ReportingPeriodID string `form:"reportingPeriodId" binding:"omitempty,uuid"`
}

func bindBody(c *gin.Context) (map[string]interface{}, bool) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil || body == nil {
		apierrors.BadRequest(c, "Request body must be a JSON object", nil)
		return nil, false
	}
	return body, true
}

// Create handles POST /api/v1/companies/:companyId/activities/:activityType.
func (h *ActivityHandler) Create(c *gin.Context) {
	companyID, ok := uuidParam(c, "companyId")
	if !ok {
		return
	}
	body, ok := bindBody(c)
	if !ok {
		return
	}

	// The token subject is recorded as the author
	a, err := h.service.Create(c.Request.Context(), companyID, userID(c), c.Param("activityType"), body)
	if err != nil {
		serviceError(c, err, "Failed to create activity")
		return
	}
	success(c, http.StatusCreated, gin.H{"activity": a})
}

// List handles GET /api/v1/companies/:companyId/activities/:activityType.
func (h *ActivityHandler) List(c *gin.Context) {
	companyID, ok := uuidParam(c, "companyId")
	if !ok {
		return
	}
	// Bind and validate query parameters
	var req ListActivitiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	var periodID *uuid.UUID
	if req.ReportingPeriodID != "" {
		id := uuid.MustParse(req.ReportingPeriodID)
		periodID = &id
	}

	list, err := h.service.List(c.Request.Context(), companyID, c.Param("activityType"), periodID)
	if err != nil {
		serviceError(c, err, "Failed to list activities")
		return
	}
	// Always an array in the response
	if list == nil {
		list = []models.Activity{}
	}
	success(c, http.StatusOK, gin.H{"activities": list, "count": len(list)})
}

// Get handles GET /api/v1/companies/:companyId/activities/:activityType/:id.
func (h *ActivityHandler) Get(c *gin.Context) {
	companyID, ok := uuidParam(c, "companyId")
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	a, err := h.service.Get(c.Request.Context(), companyID, c.Param("activityType"), id)
	if err != nil {
		serviceError(c, err, "Failed to load activity")
		return
	}
	success(c, http.StatusOK, gin.H{"activity": a})
}

// Update handles PUT /api/v1/companies/:companyId/activities/:activityType/:id.
func (h *ActivityHandler) Update(c *gin.Context) {
	companyID, ok := uuidParam(c, "companyId")
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	body, ok := bindBody(c)
	if !ok {
		return
	}

	a, err := h.service.Update(c.Request.Context(), companyID, c.Param("activityType"), id, body)
	if err != nil {
		serviceError(c, err, "Failed to update activity")
		return
	}
	success(c, http.StatusOK, gin.H{"activity": a})
}

// Delete handles DELETE /api/v1/companies/:companyId/activities/:activityType/:id.
func (h *ActivityHandler) Delete(c *gin.Context) {
	companyID, ok := uuidParam(c, "companyId")
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), companyID, c.Param("activityType"), id); err != nil {
		serviceError(c, err, "Failed to delete activity")
		return
	}
	success(c, http.StatusOK, gin.H{"message": "Activity deleted"})
}
