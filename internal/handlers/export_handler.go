package handlers

import (
	"net/http"
	"time"

	apierrors "github.com/aurixon/api/internal/errors"
	"github.com/aurixon/api/internal/middleware"
	"github.com/aurixon/api/internal/report"
	"github.com/aurixon/api/internal/services"
	"github.com/gin-gonic/gin"
)

// ExportHandler serves paid report downloads and emailed reports.
type ExportHandler struct {
	service services.ExportService
}

// NewExportHandler creates a new ExportHandler instance.
func NewExportHandler(service services.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// ExportQuery selects report sections and optional scoring metrics.
// Sections default to included.
type ExportQuery struct {
	IncludeDetails   *bool    `form:"includeDetails" json:"includeDetails"`
	IncludeBreakdown *bool    `form:"includeBreakdown" json:"includeBreakdown"`
	Employees        *float64 `form:"employees" json:"employees" binding:"omitempty,gt=0"`
	Revenue          *float64 `form:"revenue" json:"revenue" binding:"omitempty,gt=0"`
}

func (q ExportQuery) options(f report.Format) services.ExportOptions {
	opts := services.ExportOptions{
		Format: f,
		Report: report.DefaultOptions(),
		Metrics: services.CompanyMetrics{
			Employees: q.Employees,
			Revenue:   q.Revenue,
		},
	}
	if q.IncludeDetails != nil {
		opts.Report.IncludeDetails = *q.IncludeDetails
	}
	if q.IncludeBreakdown != nil {
		opts.Report.IncludeBreakdown = *q.IncludeBreakdown
	}
	return opts
}

// EmailRequest is the body of the email endpoint.
type EmailRequest struct {
	RecipientEmail string `json:"recipientEmail" binding:"required,email"`
	Format         string `json:"format"`
	ExportQuery
}

// CleanupRequest holds the query parameters of the cleanup endpoint.
type CleanupRequest struct {
	MaxAgeHours int `form:"maxAgeHours" binding:"omitempty,gt=0"`
}

const defaultMaxAgeHours = 24

// Download returns the handler for GET .../exports/<format>/:periodId.
// The artifact is removed once the response has been written.
func (h *ExportHandler) Download(f report.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, periodID, ok := companyAndPeriod(c)
		if !ok {
			return
		}
		// Bind and validate query parameters
		var q ExportQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			bindError(c, err)
			return
		}

		// Call service layer
		a, err := h.service.Generate(c.Request.Context(), companyID, periodID, q.options(f))
		if err != nil {
			serviceError(c, err, "Failed to generate report")
			return
		}
		defer h.service.Release(a)

		if log := middleware.GetLogger(c); log != nil {
			log.Info("Streaming report", map[string]interface{}{
				"period_id": periodID,
				"format":    string(f),
				"filename":  a.Filename,
			})
		}

		// Stream the artifact as an attachment
		c.Header("Content-Type", a.ContentType)
		c.FileAttachment(a.Path, a.Filename)
	}
}

// Email handles POST .../exports/email/:periodId.
func (h *ExportHandler) Email(c *gin.Context) {
	companyID, periodID, ok := companyAndPeriod(c)
	if !ok {
		return
	}
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	// Emailed reports default to PDF
	f := report.FormatPDF
	if req.Format != "" {
		parsed, ok := report.ParseFormat(req.Format)
		if !ok {
			apierrors.BadRequest(c, "Invalid format. Must be pdf, csv, or excel", nil)
			return
		}
		f = parsed
	}

	if _, err := h.service.Email(c.Request.Context(), companyID, periodID, req.RecipientEmail, req.options(f)); err != nil {
		serviceError(c, err, "Failed to send report via email")
		return
	}
	success(c, http.StatusOK, gin.H{"message": "Report sent to " + req.RecipientEmail})
}

// Cleanup handles DELETE .../exports/cleanup.
func (h *ExportHandler) Cleanup(c *gin.Context) {
	var req CleanupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.MaxAgeHours == 0 {
		req.MaxAgeHours = defaultMaxAgeHours
	}

	removed, err := h.service.Cleanup(time.Duration(req.MaxAgeHours) * time.Hour)
	if err != nil {
		serviceError(c, err, "Failed to clean up exports")
		return
	}
	success(c, http.StatusOK, gin.H{
		"message": "Old exports cleaned up successfully",
		"removed": removed,
	})
}
