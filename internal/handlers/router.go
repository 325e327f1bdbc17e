package handlers

import (
	"github.com/aurixon/api/internal/middleware"
	"github.com/aurixon/api/internal/models"
	"github.com/aurixon/api/internal/report"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every handler mounted by Register.
type Handlers struct {
	Health      *HealthHandler
	Dashboard   *DashboardHandler
	Export      *ExportHandler
	Boundary    *BoundaryHandler
	Period      *PeriodHandler
	Activity    *ActivityHandler
	Calculation *CalculationHandler
	Reference   *ReferenceHandler
}

// Register mounts the health endpoints and the authenticated /api/v1 routes.
func Register(router *gin.Engine, h Handlers, jwtSecret string) {
	router.GET("/health", h.Health.Health)
	router.GET("/health/ready", h.Health.Ready)
	router.GET("/api/v1/info", h.Health.Info)

	viewer := middleware.RequireRole(models.RoleViewer)
	editor := middleware.RequireRole(models.RoleEditor)
	companyAdmin := middleware.RequireRole(models.RoleCompanyAdmin)
	internalAdmin := middleware.RequireRole(models.RoleInternalAdmin)

	v1 := router.Group("/api/v1", middleware.Authenticate(jwtSecret))

	dashboard := v1.Group("/dashboard")
	{
		dashboard.GET("/kpis/:companyId", viewer, h.Dashboard.KPIs)
		dashboard.POST("/intensity/:companyId/:periodId", viewer, h.Dashboard.Intensity)
		dashboard.POST("/alerts/:companyId", viewer, h.Dashboard.Alerts)
		dashboard.GET("/benchmark/:companyId/:periodId", viewer, h.Dashboard.Benchmark)
		dashboard.POST("/target-progress/:companyId", viewer, h.Dashboard.TargetProgress)
	}

	reference := v1.Group("/reference")
	{
		reference.GET("/activity-types", h.Reference.ActivityTypes)
		reference.GET("/dropdowns", h.Reference.Dropdowns)
		reference.GET("/dropdowns/:name", h.Reference.Dropdown)
	}

	company := v1.Group("/companies/:companyId")

	exports := company.Group("/exports")
	{
		exports.GET("/pdf/:periodId", viewer, h.Export.Download(report.FormatPDF))
		exports.GET("/csv/:periodId", viewer, h.Export.Download(report.FormatCSV))
		exports.GET("/excel/:periodId", viewer, h.Export.Download(report.FormatXLSX))
		exports.POST("/email/:periodId", editor, h.Export.Email)
		exports.DELETE("/cleanup", internalAdmin, h.Export.Cleanup)
	}

	periods := company.Group("/reporting-periods")
	{
		periods.POST("", companyAdmin, h.Period.Create)
		periods.GET("", viewer, h.Period.List)
		periods.GET("/:periodId", viewer, h.Period.Get)
		periods.PUT("/:periodId", editor, h.Period.Update)
		periods.DELETE("/:periodId", companyAdmin, h.Period.Delete)
		periods.GET("/:periodId/activities", viewer, h.Period.Activities)

		periods.POST("/:periodId/boundary-questions", editor, h.Boundary.Set)
		periods.GET("/:periodId/boundary-questions", viewer, h.Boundary.Get)
		periods.GET("/:periodId/boundary-summary", viewer, h.Boundary.Summary)

		periods.PUT("/:periodId/calculations", editor, h.Calculation.Record)
		periods.GET("/:periodId/calculations", viewer, h.Calculation.List)
	}

	activities := company.Group("/activities/:activityType")
	{
		activities.POST("", editor, h.Activity.Create)
		activities.GET("", viewer, h.Activity.List)
		activities.GET("/:id", viewer, h.Activity.Get)
		activities.PUT("/:id", editor, h.Activity.Update)
		activities.DELETE("/:id", editor, h.Activity.Delete)
	}
}
