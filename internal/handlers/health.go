package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aurixon/api/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "1.0.0"
	// HealthCheckTimeout is the timeout for database health checks
	HealthCheckTimeout = 2 * time.Second
)

// Pinger is the part of the database the readiness check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	db         Pinger
	exportsDir string
	startTime  time.Time
	env        string
}

// NewHealthHandler creates a new HealthHandler instance. exportsDir is the
// report scratch directory; an empty value skips that check.
func NewHealthHandler(db Pinger, exportsDir, env string) *HealthHandler {
	return &HealthHandler{
		db:         db,
		exportsDir: exportsDir,
		startTime:  time.Now(),
		env:        env,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Exports  string `json:"exports,omitempty"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Uptime      string `json:"uptime"`
}

// Health handles GET /health endpoint.
// It does not check any dependencies and is used for basic liveness checks.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready endpoint.
// Returns 200 OK when the database answers and the export directory
// exists, 503 Service Unavailable otherwise.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
	defer cancel()

	resp := ReadyResponse{Status: "ready", Database: "connected"}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		if log := middleware.GetLogger(c); log != nil {
			log.Error("Database health check failed", err, map[string]interface{}{
				"timeout": HealthCheckTimeout.String(),
			})
		}
		resp.Status, resp.Database = "not_ready", "disconnected"
		status = http.StatusServiceUnavailable
	}

	if h.exportsDir != "" {
		resp.Exports = "available"
		if info, err := os.Stat(h.exportsDir); err != nil || !info.IsDir() {
			if log := middleware.GetLogger(c); log != nil {
				log.Error("Export directory unavailable", err, map[string]interface{}{
					"dir": h.exportsDir,
				})
			}
			resp.Status, resp.Exports = "not_ready", "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, resp)
}

// Info handles GET /api/v1/info endpoint.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		Version:     APIVersion,
		Environment: h.env,
		Uptime:      formatUptime(time.Since(h.startTime)),
	})
}

// formatUptime formats a duration into a human-readable string.
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
