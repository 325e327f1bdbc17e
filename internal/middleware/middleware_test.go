package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aurixon/api/internal/logger"
	"github.com/aurixon/api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// logEntries decodes the JSON lines a production logger wrote to buf.
func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func entryWithMessage(t *testing.T, entries []map[string]interface{}, msg string) map[string]interface{} {
	t.Helper()
	for _, e := range entries {
		if e["message"] == msg {
			return e
		}
	}
	require.Failf(t, "log entry missing", "no entry with message %q in %v", msg, entries)
	return nil
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		upstream string
		reused   bool
	}{
		{name: "generated when absent", upstream: "", reused: false},
		{name: "proxy id reused", upstream: "lb-7f3a.2024_11", reused: true},
		{name: "spaces replaced", upstream: "id with spaces", reused: false},
		{name: "control characters replaced", upstream: "id\tinjected", reused: false},
		{name: "oversized replaced", upstream: strings.Repeat("a", 129), reused: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID())
			router.GET("/companies/:companyId/periods", func(c *gin.Context) {
				c.String(http.StatusOK, GetRequestID(c))
			})

			req := httptest.NewRequest(http.MethodGet, "/companies/"+uuid.NewString()+"/periods", nil)
			if tt.upstream != "" {
				req.Header.Set(RequestIDHeader, tt.upstream)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())
			if tt.reused {
				assert.Equal(t, tt.upstream, w.Body.String())
				return
			}
			_, err := uuid.Parse(w.Body.String())
			assert.NoError(t, err, "expected a generated UUID, got %q", w.Body.String())
		})
	}

	t.Run("empty outside the middleware", func(t *testing.T) {
		assert.Empty(t, GetRequestID(&gin.Context{}))
	})
}

func TestCORS(t *testing.T) {
	dashboard := "https://app.aurixon.example"

	router := gin.New()
	router.Use(CORS([]string{dashboard}))
	router.GET("/exports/report.pdf", func(c *gin.Context) {
		c.Header("Content-Disposition", `attachment; filename="emissions_report.pdf"`)
		c.String(http.StatusOK, "%PDF")
	})

	t.Run("report download exposes filename headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/exports/report.pdf", nil)
		req.Header.Set("Origin", dashboard)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, dashboard, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		exposed := w.Header().Get("Access-Control-Expose-Headers")
		assert.Contains(t, exposed, "Content-Disposition")
		assert.Contains(t, exposed, "Content-Length")
	})

	t.Run("preflight allows bearer tokens", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/exports/report.pdf", nil)
		req.Header.Set("Origin", dashboard)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("other origins get no grant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/exports/report.pdf", nil)
		req.Header.Set("Origin", "https://elsewhere.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestLogger_TenantFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)

	userID, companyID := uuid.New(), uuid.New()
	token, err := IssueToken(testSecret, Claims{
		UserID: userID,
		Email:  "editor@example.com",
		Roles:  []models.RoleGrant{{CompanyID: companyID, Role: models.RoleEditor}},
	}, time.Hour)
	require.NoError(t, err)

	router := gin.New()
	router.Use(RequestID())
	router.Use(Logger(log))
	router.GET("/companies/:companyId/reporting-periods", Authenticate(testSecret), func(c *gin.Context) {
		assert.NotNil(t, GetLogger(c))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/companies/"+companyID.String()+"/reporting-periods?status=active", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	entry := entryWithMessage(t, logEntries(t, &buf), "Request completed")
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, userID.String(), entry["user_id"])
	assert.Equal(t, companyID.String(), entry["company_id"])
	assert.Equal(t, w.Header().Get(RequestIDHeader), entry["request_id"])
	assert.Equal(t, "status=active", entry["query"])
	assert.EqualValues(t, http.StatusOK, entry["status"])
}

func TestLogger_AnonymousRequest(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestID())
	router.Use(Logger(logger.NewWithWriter("production", &buf)))
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	entry := entryWithMessage(t, logEntries(t, &buf), "Request completed")
	assert.NotContains(t, entry, "user_id")
	assert.NotContains(t, entry, "company_id")
	assert.NotContains(t, entry, "query")
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
		msg    string
	}{
		{status: http.StatusNotFound, level: "warn", msg: "Request completed with client error"},
		{status: http.StatusInternalServerError, level: "error", msg: "Request completed with server error"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			router := gin.New()
			router.Use(RequestID())
			router.Use(Logger(logger.NewWithWriter("production", &buf)))
			router.GET("/companies/:companyId/exports/pdf", func(c *gin.Context) {
				_ = c.Error(errors.New("report failed"))
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/companies/acme/exports/pdf", nil))

			entry := entryWithMessage(t, logEntries(t, &buf), tt.msg)
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "acme", entry["company_id"])
			assert.Contains(t, entry["errors"], "report failed")
		})
	}

	t.Run("GetLogger is nil outside the middleware", func(t *testing.T) {
		assert.Nil(t, GetLogger(&gin.Context{}))
	})
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)

	router := gin.New()
	router.Use(RequestID())
	router.Use(Logger(log))
	router.Use(Recovery(log))
	router.GET("/companies/:companyId/dashboard/kpis", func(c *gin.Context) {
		panic("nil emissions")
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	t.Run("panic becomes error envelope", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/companies/acme/dashboard/kpis", nil))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", errorCode(t, w))

		var body struct {
			Error struct {
				RequestID string `json:"request_id"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, w.Header().Get(RequestIDHeader), body.Error.RequestID)

		entry := entryWithMessage(t, logEntries(t, &buf), "Panic recovered")
		assert.Equal(t, "panic: nil emissions", entry["error"])
		assert.Equal(t, body.Error.RequestID, entry["request_id"])
		assert.Contains(t, entry["stack"], "runtime/debug.Stack")
	})

	t.Run("normal requests pass through", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", w.Body.String())
	})
}
