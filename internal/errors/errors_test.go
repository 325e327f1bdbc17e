package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/aurixon/api/internal/logger"
	"github.com/aurixon/api/internal/middleware"
	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestContext creates a test Gin context with logger and request ID in context.
func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	c.Set("logger", logger.New("test"))
	c.Set(middleware.RequestIDKey, "test-request-id")
	return c, w
}

func parseErrorResponse(t *testing.T, body *bytes.Buffer) ErrorResponse {
	var response ErrorResponse
	err := json.Unmarshal(body.Bytes(), &response)
	require.NoError(t, err, "Failed to parse error response JSON")
	return response
}

func TestSimpleResponses(t *testing.T) {
	tests := []struct {
		name   string
		call   func(c *gin.Context)
		status int
		code   string
	}{
		{name: "not found", call: func(c *gin.Context) { NotFound(c, "msg") }, status: http.StatusNotFound, code: ErrNotFound},
		{name: "bad request", call: func(c *gin.Context) { BadRequest(c, "msg", nil) }, status: http.StatusBadRequest, code: ErrBadRequest},
		{name: "unauthorized", call: func(c *gin.Context) { Unauthorized(c, "msg") }, status: http.StatusUnauthorized, code: ErrUnauthorized},
		{name: "forbidden", call: func(c *gin.Context) { Forbidden(c, "msg") }, status: http.StatusForbidden, code: ErrForbidden},
		{name: "payment required", call: func(c *gin.Context) { PaymentRequired(c, "msg") }, status: http.StatusPaymentRequired, code: ErrPaymentRequired},
		{name: "gateway timeout", call: func(c *gin.Context) { GatewayTimeout(c, "msg") }, status: http.StatusGatewayTimeout, code: ErrGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := setupTestContext()

			tt.call(c)

			assert.Equal(t, tt.status, w.Code)
			assert.True(t, c.IsAborted())

			response := parseErrorResponse(t, w.Body)
			assert.False(t, response.Success)
			assert.Equal(t, tt.code, response.Error.Code)
			assert.Equal(t, "msg", response.Error.Message)
			assert.Equal(t, "test-request-id", response.Error.RequestID)
			assert.Nil(t, response.Error.Details)
		})
	}
}

func TestEnvelopeHasSuccessFalse(t *testing.T) {
	c, w := setupTestContext()

	PaymentRequired(c, "Payment required")

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, false, raw["success"])
	assert.Contains(t, raw, "error")
}

func TestBadRequest_WithDetails(t *testing.T) {
	c, w := setupTestContext()

	BadRequest(c, "Invalid input", map[string]interface{}{"field": "industry"})

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrBadRequest, response.Error.Code)
	assert.Equal(t, "industry", response.Error.Details["field"])
}

func TestFieldErrors(t *testing.T) {
	c, w := setupTestContext()

	FieldErrors(c, "Validation failed", []string{"Required field missing: units", "Unknown field: company_id"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrValidation, response.Error.Code)
	assert.Equal(t, []interface{}{"Required field missing: units", "Unknown field: company_id"}, response.Error.Details["errors"])
}

func TestInternalServerError_HidesCause(t *testing.T) {
	c, w := setupTestContext()

	InternalServerError(c, "An unexpected error occurred", errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "relation does not exist")

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrInternalServer, response.Error.Code)
	assert.Equal(t, "An unexpected error occurred", response.Error.Message)
}

type alertRequest struct {
	Industry string  `validate:"required"`
	Percent  float64 `validate:"gte=0,lte=100"`
}

func TestValidationError(t *testing.T) {
	validate := validator.New()
	err := validate.Struct(alertRequest{Percent: 120})
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrors))

	t.Run("fallback messages", func(t *testing.T) {
		translator = nil
		c, w := setupTestContext()

		ValidationError(c, validationErrors)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, ErrValidation, response.Error.Code)
		assert.Equal(t, "This field is required", response.Error.Details["Industry"])
		assert.Equal(t, "Must be less than or equal to 100", response.Error.Details["Percent"])
	})

	t.Run("translated messages", func(t *testing.T) {
		require.NoError(t, RegisterTranslations(validate))
		defer func() { translator = nil }()

		c, w := setupTestContext()
		ValidationError(c, validationErrors)

		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, "Industry is a required field", response.Error.Details["Industry"])
		assert.Contains(t, response.Error.Details["Percent"], "100")
	})
}

func TestFormatValidationError(t *testing.T) {
	tests := []struct {
		tag      string
		param    string
		expected string
	}{
		{tag: "required", expected: "This field is required"},
		{tag: "min", param: "5", expected: "Value is too short or small (minimum: 5)"},
		{tag: "gt", param: "0", expected: "Must be greater than 0"},
		{tag: "oneof", param: "pdf csv excel", expected: "Must be one of: pdf csv excel"},
		{tag: "uuid", expected: "Must be a valid UUID"},
		{tag: "unknown_tag", expected: "Validation failed for tag: unknown_tag"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			result := formatValidationError(&mockFieldError{tag: tt.tag, param: tt.param})
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestErrorResponseWithoutContext(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	NotFound(c, "Reporting period not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrNotFound, response.Error.Code)
	assert.Empty(t, response.Error.RequestID)
}

// mockFieldError is a mock implementation of validator.FieldError for testing.
type mockFieldError struct {
	tag   string
	param string
}

func (m *mockFieldError) Tag() string                    { return m.tag }
func (m *mockFieldError) ActualTag() string              { return m.tag }
func (m *mockFieldError) Namespace() string              { return "" }
func (m *mockFieldError) StructNamespace() string        { return "" }
func (m *mockFieldError) Field() string                  { return "TestField" }
func (m *mockFieldError) StructField() string            { return "TestField" }
func (m *mockFieldError) Value() interface{}             { return nil }
func (m *mockFieldError) Param() string                  { return m.param }
func (m *mockFieldError) Kind() reflect.Kind             { return reflect.String }
func (m *mockFieldError) Type() reflect.Type             { return nil }
func (m *mockFieldError) Translate(ut.Translator) string { return "" }
func (m *mockFieldError) Error() string                  { return "" }
