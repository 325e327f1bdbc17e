package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/aurixon/api/internal/errors"
	"github.com/aurixon/api/internal/middleware"
	"github.com/aurixon/api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// success writes the {success: true, ...} envelope.
func success(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// uuidParam parses a path parameter, answering 400 when it is malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name, map[string]interface{}{
			name: c.Param(name),
		})
		return uuid.Nil, false
	}
	return id, true
}

// companyAndPeriod parses the :companyId and :periodId path parameters.
func companyAndPeriod(c *gin.Context) (companyID, periodID uuid.UUID, ok bool) {
	if companyID, ok = uuidParam(c, "companyId"); !ok {
		return
	}
	periodID, ok = uuidParam(c, "periodId")
	return
}

// bindError answers a failed ShouldBind call.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		apierrors.ValidationError(c, verrs)
		return
	}
	apierrors.BadRequest(c, "Invalid request body", nil)
}

// userID returns the authenticated user, if any.
func userID(c *gin.Context) *uuid.UUID {
	if claims := middleware.GetClaims(c); claims != nil {
		id := claims.UserID
		return &id
	}
	return nil
}

// serviceError maps service errors onto HTTP responses. Anything not
// recognised is a 500 carrying fallback as the client message.
func serviceError(c *gin.Context, err error, fallback string) {
	if ve, ok := services.AsValidationError(err); ok {
		apierrors.FieldErrors(c, "Validation failed", ve.Messages)
		return
	}

	switch {
	case errors.Is(err, services.ErrPeriodNotFound):
		apierrors.NotFound(c, "Reporting period not found")
	case errors.Is(err, services.ErrCompanyNotFound):
		apierrors.NotFound(c, "Company not found")
	case errors.Is(err, services.ErrBoundaryNotFound):
		apierrors.NotFound(c, "Boundary questions not found")
	case errors.Is(err, services.ErrActivityNotFound):
		apierrors.NotFound(c, "Activity not found")
	case errors.Is(err, services.ErrUnknownActivityType):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidTransition):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidFormat):
		apierrors.BadRequest(c, "Invalid format. Must be pdf, csv, or excel", nil)
	case errors.Is(err, services.ErrNoCalculations):
		apierrors.NotFound(c, "No calculations found for this period")
	case errors.Is(err, services.ErrPaymentRequired):
		apierrors.PaymentRequired(c, "Payment required to generate reports for this period")
	case errors.Is(err, services.ErrGenerationTimeout):
		apierrors.GatewayTimeout(c, "Report generation timed out")
	case errors.Is(err, services.ErrMailerDisabled):
		respondUnavailable(c, "Email delivery is not configured")
	default:
		apierrors.InternalServerError(c, fallback, err)
	}
}

func respondUnavailable(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, apierrors.ErrorResponse{
		Success: false,
		Error: apierrors.ErrorDetail{
			Code:      "SERVICE_UNAVAILABLE",
			Message:   message,
			RequestID: middleware.GetRequestID(c),
		},
	})
}
