package services

import (
	"errors"
	"strings"

	"github.com/aurixon/api/internal/report"
)

// Service-level errors
var (
	ErrPeriodNotFound      = errors.New("reporting period not found")
	ErrCompanyNotFound     = errors.New("company not found")
	ErrBoundaryNotFound    = errors.New("boundary questions not found")
	ErrActivityNotFound    = errors.New("activity not found")
	ErrUnknownActivityType = errors.New("unknown activity type")
	ErrInvalidTransition   = errors.New("invalid period status transition")
	ErrPaymentRequired     = errors.New("payment required to generate report")
	ErrInvalidFormat       = errors.New("unsupported report format")
	ErrGenerationTimeout   = errors.New("report generation timed out")
	ErrMailerDisabled      = errors.New("email delivery is not configured")

	// ErrNoCalculations is returned when a tabular report has no rows.
	ErrNoCalculations = report.ErrNoCalculations
)

// ValidationError carries one message per rejected field.
type ValidationError struct {
	Messages []string
}

// NewValidationError builds a ValidationError from messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
