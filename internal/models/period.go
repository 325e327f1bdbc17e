package models

import (
	"time"

	"github.com/google/uuid"
)

// PeriodStatus is the lifecycle state of a reporting period.
type PeriodStatus string

const (
	PeriodDraft  PeriodStatus = "draft"
	PeriodActive PeriodStatus = "active"
	PeriodClosed PeriodStatus = "closed"
)

// Valid reports whether s is a known status.
func (s PeriodStatus) Valid() bool {
	switch s {
	case PeriodDraft, PeriodActive, PeriodClosed:
		return true
	}
	return false
}

// CanTransitionTo reports whether a period in status s may move to next.
// Periods only move forward: draft, then active, then closed.
func (s PeriodStatus) CanTransitionTo(next PeriodStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case PeriodDraft:
		return next == PeriodActive
	case PeriodActive:
		return next == PeriodClosed
	}
	return false
}

// PeriodType is the cadence of a reporting period.
type PeriodType string

const (
	PeriodAnnual    PeriodType = "annual"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodMonthly   PeriodType = "monthly"
	PeriodCustom    PeriodType = "custom"
)

// Valid reports whether t is a known period type.
func (t PeriodType) Valid() bool {
	switch t {
	case PeriodAnnual, PeriodQuarterly, PeriodMonthly, PeriodCustom:
		return true
	}
	return false
}

// ReportingPeriod is a bounded time window a company reports emissions against.
type ReportingPeriod struct {
	ID                uuid.UUID    `json:"id"`
	CompanyID         uuid.UUID    `json:"company_id"`
	PeriodName        string       `json:"period_name"`
	StartDate         time.Time    `json:"start_date"`
	EndDate           time.Time    `json:"end_date"`
	PeriodType        PeriodType   `json:"period_type"`
	ReportingStandard string       `json:"reporting_standard"`
	Status            PeriodStatus `json:"status"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// PaymentStatus is the state of a report purchase.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)
