package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant root. Every reporting period, activity and
// calculation result belongs to exactly one company.
type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Industry  string    `json:"industry"`
	CreatedAt time.Time `json:"created_at"`
}

// User is the subset of an account the API needs to attribute work.
type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
}
