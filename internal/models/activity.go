package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Activity is one raw emissions activity entry. Fields holds the
// variant-specific values keyed by column name; the set of permitted keys
// is fixed by the activity type's schema.
type Activity struct {
	ID                uuid.UUID
	Type              string
	CompanyID         uuid.UUID
	ReportingPeriodID uuid.UUID
	EnteredBy         *uuid.UUID
	Fields            map[string]interface{}
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// MarshalJSON flattens the variant fields next to the common attributes.
func (a Activity) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(a.Fields)+7)
	for k, v := range a.Fields {
		out[k] = v
	}
	out["id"] = a.ID
	out["activity_type"] = a.Type
	out["company_id"] = a.CompanyID
	out["reporting_period_id"] = a.ReportingPeriodID
	out["entered_by"] = a.EnteredBy
	out["created_at"] = a.CreatedAt
	out["updated_at"] = a.UpdatedAt
	return json.Marshal(out)
}
