package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Role is an ordered access level. A higher role includes every
// permission of the roles below it.
type Role int

const (
	RoleNone Role = iota
	RoleViewer
	RoleEditor
	RoleCompanyAdmin
	RoleInternalAdmin
)

var roleNames = map[Role]string{
	RoleViewer:        "viewer",
	RoleEditor:        "editor",
	RoleCompanyAdmin:  "company_admin",
	RoleInternalAdmin: "internal_admin",
}

// ParseRole converts the wire name of a role into a Role.
func ParseRole(name string) (Role, error) {
	for role, n := range roleNames {
		if n == name {
			return role, nil
		}
	}
	return RoleNone, fmt.Errorf("unknown role %q", name)
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "none"
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

// IsGlobal reports whether the role applies to every company.
func (r Role) IsGlobal() bool {
	return r == RoleInternalAdmin
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseRole(name)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// RoleGrant binds a role to one company.
type RoleGrant struct {
	CompanyID uuid.UUID `json:"companyId"`
	Role      Role      `json:"role"`
}

// EffectiveRole returns the role the grants confer on companyID.
// A global role on any company applies everywhere.
func EffectiveRole(grants []RoleGrant, companyID uuid.UUID) Role {
	best := RoleNone
	for _, g := range grants {
		if g.Role.IsGlobal() {
			return g.Role
		}
		if g.CompanyID == companyID && g.Role > best {
			best = g.Role
		}
	}
	return best
}
