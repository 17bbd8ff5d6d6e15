// Package users holds the credential store: persisted user accounts and
// their role-specific profile data.
package users

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleStudent     Role = "STUDENT"
	RoleEmployer    Role = "EMPLOYER"
	RoleInstitution Role = "INSTITUTION"
	RoleGovAdmin    Role = "GOV_ADMIN"
)

// Roles lists every valid role.
var Roles = []Role{RoleStudent, RoleEmployer, RoleInstitution, RoleGovAdmin}

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, bool) {
	role := Role(raw)
	return role, role.Valid()
}

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleEmployer, RoleInstitution, RoleGovAdmin:
		return true
	}
	return false
}

// Profile carries optional role-specific attributes. No cross-field
// validation is applied beyond what the registration handler checks.
type Profile struct {
	// Student
	RollNo      string `json:"rollNo,omitempty"`
	Institution string `json:"institution,omitempty"`
	Degree      string `json:"degree,omitempty"`

	// Employer
	Company     string `json:"company,omitempty"`
	Designation string `json:"designation,omitempty"`

	// Institution
	InstitutionCode string `json:"institutionCode,omitempty"`
	InstitutionType string `json:"institutionType,omitempty"`

	// Government
	Department string `json:"department,omitempty"`
	AdminLevel string `json:"adminLevel,omitempty"`
}

// User represents a registered account. PasswordHash never appears in any
// serialized representation.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NormalizeEmail trims and case-folds an email address so lookups and the
// unique index agree on one canonical form.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}
