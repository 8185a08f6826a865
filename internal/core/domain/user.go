package domain

import (
	"strings"
	"time"
)

// Role is a top-level account role. A profile may hold both.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleEmployee Role = "employee"
)

// EmployeeType is a sub-role, meaningful only for profiles that hold the
// employee role.
type EmployeeType string

const (
	TypeOwner           EmployeeType = "owner" // organisation-level owner, distinct from a project's creator
	TypeAdmin           EmployeeType = "admin"
	TypeAccountant      EmployeeType = "accountant"
	TypeProjectManager  EmployeeType = "project-manager"
	TypeInventory       EmployeeType = "inventory"
	TypeSales           EmployeeType = "sales"
	TypeFactory         EmployeeType = "factory"
	TypeChemist         EmployeeType = "chemist"
	TypeDriver          EmployeeType = "driver"
	TypePainter         EmployeeType = "painter"
	TypeGeneralEmployee EmployeeType = "general-employee"
)

// AllEmployeeTypes lists every recognised employee type, in display order.
var AllEmployeeTypes = []EmployeeType{
	TypeOwner, TypeAdmin, TypeAccountant, TypeProjectManager, TypeInventory,
	TypeSales, TypeFactory, TypeChemist, TypeDriver, TypePainter,
	TypeGeneralEmployee,
}

// ParseEmployeeType maps free-text input onto the closed enum. The source
// data carries a few historical spellings for project managers.
func ParseEmployeeType(s string) (EmployeeType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "pm", "project manager":
		return TypeProjectManager, true
	}
	for _, t := range AllEmployeeTypes {
		if normalized == string(t) {
			return t, true
		}
	}
	return "", false
}

// AuthProvider identifies how an account authenticates.
type AuthProvider string

const (
	ProviderLocal     AuthProvider = "local"
	ProviderGoogle    AuthProvider = "google"
	ProviderPhone     AuthProvider = "phone"
	ProviderAnonymous AuthProvider = "anonymous"
)

// UserProfile is an account and its role assignments.
type UserProfile struct {
	UserID        string         `json:"userID"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone,omitempty"`
	Roles         []Role         `json:"roles"`
	EmployeeTypes []EmployeeType `json:"employeeTypes"`
	// IsOwner/IsAdmin are derived from EmployeeTypes and kept consistent by
	// NormalizeRoles; owner implies admin.
	IsOwner bool `json:"isOwner"`
	IsAdmin bool `json:"isAdmin"`

	AuthProvider   AuthProvider `json:"authProvider"`
	ProviderUserID string       `json:"providerUserID,omitempty"`
	PasswordHash   *string      `json:"-"`

	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// NewCustomerProfile seeds the profile created on first sign-in: the
// customer role only, no employee types, no elevated flags.
func NewCustomerProfile() UserProfile {
	return UserProfile{
		Roles:         []Role{RoleCustomer},
		EmployeeTypes: []EmployeeType{},
		IsAdmin:       false,
		IsOwner:       false,
	}
}

// HasRole reports whether the profile carries the given top-level role.
func (u UserProfile) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// HasEmployeeType reports whether the profile carries the given sub-role.
func (u UserProfile) HasEmployeeType(t EmployeeType) bool {
	for _, have := range u.EmployeeTypes {
		if have == t {
			return true
		}
	}
	return false
}

// NormalizeRoles enforces role-set consistency at write time: the customer
// role is always present, employee types are deduplicated members of the
// closed enum, owner implies admin, any employee type implies the employee
// role, and the derived IsOwner/IsAdmin flags are recomputed.
func (u *UserProfile) NormalizeRoles() {
	seen := map[EmployeeType]bool{}
	types := make([]EmployeeType, 0, len(u.EmployeeTypes))
	for _, raw := range u.EmployeeTypes {
		t, ok := ParseEmployeeType(string(raw))
		if !ok || seen[t] {
			continue
		}
		seen[t] = true
		types = append(types, t)
	}
	if seen[TypeOwner] && !seen[TypeAdmin] {
		types = append(types, TypeAdmin)
		seen[TypeAdmin] = true
	}
	u.EmployeeTypes = types

	roles := []Role{RoleCustomer}
	if u.HasRole(RoleEmployee) || len(types) > 0 {
		roles = append(roles, RoleEmployee)
	}
	u.Roles = roles

	u.IsOwner = seen[TypeOwner]
	u.IsAdmin = seen[TypeAdmin]
}
