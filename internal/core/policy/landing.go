package policy

import "github.com/paintworks/pw_backend/internal/core/domain"

// Landing is the area of the application a signed-in user should be routed
// to after authentication.
type Landing string

const (
	LandingCustomer Landing = "customer"
	LandingEmployee Landing = "employee"
	// LandingChoose means the user holds both roles and has not picked one
	// for this session yet; the caller should prompt for a choice.
	LandingChoose Landing = "choose"
)

// ResolveLanding routes a profile to its landing area. A single-role profile
// routes deterministically; a dual-role profile routes by the remembered
// session choice, or to the role-selection prompt when no choice was made.
func ResolveLanding(p domain.UserProfile, chosen domain.Role) Landing {
	isEmployee := p.HasRole(domain.RoleEmployee)
	isCustomer := p.HasRole(domain.RoleCustomer)

	switch {
	case isEmployee && !isCustomer:
		return LandingEmployee
	case isCustomer && !isEmployee:
		return LandingCustomer
	case !isCustomer && !isEmployee:
		return LandingCustomer
	}

	switch chosen {
	case domain.RoleEmployee:
		return LandingEmployee
	case domain.RoleCustomer:
		return LandingCustomer
	default:
		return LandingChoose
	}
}
