package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paintworks/pw_backend/internal/core/domain"
	"github.com/paintworks/pw_backend/internal/core/policy"
)

func profileWith(userID string, types ...domain.EmployeeType) domain.UserProfile {
	p := domain.NewCustomerProfile()
	p.UserID = userID
	p.EmployeeTypes = types
	p.NormalizeRoles()
	return p
}

func TestCanCreateProject(t *testing.T) {
	assert.True(t, policy.CanCreateProject(profileWith("u1", domain.TypeOwner)))
	assert.True(t, policy.CanCreateProject(profileWith("u1", domain.TypeAdmin)))
	assert.True(t, policy.CanCreateProject(profileWith("u1", domain.TypeProjectManager)))

	assert.False(t, policy.CanCreateProject(profileWith("u1")))
	assert.False(t, policy.CanCreateProject(profileWith("u1", domain.TypePainter)))
	assert.False(t, policy.CanCreateProject(profileWith("u1", domain.TypeAccountant)))
}

func TestCanEditProject(t *testing.T) {
	project := domain.NewProject()
	project.OwnerID = "creator"

	assert.True(t, policy.CanEditProject(project, profileWith("creator", domain.TypePainter)))
	assert.True(t, policy.CanEditProject(project, profileWith("u2", domain.TypeAdmin)))
	assert.True(t, policy.CanEditProject(project, profileWith("u2", domain.TypeAccountant)))
	assert.True(t, policy.CanEditProject(project, profileWith("u2", domain.TypeProjectManager)))

	assert.False(t, policy.CanEditProject(project, profileWith("u2", domain.TypePainter)))
	assert.False(t, policy.CanEditProject(project, profileWith("u2")))

	// A project with no recorded creator matches nobody by ownership.
	orphan := domain.NewProject()
	assert.False(t, policy.CanEditProject(orphan, profileWith("", domain.TypePainter)))
}

func TestCanDeleteProject(t *testing.T) {
	assert.True(t, policy.CanDeleteProject(profileWith("u1", domain.TypeOwner)))
	// Admins cannot delete projects.
	assert.False(t, policy.CanDeleteProject(profileWith("u1", domain.TypeAdmin)))
	assert.False(t, policy.CanDeleteProject(profileWith("u1")))
}

func TestCanEditUserAccount(t *testing.T) {
	owner := profileWith("owner", domain.TypeOwner)
	admin := profileWith("admin", domain.TypeAdmin)
	customer := profileWith("customer")

	assert.True(t, policy.CanEditUserAccount(owner, admin))
	assert.True(t, policy.CanEditUserAccount(owner, customer))
	assert.True(t, policy.CanEditUserAccount(admin, customer))

	// Admins may not touch owner accounts.
	assert.False(t, policy.CanEditUserAccount(admin, owner))
	assert.False(t, policy.CanEditUserAccount(customer, customer))
}

func TestCanDeleteUserAccount(t *testing.T) {
	owner := profileWith("owner", domain.TypeOwner)
	other := profileWith("other")

	assert.True(t, policy.CanDeleteUserAccount(owner, other))
	// Never on their own account.
	assert.False(t, policy.CanDeleteUserAccount(owner, owner))
	assert.False(t, policy.CanDeleteUserAccount(profileWith("admin", domain.TypeAdmin), other))
}

func TestCanAssignOwner(t *testing.T) {
	assert.True(t, policy.CanAssignOwner(profileWith("u1", domain.TypeOwner)))
	assert.False(t, policy.CanAssignOwner(profileWith("u1", domain.TypeAdmin)))
}

func TestResolveLanding(t *testing.T) {
	customerOnly := profileWith("c")
	employee := profileWith("e", domain.TypePainter)

	// NormalizeRoles always keeps the customer role, so any employee is
	// dual-role unless the customer role is explicitly stripped.
	employeeOnly := employee
	employeeOnly.Roles = []domain.Role{domain.RoleEmployee}

	assert.Equal(t, policy.LandingCustomer, policy.ResolveLanding(customerOnly, ""))
	assert.Equal(t, policy.LandingEmployee, policy.ResolveLanding(employeeOnly, ""))

	assert.Equal(t, policy.LandingChoose, policy.ResolveLanding(employee, ""))
	assert.Equal(t, policy.LandingEmployee, policy.ResolveLanding(employee, domain.RoleEmployee))
	assert.Equal(t, policy.LandingCustomer, policy.ResolveLanding(employee, domain.RoleCustomer))

	// A profile with no roles at all defaults to the customer area.
	assert.Equal(t, policy.LandingCustomer, policy.ResolveLanding(domain.UserProfile{}, ""))
}
