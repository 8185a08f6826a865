// Package policy holds the pure authorization predicates for projects and
// user accounts. Predicates never error and have no side effects; services
// translate a false result into apperrors.ErrForbidden so callers can
// distinguish a policy rejection from a missing record.
//
// "Owner" names two distinct concepts here: IsOrgOwner is the
// organisation-level owner employee type, IsProjectOwner is the principal
// that created a specific project record.
package policy

import "github.com/paintworks/pw_backend/internal/core/domain"

// IsOrgOwner reports whether the profile carries the organisation-level
// owner employee type.
func IsOrgOwner(p domain.UserProfile) bool {
	return p.HasEmployeeType(domain.TypeOwner)
}

// IsProjectOwner reports whether the profile's identity created the project
// record.
func IsProjectOwner(project domain.Project, p domain.UserProfile) bool {
	return project.OwnerID != "" && project.OwnerID == p.UserID
}

// CanCreateProject allows owners, admins and project managers.
func CanCreateProject(p domain.UserProfile) bool {
	return p.HasEmployeeType(domain.TypeOwner) ||
		p.HasEmployeeType(domain.TypeAdmin) ||
		p.HasEmployeeType(domain.TypeProjectManager)
}

// CanEditProject allows the record's creator, plus admins, accountants and
// project managers.
func CanEditProject(project domain.Project, p domain.UserProfile) bool {
	return IsProjectOwner(project, p) ||
		p.HasEmployeeType(domain.TypeAdmin) ||
		p.HasEmployeeType(domain.TypeAccountant) ||
		p.HasEmployeeType(domain.TypeProjectManager)
}

// CanDeleteProject allows only the organisation-level owner, regardless of
// who created the record. Admins may not delete projects.
func CanDeleteProject(p domain.UserProfile) bool {
	return IsOrgOwner(p)
}

// CanEditUserAccount allows the org-owner to edit anyone, and admins to edit
// anyone except owner accounts.
func CanEditUserAccount(actor, target domain.UserProfile) bool {
	if IsOrgOwner(actor) {
		return true
	}
	if actor.HasEmployeeType(domain.TypeAdmin) {
		return !target.HasEmployeeType(domain.TypeOwner)
	}
	return false
}

// CanDeleteUserAccount allows only the org-owner, and never on their own
// account.
func CanDeleteUserAccount(actor, target domain.UserProfile) bool {
	return IsOrgOwner(actor) && actor.UserID != target.UserID
}

// CanAssignOwner allows granting the owner employee type only when the actor
// already holds it.
func CanAssignOwner(actor domain.UserProfile) bool {
	return IsOrgOwner(actor)
}
