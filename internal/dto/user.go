package dto

import (
	"github.com/paintworks/pw_backend/internal/core/domain"
	"github.com/paintworks/pw_backend/internal/utils/listquery"
)

// UpdateUserRequest defines the data allowed for updating profile basics.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`
}

// UpdateRolesRequest replaces a user's role assignments. The service applies
// the owner/admin consistency rules before persisting.
type UpdateRolesRequest struct {
	Roles         []string `json:"roles"`
	EmployeeTypes []string `json:"employeeTypes" binding:"omitempty,dive,employeetype"`
}

// RoleChoiceRequest records which role a dual-role user chose for this session.
type RoleChoiceRequest struct {
	Role string `json:"role" binding:"required,oneof=customer employee"`
}

// LandingResponse is the routing decision for a signed-in user.
type LandingResponse struct {
	Landing string `json:"landing"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Search   string `form:"search"`
	Role     string `form:"role"`
	SortKey  string `form:"sortKey,default=name"`
	SortDir  string `form:"sortDir,default=asc"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"pageSize,default=20"`
}

// ToSpec converts the query parameters into a list pipeline spec.
func (p ListUsersParams) ToSpec() listquery.Spec {
	var roles []string
	if p.Role != "" {
		roles = []string{p.Role}
	}
	return listquery.Spec{
		Search:   p.Search,
		Roles:    roles,
		SortKey:  p.SortKey,
		SortDir:  listquery.ParseDirection(p.SortDir),
		Page:     p.Page,
		PageSize: p.PageSize,
	}
}

// UserResponse defines the data returned for a user profile.
type UserResponse struct {
	UserID        string                `json:"userID"`
	Name          string                `json:"name"`
	Email         string                `json:"email"`
	Phone         string                `json:"phone,omitempty"`
	Roles         []domain.Role         `json:"roles"`
	EmployeeTypes []domain.EmployeeType `json:"employeeTypes"`
	IsOwner       bool                  `json:"isOwner"`
	IsAdmin       bool                  `json:"isAdmin"`
	AuthProvider  domain.AuthProvider   `json:"authProvider"`
}

// ToUserResponse converts a domain.UserProfile to UserResponse DTO
func ToUserResponse(u *domain.UserProfile) UserResponse {
	return UserResponse{
		UserID:        u.UserID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Roles:         u.Roles,
		EmployeeTypes: u.EmployeeTypes,
		IsOwner:       u.IsOwner,
		IsAdmin:       u.IsAdmin,
		AuthProvider:  u.AuthProvider,
	}
}

// ListUsersResponse wraps a page of users with pagination metadata.
type ListUsersResponse struct {
	Users      []UserResponse `json:"users"`
	TotalCount int            `json:"totalCount"`
	TotalPages int            `json:"totalPages"`
	PageNumber int            `json:"pageNumber"`
}

// ToListUsersResponse converts a list pipeline result to the response DTO.
func ToListUsersResponse(result *listquery.Result[domain.UserProfile]) ListUsersResponse {
	users := make([]UserResponse, len(result.Page))
	for i := range result.Page {
		users[i] = ToUserResponse(&result.Page[i])
	}
	return ListUsersResponse{
		Users:      users,
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages,
		PageNumber: result.PageNumber,
	}
}
