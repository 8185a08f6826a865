package dto

import (
	"github.com/paintworks/pw_backend/internal/core/domain"
	"github.com/paintworks/pw_backend/internal/utils/listquery"
)

// CreateProjectRequest defines the data needed to create a new project.
// Everything beyond the name is optional at quotation time.
type CreateProjectRequest struct {
	Name              string               `json:"name" binding:"required"`
	Location          string               `json:"location"`
	Status            string               `json:"status" binding:"omitempty,projectstatus"`
	Notes             string               `json:"notes"`
	InternalNotes     string               `json:"internalNotes"`
	Customer          domain.Customer      `json:"customer"`
	ProjectManager    domain.PersonRef     `json:"projectManager"`
	QuotedPrice       domain.Amount        `json:"quotedPrice"`
	EstimatedDuration domain.DurationText  `json:"estimatedDuration"`
	Budgets           domain.Budgets       `json:"budgets"`
	Lines             *domain.ProjectLines `json:"lines"`
}

// SaveProjectRequest is the full-document replacement body for PUT. The
// stored document is rebuilt from it; omitted collections become empty.
type SaveProjectRequest struct {
	Name              string               `json:"name" binding:"required"`
	Location          string               `json:"location"`
	Status            string               `json:"status" binding:"omitempty,projectstatus"`
	Notes             string               `json:"notes"`
	InternalNotes     string               `json:"internalNotes"`
	Customer          domain.Customer      `json:"customer"`
	ProjectManager    domain.PersonRef     `json:"projectManager"`
	QuotedPrice       domain.Amount        `json:"quotedPrice"`
	EstimatedDuration domain.DurationText  `json:"estimatedDuration"`
	HoursWorked       domain.Amount        `json:"hoursWorked"`
	Progress          domain.Progress      `json:"progress"`
	Budgets           domain.Budgets       `json:"budgets"`
	Lines             *domain.ProjectLines `json:"lines"`
}

// PatchProjectRequest defines the data allowed for a partial project update.
// Using pointers to differentiate between omitted fields and zero-value fields.
type PatchProjectRequest struct {
	Name              *string              `json:"name"`
	Location          *string              `json:"location"`
	Status            *string              `json:"status" binding:"omitempty,projectstatus"`
	Notes             *string              `json:"notes"`
	InternalNotes     *string              `json:"internalNotes"`
	Customer          *domain.Customer     `json:"customer"`
	ProjectManager    *domain.PersonRef    `json:"projectManager"`
	QuotedPrice       *domain.Amount       `json:"quotedPrice"`
	EstimatedDuration *domain.DurationText `json:"estimatedDuration"`
	HoursWorked       *domain.Amount       `json:"hoursWorked"`
	Progress          *domain.Progress     `json:"progress"`
	ProgressComment   *string              `json:"progressComment"`
	Budgets           *domain.Budgets      `json:"budgets"`
	Lines             *domain.ProjectLines `json:"lines"`
}

// SubmitFeedbackRequest is the customer feedback body.
type SubmitFeedbackRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comments string `json:"comments"`
}

// ListProjectsParams defines query parameters for listing projects.
type ListProjectsParams struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	SortKey  string `form:"sortKey,default=modifiedAt"`
	SortDir  string `form:"sortDir,default=desc"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"pageSize,default=20"`
}

// ToSpec converts the query parameters into a list pipeline spec.
func (p ListProjectsParams) ToSpec() listquery.Spec {
	return listquery.Spec{
		Search:   p.Search,
		Status:   p.Status,
		SortKey:  p.SortKey,
		SortDir:  listquery.ParseDirection(p.SortDir),
		Page:     p.Page,
		PageSize: p.PageSize,
	}
}

// ProjectResponse mirrors domain.Project. The domain type already carries the
// wire-shape JSON tags, so responses embed it directly.
type ProjectResponse struct {
	domain.Project
}

// ToProjectResponse converts a domain.Project to ProjectResponse DTO
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{Project: *p}
}

// ListProjectsResponse wraps a page of projects with pagination metadata.
type ListProjectsResponse struct {
	Projects   []ProjectResponse `json:"projects"`
	TotalCount int               `json:"totalCount"`
	TotalPages int               `json:"totalPages"`
	PageNumber int               `json:"pageNumber"`
}

// ToListProjectsResponse converts a list pipeline result to the response DTO.
func ToListProjectsResponse(result *listquery.Result[domain.Project]) ListProjectsResponse {
	projects := make([]ProjectResponse, len(result.Page))
	for i := range result.Page {
		projects[i] = ToProjectResponse(&result.Page[i])
	}
	return ListProjectsResponse{
		Projects:   projects,
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages,
		PageNumber: result.PageNumber,
	}
}
