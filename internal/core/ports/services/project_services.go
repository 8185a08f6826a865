package services

import (
	"context"

	"github.com/paintworks/pw_backend/internal/core/domain"
	"github.com/paintworks/pw_backend/internal/dto"
	"github.com/paintworks/pw_backend/internal/utils/costing"
	"github.com/paintworks/pw_backend/internal/utils/listquery"
	"github.com/paintworks/pw_backend/internal/utils/schedule"
)

// ProjectReaderSvc defines read operations for project data
type ProjectReaderSvc interface {
	// GetProjectByID retrieves a project by ID.
	GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// ListProjects retrieves projects filtered, sorted and paginated per the given query.
	ListProjects(ctx context.Context, spec listquery.Spec) (*listquery.Result[domain.Project], error)

	// ListProjectsForCustomer retrieves projects whose customer email matches.
	ListProjectsForCustomer(ctx context.Context, email string) ([]domain.Project, error)
}

// ProjectWriterSvc defines write operations for project data
type ProjectWriterSvc interface {
	// CreateProject creates a new project. The requesting user must hold a
	// project-creating role.
	CreateProject(ctx context.Context, req dto.CreateProjectRequest, requestingUserID string) (*domain.Project, error)

	// SaveProject replaces an existing project with the given document.
	SaveProject(ctx context.Context, projectID string, req dto.SaveProjectRequest, requestingUserID string) (*domain.Project, error)

	// PatchProject applies a partial field update to an existing project.
	PatchProject(ctx context.Context, projectID string, req dto.PatchProjectRequest, requestingUserID string) (*domain.Project, error)

	// DeleteProject removes a project. Restricted to the organisation owner.
	DeleteProject(ctx context.Context, projectID string, requestingUserID string) error
}

// ProjectInsightSvc defines derived, read-only computations over a project.
type ProjectInsightSvc interface {
	// ComputeTotals builds the per-category cost report for a project.
	ComputeTotals(ctx context.Context, projectID string) (*costing.Report, error)

	// EstimateProgress derives the schedule-based progress estimate for a project.
	EstimateProgress(ctx context.Context, projectID string) (*schedule.Estimate, error)
}

// ProjectFeedbackSvc defines customer feedback operations.
type ProjectFeedbackSvc interface {
	// SubmitFeedback records customer feedback on a project. The submitting
	// user's email must match the project's customer email.
	SubmitFeedback(ctx context.Context, projectID string, req dto.SubmitFeedbackRequest, requestingUserID string) (*domain.Project, error)
}

// ProjectSvcFacade combines all project-related service interfaces
type ProjectSvcFacade interface {
	ProjectReaderSvc
	ProjectWriterSvc
	ProjectInsightSvc
	ProjectFeedbackSvc
}
