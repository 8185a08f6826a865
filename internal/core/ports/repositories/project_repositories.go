package repositories

import (
	"context"

	"github.com/paintworks/pw_backend/internal/core/domain"
)

// ProjectReader defines read operations for project data
type ProjectReader interface {
	// FindProjectByID retrieves a specific project by its ID.
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// FindProjects retrieves all projects. Filtering, sorting and pagination
	// happen in the service layer because most of the queried fields live
	// inside JSONB documents.
	FindProjects(ctx context.Context) ([]domain.Project, error)

	// FindProjectsByCustomerEmail retrieves all projects whose customer email matches.
	FindProjectsByCustomerEmail(ctx context.Context, email string) ([]domain.Project, error)
}

// ProjectWriter defines write operations for project data
type ProjectWriter interface {
	// SaveProject persists a new project.
	SaveProject(ctx context.Context, project domain.Project) error

	// UpdateProject replaces an existing project's stored document.
	UpdateProject(ctx context.Context, project domain.Project) error
}

// ProjectLifecycleManager defines operations for managing project lifecycle
type ProjectLifecycleManager interface {
	// DeleteProject removes a project permanently.
	DeleteProject(ctx context.Context, projectID string) error
}

// ProjectRepositoryFacade combines all project-related repository interfaces
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
	ProjectLifecycleManager
}
