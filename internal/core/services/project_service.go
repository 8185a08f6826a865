package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paintworks/pw_backend/internal/apperrors"
	"github.com/paintworks/pw_backend/internal/core/domain"
	"github.com/paintworks/pw_backend/internal/core/policy"
	portsrepo "github.com/paintworks/pw_backend/internal/core/ports/repositories"
	portssvc "github.com/paintworks/pw_backend/internal/core/ports/services"
	"github.com/paintworks/pw_backend/internal/dto"
	"github.com/paintworks/pw_backend/internal/utils/costing"
	"github.com/paintworks/pw_backend/internal/utils/listquery"
	"github.com/paintworks/pw_backend/internal/utils/schedule"
)

// ProjectService implements project CRUD with permission enforcement, plus
// the derived cost and progress computations.
type ProjectService struct {
	projectRepo portsrepo.ProjectRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
}

func NewProjectService(projectRepo portsrepo.ProjectRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, userRepo: userRepo}
}

var _ portssvc.ProjectSvcFacade = (*ProjectService)(nil)

// projectListFields adapts projects to the list pipeline.
var projectListFields = listquery.Fields[domain.Project]{
	SearchText: func(p domain.Project) []string {
		return []string{p.Name, p.Location, p.Customer.Name, p.Customer.Email, p.ProjectManager.Name}
	},
	Status: func(p domain.Project) string { return string(p.Status) },
	SortString: map[string]func(domain.Project) string{
		"name":     func(p domain.Project) string { return p.Name },
		"location": func(p domain.Project) string { return p.Location },
		"customer": func(p domain.Project) string { return p.Customer.Name },
	},
	SortTime: map[string]func(domain.Project) string{
		"createdAt":  func(p domain.Project) string { return p.CreatedAt.Format(time.RFC3339Nano) },
		"modifiedAt": func(p domain.Project) string { return p.ModifiedAt.Format(time.RFC3339Nano) },
	},
	SortRank: map[string]func(domain.Project) int{
		"status": func(p domain.Project) int { return p.Status.Rank() },
	},
}

func (s *ProjectService) GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", projectID, err)
	}
	return project, nil
}

func (s *ProjectService) ListProjects(ctx context.Context, spec listquery.Spec) (*listquery.Result[domain.Project], error) {
	projects, err := s.projectRepo.FindProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	result := listquery.Apply(projects, spec, projectListFields)
	return &result, nil
}

func (s *ProjectService) ListProjectsForCustomer(ctx context.Context, email string) ([]domain.Project, error) {
	if strings.TrimSpace(email) == "" {
		return []domain.Project{}, nil
	}
	projects, err := s.projectRepo.FindProjectsByCustomerEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects for customer: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, requestingUserID string) (*domain.Project, error) {
	actor, err := s.requireUser(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if !policy.CanCreateProject(*actor) {
		return nil, fmt.Errorf("creating projects requires owner, admin or project manager: %w", apperrors.ErrForbidden)
	}

	now := time.Now()
	project := domain.NewProject()
	project.ProjectID = uuid.NewString()
	project.Name = req.Name
	project.Location = req.Location
	project.Status = domain.NormalizeStatus(req.Status)
	project.Notes = req.Notes
	project.InternalNotes = req.InternalNotes
	project.Customer = req.Customer
	project.ProjectManager = req.ProjectManager
	project.QuotedPrice = req.QuotedPrice
	project.EstimatedDuration = req.EstimatedDuration
	project.Budgets = req.Budgets
	if req.Lines != nil {
		project.Lines = *req.Lines
	}
	project.OwnerID = actor.UserID
	project.CreatedAt = now
	project.ModifiedAt = now
	project.Normalize()

	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &project, nil
}

func (s *ProjectService) SaveProject(ctx context.Context, projectID string, req dto.SaveProjectRequest, requestingUserID string) (*domain.Project, error) {
	actor, existing, err := s.loadForEdit(ctx, projectID, requestingUserID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = req.Name
	updated.Location = req.Location
	updated.Status = domain.NormalizeStatus(req.Status)
	updated.Notes = req.Notes
	updated.InternalNotes = req.InternalNotes
	updated.Customer = req.Customer
	updated.ProjectManager = req.ProjectManager
	updated.QuotedPrice = req.QuotedPrice
	updated.EstimatedDuration = req.EstimatedDuration
	updated.HoursWorked = req.HoursWorked
	updated.Progress = req.Progress
	updated.Budgets = req.Budgets
	if req.Lines != nil {
		updated.Lines = *req.Lines
	} else {
		updated.Lines = domain.ProjectLines{}
	}
	s.logChanges(&updated, existing, actor)
	updated.ModifiedAt = time.Now()
	updated.Normalize()

	if err := s.projectRepo.UpdateProject(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save project %s: %w", projectID, err)
	}
	return &updated, nil
}

func (s *ProjectService) PatchProject(ctx context.Context, projectID string, req dto.PatchProjectRequest, requestingUserID string) (*domain.Project, error) {
	actor, existing, err := s.loadForEdit(ctx, projectID, requestingUserID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Location != nil {
		updated.Location = *req.Location
	}
	if req.Status != nil {
		updated.Status = domain.NormalizeStatus(*req.Status)
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}
	if req.InternalNotes != nil {
		updated.InternalNotes = *req.InternalNotes
	}
	if req.Customer != nil {
		updated.Customer = *req.Customer
	}
	if req.ProjectManager != nil {
		updated.ProjectManager = *req.ProjectManager
	}
	if req.QuotedPrice != nil {
		updated.QuotedPrice = *req.QuotedPrice
	}
	if req.EstimatedDuration != nil {
		updated.EstimatedDuration = *req.EstimatedDuration
	}
	if req.HoursWorked != nil {
		updated.HoursWorked = *req.HoursWorked
	}
	if req.Progress != nil {
		updated.Progress = *req.Progress
	}
	if req.ProgressComment != nil {
		updated.Progress.Comment = *req.ProgressComment
	}
	if req.Budgets != nil {
		updated.Budgets = *req.Budgets
	}
	if req.Lines != nil {
		updated.Lines = *req.Lines
	}
	s.logChanges(&updated, existing, actor)
	updated.ModifiedAt = time.Now()
	updated.Normalize()

	if err := s.projectRepo.UpdateProject(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to patch project %s: %w", projectID, err)
	}
	return &updated, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, projectID string, requestingUserID string) error {
	actor, err := s.requireUser(ctx, requestingUserID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteProject(*actor) {
		return fmt.Errorf("deleting projects is restricted to the owner: %w", apperrors.ErrForbidden)
	}
	if err := s.projectRepo.DeleteProject(ctx, projectID); err != nil {
		return fmt.Errorf("failed to delete project %s: %w", projectID, err)
	}
	return nil
}

func (s *ProjectService) ComputeTotals(ctx context.Context, projectID string) (*costing.Report, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project %s for totals: %w", projectID, err)
	}
	report := costing.ComputeTotals(*project)
	return &report, nil
}

func (s *ProjectService) EstimateProgress(ctx context.Context, projectID string) (*schedule.Estimate, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project %s for progress: %w", projectID, err)
	}
	estimate := schedule.EstimateProgress(string(project.EstimatedDuration), project.HoursWorked.InexactFloat64(), project.Status)
	return &estimate, nil
}

func (s *ProjectService) SubmitFeedback(ctx context.Context, projectID string, req dto.SubmitFeedbackRequest, requestingUserID string) (*domain.Project, error) {
	actor, err := s.requireUser(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project %s for feedback: %w", projectID, err)
	}

	// Only the customer on the project may leave feedback.
	if actor.Email == "" || !strings.EqualFold(actor.Email, project.Customer.Email) {
		return nil, fmt.Errorf("feedback is limited to the project's customer: %w", apperrors.ErrForbidden)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", apperrors.ErrValidation)
	}

	now := time.Now()
	project.Feedback = &domain.Feedback{
		Rating:        req.Rating,
		Comments:      req.Comments,
		Date:          now.UTC().Format(time.RFC3339),
		CustomerEmail: actor.Email,
	}
	project.ModifiedAt = now
	project.Normalize()

	if err := s.projectRepo.UpdateProject(ctx, *project); err != nil {
		return nil, fmt.Errorf("failed to store feedback on project %s: %w", projectID, err)
	}
	return project, nil
}

// loadForEdit fetches the project and enforces the edit permission in one step.
func (s *ProjectService) loadForEdit(ctx context.Context, projectID string, requestingUserID string) (*domain.UserProfile, *domain.Project, error) {
	actor, err := s.requireUser(ctx, requestingUserID)
	if err != nil {
		return nil, nil, err
	}
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load project %s: %w", projectID, err)
	}
	if !policy.CanEditProject(*project, *actor) {
		return nil, nil, fmt.Errorf("cannot edit project %s: %w", projectID, apperrors.ErrForbidden)
	}
	return actor, project, nil
}

// logChanges appends progress-log entries for status and progress changes.
// The log is append-only history; entries are never rewritten.
func (s *ProjectService) logChanges(updated *domain.Project, previous *domain.Project, actor *domain.UserProfile) {
	now := time.Now().UTC().Format(time.RFC3339)
	who := actor.Name
	if who == "" {
		who = actor.UserID
	}
	if domain.NormalizeStatus(string(updated.Status)) != domain.NormalizeStatus(string(previous.Status)) {
		updated.ProgressLog = append(updated.ProgressLog, domain.ProgressLogEntry{
			Action: fmt.Sprintf("status changed to %s", domain.NormalizeStatus(string(updated.Status))),
			User:   who,
			Date:   now,
		})
	}
	if updated.Progress.Percent != previous.Progress.Percent {
		updated.ProgressLog = append(updated.ProgressLog, domain.ProgressLogEntry{
			Action: fmt.Sprintf("progress set to %d%%", updated.Progress.Percent),
			User:   who,
			Date:   now,
		})
	}
}

func (s *ProjectService) requireUser(ctx context.Context, userID string) (*domain.UserProfile, error) {
	actor, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrEmptyID) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load requesting user: %w", err)
	}
	return actor, nil
}
