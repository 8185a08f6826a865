package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/paintworks/pw_backend/internal/apperrors"
	"github.com/paintworks/pw_backend/internal/core/domain"
	"github.com/paintworks/pw_backend/internal/core/ports/repositories"
)

// ProjectRepository persists projects in PostgreSQL. The stable scalar fields
// live in typed columns; the loosely shaped nested documents (customer,
// budgets, line items, feedback) live in JSONB so legacy shapes survive the
// round trip and normalize on read.
type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

var _ repositories.ProjectRepositoryFacade = (*ProjectRepository)(nil)

const projectColumns = `
	project_id, name, location, status, notes, internal_notes,
	customer, project_manager, quoted_price, estimated_duration, hours_worked,
	progress, budgets, lines, feedback, progress_log,
	owner_id, created_at, modified_at`

func (r *ProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	query := `
        INSERT INTO projects (` + projectColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
    `
	args, err := projectArgs(project)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	query := `
        UPDATE projects SET
            name = $2, location = $3, status = $4, notes = $5, internal_notes = $6,
            customer = $7, project_manager = $8, quoted_price = $9,
            estimated_duration = $10, hours_worked = $11,
            progress = $12, budgets = $13, lines = $14, feedback = $15,
            progress_log = $16, owner_id = $17, created_at = $18, modified_at = $19
        WHERE project_id = $1;
    `
	args, err := projectArgs(project)
	if err != nil {
		return err
	}
	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", project.ProjectID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *ProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	if projectID == "" {
		return nil, apperrors.ErrEmptyID
	}
	query := `SELECT ` + projectColumns + ` FROM projects WHERE project_id = $1;`
	project, err := scanProject(r.db.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project by ID: %w", err)
	}
	return project, nil
}

func (r *ProjectRepository) FindProjects(ctx context.Context) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY modified_at DESC;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (r *ProjectRepository) FindProjectsByCustomerEmail(ctx context.Context, email string) ([]domain.Project, error) {
	query := `
        SELECT ` + projectColumns + `
        FROM projects
        WHERE lower(customer->>'email') = lower($1)
        ORDER BY modified_at DESC;
    `
	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects by customer email: %w", err)
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (r *ProjectRepository) DeleteProject(ctx context.Context, projectID string) error {
	if projectID == "" {
		return apperrors.ErrEmptyID
	}
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE project_id = $1;`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", projectID, apperrors.ErrNotFound)
	}
	return nil
}

// projectArgs lays out the insert/update parameters in projectColumns order.
func projectArgs(p domain.Project) ([]any, error) {
	customer, err := json.Marshal(p.Customer)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal customer: %w", err)
	}
	manager, err := json.Marshal(p.ProjectManager)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project manager: %w", err)
	}
	progress, err := json.Marshal(p.Progress)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal progress: %w", err)
	}
	budgets, err := json.Marshal(p.Budgets)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal budgets: %w", err)
	}
	lines, err := json.Marshal(p.Lines)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lines: %w", err)
	}
	var feedback []byte
	if p.Feedback != nil {
		feedback, err = json.Marshal(p.Feedback)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal feedback: %w", err)
		}
	}
	progressLog, err := json.Marshal(p.ProgressLog)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal progress log: %w", err)
	}

	return []any{
		p.ProjectID, p.Name, p.Location, string(p.Status), p.Notes, p.InternalNotes,
		customer, manager, p.QuotedPrice.Decimal, p.EstimatedDuration, p.HoursWorked.Decimal,
		progress, budgets, lines, feedback, progressLog,
		p.OwnerID, p.CreatedAt, p.ModifiedAt,
	}, nil
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p           domain.Project
		status      string
		customer    []byte
		manager     []byte
		quoted      decimal.Decimal
		hours       decimal.Decimal
		progress    []byte
		budgets     []byte
		lines       []byte
		feedback    []byte
		progressLog []byte
	)
	err := row.Scan(
		&p.ProjectID, &p.Name, &p.Location, &status, &p.Notes, &p.InternalNotes,
		&customer, &manager, &quoted, &p.EstimatedDuration, &hours,
		&progress, &budgets, &lines, &feedback, &progressLog,
		&p.OwnerID, &p.CreatedAt, &p.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Status = domain.ProjectStatus(status)
	p.QuotedPrice = domain.AmountFromDecimal(quoted)
	p.HoursWorked = domain.AmountFromDecimal(hours)

	// The JSONB documents came from loosely typed legacy writes; the domain
	// unmarshalers absorb any shape, so decode errors here mean corruption.
	if len(customer) > 0 {
		_ = json.Unmarshal(customer, &p.Customer)
	}
	if len(manager) > 0 {
		_ = json.Unmarshal(manager, &p.ProjectManager)
	}
	if len(progress) > 0 {
		_ = json.Unmarshal(progress, &p.Progress)
	}
	if len(budgets) > 0 {
		_ = json.Unmarshal(budgets, &p.Budgets)
	}
	if len(lines) > 0 {
		_ = json.Unmarshal(lines, &p.Lines)
	}
	if len(feedback) > 0 {
		var f domain.Feedback
		if err := json.Unmarshal(feedback, &f); err == nil {
			p.Feedback = &f
		}
	}
	if len(progressLog) > 0 {
		_ = json.Unmarshal(progressLog, &p.ProgressLog)
	}

	p.Normalize()
	return &p, nil
}

func collectProjects(rows pgx.Rows) ([]domain.Project, error) {
	projects := []domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, *project)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", rows.Err())
	}
	return projects, nil
}
