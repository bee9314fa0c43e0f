package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tallyhq/tally/internal/domain/project"
	"github.com/tallyhq/tally/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite. Every query is
// scoped to the owning user; a wrong owner reads as not-found.
type ProjectRepository struct {
	q querier
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{q: db.DB}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (id, title, description, owner_id, logo_file_id, logo_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.q.ExecContext(ctx, query,
		proj.ID,
		proj.Title,
		proj.Description,
		proj.OwnerID,
		proj.LogoFileID,
		proj.LogoURL,
		proj.CreatedAt,
		proj.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// Get retrieves one of the owner's projects by ID
func (r *ProjectRepository) Get(ctx context.Context, ownerID, id string) (*project.Project, error) {
	query := `
		SELECT id, title, description, owner_id, logo_file_id, logo_url, created_at, updated_at
		FROM projects
		WHERE id = ? AND owner_id = ?
	`

	proj, err := scanProject(r.q.QueryRowContext(ctx, query, id, ownerID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return proj, nil
}

// List returns all projects owned by ownerID, newest first
func (r *ProjectRepository) List(ctx context.Context, ownerID string) ([]project.Project, error) {
	query := `
		SELECT id, title, description, owner_id, logo_file_id, logo_url, created_at, updated_at
		FROM projects
		WHERE owner_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// Update persists all mutable fields, still scoped to the owner
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	query := `
		UPDATE projects
		SET title = ?, description = ?, logo_file_id = ?, logo_url = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`

	result, err := r.q.ExecContext(ctx, query,
		proj.Title,
		proj.Description,
		proj.LogoFileID,
		proj.LogoURL,
		proj.UpdatedAt,
		proj.ID,
		proj.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete hard-deletes one of the owner's projects. Rows still referencing the
// project surface as repository.ErrForeignKeyViolation.
func (r *ProjectRepository) Delete(ctx context.Context, ownerID, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM projects WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		if isFKViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Exists reports whether a project exists, regardless of owner. Used for
// foreign-key validation when creating tasks.
func (r *ProjectRepository) Exists(ctx context.Context, projectID string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(1) FROM projects WHERE id = ?`, projectID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check project: %w", err)
	}
	return n > 0, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*project.Project, error) {
	var proj project.Project
	var logoFileID sql.NullString
	err := row.Scan(
		&proj.ID,
		&proj.Title,
		&proj.Description,
		&proj.OwnerID,
		&logoFileID,
		&proj.LogoURL,
		&proj.CreatedAt,
		&proj.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if logoFileID.Valid {
		proj.LogoFileID = &logoFileID.String
	}
	return &proj, nil
}
