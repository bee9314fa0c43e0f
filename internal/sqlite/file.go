package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tallyhq/tally/internal/domain/file"
	"github.com/tallyhq/tally/internal/domain/liveness"
	"github.com/tallyhq/tally/internal/repository"
)

// FileRepository implements file.Repository for SQLite.
type FileRepository struct {
	q querier
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *DB) *FileRepository {
	return &FileRepository{q: db.DB}
}

// Create creates a new file record
func (r *FileRepository) Create(ctx context.Context, f *file.File) error {
	query := `
		INSERT INTO files (id, filename, filepath, project_id, user_id, added_by, added_on, updated_by, updated_on, liveness)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.q.ExecContext(ctx, query,
		f.ID,
		f.Filename,
		f.Filepath,
		f.ProjectID,
		f.UserID,
		f.AddedBy,
		f.AddedOn,
		f.UpdatedBy,
		f.UpdatedOn,
		string(f.Liveness),
	)
	if err != nil {
		if isFKViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create file: %w", err)
	}
	return nil
}

// Get retrieves a file by ID, soft-deleted rows included
func (r *FileRepository) Get(ctx context.Context, id string) (*file.File, error) {
	query := `
		SELECT id, filename, filepath, project_id, user_id, added_by, added_on, updated_by, updated_on, liveness
		FROM files
		WHERE id = ?
	`

	f, err := scanFile(r.q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return f, nil
}

// List returns active files, newest first, with optional filters
func (r *FileRepository) List(ctx context.Context, opts file.ListOptions) ([]file.File, error) {
	query := `
		SELECT id, filename, filepath, project_id, user_id, added_by, added_on, updated_by, updated_on, liveness
		FROM files
		WHERE liveness = ?
	`
	args := []any{string(liveness.Active)}
	if opts.ProjectID != "" {
		query += ` AND project_id = ?`
		args = append(args, opts.ProjectID)
	}
	if opts.UserID != "" {
		query += ` AND user_id = ?`
		args = append(args, opts.UserID)
	}
	query += ` ORDER BY added_on DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []file.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, *f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file rows: %w", err)
	}
	return files, nil
}

// Update persists the mutable fields including liveness
func (r *FileRepository) Update(ctx context.Context, f *file.File) error {
	query := `
		UPDATE files
		SET filename = ?, updated_by = ?, updated_on = ?, liveness = ?
		WHERE id = ?
	`

	result, err := r.q.ExecContext(ctx, query,
		f.Filename,
		f.UpdatedBy,
		f.UpdatedOn,
		string(f.Liveness),
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update file: %w", err)
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

func scanFile(row scanner) (*file.File, error) {
	var f file.File
	var updatedBy sql.NullString
	var updatedOn sql.NullTime
	var state string
	err := row.Scan(
		&f.ID,
		&f.Filename,
		&f.Filepath,
		&f.ProjectID,
		&f.UserID,
		&f.AddedBy,
		&f.AddedOn,
		&updatedBy,
		&updatedOn,
		&state,
	)
	if err != nil {
		return nil, err
	}
	if updatedBy.Valid {
		f.UpdatedBy = &updatedBy.String
	}
	if updatedOn.Valid {
		f.UpdatedOn = &updatedOn.Time
	}
	f.Liveness = liveness.State(state)
	return &f, nil
}
