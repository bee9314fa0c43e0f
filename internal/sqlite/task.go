package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tallyhq/tally/internal/domain/task"
	"github.com/tallyhq/tally/internal/repository"
)

// TaskRepository implements task.Repository and timelog.TaskRepository for
// SQLite.
type TaskRepository struct {
	q querier
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{q: db.DB}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, project_id, assigned_to, status, total_hours, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.q.ExecContext(ctx, query,
		t.ID,
		t.Title,
		t.Description,
		t.ProjectID,
		t.AssignedTo,
		t.Status,
		t.TotalHours,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		if isFKViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	query := `
		SELECT id, title, description, project_id, assigned_to, status, total_hours, created_at, updated_at
		FROM tasks
		WHERE id = ?
	`

	t, err := scanTask(r.q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// List returns tasks, newest first, optionally filtered by project
func (r *TaskRepository) List(ctx context.Context, opts task.ListOptions) ([]task.Task, error) {
	query := `
		SELECT id, title, description, project_id, assigned_to, status, total_hours, created_at, updated_at
		FROM tasks
	`
	var args []any
	if opts.ProjectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, opts.ProjectID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}

// Update persists the user-mutable fields. total_hours is excluded on
// purpose; only AddHours moves the counter.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	query := `
		UPDATE tasks
		SET title = ?, description = ?, assigned_to = ?, status = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.q.ExecContext(ctx, query,
		t.Title,
		t.Description,
		t.AssignedTo,
		t.Status,
		t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
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

// AddHours advances the running counter by hours in a single statement, so
// concurrent increments accumulate instead of overwriting each other, and
// returns the new total.
func (r *TaskRepository) AddHours(ctx context.Context, id string, hours float64) (float64, error) {
	query := `
		UPDATE tasks
		SET total_hours = total_hours + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING total_hours
	`

	var total float64
	err := r.q.QueryRowContext(ctx, query, hours, id).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add hours: %w", err)
	}
	return total, nil
}

func scanTask(row scanner) (*task.Task, error) {
	var t task.Task
	var assignedTo, status sql.NullString
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.ProjectID,
		&assignedTo,
		&status,
		&t.TotalHours,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if assignedTo.Valid {
		t.AssignedTo = &assignedTo.String
	}
	if status.Valid {
		t.Status = &status.String
	}
	return &t, nil
}
