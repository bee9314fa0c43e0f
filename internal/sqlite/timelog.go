package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tallyhq/tally/internal/domain/liveness"
	"github.com/tallyhq/tally/internal/domain/timelog"
	"github.com/tallyhq/tally/internal/repository"
)

// TimeLogRepository implements timelog.Repository for SQLite.
type TimeLogRepository struct {
	q querier
}

// NewTimeLogRepository creates a new TimeLogRepository
func NewTimeLogRepository(db *DB) *TimeLogRepository {
	return &TimeLogRepository{q: db.DB}
}

// Create creates a new time log
func (r *TimeLogRepository) Create(ctx context.Context, l *timelog.TimeLog) error {
	query := `
		INSERT INTO time_logs (id, task_id, user_id, hours, date, description, liveness, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.q.ExecContext(ctx, query,
		l.ID,
		l.TaskID,
		l.UserID,
		l.Hours,
		l.Date,
		l.Description,
		string(l.Liveness),
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		if isFKViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create time log: %w", err)
	}
	return nil
}

// Get retrieves a time log by ID, soft-deleted rows included
func (r *TimeLogRepository) Get(ctx context.Context, id string) (*timelog.TimeLog, error) {
	query := `
		SELECT id, task_id, user_id, hours, date, description, liveness, created_at, updated_at
		FROM time_logs
		WHERE id = ?
	`

	l, err := scanTimeLog(r.q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time log: %w", err)
	}
	return l, nil
}

// List returns time logs ordered by date descending. Soft-deleted rows are
// excluded unless IncludeDeleted is set.
func (r *TimeLogRepository) List(ctx context.Context, opts timelog.ListOptions) ([]timelog.TimeLog, error) {
	query := `
		SELECT id, task_id, user_id, hours, date, description, liveness, created_at, updated_at
		FROM time_logs
		WHERE 1 = 1
	`
	var args []any
	if !opts.IncludeDeleted {
		query += ` AND liveness = ?`
		args = append(args, string(liveness.Active))
	}
	if opts.TaskID != "" {
		query += ` AND task_id = ?`
		args = append(args, opts.TaskID)
	}
	if opts.UserID != "" {
		query += ` AND user_id = ?`
		args = append(args, opts.UserID)
	}
	if opts.From != nil {
		query += ` AND date >= ?`
		args = append(args, *opts.From)
	}
	if opts.To != nil {
		query += ` AND date <= ?`
		args = append(args, *opts.To)
	}
	query += ` ORDER BY date DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time logs: %w", err)
	}
	defer rows.Close()

	var logs []timelog.TimeLog
	for rows.Next() {
		l, err := scanTimeLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time log: %w", err)
		}
		logs = append(logs, *l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time log rows: %w", err)
	}
	return logs, nil
}

// Update persists the mutable fields including liveness
func (r *TimeLogRepository) Update(ctx context.Context, l *timelog.TimeLog) error {
	query := `
		UPDATE time_logs
		SET hours = ?, date = ?, description = ?, liveness = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.q.ExecContext(ctx, query,
		l.Hours,
		l.Date,
		l.Description,
		string(l.Liveness),
		l.UpdatedAt,
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update time log: %w", err)
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

// SummarizeByTask sums hours and counts entries over the task's active logs.
// A task with no active logs summarizes to zeros.
func (r *TimeLogRepository) SummarizeByTask(ctx context.Context, taskID string) (timelog.Summary, error) {
	query := `
		SELECT COALESCE(SUM(hours), 0), COUNT(*)
		FROM time_logs
		WHERE task_id = ? AND liveness = ?
	`

	var summary timelog.Summary
	err := r.q.QueryRowContext(ctx, query, taskID, string(liveness.Active)).Scan(
		&summary.TotalHours,
		&summary.Entries,
	)
	if err != nil {
		return timelog.Summary{}, fmt.Errorf("failed to summarize time logs: %w", err)
	}
	return summary, nil
}

func scanTimeLog(row scanner) (*timelog.TimeLog, error) {
	var l timelog.TimeLog
	var state string
	err := row.Scan(
		&l.ID,
		&l.TaskID,
		&l.UserID,
		&l.Hours,
		&l.Date,
		&l.Description,
		&state,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Liveness = liveness.State(state)
	return &l, nil
}
