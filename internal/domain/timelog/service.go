package timelog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/domain/liveness"
	"github.com/tallyhq/tally/internal/domain/task"
	"github.com/tallyhq/tally/internal/repository"
)

// Service handles time-log business logic, including the creation workflow
// that keeps the parent task's running counter in step with new logs.
type Service struct {
	logs     Repository
	tasks    TaskRepository
	exec     Executor
	fallback Executor
	logger   *slog.Logger
}

// NewService creates a new time-log service. exec runs the creation
// workflow; fallback, when non-nil, is a sequential executor used once if
// exec reports that the backend cannot provide atomic scopes.
func NewService(logs Repository, tasks TaskRepository, exec, fallback Executor, logger *slog.Logger) *Service {
	return &Service{
		logs:     logs,
		tasks:    tasks,
		exec:     exec,
		fallback: fallback,
		logger:   logger,
	}
}

// CreateRequest describes a time-log creation request. Hours and Date arrive
// as raw strings so validation owns the parsing rules.
type CreateRequest struct {
	TaskID      string
	Hours       string
	Date        string
	Description string
}

// UpdateRequest describes an ownership-checked partial update. Re-pointing a
// log at a different task or user is not allowed: it would silently desync
// the parent task's running counter.
type UpdateRequest struct {
	ID          string
	Hours       *string
	Date        *string
	Description *string
}

// Create validates the request, then inserts the log and advances the parent
// task's totalHours as one unit. The two writes commit atomically when the
// backend supports multi-record transactions; when the executor reports
// repository.ErrAtomicityUnsupported the same steps run once more without a
// transaction, accepting that a crash between the insert and the increment
// leaves the counter behind the stored log.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Result, error) {
	hours, date, err := validateCreate(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.tasks.Get(ctx, req.TaskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("checking task: %w", err)
	}

	now := time.Now()
	log := &TimeLog{
		ID:          uuid.NewString(),
		TaskID:      req.TaskID,
		UserID:      userID,
		Hours:       hours,
		Date:        date,
		Description: req.Description,
		Liveness:    liveness.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var updated *task.Task
	run := func(ctx context.Context, scope TxScope) error {
		// Re-check inside the scope: the task may have been deleted since
		// the pre-validation read.
		current, err := scope.Tasks().Get(ctx, req.TaskID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("loading task: %w", err)
		}

		if err := scope.TimeLogs().Create(ctx, log); err != nil {
			return fmt.Errorf("inserting time log: %w", err)
		}

		newTotal, err := scope.Tasks().AddHours(ctx, req.TaskID, hours)
		if err != nil {
			return fmt.Errorf("incrementing total hours: %w", err)
		}

		t := *current
		t.TotalHours = newTotal
		t.UpdatedAt = time.Now()
		updated = &t
		return nil
	}

	err = s.exec.Execute(ctx, run)
	if errors.Is(err, repository.ErrAtomicityUnsupported) && s.fallback != nil {
		s.logger.Warn("atomic scopes unavailable, applying time log sequentially",
			"task", req.TaskID)
		err = s.fallback.Execute(ctx, run)
	}
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("creating time log: %w", err)
	}

	return &Result{TimeLog: log, Task: updated}, nil
}

// Get returns a time log by id, soft-deleted rows included. Listings filter
// liveness; direct lookup does not.
func (s *Service) Get(ctx context.Context, id string) (*TimeLog, error) {
	l, err := s.logs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting time log: %w", err)
	}
	return l, nil
}

// List returns active logs, date descending, honoring the given filters.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]TimeLog, error) {
	opts.IncludeDeleted = false
	return s.logs.List(ctx, opts)
}

// ListByTask returns a task's active logs, date descending.
func (s *Service) ListByTask(ctx context.Context, taskID string) ([]TimeLog, error) {
	return s.logs.List(ctx, ListOptions{TaskID: taskID})
}

// SummarizeByTask sums the active logs of a task. The running counter on the
// task is maintained independently and is not decremented on soft delete, so
// the two can legitimately diverge once logs are deleted.
func (s *Service) SummarizeByTask(ctx context.Context, taskID string) (Summary, error) {
	return s.logs.SummarizeByTask(ctx, taskID)
}

// Update applies an ownership-checked partial update. The parent task's
// counter is left alone even when hours change.
func (s *Service) Update(ctx context.Context, userID string, req UpdateRequest) (*TimeLog, error) {
	current, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, ErrForbidden
	}

	if req.Hours != nil {
		hours, err := parseHours(*req.Hours)
		if err != nil {
			return nil, err
		}
		current.Hours = hours
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		current.Date = date
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	current.UpdatedAt = time.Now()

	if err := s.logs.Update(ctx, current); err != nil {
		return nil, fmt.Errorf("updating time log: %w", err)
	}
	return current, nil
}

// Delete soft-deletes an owned time log. The row stays for direct id lookup
// and the task's running counter keeps the hours it already absorbed.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.UserID != userID {
		return ErrForbidden
	}

	current.Liveness = liveness.Deleted
	current.UpdatedAt = time.Now()
	if err := s.logs.Update(ctx, current); err != nil {
		return fmt.Errorf("deleting time log: %w", err)
	}
	return nil
}
