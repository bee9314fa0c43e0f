package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/domain/validate"
	"github.com/tallyhq/tally/internal/repository"
)

// Service handles task business logic.
type Service struct {
	tasks    Repository
	projects ProjectChecker
	logger   *slog.Logger
}

// NewService creates a new task service.
func NewService(tasks Repository, projects ProjectChecker, logger *slog.Logger) *Service {
	return &Service{tasks: tasks, projects: projects, logger: logger}
}

// CreateRequest describes a task creation request.
type CreateRequest struct {
	Title       string
	Description string
	ProjectID   string
	AssignedTo  *string
	Status      *string
}

// UpdateRequest describes a partial task update. TotalHours is deliberately
// absent: only the time-log workflow moves that counter.
type UpdateRequest struct {
	ID          string
	Title       *string
	Description *string
	AssignedTo  *string
	Status      *string
}

// Create creates a task under an existing project.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Task, error) {
	var ve validate.Error
	if strings.TrimSpace(req.Title) == "" {
		ve.Add("title", "is required")
	}
	if strings.TrimSpace(req.ProjectID) == "" {
		ve.Add("project", "is required")
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	exists, err := s.projects.Exists(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("checking project: %w", err)
	}
	if !exists {
		return nil, ErrProjectNotFound
	}

	now := time.Now()
	t := &Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
		Status:      req.Status,
		TotalHours:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("creating task: %w", err)
	}
	return t, nil
}

// Get returns a task by id.
func (s *Service) Get(ctx context.Context, id string) (*Task, error) {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

// List returns tasks, newest first, optionally filtered by project.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Task, error) {
	return s.tasks.List(ctx, opts)
}

// Update applies a partial update. The running counter is never written here.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Task, error) {
	current, err := s.tasks.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading task: %w", err)
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			var ve validate.Error
			ve.Add("title", "is required")
			return nil, ve.Err()
		}
		current.Title = *req.Title
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.AssignedTo != nil {
		current.AssignedTo = req.AssignedTo
	}
	if req.Status != nil {
		current.Status = req.Status
	}
	current.UpdatedAt = time.Now()

	if err := s.tasks.Update(ctx, current); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating task: %w", err)
	}
	return current, nil
}
