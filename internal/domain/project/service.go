package project

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

// Service handles project business logic.
type Service struct {
	projects Repository
	logger   *slog.Logger
}

// NewService creates a new project service.
func NewService(projects Repository, logger *slog.Logger) *Service {
	return &Service{projects: projects, logger: logger}
}

// CreateRequest describes a project creation request.
type CreateRequest struct {
	Title       string
	Description string
	LogoURL     string
}

// UpdateRequest describes a partial project update. Nil fields are untouched.
type UpdateRequest struct {
	ID          string
	Title       *string
	Description *string
	LogoURL     *string
}

// Create creates a project owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (*Project, error) {
	var ve validate.Error
	if strings.TrimSpace(req.Title) == "" {
		ve.Add("title", "is required")
	}
	if strings.TrimSpace(ownerID) == "" {
		ve.Add("owner", "is required")
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	proj := &Project{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     ownerID,
		LogoURL:     req.LogoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projects.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return proj, nil
}

// Get returns one of the owner's projects by id.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*Project, error) {
	proj, err := s.projects.Get(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns all projects owned by ownerID.
func (s *Service) List(ctx context.Context, ownerID string) ([]Project, error) {
	return s.projects.List(ctx, ownerID)
}

// Update applies a partial update to one of the owner's projects.
func (s *Service) Update(ctx context.Context, ownerID string, req UpdateRequest) (*Project, error) {
	current, err := s.projects.Get(ctx, ownerID, req.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
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
	if req.LogoURL != nil {
		current.LogoURL = *req.LogoURL
	}
	current.UpdatedAt = time.Now()

	if err := s.projects.Update(ctx, current); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}
	return current, nil
}

// AttachLogo records an uploaded file as the project logo. The file reference
// takes display precedence over any logoUrl already set.
func (s *Service) AttachLogo(ctx context.Context, ownerID, id, fileID string) (*Project, error) {
	current, err := s.projects.Get(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}

	current.LogoFileID = &fileID
	current.UpdatedAt = time.Now()
	if err := s.projects.Update(ctx, current); err != nil {
		return nil, fmt.Errorf("attaching logo: %w", err)
	}
	return current, nil
}

// Delete hard-deletes one of the owner's projects. Projects with tasks or
// files still attached are rejected rather than cascaded.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	err := s.projects.Delete(ctx, ownerID, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return ErrHasReferences
	default:
		return fmt.Errorf("deleting project: %w", err)
	}
}
