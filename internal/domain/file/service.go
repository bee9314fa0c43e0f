package file

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/domain/liveness"
	"github.com/tallyhq/tally/internal/domain/validate"
	"github.com/tallyhq/tally/internal/repository"
)

// Service handles file metadata business logic. Byte storage is the
// transport's concern; this layer only tracks records.
type Service struct {
	files  Repository
	logger *slog.Logger
}

// NewService creates a new file service.
func NewService(files Repository, logger *slog.Logger) *Service {
	return &Service{files: files, logger: logger}
}

// CreateRequest describes an upload's metadata.
type CreateRequest struct {
	Filename  string
	Filepath  string
	ProjectID string
}

// UpdateRequest describes a partial file update. Only the owner may apply it.
type UpdateRequest struct {
	ID       string
	Filename *string
	Liveness *liveness.State
}

// Create records an uploaded file owned by userID.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*File, error) {
	var ve validate.Error
	if strings.TrimSpace(req.Filename) == "" {
		ve.Add("filename", "is required")
	}
	if strings.TrimSpace(req.Filepath) == "" {
		ve.Add("filepath", "is required")
	}
	if strings.TrimSpace(req.ProjectID) == "" {
		ve.Add("projectId", "is required")
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	f := &File{
		ID:        uuid.NewString(),
		Filename:  req.Filename,
		Filepath:  req.Filepath,
		ProjectID: req.ProjectID,
		UserID:    userID,
		AddedBy:   userID,
		AddedOn:   time.Now(),
		Liveness:  liveness.Active,
	}

	if err := s.files.Create(ctx, f); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("creating file record: %w", err)
	}
	return f, nil
}

// Get returns an active file by id. Soft-deleted files read as not-found.
func (s *Service) Get(ctx context.Context, id string) (*File, error) {
	f, err := s.files.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting file: %w", err)
	}
	if !f.Active() {
		return nil, ErrNotFound
	}
	return f, nil
}

// List returns active files, newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]File, error) {
	return s.files.List(ctx, opts)
}

// Update applies an ownership-checked partial update.
func (s *Service) Update(ctx context.Context, userID string, req UpdateRequest) (*File, error) {
	current, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, ErrForbidden
	}

	if req.Filename != nil {
		if strings.TrimSpace(*req.Filename) == "" {
			var ve validate.Error
			ve.Add("filename", "is required")
			return nil, ve.Err()
		}
		current.Filename = *req.Filename
	}
	if req.Liveness != nil {
		if !req.Liveness.Valid() {
			var ve validate.Error
			ve.Add("liveness", "must be active or deleted")
			return nil, ve.Err()
		}
		current.Liveness = *req.Liveness
	}
	now := time.Now()
	current.UpdatedOn = &now
	current.UpdatedBy = &userID

	if err := s.files.Update(ctx, current); err != nil {
		return nil, fmt.Errorf("updating file: %w", err)
	}
	return current, nil
}

// Delete soft-deletes an owned file. The row stays for direct id lookups.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.UserID != userID {
		return ErrForbidden
	}

	now := time.Now()
	current.Liveness = liveness.Deleted
	current.UpdatedOn = &now
	current.UpdatedBy = &userID

	if err := s.files.Update(ctx, current); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
