package task

import "context"

// Repository provides task persistence.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context, opts ListOptions) ([]Task, error)
	Update(ctx context.Context, t *Task) error
}

// ListOptions filters task listings.
type ListOptions struct {
	ProjectID string
}

// ProjectChecker verifies that a referenced project exists, regardless of
// owner. Task creation validates the foreign key without leaking the whole
// project repository in here.
type ProjectChecker interface {
	Exists(ctx context.Context, projectID string) (bool, error)
}
