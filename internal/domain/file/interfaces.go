package file

import "context"

// Repository provides file metadata persistence. Get returns soft-deleted
// rows too; callers decide whether liveness matters.
type Repository interface {
	Create(ctx context.Context, f *File) error
	Get(ctx context.Context, id string) (*File, error)
	List(ctx context.Context, opts ListOptions) ([]File, error)
	Update(ctx context.Context, f *File) error
}

// ListOptions filters file listings. Listings only ever return active rows.
type ListOptions struct {
	ProjectID string
	UserID    string
}
