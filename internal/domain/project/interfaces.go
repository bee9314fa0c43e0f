package project

import "context"

// Repository provides project persistence. Every method is scoped to the
// owning user; a lookup with the wrong owner behaves as not-found.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, ownerID, id string) (*Project, error)
	List(ctx context.Context, ownerID string) ([]Project, error)
	Update(ctx context.Context, proj *Project) error
	Delete(ctx context.Context, ownerID, id string) error
}
