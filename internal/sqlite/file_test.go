package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/domain/file"
	"github.com/tallyhq/tally/internal/domain/liveness"
	"github.com/tallyhq/tally/internal/repository"
)

func TestFileRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProject(t, db, "p1", "alice")

	repo := NewFileRepository(db)
	f := &file.File{
		ID:        "f1",
		Filename:  "report.pdf",
		Filepath:  "uploads/abc-report.pdf",
		ProjectID: "p1",
		UserID:    "alice",
		AddedBy:   "alice",
		AddedOn:   time.Now(),
		Liveness:  liveness.Active,
	}
	require.NoError(t, repo.Create(ctx, f))

	loaded, err := repo.Get(ctx, "f1")
	require.NoError(t, err)
	require.Equal(t, "report.pdf", loaded.Filename)
	require.Equal(t, liveness.Active, loaded.Liveness)
	require.Nil(t, loaded.UpdatedBy)

	_, err = repo.Get(ctx, "missing")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestFileRepository_ListFiltersLiveness(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProject(t, db, "p1", "alice")

	repo := NewFileRepository(db)
	now := time.Now()
	require.NoError(t, repo.Create(ctx, &file.File{
		ID: "f1", Filename: "a.txt", Filepath: "uploads/a.txt",
		ProjectID: "p1", UserID: "alice", AddedBy: "alice", AddedOn: now,
		Liveness: liveness.Active,
	}))
	require.NoError(t, repo.Create(ctx, &file.File{
		ID: "f2", Filename: "b.txt", Filepath: "uploads/b.txt",
		ProjectID: "p1", UserID: "bob", AddedBy: "bob", AddedOn: now.Add(time.Minute),
		Liveness: liveness.Deleted,
	}))

	active, err := repo.List(ctx, file.ListOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "f1", active[0].ID)

	byUser, err := repo.List(ctx, file.ListOptions{UserID: "bob"})
	require.NoError(t, err)
	require.Empty(t, byUser) // bob's only file is soft-deleted

	// Direct lookup still reaches the deleted row.
	deleted, err := repo.Get(ctx, "f2")
	require.NoError(t, err)
	require.Equal(t, liveness.Deleted, deleted.Liveness)
}
