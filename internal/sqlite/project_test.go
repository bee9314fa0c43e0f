package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/repository"
)

func TestProjectRepository_OwnerScoping(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProject(t, db, "p1", "alice")

	repo := NewProjectRepository(db)

	loaded, err := repo.Get(ctx, "alice", "p1")
	require.NoError(t, err)
	require.Equal(t, "Project p1", loaded.Title)

	_, err = repo.Get(ctx, "bob", "p1")
	require.Equal(t, repository.ErrNotFound, err)

	mine, err := repo.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	theirs, err := repo.List(ctx, "bob")
	require.NoError(t, err)
	require.Empty(t, theirs)
}

func TestProjectRepository_UpdateScopedToOwner(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProject(t, db, "p1", "alice")

	repo := NewProjectRepository(db)
	proj, err := repo.Get(ctx, "alice", "p1")
	require.NoError(t, err)

	proj.Title = "Renamed"
	proj.OwnerID = "bob" // wrong owner in the WHERE clause
	proj.UpdatedAt = time.Now()
	require.Equal(t, repository.ErrNotFound, repo.Update(ctx, proj))

	proj.OwnerID = "alice"
	require.NoError(t, repo.Update(ctx, proj))

	loaded, err := repo.Get(ctx, "alice", "p1")
	require.NoError(t, err)
	require.Equal(t, "Renamed", loaded.Title)
}

func TestProjectRepository_DeleteWithTasksFails(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProject(t, db, "p1", "alice")
	insertTask(t, db, "t1", "p1")

	repo := NewProjectRepository(db)
	require.Equal(t, repository.ErrForeignKeyViolation, repo.Delete(ctx, "alice", "p1"))

	// Still listable after the failed delete.
	mine, err := repo.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestProjectRepository_Exists(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProject(t, db, "p1", "alice")

	repo := NewProjectRepository(db)

	ok, err := repo.Exists(ctx, "p1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Exists(ctx, "ghost")
	require.NoError(t, err)
	require.False(t, ok)
}
