package project_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/domain/project"
	"github.com/tallyhq/tally/internal/domain/validate"
	"github.com/tallyhq/tally/internal/repository"
	"github.com/tallyhq/tally/internal/repository/mocks"
)

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := project.NewService(repo, slog.Default())
	proj, err := svc.Create(ctx, "u1", project.CreateRequest{Title: "Website", LogoURL: "https://x/logo.png"})
	require.NoError(t, err)
	require.Equal(t, "u1", proj.OwnerID)
	require.NotEmpty(t, proj.ID)

	_, url := proj.Logo()
	require.Equal(t, "https://x/logo.png", url)
}

func TestProjectService_Create_TitleRequired(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}

	svc := project.NewService(repo, slog.Default())
	_, err := svc.Create(ctx, "u1", project.CreateRequest{Title: "  "})

	var ve *validate.Error
	require.ErrorAs(t, err, &ve)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProjectService_Get_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "other", "p1").Return(nil, repository.ErrNotFound)

	svc := project.NewService(repo, slog.Default())
	_, err := svc.Get(ctx, "other", "p1")
	require.ErrorIs(t, err, project.ErrNotFound)
}

func TestProjectService_AttachLogo_TakesPrecedence(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "u1", "p1").Return(&project.Project{ID: "p1", OwnerID: "u1", LogoURL: "https://x/old.png"}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	svc := project.NewService(repo, slog.Default())
	proj, err := svc.AttachLogo(ctx, "u1", "p1", "f1")
	require.NoError(t, err)

	fileID, url := proj.Logo()
	require.Equal(t, "f1", fileID)
	require.Empty(t, url)
}

func TestProjectService_Delete_WithReferences(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Delete", ctx, "u1", "p1").Return(repository.ErrForeignKeyViolation)

	svc := project.NewService(repo, slog.Default())
	require.ErrorIs(t, svc.Delete(ctx, "u1", "p1"), project.ErrHasReferences)
}
