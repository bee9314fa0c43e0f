package task_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/domain/task"
	"github.com/tallyhq/tally/internal/domain/validate"
	"github.com/tallyhq/tally/internal/repository"
	"github.com/tallyhq/tally/internal/repository/mocks"
)

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()
	tasks := &mocks.TaskRepository{}
	projects := &mocks.ProjectRepository{}

	projects.On("Exists", ctx, "p1").Return(true, nil)
	tasks.On("Create", ctx, mock.Anything).Return(nil)

	svc := task.NewService(tasks, projects, slog.Default())
	created, err := svc.Create(ctx, task.CreateRequest{Title: "Ship it", ProjectID: "p1"})
	require.NoError(t, err)
	require.Equal(t, float64(0), created.TotalHours)
	require.NotEmpty(t, created.ID)
}

func TestTaskService_Create_RequiredFields(t *testing.T) {
	ctx := context.Background()
	tasks := &mocks.TaskRepository{}
	projects := &mocks.ProjectRepository{}

	svc := task.NewService(tasks, projects, slog.Default())
	_, err := svc.Create(ctx, task.CreateRequest{})

	var ve *validate.Error
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 2) // title and project
	tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaskService_Create_ProjectMissing(t *testing.T) {
	ctx := context.Background()
	tasks := &mocks.TaskRepository{}
	projects := &mocks.ProjectRepository{}

	projects.On("Exists", ctx, "ghost").Return(false, nil)

	svc := task.NewService(tasks, projects, slog.Default())
	_, err := svc.Create(ctx, task.CreateRequest{Title: "T", ProjectID: "ghost"})
	require.ErrorIs(t, err, task.ErrProjectNotFound)
}

func TestTaskService_Update_NeverTouchesTotalHours(t *testing.T) {
	ctx := context.Background()
	tasks := &mocks.TaskRepository{}
	projects := &mocks.ProjectRepository{}

	tasks.On("Get", ctx, "t1").Return(&task.Task{ID: "t1", Title: "Old", TotalHours: 7}, nil)
	tasks.On("Update", ctx, mock.MatchedBy(func(updated *task.Task) bool {
		return updated.TotalHours == 7
	})).Return(nil)

	svc := task.NewService(tasks, projects, slog.Default())
	title := "New"
	updated, err := svc.Update(ctx, task.UpdateRequest{ID: "t1", Title: &title})
	require.NoError(t, err)
	require.Equal(t, "New", updated.Title)
	require.Equal(t, float64(7), updated.TotalHours)
	tasks.AssertExpectations(t)
}

func TestTaskService_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	tasks := &mocks.TaskRepository{}
	projects := &mocks.ProjectRepository{}

	tasks.On("Get", ctx, "nope").Return(nil, repository.ErrNotFound)

	svc := task.NewService(tasks, projects, slog.Default())
	_, err := svc.Get(ctx, "nope")
	require.ErrorIs(t, err, task.ErrNotFound)
}
