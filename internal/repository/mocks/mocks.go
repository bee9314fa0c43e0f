// Package mocks provides testify mocks for the domain repository interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tallyhq/tally/internal/domain/file"
	"github.com/tallyhq/tally/internal/domain/project"
	"github.com/tallyhq/tally/internal/domain/task"
	"github.com/tallyhq/tally/internal/domain/timelog"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, ownerID, id string) (*project.Project, error) {
	args := m.Called(ctx, ownerID, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, ownerID string) ([]project.Project, error) {
	args := m.Called(ctx, ownerID)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *ProjectRepository) Exists(ctx context.Context, projectID string) (bool, error) {
	args := m.Called(ctx, projectID)
	return args.Bool(0), args.Error(1)
}

// TaskRepository is a mock for task.Repository and timelog.TaskRepository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*task.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) List(ctx context.Context, opts task.ListOptions) ([]task.Task, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]task.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TaskRepository) AddHours(ctx context.Context, id string, hours float64) (float64, error) {
	args := m.Called(ctx, id, hours)
	return args.Get(0).(float64), args.Error(1)
}

// FileRepository is a mock for file.Repository.
type FileRepository struct {
	mock.Mock
}

func (m *FileRepository) Create(ctx context.Context, f *file.File) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *FileRepository) Get(ctx context.Context, id string) (*file.File, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(*file.File); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FileRepository) List(ctx context.Context, opts file.ListOptions) ([]file.File, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]file.File); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FileRepository) Update(ctx context.Context, f *file.File) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

// TimeLogRepository is a mock for timelog.Repository.
type TimeLogRepository struct {
	mock.Mock
}

func (m *TimeLogRepository) Create(ctx context.Context, l *timelog.TimeLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *TimeLogRepository) Get(ctx context.Context, id string) (*timelog.TimeLog, error) {
	args := m.Called(ctx, id)
	if l, ok := args.Get(0).(*timelog.TimeLog); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeLogRepository) List(ctx context.Context, opts timelog.ListOptions) ([]timelog.TimeLog, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]timelog.TimeLog); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TimeLogRepository) Update(ctx context.Context, l *timelog.TimeLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *TimeLogRepository) SummarizeByTask(ctx context.Context, taskID string) (timelog.Summary, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(timelog.Summary), args.Error(1)
}

// TxScope bundles mock repositories behind the timelog.TxScope interface.
type TxScope struct {
	TasksRepo    *TaskRepository
	TimeLogsRepo *TimeLogRepository
}

func (s *TxScope) Tasks() timelog.TaskRepository { return s.TasksRepo }
func (s *TxScope) TimeLogs() timelog.Repository  { return s.TimeLogsRepo }

// Executor is a hand-rolled timelog.Executor for workflow tests. Err, when
// set, is returned without invoking the function, which is how tests force
// the capability-unsupported path.
type Executor struct {
	Scope    *TxScope
	Err      error
	IsAtomic bool
	Calls    int
}

func (e *Executor) Execute(ctx context.Context, fn func(ctx context.Context, scope timelog.TxScope) error) error {
	e.Calls++
	if e.Err != nil {
		return e.Err
	}
	return fn(ctx, e.Scope)
}

func (e *Executor) Atomic() bool { return e.IsAtomic }
