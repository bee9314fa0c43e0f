package timelog

import (
	"context"
	"time"

	"github.com/tallyhq/tally/internal/domain/task"
)

// Repository provides time-log persistence. Get returns soft-deleted rows
// too; List filters to active unless IncludeDeleted is set.
type Repository interface {
	Create(ctx context.Context, l *TimeLog) error
	Get(ctx context.Context, id string) (*TimeLog, error)
	List(ctx context.Context, opts ListOptions) ([]TimeLog, error)
	Update(ctx context.Context, l *TimeLog) error
	SummarizeByTask(ctx context.Context, taskID string) (Summary, error)
}

// ListOptions filters time-log listings. Results are ordered by date
// descending.
type ListOptions struct {
	TaskID         string
	UserID         string
	From           *time.Time
	To             *time.Time
	IncludeDeleted bool
}

// TaskRepository is the slice of task persistence the workflow needs.
// AddHours applies a true in-place increment, not a read-modify-write, so
// concurrent increments accumulate rather than overwrite.
type TaskRepository interface {
	Get(ctx context.Context, id string) (*task.Task, error)
	AddHours(ctx context.Context, id string, hours float64) (float64, error)
}

// TxScope exposes the repositories bound to one unit of work.
type TxScope interface {
	Tasks() TaskRepository
	TimeLogs() Repository
}

// Executor runs a multi-record mutation as one unit. Atomic implementations
// commit all-or-nothing; sequential ones apply the steps in order with no
// rollback. An atomic executor whose backend lacks transaction support
// returns repository.ErrAtomicityUnsupported without applying anything.
type Executor interface {
	Execute(ctx context.Context, fn func(ctx context.Context, scope TxScope) error) error
	Atomic() bool
}
