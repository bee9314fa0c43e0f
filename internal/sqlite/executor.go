package sqlite

import (
	"context"
	"fmt"

	"github.com/tallyhq/tally/internal/domain/timelog"
	"github.com/tallyhq/tally/internal/repository"
)

// txScope binds the workflow repositories to one querier, either a
// transaction or the plain pool.
type txScope struct {
	tasks *TaskRepository
	logs  *TimeLogRepository
}

func (s *txScope) Tasks() timelog.TaskRepository { return s.tasks }
func (s *txScope) TimeLogs() timelog.Repository  { return s.logs }

// AtomicExecutor runs a multi-record mutation inside a single transaction:
// every step commits or none do.
type AtomicExecutor struct {
	db *DB
}

// NewAtomicExecutor creates an executor backed by real transactions.
func NewAtomicExecutor(db *DB) *AtomicExecutor {
	return &AtomicExecutor{db: db}
}

func (e *AtomicExecutor) Execute(ctx context.Context, fn func(ctx context.Context, scope timelog.TxScope) error) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		// A store that rejects write transactions outright is a capability
		// gap, not a request failure. Callers decide whether a sequential
		// apply is acceptable. Anything else (cancellation, a broken
		// connection) propagates as-is.
		if isTxUnsupported(err) {
			return fmt.Errorf("%w: %v", repository.ErrAtomicityUnsupported, err)
		}
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	scope := &txScope{
		tasks: &TaskRepository{q: tx},
		logs:  &TimeLogRepository{q: tx},
	}
	if err := fn(ctx, scope); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (e *AtomicExecutor) Atomic() bool { return true }

// SequentialExecutor runs the same steps straight against the pool. A crash
// partway through leaves the steps already applied in place; callers accept
// that window when they choose this executor.
type SequentialExecutor struct {
	db *DB
}

// NewSequentialExecutor creates an executor with no transaction wrapper.
func NewSequentialExecutor(db *DB) *SequentialExecutor {
	return &SequentialExecutor{db: db}
}

func (e *SequentialExecutor) Execute(ctx context.Context, fn func(ctx context.Context, scope timelog.TxScope) error) error {
	scope := &txScope{
		tasks: &TaskRepository{q: e.db.DB},
		logs:  &TimeLogRepository{q: e.db.DB},
	}
	return fn(ctx, scope)
}

func (e *SequentialExecutor) Atomic() bool { return false }
