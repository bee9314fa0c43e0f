package timelog

import (
	"time"

	"github.com/tallyhq/tally/internal/domain/liveness"
	"github.com/tallyhq/tally/internal/domain/task"
)

// TimeLog records hours spent on a task by one user on one date.
type TimeLog struct {
	ID          string         `json:"id"`
	TaskID      string         `json:"taskId"`
	UserID      string         `json:"userId"`
	Hours       float64        `json:"hours"`
	Date        time.Time      `json:"date"`
	Description string         `json:"description,omitempty"`
	Liveness    liveness.State `json:"liveness"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Active reports whether the log is visible to normal reads.
func (l *TimeLog) Active() bool {
	return l.Liveness == liveness.Active
}

// Result is the outcome of a successful creation: the stored log together
// with its parent task carrying the advanced running counter.
type Result struct {
	TimeLog *TimeLog   `json:"timeLog"`
	Task    *task.Task `json:"task"`
}

// Summary aggregates the active logs of one task. It always exists; a task
// with no active logs summarizes to zeros rather than not-found.
type Summary struct {
	TotalHours float64 `json:"totalHours"`
	Entries    int     `json:"entries"`
}
