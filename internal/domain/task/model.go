package task

import "time"

// Task belongs to a project. TotalHours is a running counter maintained by the
// time-log workflow; no user-facing update path touches it. It is not
// decremented when a time log is soft-deleted, so it can exceed the sum of the
// live logs.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ProjectID   string    `json:"projectId"`
	AssignedTo  *string   `json:"assignedTo,omitempty"`
	Status      *string   `json:"status,omitempty"`
	TotalHours  float64   `json:"totalHours"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
