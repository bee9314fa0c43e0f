package timelog

import "errors"

var (
	// ErrNotFound indicates the time log doesn't exist.
	ErrNotFound = errors.New("time log not found")
	// ErrTaskNotFound indicates the referenced task doesn't exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrForbidden indicates the acting user didn't create the log.
	ErrForbidden = errors.New("not authorized for this time log")
)
