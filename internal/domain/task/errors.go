package task

import "errors"

var (
	// ErrNotFound indicates the task doesn't exist.
	ErrNotFound = errors.New("task not found")
	// ErrProjectNotFound indicates the referenced project doesn't exist.
	ErrProjectNotFound = errors.New("referenced project not found")
)
