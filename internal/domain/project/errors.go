package project

import "errors"

var (
	// ErrNotFound indicates the project doesn't exist or belongs to another user.
	// Owner scoping makes the two cases indistinguishable on purpose.
	ErrNotFound = errors.New("project not found")
	// ErrHasReferences indicates the project still has tasks or files attached.
	ErrHasReferences = errors.New("project has tasks or files attached")
)
