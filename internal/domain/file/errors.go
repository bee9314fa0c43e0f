package file

import "errors"

var (
	// ErrNotFound indicates the file record doesn't exist or is soft-deleted.
	ErrNotFound = errors.New("file not found")
	// ErrForbidden indicates the acting user doesn't own the file.
	ErrForbidden = errors.New("not authorized for this file")
	// ErrProjectNotFound indicates the referenced project doesn't exist.
	ErrProjectNotFound = errors.New("referenced project not found")
)
