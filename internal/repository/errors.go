package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrForeignKeyViolation is returned when a referenced entity is missing
	// or still referenced by other rows.
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrAtomicityUnsupported is returned by an atomic executor when the
	// backend cannot provide multi-record transactions. Callers that can
	// tolerate a non-atomic apply may retry through a sequential executor;
	// no other executor error is treated this way.
	ErrAtomicityUnsupported = errors.New("atomic scopes unsupported by backend")
)
