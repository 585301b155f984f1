package artifacts

import "errors"

var (
	// ErrNotFound is returned when a session, backup, or plan does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID is returned when a session ID, backup file name, or plan name is malformed. Such IDs are rejected before touching the filesystem.
	ErrInvalidID = errors.New("invalid id")
)
