package storage

import (
	"errors"
)

var (
	// ErrNotFound is returned when a resource cannot be found. Absence of a
	// value is part of the normal operation of the rewards engine (unset
	// watermarks, unfunded pools, epochs without participation), so callers
	// are expected to check for this error explicitly.
	ErrNotFound = errors.New("key not found")

	// ErrAlreadyExists is returned when trying to insert a resource under a
	// key that is already populated.
	ErrAlreadyExists = errors.New("key already exists")
)
