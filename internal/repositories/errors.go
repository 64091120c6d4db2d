package repositories

import "errors"

// Sentinel errors shared by all repository implementations. Services match
// on these with errors.Is and translate them into their own taxonomy.
var (
	// ErrNotFound is returned when no record matches the given identifier.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when an insert violates a unique index,
	// typically a canonical identifier that is already in use.
	ErrDuplicateKey = errors.New("duplicate key")
)
