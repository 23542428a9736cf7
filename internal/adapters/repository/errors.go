package repository

import "errors"

// Sentinel kinds for store errors.
var (
	// ErrNotFound means the requested entity has no row. Callers recover
	// locally; it never masquerades as an empty result set.
	ErrNotFound = errors.New("record not found")
	// ErrStoreUnavailable means the persistence layer could not be
	// reached. Fatal to the current request; cached aggregates must be
	// left untouched.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrConflict means an insert lost a race against an identical row
	// (the dedup identity's unique constraint fired).
	ErrConflict = errors.New("conflicting record exists")
)
