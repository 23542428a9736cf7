package category

import "errors"

// Sentinel kinds for category errors.
var (
	ErrInvalidCategory = errors.New("invalid category selector")
)
