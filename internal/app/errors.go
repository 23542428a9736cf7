package service

import (
	"errors"
	"fmt"
)

// Sentinel kinds for service errors.
var (
	// ErrInvalidSubmission rejects a submission that fails validation.
	ErrInvalidSubmission = errors.New("invalid submission")

	// ErrDuplicateSubmission rejects a submission already on the boards.
	ErrDuplicateSubmission = errors.New("duplicate submission")

	// ErrInvalidComment rejects a comment below the minimum length.
	ErrInvalidComment = errors.New("comment too short")

	// ErrPermission rejects a mutation by anyone but the owner.
	ErrPermission = errors.New("not permitted")
)

// DuplicateError carries the id of the record a rejected submission
// duplicates. It unwraps to ErrDuplicateSubmission.
type DuplicateError struct {
	ExistingID int64
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate submission of record %d", e.ExistingID)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicateSubmission }
