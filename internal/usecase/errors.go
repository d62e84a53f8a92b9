package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrForbidden       = errors.New("not allowed to act on this listing")
)

// ValidationError carries a field-specific, user-actionable message. It maps
// to HTTP 400 and is raised before any side effect is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// UploadError aborts a create or update. Partial holds the URLs uploaded
// before the failure; those blobs stay on the host (it has no delete API).
type UploadError struct {
	Partial []string
	Err     error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("asset upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
