package gallery

import (
	"errors"
	"fmt"
)

// Common errors returned by the session.
var (
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrEnumerationFailed wraps a failed initial id listing.
	// Enumeration is attempted exactly once; this error is terminal for
	// the session.
	ErrEnumerationFailed = errors.New("id enumeration failed")
)

// BatchError describes a failed window fetch. The window is identified
// by its offset into the shuffled order, so a retry of the same window
// produces an identical offset.
type BatchError struct {
	Offset int
	Size   int
	Err    error
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	return fmt.Sprintf("batch at offset %d (size %d): %v", e.Offset, e.Size, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *BatchError) Unwrap() error {
	return e.Err
}
