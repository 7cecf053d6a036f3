package gallery

import (
	"time"
)

// loadState tracks pagination progress for one session.
// All fields are guarded by the owning Session's mutex.
type loadState struct {
	// Cursor is the offset into the shuffled order of the next unfetched
	// window. It advances by a full window size on successful batch
	// completion only, never on failure.
	Cursor int

	// InFlight is true while a window fetch is running. This is the
	// single-flight guard: it is checked and set under the same mutex
	// hold, so overlapping triggers coalesce to one fetch.
	InFlight bool

	// Exhausted becomes true once a requested window is empty while the
	// shuffled order is non-empty. Terminal: it never resets within a
	// session.
	Exhausted bool

	// ConsecutiveFailures counts failed windows since the last success.
	ConsecutiveFailures int

	// LastError is the most recent window failure, cleared on success.
	// Surfaced to consumers so a UI can show "retry" instead of silently
	// staying empty.
	LastError error

	// LastFailure is when the most recent window failed.
	LastFailure time.Time
}

// recordSuccess advances the cursor past the requested window.
// The cursor tracks position in the shuffled order, so it moves by the
// full window size regardless of how many unique records were appended.
func (s *loadState) recordSuccess(windowSize int) {
	s.Cursor += windowSize
	s.ConsecutiveFailures = 0
	s.LastError = nil
}

// recordFailure notes a failed window without touching the cursor, so
// the next trigger retries the same window.
func (s *loadState) recordFailure(err error) {
	s.ConsecutiveFailures++
	s.LastError = err
	s.LastFailure = time.Now()
}
