package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrQueueEntryNotFound = errors.New("queue entry not found")

	// ErrLockHeld means another request owns the resource's admission
	// critical section; callers retry a bounded number of times.
	ErrLockHeld = errors.New("resource lock held by another request")

	// ErrQueueCorrupted signals two queue entries sharing one position.
	// This can only happen if per-resource serialization was bypassed, so
	// it is surfaced as fatal rather than repaired in place.
	ErrQueueCorrupted = errors.New("queue has entries with duplicate positions")
)
