package lock

import "errors"

var (
	// ErrGuardReleased indicates use of a guard after its lock was released.
	ErrGuardReleased = errors.New("lock: guard already released")

	// ErrNotLocked indicates a release of a lock the caller does not hold.
	ErrNotLocked = errors.New("lock: unlock of unlocked lock")
)
