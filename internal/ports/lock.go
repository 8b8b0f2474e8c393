package ports

import (
	"context"
	"errors"
)

// ErrLockBusy is wrapped by Acquire errors caused by another holder
var ErrLockBusy = errors.New("lock is held by another process")

// Locker provides cross-process mutual exclusion for mutating operations
type Locker interface {
	// Acquire blocks until the lock is held, the configured timeout passes,
	// or ctx is done.
	Acquire(ctx context.Context) error

	// Release frees the lock if this instance holds it. Releasing a lock that
	// is not held is a no-op.
	Release() error
}
