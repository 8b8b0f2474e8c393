//go:build !windows

package lock

import (
	"errors"

	"golang.org/x/sys/unix"
)

// processLiveness probes pid with signal 0. EPERM means the process exists
// but belongs to someone else.
func processLiveness(pid int) liveness {
	err := unix.Kill(pid, 0)
	switch {
	case err == nil, errors.Is(err, unix.EPERM):
		return ownerAlive
	case errors.Is(err, unix.ESRCH):
		return ownerDead
	default:
		return ownerUnknown
	}
}
