// Package lock serializes mutating operations across processes with a marker
// directory. Creating a directory is atomic on every platform the engine runs
// on, so whoever creates it owns the lock.
package lock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"projectkeeper/internal/ports"
)

// ErrTimeout is returned when the lock could not be acquired in time. It wraps
// ports.ErrLockBusy.
var ErrTimeout = fmt.Errorf("timed out waiting for lock: %w", ports.ErrLockBusy)

const (
	ownerFileName = "owner.json"
	reapSuffix    = ".reap"
	// a reap marker older than this was left by a process that died mid-reap
	reapAbandonedAfter = 30 * time.Second
)

// Options tunes a DirLock
type Options struct {
	Timeout         time.Duration
	PollInterval    time.Duration
	StaleAge        time.Duration // used when the owner's liveness is unknown
	MaxStaleRetries int
}

// Owner identifies the process holding the lock
type Owner struct {
	PID        int       `json:"pid"`
	Hostname   string    `json:"hostname"`
	Token      string    `json:"token"`
	AcquiredAt time.Time `json:"acquiredAt"`
}

type liveness int

const (
	ownerUnknown liveness = iota
	ownerAlive
	ownerDead
)

var _ ports.Locker = (*DirLock)(nil)

// DirLock is a cross-process lock held by the existence of a directory
type DirLock struct {
	path   string
	opts   Options
	logger *zap.Logger

	mu    sync.Mutex
	token string
}

// New creates a lock at path. Nothing is touched until Acquire.
func New(path string, opts Options, logger *zap.Logger) *DirLock {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 100 * time.Millisecond
	}
	if opts.MaxStaleRetries <= 0 {
		opts.MaxStaleRetries = 3
	}
	return &DirLock{path: path, opts: opts, logger: logger}
}

func (l *DirLock) Path() string { return l.path }

// Acquire creates the marker directory, waiting while another live process
// holds it. A marker left by a dead process, or one older than StaleAge whose
// owner cannot be checked, is removed and creation retried.
func (l *DirLock) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.token != "" {
		return fmt.Errorf("lock %s already held by this process", l.path)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create lock parent: %w", err)
	}

	deadline := time.Now().Add(l.opts.Timeout)
	staleRemovals := 0
	for {
		err := os.Mkdir(l.path, 0o755)
		if err == nil {
			return l.claim()
		}
		if !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("failed to create lock %s: %w", l.path, err)
		}

		if staleRemovals < l.opts.MaxStaleRetries {
			owner, ownerErr := readOwner(l.path)
			if l.isStale(owner, ownerErr) {
				removed, err := l.reap(owner, ownerErr)
				if err != nil {
					return err
				}
				if removed {
					staleRemovals++
					l.logger.Warn("removed stale lock", zap.String("path", l.path), zap.Int("attempt", staleRemovals))
					continue
				}
			}
		}

		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w: %s", ErrTimeout, l.path)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.opts.PollInterval):
		}
	}
}

func (l *DirLock) claim() error {
	host, _ := os.Hostname()
	owner := Owner{
		PID:        os.Getpid(),
		Hostname:   host,
		Token:      uuid.NewString(),
		AcquiredAt: time.Now().UTC(),
	}
	data, err := json.Marshal(owner)
	if err != nil {
		os.RemoveAll(l.path)
		return err
	}
	if err := os.WriteFile(filepath.Join(l.path, ownerFileName), data, 0o644); err != nil {
		os.RemoveAll(l.path)
		return fmt.Errorf("failed to record lock owner: %w", err)
	}
	l.token = owner.Token
	l.logger.Debug("lock acquired", zap.String("path", l.path), zap.String("token", owner.Token))
	return nil
}

// isStale reports whether the marker recorded as owner (or unreadable, when
// ownerErr is set) may be removed
func (l *DirLock) isStale(owner Owner, ownerErr error) bool {
	if ownerErr == nil {
		switch ownerLiveness(owner) {
		case ownerDead:
			return true
		case ownerAlive:
			return false
		}
	}

	info, err := os.Stat(l.path)
	if err != nil {
		// vanished between Mkdir and Stat; the next Mkdir decides
		return false
	}
	return l.opts.StaleAge > 0 && time.Since(info.ModTime()) > l.opts.StaleAge
}

// reap removes a marker judged stale from the owner read earlier. Removal
// happens only while holding the reap marker and only if the lock still
// carries the same owner, so a marker reclaimed by another process in the
// meantime is left alone.
func (l *DirLock) reap(judged Owner, judgedErr error) (bool, error) {
	reapPath := l.path + reapSuffix
	if err := os.Mkdir(reapPath, 0o755); err != nil {
		if !errors.Is(err, fs.ErrExist) {
			return false, fmt.Errorf("failed to create reap marker: %w", err)
		}
		if info, statErr := os.Stat(reapPath); statErr == nil && time.Since(info.ModTime()) > reapAbandonedAfter {
			l.logger.Warn("removing abandoned reap marker", zap.String("path", reapPath))
			os.Remove(reapPath)
		}
		return false, nil
	}
	defer os.Remove(reapPath)

	current, currentErr := readOwner(l.path)
	if (currentErr == nil) != (judgedErr == nil) || current.Token != judged.Token {
		return false, nil
	}
	if !l.isStale(current, currentErr) {
		return false, nil
	}
	if err := os.RemoveAll(l.path); err != nil {
		return false, fmt.Errorf("failed to remove stale lock: %w", err)
	}
	return true, nil
}

func readOwner(dir string) (Owner, error) {
	var owner Owner
	data, err := os.ReadFile(filepath.Join(dir, ownerFileName))
	if err != nil {
		return owner, err
	}
	if err := json.Unmarshal(data, &owner); err != nil {
		return owner, err
	}
	if owner.PID <= 0 {
		return owner, fmt.Errorf("invalid owner pid %d", owner.PID)
	}
	return owner, nil
}

func ownerLiveness(owner Owner) liveness {
	host, err := os.Hostname()
	if err != nil || owner.Hostname != host {
		return ownerUnknown
	}
	if owner.PID == os.Getpid() {
		return ownerAlive
	}
	return processLiveness(owner.PID)
}

// Release removes the marker if this instance still owns it. Releasing an
// unheld lock is a no-op.
func (l *DirLock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.token == "" {
		return nil
	}
	token := l.token
	l.token = ""

	owner, err := readOwner(l.path)
	if err != nil || owner.Token != token {
		l.logger.Warn("lock no longer owned, leaving it in place", zap.String("path", l.path))
		return nil
	}
	if err := os.RemoveAll(l.path); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.path, err)
	}
	l.logger.Debug("lock released", zap.String("path", l.path))
	return nil
}

// Holder reports the recorded owner of the lock at path, if any
func Holder(path string) (Owner, bool) {
	owner, err := readOwner(path)
	return owner, err == nil
}
