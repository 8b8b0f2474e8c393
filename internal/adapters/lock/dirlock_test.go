package lock

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		Timeout:         200 * time.Millisecond,
		PollInterval:    10 * time.Millisecond,
		StaleAge:        time.Hour,
		MaxStaleRetries: 3,
	}
}

func writeOwner(t *testing.T, dir string, owner Owner) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	data, err := json.Marshal(owner)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ownerFileName), data, 0o644))
}

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory", ".project_manager.lock")
	l := New(path, testOptions(), nil)

	require.NoError(t, l.Acquire(context.Background()))
	assert.DirExists(t, path)

	owner, ok := Holder(path)
	require.True(t, ok)
	assert.Equal(t, os.Getpid(), owner.PID)
	assert.NotEmpty(t, owner.Token)

	require.NoError(t, l.Release())
	assert.NoDirExists(t, path)

	// releasing twice is harmless
	require.NoError(t, l.Release())
}

func TestMutualExclusion(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".project_manager.lock")
	first := New(path, testOptions(), nil)
	second := New(path, testOptions(), nil)

	require.NoError(t, first.Acquire(context.Background()))
	defer first.Release()

	err := second.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)

	require.NoError(t, first.Release())
	require.NoError(t, second.Acquire(context.Background()))
	require.NoError(t, second.Release())
}

func TestAcquire_ReclaimsDeadOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".project_manager.lock")
	host, err := os.Hostname()
	require.NoError(t, err)
	writeOwner(t, path, Owner{PID: 999999999, Hostname: host, Token: "stale"})

	l := New(path, testOptions(), nil)
	require.NoError(t, l.Acquire(context.Background()))
	defer l.Release()

	owner, ok := Holder(path)
	require.True(t, ok)
	assert.NotEqual(t, "stale", owner.Token)
}

func TestAcquire_UnknownOwnerUsesAge(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".project_manager.lock")
	writeOwner(t, path, Owner{PID: 42, Hostname: "some-other-host", Token: "remote"})

	l := New(path, testOptions(), nil)
	assert.ErrorIs(t, l.Acquire(context.Background()), ErrTimeout)

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Release())
}

func TestAcquire_ContextCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".project_manager.lock")
	holder := New(path, testOptions(), nil)
	require.NoError(t, holder.Acquire(context.Background()))
	defer holder.Release()

	opts := testOptions()
	opts.Timeout = 10 * time.Second
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(path, opts, nil).Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRelease_LeavesForeignMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".project_manager.lock")
	l := New(path, testOptions(), nil)
	require.NoError(t, l.Acquire(context.Background()))

	writeOwner(t, path, Owner{PID: os.Getpid(), Token: "someone-else"})
	require.NoError(t, l.Release())
	assert.DirExists(t, path)
}

func TestReap_LeavesReclaimedMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".project_manager.lock")
	host, err := os.Hostname()
	require.NoError(t, err)
	writeOwner(t, path, Owner{PID: 999999999, Hostname: host, Token: "stale"})

	l := New(path, testOptions(), nil)
	judged, judgedErr := readOwner(path)
	require.True(t, l.isStale(judged, judgedErr))

	// another process reclaims the marker before this one removes it
	writeOwner(t, path, Owner{PID: os.Getpid(), Hostname: host, Token: "fresh"})

	removed, err := l.reap(judged, judgedErr)
	require.NoError(t, err)
	assert.False(t, removed)

	owner, ok := Holder(path)
	require.True(t, ok)
	assert.Equal(t, "fresh", owner.Token)
	assert.NoDirExists(t, path+reapSuffix)
}

func TestAcquire_WaitsWhileAnotherProcessReaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".project_manager.lock")
	host, err := os.Hostname()
	require.NoError(t, err)
	writeOwner(t, path, Owner{PID: 999999999, Hostname: host, Token: "stale"})
	require.NoError(t, os.Mkdir(path+reapSuffix, 0o755))

	l := New(path, testOptions(), nil)
	assert.ErrorIs(t, l.Acquire(context.Background()), ErrTimeout)
	owner, ok := Holder(path)
	require.True(t, ok)
	assert.Equal(t, "stale", owner.Token)

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path+reapSuffix, old, old))
	require.NoError(t, l.Acquire(context.Background()))
	defer l.Release()

	owner, ok = Holder(path)
	require.True(t, ok)
	assert.NotEqual(t, "stale", owner.Token)
	assert.NoDirExists(t, path+reapSuffix)
}
