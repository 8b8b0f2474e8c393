package application

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"projectkeeper/internal/adapters/filesystem"
	"projectkeeper/internal/adapters/lock"
	"projectkeeper/internal/domain"
	"projectkeeper/internal/logging"
)

// memJournal records journal entries in memory
type memJournal struct {
	mu      sync.Mutex
	entries []domain.JournalEntry
}

func (j *memJournal) Record(_ context.Context, e domain.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

func (j *memJournal) Recent(_ context.Context, limit int) ([]domain.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := []domain.JournalEntry{}
	for i := len(j.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.entries[i])
	}
	return out, nil
}

func (j *memJournal) Close() error { return nil }

type fixture struct {
	root    string
	layout  domain.Layout
	index   *filesystem.IndexStore
	engine  *Engine
	journal *memJournal
	logger  *logging.TestLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	root := t.TempDir()
	layout := domain.NewLayout(filepath.Join(root, ".claude"), "")
	require.NoError(t, os.MkdirAll(layout.ProjectsDir(), 0o755))
	require.NoError(t, os.MkdirAll(layout.MemoryDir, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "work"), 0o755))

	logger := logging.NewTestLogger()
	journal := &memJournal{}
	index := filesystem.NewIndexStore(layout.IndexFile())
	deps := ExecutorDeps{
		Index:   index,
		Storage: filesystem.NewStorage(layout, 1<<20, logger.Logger),
		Merger:  filesystem.NewCatalogMerger(logger.Logger),
		Vault:   filesystem.NewVault(layout, logger.Logger),
		Locker: lock.New(layout.LockPath(), lock.Options{
			Timeout:      100 * time.Millisecond,
			PollInterval: 10 * time.Millisecond,
			StaleAge:     time.Hour,
		}, logger.Logger),
		Journal: journal,
	}

	return &fixture{
		root:    root,
		layout:  layout,
		index:   index,
		engine:  NewEngine(layout, deps, logger.Logger),
		journal: journal,
		logger:  logger,
	}
}

// project returns an absolute project path under the fixture's work dir
func (f *fixture) project(name string) string {
	return filepath.Join(f.root, "work", name)
}

func (f *fixture) mkdir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o755))
}

func (f *fixture) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func (f *fixture) read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// track adds projects to the persisted index
func (f *fixture) track(t *testing.T, entries ...*domain.ProjectEntry) {
	t.Helper()
	idx, err := f.index.Load()
	if err != nil {
		idx = domain.NewIndex()
	}
	for _, e := range entries {
		idx.Upsert(e)
	}
	require.NoError(t, f.index.Save(idx))
}

func (f *fixture) loadIndex(t *testing.T) *domain.Index {
	t.Helper()
	idx, err := f.index.Load()
	require.NoError(t, err)
	return idx
}

// folder returns the primary storage folder for a project path
func (f *fixture) folder(path string) string {
	return f.layout.StorageFolder(domain.EncodePath(path))
}
