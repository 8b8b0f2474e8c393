package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectkeeper/internal/domain"
	"projectkeeper/internal/ports"
)

func setupLayout(t *testing.T) domain.Layout {
	t.Helper()

	root := t.TempDir()
	layout := domain.NewLayout(filepath.Join(root, ".claude"), "")
	require.NoError(t, os.MkdirAll(layout.ProjectsDir(), 0o755))
	require.NoError(t, os.MkdirAll(layout.MemoryDir, 0o755))
	return layout
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestIndexStore_LoadMissing(t *testing.T) {
	store := NewIndexStore(filepath.Join(t.TempDir(), "projects-index.json"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.False(t, ports.IsReadError(err))
}

func TestIndexStore_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects-index.json")
	writeFile(t, path, "{not json")

	_, err := NewIndexStore(path).Load()
	require.Error(t, err)
	assert.True(t, ports.IsReadError(err))
	assert.False(t, errors.Is(err, ports.ErrNotFound))
}

func TestIndexStore_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory", "projects-index.json")
	store := NewIndexStore(path)

	idx := domain.NewIndex()
	idx.Upsert(domain.NewProjectEntry("/work/alpha", "-work-alpha", []string{"2024-03-01"}))
	require.NoError(t, store.Save(idx))

	assert.True(t, strings.HasSuffix(readFile(t, path), "}\n"))

	loaded, err := store.Load()
	require.NoError(t, err)
	entry, ok := loaded.Get("/work/alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", entry.Name)
	assert.Equal(t, []string{"-work-alpha"}, entry.EncodedPaths)
	assert.Equal(t, []string{"2024-03-01"}, entry.WorkDays)
}

func TestListFolders(t *testing.T) {
	layout := setupLayout(t)
	s := NewStorage(layout, 1<<20, nil)

	for _, name := range []string{"-work-beta", "-work-alpha", "-work-old.merged.bak", ".DS_Store"} {
		require.NoError(t, os.MkdirAll(filepath.Join(layout.ProjectsDir(), name), 0o755))
	}
	writeFile(t, filepath.Join(layout.ProjectsDir(), "stray-file"), "x")

	folders, err := s.ListFolders()
	require.NoError(t, err)
	assert.Equal(t, []string{"-work-alpha", "-work-beta"}, folders)
}

func TestListFolders_MissingRoot(t *testing.T) {
	layout := domain.NewLayout(filepath.Join(t.TempDir(), "absent"), "")
	folders, err := NewStorage(layout, 1<<20, nil).ListFolders()
	require.NoError(t, err)
	assert.Empty(t, folders)
}

func TestSafeDelete_Collision(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(domain.NewLayout(dir, ""), 1<<20, nil)

	src := filepath.Join(dir, "-work-old")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.MkdirAll(src+domain.MergedSuffix, 0o755))

	got, err := s.SafeDelete(src, domain.MergedSuffix)
	require.NoError(t, err)
	assert.Equal(t, src+domain.MergedSuffix+".1", got)
	assert.NoDirExists(t, src)
	assert.DirExists(t, got)

	_, err = s.SafeDelete(got, "")
	assert.Error(t, err)
}

func TestAbsorb(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(domain.NewLayout(dir, ""), 1<<20, nil)
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeFile(t, filepath.Join(src, "a.jsonl"), "new-a")
	writeFile(t, filepath.Join(src, "b.jsonl"), "old-b")
	writeFile(t, filepath.Join(src, "nested", "c.txt"), "c")
	writeFile(t, filepath.Join(src, domain.CatalogFileName), "{}")
	writeFile(t, filepath.Join(dst, "a.jsonl"), "old-a")
	writeFile(t, filepath.Join(dst, "b.jsonl"), "new-b")
	writeFile(t, filepath.Join(dst, "nested", "d.txt"), "d")

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dst, "a.jsonl"), past, past))
	require.NoError(t, os.Chtimes(filepath.Join(src, "b.jsonl"), past, past))

	require.NoError(t, s.Absorb(src, dst))

	assert.Equal(t, "new-a", readFile(t, filepath.Join(dst, "a.jsonl")))
	assert.Equal(t, "new-b", readFile(t, filepath.Join(dst, "b.jsonl")))
	assert.Equal(t, "c", readFile(t, filepath.Join(dst, "nested", "c.txt")))
	assert.Equal(t, "d", readFile(t, filepath.Join(dst, "nested", "d.txt")))
	assert.NoFileExists(t, filepath.Join(dst, domain.CatalogFileName))
}

func TestMove_CreatesParent(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(domain.NewLayout(dir, ""), 1<<20, nil)
	writeFile(t, filepath.Join(dir, "old", "f"), "x")

	require.NoError(t, s.Move(filepath.Join(dir, "old"), filepath.Join(dir, "deep", "new")))
	assert.Equal(t, "x", readFile(t, filepath.Join(dir, "deep", "new", "f")))
	assert.NoDirExists(t, filepath.Join(dir, "old"))
}

func TestRewriteFile(t *testing.T) {
	tests := []struct {
		name      string
		threshold int64
	}{
		{"in memory", 1 << 20},
		{"streaming", 1},
	}

	content := `{"project":"/work/alpha","display":"x"}` + "\n" +
		`{"project":"/work/alphabet"}` + "\n" +
		`{"project":"/other"}`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s := NewStorage(domain.NewLayout(dir, ""), tt.threshold, nil)
			path := filepath.Join(dir, "history.jsonl")
			writeFile(t, path, content)

			n, err := s.RewriteFile(path, "/work/alpha", "/work/beta")
			require.NoError(t, err)
			assert.Equal(t, 2, n)
			assert.Equal(t, strings.ReplaceAll(content, "/work/alpha", "/work/beta"), readFile(t, path))

			n, err = s.RewriteFile(path, "/missing", "/x")
			require.NoError(t, err)
			assert.Equal(t, 0, n)
		})
	}
}

func TestRewriteFile_Missing(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(domain.NewLayout(dir, ""), 1<<20, nil)

	n, err := s.RewriteFile(filepath.Join(dir, "history.jsonl"), "/a", "/b")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoFileExists(t, filepath.Join(dir, "history.jsonl"))
}

func TestRepairCatalogs(t *testing.T) {
	layout := setupLayout(t)
	s := NewStorage(layout, 1<<20, nil)

	alpha := filepath.Join(layout.ProjectsDir(), "-work-alpha")
	other := filepath.Join(layout.ProjectsDir(), "-other")
	broken := filepath.Join(layout.ProjectsDir(), "-broken")
	writeFile(t, catalogPath(alpha), `{"version":1,"originalPath":"/work/alpha","entries":[{"sessionId":"s1","projectPath":"/work/alpha/sub","custom":true}]}`)
	writeFile(t, catalogPath(other), `{"version":1,"originalPath":"/other","entries":[]}`)
	writeFile(t, catalogPath(broken), `{oops`)

	n, err := s.RepairCatalogs("/work/alpha", "/work/beta")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cat, err := ReadCatalogFile(catalogPath(alpha))
	require.NoError(t, err)
	assert.Equal(t, "/work/beta", cat.OriginalPath)
	require.Len(t, cat.Entries, 1)
	assert.Equal(t, "/work/beta/sub", cat.Entries[0].ProjectPath)
	assert.Contains(t, cat.Entries[0].Extra, "custom")

	assert.Equal(t, `{oops`, readFile(t, catalogPath(broken)))
}

func TestRelinkCatalog(t *testing.T) {
	layout := setupLayout(t)
	s := NewStorage(layout, 1<<20, nil)
	folder := filepath.Join(layout.ProjectsDir(), "-work-beta")
	writeFile(t, catalogPath(folder), `{"version":1,"entries":[{"sessionId":"s1","fullPath":"/elsewhere/-work-alpha/s1.jsonl"}]}`)

	require.NoError(t, s.RelinkCatalog(folder))

	cat, err := ReadCatalogFile(catalogPath(folder))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(folder, "s1.jsonl"), cat.Entries[0].FullPath)

	require.NoError(t, s.RelinkCatalog(filepath.Join(layout.ProjectsDir(), "-absent")))
}

func TestAuthoritativePath(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(domain.NewLayout(dir, ""), 1<<20, nil)

	tests := []struct {
		name    string
		catalog string
		want    string
		ok      bool
	}{
		{"original path", `{"originalPath":"/work/a","entries":[{"projectPath":"/work/b"}]}`, "/work/a", true},
		{"first entry", `{"entries":[{"projectPath":"/work/b"}]}`, "/work/b", true},
		{"empty", `{"entries":[]}`, "", false},
		{"malformed", `{`, "", false},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folder := filepath.Join(dir, "f"+string(rune('a'+i)))
			writeFile(t, catalogPath(folder), tt.catalog)
			got, ok := s.AuthoritativePath(folder)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestDiscoverFolder_FromLogs(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(domain.NewLayout(dir, ""), 1<<20, nil)
	folder := filepath.Join(dir, "-work-gamma")

	writeFile(t, filepath.Join(folder, "s1.jsonl"),
		`{"type":"summary","cwd":"/work/gamma","timestamp":"2024-05-02T10:00:00.000Z"}`+"\n")
	writeFile(t, filepath.Join(folder, "s2.jsonl"),
		`{"type":"user","cwd":"/work/gamma","timestamp":"2024-05-01T23:59:00Z"}`+"\n")
	writeFile(t, filepath.Join(folder, "agent-1.jsonl"),
		`{"cwd":"/elsewhere","timestamp":"2020-01-01T00:00:00Z"}`+"\n")

	facts := s.DiscoverFolder(folder)
	assert.Equal(t, "-work-gamma", facts.FolderID)
	assert.Equal(t, "/work/gamma", facts.Path)
	assert.Equal(t, []string{"2024-05-01", "2024-05-02"}, facts.WorkDays)
}

func TestFolderStats(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(domain.NewLayout(dir, ""), 1<<20, nil)
	writeFile(t, filepath.Join(dir, "f", "a"), "12345")
	writeFile(t, filepath.Join(dir, "f", "sub", "b"), "123")

	count, size := s.FolderStats(filepath.Join(dir, "f"))
	assert.Equal(t, 2, count)
	assert.Equal(t, int64(8), size)
}
