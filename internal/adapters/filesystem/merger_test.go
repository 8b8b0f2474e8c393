package filesystem

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_AddsAndKeepsNewer(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src", "sessions-index.json")
	dst := filepath.Join(dir, "dst", "sessions-index.json")

	writeFile(t, src, `{"version":1,"entries":[
		{"sessionId":"s1","modified":"2024-01-02T00:00:00.000Z","firstPrompt":"from src"},
		{"sessionId":"s2","modified":"2024-01-01T00:00:00.000Z"},
		{"sessionId":"s3","modified":"2024-01-05T00:00:00Z"}
	]}`)
	writeFile(t, dst, `{"version":1,"originalPath":"/work/beta","entries":[
		{"sessionId":"s1","modified":"2024-01-01T00:00:00.000Z","firstPrompt":"from dst"},
		{"sessionId":"s3","modified":"2024-01-05T00:00:00.000Z","firstPrompt":"dst tie"}
	]}`)

	m := NewCatalogMerger(nil)
	changed, err := m.Merge(src, dst, "/work/beta")
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	cat, err := ReadCatalogFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "/work/beta", cat.OriginalPath)
	require.Len(t, cat.Entries, 3)

	byID := map[string]string{}
	for _, e := range cat.Entries {
		byID[e.Key()] = e.ExtraString("firstPrompt")
	}
	assert.Equal(t, "from src", byID["s1"])
	assert.Equal(t, "dst tie", byID["s3"])
	assert.Contains(t, byID, "s2")

	assert.Equal(t, "s3", cat.Entries[0].Key())
	assert.Equal(t, "s2", cat.Entries[2].Key())
}

func TestMerge_Idempotent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src", "sessions-index.json")
	dst := filepath.Join(dir, "dst", "sessions-index.json")
	writeFile(t, src, `{"version":1,"entries":[{"sessionId":"s1","modified":"2024-01-02T00:00:00.000Z"}]}`)

	m := NewCatalogMerger(nil)
	_, err := m.Merge(src, dst, "/work/beta")
	require.NoError(t, err)
	first := readFile(t, dst)

	changed, err := m.Merge(src, dst, "/work/beta")
	require.NoError(t, err)
	assert.Zero(t, changed)
	assert.Equal(t, first, readFile(t, dst))
}

func TestMerge_RebuildsFromLogs(t *testing.T) {
	dir := t.TempDir()
	srcFolder := filepath.Join(dir, "-work-old")
	dst := filepath.Join(dir, "-work-new", "sessions-index.json")

	writeFile(t, filepath.Join(srcFolder, "abc.jsonl"),
		`{"type":"user","message":{"content":[{"type":"text","text":"  fix the build  "}]}}`+"\n")
	writeFile(t, filepath.Join(srcFolder, "agent-x.jsonl"), `{"type":"user"}`+"\n")

	changed, err := NewCatalogMerger(nil).Merge(filepath.Join(srcFolder, "sessions-index.json"), dst, "/work/new")
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	cat, err := ReadCatalogFile(dst)
	require.NoError(t, err)
	require.Len(t, cat.Entries, 1)
	e := cat.Entries[0]
	assert.Equal(t, "abc", e.SessionID)
	assert.Equal(t, "/work/new", e.ProjectPath)
	assert.Equal(t, "fix the build", e.ExtraString("firstPrompt"))
	assert.Equal(t, "(recovered session)", e.ExtraString("summary"))
}

func TestMerge_NothingToMerge(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst", "sessions-index.json")

	changed, err := NewCatalogMerger(nil).Merge(filepath.Join(dir, "src", "sessions-index.json"), dst, "/x")
	require.NoError(t, err)
	assert.Zero(t, changed)
	assert.NoFileExists(t, dst)
}

func TestReindex(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, "-work-beta")
	writeFile(t, filepath.Join(folder, "sessions-index.json"),
		`{"version":1,"originalPath":"/work/alpha","entries":[{"sessionId":"known","modified":"2024-01-01T00:00:00.000Z"}]}`)
	writeFile(t, filepath.Join(folder, "known.jsonl"), `{"type":"user","message":{"content":"hi"}}`+"\n")
	writeFile(t, filepath.Join(folder, "fresh.jsonl"), `{"type":"user","message":{"content":"hello there"}}`+"\n")

	m := NewCatalogMerger(nil)
	added, err := m.Reindex(folder, "/work/beta")
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	cat, err := ReadCatalogFile(filepath.Join(folder, "sessions-index.json"))
	require.NoError(t, err)
	assert.Equal(t, "/work/beta", cat.OriginalPath)
	assert.Len(t, cat.Entries, 2)

	added, err = m.Reindex(folder, "/work/beta")
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestFirstPromptExcerpt(t *testing.T) {
	long := make([]rune, 200)
	for i := range long {
		long[i] = 'é'
	}

	tests := []struct {
		name  string
		lines string
		want  string
	}{
		{"string content", `{"type":"user","message":{"content":"hello"}}`, "hello"},
		{"skips non user", `{"type":"summary"}` + "\n" + `{"type":"human","message":{"content":"second"}}`, "second"},
		{"empty prompt", `{"type":"user","message":{"content":[{"type":"image"}]}}`, "(no prompt)"},
		{"no user record", `{"type":"assistant"}`, "(recovered session)"},
		{"truncates runes", `{"type":"user","message":{"content":"` + string(long) + `"}}`, string(long[:150])},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "s.jsonl")
			writeFile(t, path, tt.lines+"\n")
			assert.Equal(t, tt.want, firstPromptExcerpt(path))
		})
	}
}

func TestRebuildCatalog_UsesMtime(t *testing.T) {
	folder := t.TempDir()
	path := filepath.Join(folder, "s1.jsonl")
	writeFile(t, path, "{}\n")
	mtime := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	cat := rebuildCatalog(folder, "/work/p")
	require.Len(t, cat.Entries, 1)
	assert.Equal(t, "2024-02-03T04:05:06.000Z", cat.Entries[0].Created)
	assert.Equal(t, path, cat.Entries[0].FullPath)
	assert.Equal(t, []string{"2024-02-03"}, cat.WorkDays())
}
