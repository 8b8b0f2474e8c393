package application

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectkeeper/internal/domain"
)

func TestFindOrphans(t *testing.T) {
	f := newFixture(t)
	alpha, renamed, gone, live := f.project("alpha"), f.project("renamed"), f.project("gone"), f.project("live")
	f.mkdir(t, alpha)
	f.mkdir(t, live)

	// tracked alias whose catalog still records a vanished path
	aliasID := domain.EncodePath(renamed)
	entry := domain.NewProjectEntry(alpha, domain.EncodePath(alpha), nil)
	entry.AddEncodedPaths(aliasID)
	f.track(t, entry)
	f.write(t, filepath.Join(f.layout.StorageFolder(aliasID), domain.CatalogFileName), `{"originalPath":"`+renamed+`","entries":[]}`)
	f.mkdir(t, f.folder(alpha))

	// untracked but its recorded path still exists
	f.write(t, filepath.Join(f.folder(live), domain.CatalogFileName), `{"originalPath":"`+live+`","entries":[]}`)

	// untracked, recorded path gone
	f.write(t, filepath.Join(f.folder(gone), domain.CatalogFileName), `{"entries":[{"sessionId":"s","projectPath":"`+gone+`"}]}`)
	f.write(t, filepath.Join(f.folder(gone), "s.jsonl"), "12345")
	f.write(t, filepath.Join(f.layout.ClaudeDir, "todos", domain.EncodePath(gone), "t.json"), "[]")

	// untracked, no catalog at all
	f.write(t, filepath.Join(f.layout.StorageFolder("-bare"), "x.jsonl"), "{}")

	idx, err := f.engine.Discovery.LoadIndex()
	require.NoError(t, err)
	orphans, err := f.engine.Discovery.FindOrphans(idx)
	require.NoError(t, err)

	names := map[string]domain.OrphanInfo{}
	for _, o := range orphans {
		names[o.FolderName] = o
	}
	assert.Len(t, orphans, 2)
	assert.NotContains(t, names, aliasID)
	assert.NotContains(t, names, domain.EncodePath(live))

	g, ok := names[domain.EncodePath(gone)]
	require.True(t, ok)
	assert.Equal(t, gone, g.AuthoritativePath)
	assert.Equal(t, []string{"projects", "todos"}, g.SubdirsPresent)
	assert.Equal(t, 3, g.FileCount)
	assert.NotEmpty(t, g.CatalogPath)

	bare, ok := names["-bare"]
	require.True(t, ok)
	assert.Empty(t, bare.AuthoritativePath)
	assert.Equal(t, "/bare", bare.DecodedPathBestEffort)
}

func TestProjectStatuses(t *testing.T) {
	f := newFixture(t)
	alpha, gone := f.project("alpha"), f.project("gone")
	f.mkdir(t, alpha)
	f.mkdir(t, f.folder(alpha))
	f.write(t, f.layout.NotesFile("alpha"), "# notes")
	f.track(t,
		domain.NewProjectEntry(alpha, domain.EncodePath(alpha), nil),
		domain.NewProjectEntry(gone, domain.EncodePath(gone), nil),
	)

	idx, err := f.engine.Discovery.LoadIndex()
	require.NoError(t, err)
	statuses := f.engine.Discovery.ProjectStatuses(idx)
	require.Len(t, statuses, 2)

	byName := map[string]domain.ProjectStatus{}
	for _, s := range statuses {
		byName[s.Name] = s
	}
	assert.True(t, byName["alpha"].Exists)
	assert.True(t, byName["alpha"].HasNotesFile)
	assert.Empty(t, byName["alpha"].Issues)

	assert.False(t, byName["gone"].Exists)
	assert.Contains(t, byName["gone"].Issues, "path missing: "+gone)
	assert.Contains(t, byName["gone"].Issues, "no storage folder found")
}

func TestLoadIndex(t *testing.T) {
	f := newFixture(t)

	idx, err := f.engine.Discovery.LoadIndex()
	require.NoError(t, err)
	assert.Empty(t, idx.Projects)

	f.write(t, f.layout.IndexFile(), "not json")
	_, err = f.engine.Discovery.LoadIndex()
	assert.Error(t, err)
}
