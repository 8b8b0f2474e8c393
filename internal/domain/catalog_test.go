package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id, modified string) CatalogEntry {
	return CatalogEntry{SessionID: id, Created: "2026-01-01T00:00:00Z", Modified: modified}
}

func TestMergeCatalogEntries_AddsMissing(t *testing.T) {
	dest := []CatalogEntry{entry("a", "2026-01-02T00:00:00Z")}
	source := []CatalogEntry{entry("b", "2026-01-03T00:00:00Z")}

	merged, changed := MergeCatalogEntries(dest, source)

	assert.Equal(t, 1, changed)
	require.Len(t, merged, 2)
	assert.Equal(t, "b", merged[0].SessionID, "newest first")
	assert.Equal(t, "a", merged[1].SessionID)
}

func TestMergeCatalogEntries_KeepsStrictlyNewer(t *testing.T) {
	tests := []struct {
		name       string
		destMod    string
		sourceMod  string
		wantMod    string
		wantChange int
	}{
		{"source newer", "2026-01-01T00:00:00Z", "2026-01-05T00:00:00Z", "2026-01-05T00:00:00Z", 1},
		{"dest newer", "2026-01-05T00:00:00Z", "2026-01-01T00:00:00Z", "2026-01-05T00:00:00Z", 0},
		{"tie keeps dest", "2026-01-05T00:00:00Z", "2026-01-05T00:00:00.000Z", "2026-01-05T00:00:00Z", 0},
		{"finer precision compares by value", "2026-01-05T00:00:00Z", "2026-01-05T00:00:00.5Z", "2026-01-05T00:00:00.5Z", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, changed := MergeCatalogEntries(
				[]CatalogEntry{entry("s1", tt.destMod)},
				[]CatalogEntry{entry("s1", tt.sourceMod)},
			)
			assert.Equal(t, tt.wantChange, changed)
			require.Len(t, merged, 1)
			assert.Equal(t, tt.wantMod, merged[0].Modified)
		})
	}
}

func TestMergeCatalogEntries_TimestampPriority(t *testing.T) {
	// modified beats lastActive beats created
	dest := []CatalogEntry{{SessionID: "s", Created: "2026-03-01T00:00:00Z", LastActive: "2026-01-10T00:00:00Z"}}
	source := []CatalogEntry{{SessionID: "s", Created: "2026-01-01T00:00:00Z", Modified: "2026-02-01T00:00:00Z"}}

	merged, changed := MergeCatalogEntries(dest, source)
	assert.Equal(t, 1, changed)
	assert.Equal(t, "2026-02-01T00:00:00Z", merged[0].Modified)
}

func TestMergeCatalogEntries_Idempotent(t *testing.T) {
	dest := []CatalogEntry{entry("a", "2026-01-02T00:00:00Z")}
	source := []CatalogEntry{entry("a", "2026-01-04T00:00:00Z"), entry("b", "2026-01-03T00:00:00Z"), {Modified: "x"}}

	first, changed := MergeCatalogEntries(dest, source)
	require.Equal(t, 2, changed)

	second, changed := MergeCatalogEntries(first, source)
	assert.Equal(t, 0, changed)
	assert.Equal(t, first, second)
}

func TestMergeCatalogEntries_LegacyID(t *testing.T) {
	dest := []CatalogEntry{{LegacyID: "old", Modified: "2026-01-01T00:00:00Z"}}
	source := []CatalogEntry{{SessionID: "old", Modified: "2026-01-02T00:00:00Z"}}

	merged, changed := MergeCatalogEntries(dest, source)
	assert.Equal(t, 1, changed)
	require.Len(t, merged, 1)
	assert.Equal(t, "old", merged[0].Key())
}

func TestSessionCatalog_JSONPreservesUnknownFields(t *testing.T) {
	in := `{"version":1,"custom":{"k":true},"entries":[{"sessionId":"s1","created":"2026-01-01T00:00:00Z","messageCount":4,"projectPath":"/work/alpha"}]}`

	var cat SessionCatalog
	require.NoError(t, json.Unmarshal([]byte(in), &cat))
	require.Len(t, cat.Entries, 1)
	assert.Equal(t, "/work/alpha", cat.AuthoritativePath())
	assert.JSONEq(t, `4`, string(cat.Entries[0].Extra["messageCount"]))

	out, err := json.Marshal(cat)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestSessionCatalog_JSONKeepsMistypedKnownFields(t *testing.T) {
	in := `{"version":"2","originalPath":"/work/alpha","entries":[{"sessionId":"s1","created":1767225600,"modified":"2026-01-02T00:00:00Z","projectPath":["/work/alpha"]}]}`

	var cat SessionCatalog
	require.NoError(t, json.Unmarshal([]byte(in), &cat))
	require.Len(t, cat.Entries, 1)
	entry := cat.Entries[0]
	assert.Empty(t, entry.Created)
	assert.Empty(t, entry.ProjectPath)
	assert.Equal(t, "2026-01-02T00:00:00Z", entry.Modified)
	assert.JSONEq(t, `1767225600`, string(entry.Extra["created"]))

	out, err := json.Marshal(cat)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestSessionCatalog_AuthoritativePath(t *testing.T) {
	cat := SessionCatalog{OriginalPath: "/root/path", Entries: []CatalogEntry{{ProjectPath: "/entry/path"}}}
	assert.Equal(t, "/root/path", cat.AuthoritativePath())

	cat.OriginalPath = ""
	assert.Equal(t, "/entry/path", cat.AuthoritativePath())

	assert.Equal(t, "", (&SessionCatalog{}).AuthoritativePath())
}

func TestSessionCatalog_RepairPaths(t *testing.T) {
	cat := SessionCatalog{
		OriginalPath: "/work/alpha",
		Entries: []CatalogEntry{
			{SessionID: "1", ProjectPath: "/work/alpha"},
			{SessionID: "2", ProjectPath: "/work/alpha/sub"},
			{SessionID: "3", ProjectPath: "/work/alphabet"},
		},
	}

	assert.True(t, cat.RepairPaths("/work/alpha", "/work/beta"))
	assert.Equal(t, "/work/beta", cat.OriginalPath)
	assert.Equal(t, "/work/beta", cat.Entries[0].ProjectPath)
	assert.Equal(t, "/work/beta/sub", cat.Entries[1].ProjectPath)
	assert.Equal(t, "/work/alphabet", cat.Entries[2].ProjectPath, "sibling prefixes are untouched")

	assert.False(t, cat.RepairPaths("/work/alpha", "/work/beta"))
}

func TestSessionCatalog_Relink(t *testing.T) {
	cat := SessionCatalog{Entries: []CatalogEntry{{SessionID: "1", FullPath: "/c/projects/-old/1.jsonl"}, {SessionID: "2"}}}

	assert.True(t, cat.Relink("/c/projects/-new"))
	assert.Equal(t, "/c/projects/-new/1.jsonl", cat.Entries[0].FullPath)
	assert.False(t, cat.Relink("/c/projects/-new"))
}

func TestSessionCatalog_WorkDays(t *testing.T) {
	cat := SessionCatalog{Entries: []CatalogEntry{
		{Created: "2026-01-02T10:00:00Z"},
		{Created: "2026-01-01T10:00:00Z"},
		{Created: "2026-01-02T11:00:00Z"},
		{Created: "garbage"},
	}}
	assert.Equal(t, []string{"2026-01-01", "2026-01-02"}, cat.WorkDays())
}
