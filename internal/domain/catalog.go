package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// CatalogVersion is written when a catalog is rebuilt or rewritten
const CatalogVersion = 1

// RecoveredSummary marks catalog entries rebuilt from raw logs
const RecoveredSummary = "(recovered session)"

// SessionCatalog is the per-folder sessions-index.json document. Fields the
// engine does not interpret are kept verbatim so a rewrite never drops them.
type SessionCatalog struct {
	Version      int
	OriginalPath string
	Entries      []CatalogEntry
	Extra        map[string]json.RawMessage
}

// CatalogEntry is one session record
type CatalogEntry struct {
	SessionID   string
	LegacyID    string // "id" in catalogs that predate sessionId
	Created     string
	Modified    string
	LastActive  string
	ProjectPath string
	FullPath    string
	Extra       map[string]json.RawMessage
}

var entryKeys = []string{"sessionId", "id", "created", "modified", "lastActive", "projectPath", "fullPath"}

// Key identifies the session; empty when the entry carries neither id form
func (e CatalogEntry) Key() string {
	if e.SessionID != "" {
		return e.SessionID
	}
	return e.LegacyID
}

// SortTime is the first timestamp present among modified, lastActive, created
func (e CatalogEntry) SortTime() string {
	switch {
	case e.Modified != "":
		return e.Modified
	case e.LastActive != "":
		return e.LastActive
	default:
		return e.Created
	}
}

// NewerThan reports whether e is strictly newer than other
func (e CatalogEntry) NewerThan(other CatalogEntry) bool {
	return compareTimestamps(e.SortTime(), other.SortTime()) > 0
}

// SetExtra stores a field the engine does not model directly
func (e *CatalogEntry) SetExtra(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if e.Extra == nil {
		e.Extra = map[string]json.RawMessage{}
	}
	e.Extra[key] = raw
	return nil
}

// ExtraString returns a string-valued unmodelled field
func (e CatalogEntry) ExtraString(key string) string {
	raw, ok := e.Extra[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// AuthoritativePath is the catalog's recorded project path: the top-level
// originalPath, else the first entry's projectPath.
func (c *SessionCatalog) AuthoritativePath() string {
	if c.OriginalPath != "" {
		return c.OriginalPath
	}
	if len(c.Entries) > 0 {
		return c.Entries[0].ProjectPath
	}
	return ""
}

// WorkDays returns the UTC days of every entry's created timestamp
func (c *SessionCatalog) WorkDays() []string {
	var days []string
	for _, e := range c.Entries {
		if d, ok := WorkDayFromTimestamp(e.Created); ok {
			days = append(days, d)
		}
	}
	return UnionDays(days, nil)
}

// SessionIDs returns the set of entry keys
func (c *SessionCatalog) SessionIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(c.Entries))
	for _, e := range c.Entries {
		if k := e.Key(); k != "" {
			ids[k] = struct{}{}
		}
	}
	return ids
}

// MergeCatalogEntries folds source into dest. A session present in both keeps
// whichever entry is strictly newer, so ties keep dest. The result is sorted
// newest first; changed counts added plus replaced entries.
func MergeCatalogEntries(dest, source []CatalogEntry) ([]CatalogEntry, int) {
	merged := make([]CatalogEntry, len(dest))
	copy(merged, dest)

	pos := make(map[string]int, len(merged))
	for i, e := range merged {
		if k := e.Key(); k != "" {
			pos[k] = i
		}
	}

	changed := 0
	for _, e := range source {
		k := e.Key()
		if k == "" {
			continue
		}
		if i, ok := pos[k]; ok {
			if e.NewerThan(merged[i]) {
				merged[i] = e
				changed++
			}
			continue
		}
		pos[k] = len(merged)
		merged = append(merged, e)
		changed++
	}

	SortEntriesNewestFirst(merged)
	return merged, changed
}

// SortEntriesNewestFirst orders entries by SortTime descending, stable for ties
func SortEntriesNewestFirst(entries []CatalogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return compareTimestamps(entries[i].SortTime(), entries[j].SortTime()) > 0
	})
}

// RepairPaths rewrites originalPath and every entry's projectPath that equals
// oldPath or lies under it. Returns whether anything changed.
func (c *SessionCatalog) RepairPaths(oldPath, newPath string) bool {
	changed := false
	if p, ok := rebase(c.OriginalPath, oldPath, newPath); ok {
		c.OriginalPath = p
		changed = true
	}
	for i := range c.Entries {
		if p, ok := rebase(c.Entries[i].ProjectPath, oldPath, newPath); ok {
			c.Entries[i].ProjectPath = p
			changed = true
		}
	}
	return changed
}

// Relink points every entry's fullPath into folder, keeping the file name.
// Returns whether anything changed.
func (c *SessionCatalog) Relink(folder string) bool {
	changed := false
	for i := range c.Entries {
		fp := c.Entries[i].FullPath
		if fp == "" {
			continue
		}
		target := filepath.Join(folder, filepath.Base(fp))
		if target != fp {
			c.Entries[i].FullPath = target
			changed = true
		}
	}
	return changed
}

func rebase(path, oldPath, newPath string) (string, bool) {
	if path == "" || oldPath == "" || oldPath == newPath {
		return path, false
	}
	if path == oldPath {
		return newPath, true
	}
	prefix := strings.TrimRight(oldPath, `/\`)
	if rest, ok := strings.CutPrefix(path, prefix); ok && (strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, `\`)) {
		return newPath + rest, true
	}
	return path, false
}

// compareTimestamps orders two ISO-8601 strings, parsing them when possible
// so differing fractional precision compares correctly.
func compareTimestamps(a, b string) int {
	ta, okA := ParseTimestamp(a)
	tb, okB := ParseTimestamp(b)
	if okA && okB {
		return ta.Compare(tb)
	}
	return strings.Compare(a, b)
}

// UnmarshalJSON decodes a catalog, retaining unknown top-level fields
func (c *SessionCatalog) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = SessionCatalog{}
	decoded := []string{"entries"}
	if decodeKnown(raw, "version", &c.Version) {
		decoded = append(decoded, "version")
	}
	if decodeKnown(raw, "originalPath", &c.OriginalPath) {
		decoded = append(decoded, "originalPath")
	}
	if v, ok := raw["entries"]; ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		if err := json.Unmarshal(v, &c.Entries); err != nil {
			return fmt.Errorf("entries: %w", err)
		}
	}
	c.Extra = stripKeys(raw, decoded)
	return nil
}

// MarshalJSON encodes a catalog with its retained fields
func (c SessionCatalog) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+3)
	for k, v := range c.Extra {
		out[k] = v
	}
	if c.Version != 0 {
		out["version"] = c.Version
	} else if _, kept := c.Extra["version"]; !kept {
		out["version"] = CatalogVersion
	}
	if c.OriginalPath != "" {
		out["originalPath"] = c.OriginalPath
	}
	entries := c.Entries
	if entries == nil {
		entries = []CatalogEntry{}
	}
	out["entries"] = entries
	return json.Marshal(out)
}

// UnmarshalJSON decodes an entry, retaining unknown fields
func (e *CatalogEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = CatalogEntry{}
	var decoded []string
	for key, dst := range map[string]*string{
		"sessionId":   &e.SessionID,
		"id":          &e.LegacyID,
		"created":     &e.Created,
		"modified":    &e.Modified,
		"lastActive":  &e.LastActive,
		"projectPath": &e.ProjectPath,
		"fullPath":    &e.FullPath,
	} {
		if decodeKnown(raw, key, dst) {
			decoded = append(decoded, key)
		}
	}
	e.Extra = stripKeys(raw, decoded)
	return nil
}

// MarshalJSON encodes an entry with its retained fields
func (e CatalogEntry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+len(entryKeys))
	for k, v := range e.Extra {
		out[k] = v
	}
	for key, val := range map[string]string{
		"sessionId":   e.SessionID,
		"id":          e.LegacyID,
		"created":     e.Created,
		"modified":    e.Modified,
		"lastActive":  e.LastActive,
		"projectPath": e.ProjectPath,
		"fullPath":    e.FullPath,
	} {
		if val != "" {
			out[key] = val
		}
	}
	return json.Marshal(out)
}

// decodeKnown decodes raw[key] into dst. A value of an unexpected type is
// left in raw so it is written back unchanged.
func decodeKnown[T any](raw map[string]json.RawMessage, key string, dst *T) bool {
	v, ok := raw[key]
	if !ok {
		return false
	}
	var val T
	if err := json.Unmarshal(v, &val); err != nil {
		return false
	}
	*dst = val
	return true
}

func stripKeys(raw map[string]json.RawMessage, decoded []string) map[string]json.RawMessage {
	for _, k := range decoded {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil
	}
	return raw
}
