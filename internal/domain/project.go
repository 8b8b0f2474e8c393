package domain

import (
	"path/filepath"
	"slices"
	"sort"
	"time"
)

// IndexVersion is the schema version written to the index file
const IndexVersion = 1

// TimestampLayout is the ISO-8601 UTC form used for lastUpdated and catalog timestamps
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// WorkDayLayout formats a working day
const WorkDayLayout = "2006-01-02"

// Index is the persisted project index, keyed by canonical path
type Index struct {
	Version     int                      `json:"version"`
	LastUpdated string                   `json:"lastUpdated,omitempty"`
	Projects    map[string]*ProjectEntry `json:"projects"`
}

// ProjectEntry is one tracked project
type ProjectEntry struct {
	Name         string   `json:"name"`
	OriginalPath string   `json:"originalPath"`
	EncodedPaths []string `json:"encodedPaths"` // every storage folder id ever associated
	WorkDays     []string `json:"workDays"`     // sorted YYYY-MM-DD
}

// NewIndex returns an empty index
func NewIndex() *Index {
	return &Index{Version: IndexVersion, Projects: map[string]*ProjectEntry{}}
}

// NewProjectEntry builds an entry for path with the given folder id and working days
func NewProjectEntry(path, folderID string, workDays []string) *ProjectEntry {
	e := &ProjectEntry{
		Name:         filepath.Base(path),
		OriginalPath: path,
		EncodedPaths: []string{},
		WorkDays:     []string{},
	}
	if folderID != "" {
		e.AddEncodedPaths(folderID)
	}
	e.AddWorkDays(workDays...)
	return e
}

// CanonicalKey returns the index key for the entry
func (e *ProjectEntry) CanonicalKey() string {
	return CanonicalKey(e.OriginalPath)
}

// AddEncodedPaths appends folder ids not already present, keeping first-seen order.
// Returns how many were added.
func (e *ProjectEntry) AddEncodedPaths(ids ...string) int {
	added := 0
	for _, id := range ids {
		if id == "" || slices.Contains(e.EncodedPaths, id) {
			continue
		}
		e.EncodedPaths = append(e.EncodedPaths, id)
		added++
	}
	return added
}

// AddWorkDays unions days into the entry's sorted set. Returns how many were new.
func (e *ProjectEntry) AddWorkDays(days ...string) int {
	before := len(e.WorkDays)
	e.WorkDays = UnionDays(e.WorkDays, days)
	return len(e.WorkDays) - before
}

// Clone returns a deep copy
func (e *ProjectEntry) Clone() *ProjectEntry {
	if e == nil {
		return nil
	}
	return &ProjectEntry{
		Name:         e.Name,
		OriginalPath: e.OriginalPath,
		EncodedPaths: slices.Clone(e.EncodedPaths),
		WorkDays:     slices.Clone(e.WorkDays),
	}
}

// Normalize fills nil slices so the entry always serializes arrays
func (e *ProjectEntry) Normalize() {
	if e.EncodedPaths == nil {
		e.EncodedPaths = []string{}
	}
	if e.WorkDays == nil {
		e.WorkDays = []string{}
	}
}

// UnionDays merges two day lists into a sorted, de-duplicated list
func UnionDays(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, d := range a {
		if d != "" {
			set[d] = struct{}{}
		}
	}
	for _, d := range b {
		if d != "" {
			set[d] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// DiffDays returns the days in a that are not in b, sorted
func DiffDays(a, b []string) []string {
	var out []string
	for _, d := range UnionDays(a, nil) {
		if !slices.Contains(b, d) {
			out = append(out, d)
		}
	}
	return out
}

// WorkDayFromTimestamp returns the UTC calendar day of an ISO-8601 timestamp
func WorkDayFromTimestamp(ts string) (string, bool) {
	t, ok := ParseTimestamp(ts)
	if !ok {
		return "", false
	}
	return t.UTC().Format(WorkDayLayout), true
}

// ParseTimestamp parses the ISO-8601 forms found in catalogs and logs
func ParseTimestamp(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t the way index and catalog files store timestamps
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Touch sets lastUpdated
func (idx *Index) Touch(now time.Time) {
	idx.LastUpdated = FormatTimestamp(now)
}

// Normalize makes a freshly decoded index safe to mutate
func (idx *Index) Normalize() {
	if idx.Version == 0 {
		idx.Version = IndexVersion
	}
	if idx.Projects == nil {
		idx.Projects = map[string]*ProjectEntry{}
	}
	for key, e := range idx.Projects {
		if e == nil {
			delete(idx.Projects, key)
			continue
		}
		e.Normalize()
	}
}

// Keys returns the canonical keys in sorted order
func (idx *Index) Keys() []string {
	keys := make([]string, 0, len(idx.Projects))
	for k := range idx.Projects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the entry stored under key
func (idx *Index) Get(key string) (*ProjectEntry, bool) {
	e, ok := idx.Projects[key]
	return e, ok
}

// Remove deletes key and reports whether it was present
func (idx *Index) Remove(key string) bool {
	if _, ok := idx.Projects[key]; !ok {
		return false
	}
	delete(idx.Projects, key)
	return true
}

// Upsert stores e under its canonical key. An existing entry keeps its name and
// original path and gains e's encoded paths and working days.
func (idx *Index) Upsert(e *ProjectEntry) {
	key := e.CanonicalKey()
	existing, ok := idx.Projects[key]
	if !ok {
		c := e.Clone()
		c.Normalize()
		idx.Projects[key] = c
		return
	}
	existing.AddEncodedPaths(e.EncodedPaths...)
	existing.AddWorkDays(e.WorkDays...)
}

// TrackedFolders is the union of every entry's encoded paths
func (idx *Index) TrackedFolders() map[string]struct{} {
	tracked := make(map[string]struct{})
	for _, e := range idx.Projects {
		for _, id := range e.EncodedPaths {
			tracked[id] = struct{}{}
		}
	}
	return tracked
}

// FindByFolder returns the key and entry whose encoded paths include folderID
func (idx *Index) FindByFolder(folderID string) (string, *ProjectEntry, bool) {
	for _, key := range idx.Keys() {
		e := idx.Projects[key]
		if slices.Contains(e.EncodedPaths, folderID) {
			return key, e, true
		}
	}
	return "", nil, false
}

// Clone returns a deep copy
func (idx *Index) Clone() *Index {
	c := &Index{Version: idx.Version, LastUpdated: idx.LastUpdated, Projects: make(map[string]*ProjectEntry, len(idx.Projects))}
	for k, e := range idx.Projects {
		c.Projects[k] = e.Clone()
	}
	return c
}
