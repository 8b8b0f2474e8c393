package domain

import (
	"fmt"
	"strings"
)

// Operation names a reconciliation operation
type Operation string

const (
	OperationMove        Operation = "move"
	OperationMergeOrphan Operation = "merge-orphan"
	OperationCleanup     Operation = "cleanup"
	OperationSync        Operation = "sync"
	OperationRestore     Operation = "restore"
)

// MergeMode decides what a move does when the destination folder already exists
type MergeMode string

const (
	MergeModeMerge MergeMode = "merge" // fold source into the existing destination
	MergeModeClean MergeMode = "clean" // clear the destination, then move
)

// MergedSuffix is appended to merge-orphan sources instead of deleting them
const MergedSuffix = ".merged.bak"

// ParseMergeMode validates a mode name; empty means merge
func ParseMergeMode(s string) (MergeMode, error) {
	switch MergeMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MergeModeMerge:
		return MergeModeMerge, nil
	case MergeModeClean:
		return MergeModeClean, nil
	default:
		return "", fmt.Errorf("unknown merge mode %q (want merge or clean)", s)
	}
}

// PathPair is a source and destination path
type PathPair struct {
	Source string `json:"source"`
	Dest   string `json:"dest"`
}

// IndexChanges is the index delta a plan applies. Removals run first, then
// upserts, which add new entries or union into existing ones.
type IndexChanges struct {
	Remove []string        `json:"remove,omitempty"`
	Upsert []*ProjectEntry `json:"upsert,omitempty"`
}

// IsEmpty reports whether applying the changes would do nothing
func (c IndexChanges) IsEmpty() bool {
	return len(c.Remove) == 0 && len(c.Upsert) == 0
}

// Apply mutates idx and returns the keys that were actually removed
func (c IndexChanges) Apply(idx *Index) []string {
	var removed []string
	for _, key := range c.Remove {
		if idx.Remove(key) {
			removed = append(removed, key)
		}
	}
	for _, e := range c.Upsert {
		idx.Upsert(e)
	}
	return removed
}

// OperationPlan is everything an operation will do, computed without touching
// disk. It is reviewed by the operator and then handed to the executor.
type OperationPlan struct {
	Operation Operation `json:"operation"`
	Mode      MergeMode `json:"mode,omitempty"`

	OldPath  string `json:"oldPath,omitempty"`  // moved-from path, or the orphan's recorded path
	NewPath  string `json:"newPath,omitempty"`  // moved-to path, or the merge target
	FolderID string `json:"folderId,omitempty"` // orphan folder for merge-orphan

	Backups  []string   `json:"backups"`
	Merges   []PathPair `json:"merges"`
	Moves    []PathPair `json:"moves"`
	Renames  []PathPair `json:"renames"`
	Relocate *PathPair  `json:"relocate,omitempty"` // the working directory itself

	HistoryRewrite *PathPair `json:"historyRewrite,omitempty"`
	CatalogFolder  string    `json:"catalogFolder,omitempty"` // primary folder to relink after mutation
	Reindex        bool      `json:"reindex,omitempty"`       // add catalog entries for unlisted logs

	IndexChanges IndexChanges `json:"indexChanges"`
	Summary      string       `json:"summary"`
}

// HasMutations reports whether executing the plan would change anything
func (p OperationPlan) HasMutations() bool {
	return len(p.Merges) > 0 || len(p.Moves) > 0 || len(p.Renames) > 0 ||
		p.Relocate != nil || p.HistoryRewrite != nil || !p.IndexChanges.IsEmpty()
}

// RenameFor returns the quarantine pair scheduled for source, if any
func (p OperationPlan) RenameFor(source string) (PathPair, bool) {
	for _, r := range p.Renames {
		if r.Source == source {
			return r, true
		}
	}
	return PathPair{}, false
}
