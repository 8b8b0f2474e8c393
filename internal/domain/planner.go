package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Snapshot holds the filesystem facts a plan depends on. Gathering it is the
// caller's job; the planner itself performs no I/O.
type Snapshot struct {
	Index    *Index
	Existing map[string]bool // paths known to exist

	OrphanPath     string   // path recorded in the orphan folder's catalog
	OrphanWorkDays []string // days from the orphan folder's catalog

	Stale      []StaleEntry  // input to cleanup
	Discovered []FolderFacts // input to sync
}

// FolderFacts is what a storage folder says about the project it belongs to
type FolderFacts struct {
	FolderID string   `json:"folderId"`
	Path     string   `json:"path"`
	WorkDays []string `json:"workDays"`
}

// Exists reports whether path was observed to exist
func (s Snapshot) Exists(path string) bool {
	return s.Existing[path]
}

func (s Snapshot) index() *Index {
	if s.Index == nil {
		return NewIndex()
	}
	return s.Index
}

// Planner turns an intent into an OperationPlan
type Planner struct {
	layout Layout
}

// NewPlanner creates a planner over layout
func NewPlanner(layout Layout) Planner {
	return Planner{layout: layout}
}

// MoveCandidates lists the paths whose existence PlanMove consults
func (p Planner) MoveCandidates(oldPath, newPath string) []string {
	paths := []string{
		p.layout.IndexFile(),
		p.layout.HistoryFile(),
		p.layout.NotesFile(filepath.Base(oldPath)),
		p.layout.NotesFile(filepath.Base(newPath)),
		oldPath,
		newPath,
	}
	oldID, newID := EncodePath(oldPath), EncodePath(newPath)
	for _, root := range p.layout.StorageRoots() {
		paths = append(paths, filepath.Join(root, oldID), filepath.Join(root, newID))
	}
	return paths
}

// MergeOrphanCandidates lists the paths whose existence PlanMergeOrphan consults
func (p Planner) MergeOrphanCandidates(folderID, target, orphanPath string) []string {
	paths := []string{
		p.layout.IndexFile(),
		p.layout.HistoryFile(),
		p.layout.NotesFile(filepath.Base(target)),
	}
	if orphanPath != "" {
		paths = append(paths, p.layout.NotesFile(filepath.Base(orphanPath)))
	}
	targetID := EncodePath(target)
	for _, root := range p.layout.StorageRoots() {
		paths = append(paths, filepath.Join(root, folderID), filepath.Join(root, targetID))
	}
	return paths
}

// PlanMove plans relocating a project from oldPath to newPath
func (p Planner) PlanMove(snap Snapshot, oldPath, newPath string, mode MergeMode) OperationPlan {
	if mode == "" {
		mode = MergeModeMerge
	}
	plan := p.newPlan(OperationMove)
	plan.Mode = mode
	plan.OldPath = oldPath
	plan.NewPath = newPath
	plan.CatalogFolder = p.layout.StorageFolder(EncodePath(newPath))

	p.addCommonBackups(snap, &plan)
	oldNotes := p.layout.NotesFile(filepath.Base(oldPath))
	newNotes := p.layout.NotesFile(filepath.Base(newPath))
	notesConflict := false
	if snap.Exists(oldNotes) {
		plan.Backups = append(plan.Backups, oldNotes)
		if oldNotes != newNotes {
			if snap.Exists(newNotes) {
				plan.Backups = append(plan.Backups, newNotes)
				notesConflict = true
			} else {
				plan.Moves = append(plan.Moves, PathPair{Source: oldNotes, Dest: newNotes})
			}
		}
	}

	oldID, newID := EncodePath(oldPath), EncodePath(newPath)
	folderMoves := 0
	for _, root := range p.layout.StorageRoots() {
		src, dst := filepath.Join(root, oldID), filepath.Join(root, newID)
		if src == dst || !snap.Exists(src) {
			continue
		}
		if snap.Exists(dst) && mode == MergeModeMerge {
			plan.Merges = append(plan.Merges, PathPair{Source: src, Dest: dst})
			continue
		}
		plan.Moves = append(plan.Moves, PathPair{Source: src, Dest: dst})
		folderMoves++
	}

	if snap.Exists(p.layout.HistoryFile()) {
		plan.HistoryRewrite = &PathPair{Source: oldPath, Dest: newPath}
	}
	if snap.Exists(oldPath) && !snap.Exists(newPath) {
		plan.Relocate = &PathPair{Source: oldPath, Dest: newPath}
	}

	idx := snap.index()
	oldKey := CanonicalKey(oldPath)
	if old, ok := idx.Get(oldKey); ok {
		plan.IndexChanges.Remove = []string{oldKey}
		moved := NewProjectEntry(newPath, newID, old.WorkDays)
		// folders recorded under earlier names stay claimed by the project
		moved.AddEncodedPaths(old.EncodedPaths...)
		plan.IndexChanges.Upsert = []*ProjectEntry{moved}
	}

	lines := []string{
		fmt.Sprintf("Move project from %s to %s (mode: %s)", oldPath, newPath, mode),
		fmt.Sprintf("Backup %d files before changes", len(plan.Backups)),
	}
	if folderMoves > 0 {
		line := fmt.Sprintf("Move %d storage folders", folderMoves)
		if mode == MergeModeClean {
			line += " (existing destinations are cleared first)"
		}
		lines = append(lines, line)
	}
	if len(plan.Merges) > 0 {
		lines = append(lines, fmt.Sprintf("Merge %d storage folders into existing destinations", len(plan.Merges)))
	}
	if notesConflict {
		lines = append(lines, fmt.Sprintf("Notes files %s and %s both exist; merge them by hand", filepath.Base(oldNotes), filepath.Base(newNotes)))
	} else if snap.Exists(oldNotes) && oldNotes != newNotes {
		lines = append(lines, fmt.Sprintf("Rename notes file to %s", filepath.Base(newNotes)))
	}
	if !plan.IndexChanges.IsEmpty() {
		lines = append(lines, "Update "+IndexFileName)
	}
	if plan.HistoryRewrite != nil {
		lines = append(lines, "Rewrite paths in "+HistoryFileName)
	}
	if plan.Relocate != nil {
		lines = append(lines, fmt.Sprintf("Move the project directory to %s", newPath))
	}
	plan.Summary = strings.Join(lines, "\n")
	return plan
}

// PlanMergeOrphan plans folding orphan folder folderID into the project at target
func (p Planner) PlanMergeOrphan(snap Snapshot, folderID, target string) OperationPlan {
	plan := p.newPlan(OperationMergeOrphan)
	plan.FolderID = folderID
	plan.OldPath = snap.OrphanPath
	plan.NewPath = target
	plan.CatalogFolder = p.layout.StorageFolder(EncodePath(target))
	plan.Reindex = true

	p.addCommonBackups(snap, &plan)
	if snap.OrphanPath != "" {
		if notes := p.layout.NotesFile(filepath.Base(snap.OrphanPath)); snap.Exists(notes) {
			plan.Backups = append(plan.Backups, notes)
		}
	}
	if notes := p.layout.NotesFile(filepath.Base(target)); snap.Exists(notes) && !containsPath(plan.Backups, notes) {
		plan.Backups = append(plan.Backups, notes)
	}

	targetID := EncodePath(target)
	for _, root := range p.layout.StorageRoots() {
		src, dst := filepath.Join(root, folderID), filepath.Join(root, targetID)
		if src == dst || !snap.Exists(src) {
			continue
		}
		if snap.Exists(dst) {
			plan.Merges = append(plan.Merges, PathPair{Source: src, Dest: dst})
			plan.Renames = append(plan.Renames, PathPair{Source: src, Dest: src + MergedSuffix})
			continue
		}
		plan.Moves = append(plan.Moves, PathPair{Source: src, Dest: dst})
	}

	if snap.OrphanPath != "" && snap.OrphanPath != target && snap.Exists(p.layout.HistoryFile()) {
		plan.HistoryRewrite = &PathPair{Source: snap.OrphanPath, Dest: target}
	}

	idx := snap.index()
	targetKey := CanonicalKey(target)
	days := snap.OrphanWorkDays
	if key, entry, ok := idx.FindByFolder(folderID); ok {
		days = UnionDays(days, entry.WorkDays)
		if key != targetKey {
			plan.IndexChanges.Remove = []string{key}
		}
	}
	var newDays []string
	if existing, ok := idx.Get(targetKey); ok {
		newDays = DiffDays(days, existing.WorkDays)
		if len(newDays) > 0 || !containsPath(existing.EncodedPaths, targetID) {
			plan.IndexChanges.Upsert = []*ProjectEntry{NewProjectEntry(target, targetID, newDays)}
		}
	} else {
		newDays = UnionDays(days, nil)
		plan.IndexChanges.Upsert = []*ProjectEntry{NewProjectEntry(target, targetID, newDays)}
	}

	lines := []string{
		fmt.Sprintf("Merge orphaned project data into %s", target),
		fmt.Sprintf("Orphan folder: %s", folderID),
		fmt.Sprintf("Backup %d files before changes", len(plan.Backups)),
	}
	if len(plan.Moves) > 0 {
		lines = append(lines, fmt.Sprintf("Move %d folders (no existing target)", len(plan.Moves)))
	}
	if len(plan.Merges) > 0 {
		lines = append(lines, fmt.Sprintf("Merge %d folders with existing data", len(plan.Merges)))
	}
	if len(plan.Renames) > 0 {
		lines = append(lines, fmt.Sprintf("Rename %d merged orphan folders to *%s (not deleted)", len(plan.Renames), MergedSuffix))
	}
	if len(plan.IndexChanges.Remove) > 0 {
		lines = append(lines, fmt.Sprintf("Remove index entry %s", plan.IndexChanges.Remove[0]))
	}
	if len(newDays) > 0 {
		lines = append(lines, fmt.Sprintf("Add %d work days to target project", len(newDays)))
	}
	if plan.HistoryRewrite != nil {
		lines = append(lines, fmt.Sprintf("Rewrite %s in %s", snap.OrphanPath, HistoryFileName))
	}
	plan.Summary = strings.Join(lines, "\n")
	return plan
}

// PlanCleanup plans removing the snapshot's stale entries from the index
func (p Planner) PlanCleanup(snap Snapshot) OperationPlan {
	plan := p.newPlan(OperationCleanup)

	lines := []string{fmt.Sprintf("Found %d stale index entries", len(snap.Stale))}
	for _, s := range snap.Stale {
		plan.IndexChanges.Remove = append(plan.IndexChanges.Remove, s.CanonicalKey)
		lines = append(lines, fmt.Sprintf("  - %s: %s (%d work days)", s.Entry.Name, s.Entry.OriginalPath, len(s.Entry.WorkDays)))
	}
	if len(snap.Stale) > 0 {
		if snap.Exists(p.layout.IndexFile()) {
			plan.Backups = append(plan.Backups, p.layout.IndexFile())
		}
		lines = append(lines,
			"",
			"This removes entries from "+IndexFileName+" only.",
			"No storage folders are deleted; review orphaned folders manually.",
		)
	}
	plan.Summary = strings.Join(lines, "\n")
	return plan
}

// PlanSync plans adding discovered folders to the index. Sync never removes.
func (p Planner) PlanSync(snap Snapshot) OperationPlan {
	plan := p.newPlan(OperationSync)
	idx := snap.index()

	added, extended := 0, 0
	for _, f := range snap.Discovered {
		if f.Path == "" || len(f.WorkDays) == 0 {
			continue
		}
		existing, ok := idx.Get(CanonicalKey(f.Path))
		if !ok {
			plan.IndexChanges.Upsert = append(plan.IndexChanges.Upsert, NewProjectEntry(f.Path, f.FolderID, f.WorkDays))
			added++
			continue
		}
		newDays := DiffDays(f.WorkDays, existing.WorkDays)
		if len(newDays) == 0 && containsPath(existing.EncodedPaths, f.FolderID) {
			continue
		}
		e := NewProjectEntry(existing.OriginalPath, f.FolderID, newDays)
		plan.IndexChanges.Upsert = append(plan.IndexChanges.Upsert, e)
		extended++
	}

	if !plan.IndexChanges.IsEmpty() && snap.Exists(p.layout.IndexFile()) {
		plan.Backups = append(plan.Backups, p.layout.IndexFile())
	}
	plan.Summary = strings.Join([]string{
		fmt.Sprintf("Scanned %d storage folders", len(snap.Discovered)),
		fmt.Sprintf("Add %d new projects, extend %d existing projects", added, extended),
		"Sync only adds to " + IndexFileName + "; nothing is removed.",
	}, "\n")
	return plan
}

func (p Planner) newPlan(op Operation) OperationPlan {
	return OperationPlan{
		Operation: op,
		Backups:   []string{},
		Merges:    []PathPair{},
		Moves:     []PathPair{},
		Renames:   []PathPair{},
	}
}

func (p Planner) addCommonBackups(snap Snapshot, plan *OperationPlan) {
	if snap.Exists(p.layout.IndexFile()) {
		plan.Backups = append(plan.Backups, p.layout.IndexFile())
	}
	if snap.Exists(p.layout.HistoryFile()) {
		plan.Backups = append(plan.Backups, p.layout.HistoryFile())
	}
}

func containsPath(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
