package domain

import "path/filepath"

// File and directory names inside the storage layout
const (
	CatalogFileName  = "sessions-index.json"
	IndexFileName    = "projects-index.json"
	HistoryFileName  = "history.jsonl"
	ProjectsDirName  = "projects"
	ProjectMemoryDir = "project-memory"
	BackupDirName    = ".backups"
	LockDirName      = ".project_manager.lock"
)

// SideDataDirs are the auxiliary roots that key their folders by the same
// encoded identifier as the projects root.
var SideDataDirs = []string{"file-history", "todos", "shell-snapshots", "debug"}

// Layout resolves every location the engine reads or writes. It is built once
// from configuration and handed to each component, so tests can point the
// whole engine at a temporary directory.
type Layout struct {
	ClaudeDir string // e.g. ~/.claude
	MemoryDir string // e.g. ~/.claude/memory
}

// NewLayout returns a Layout rooted at claudeDir. An empty memoryDir defaults
// to <claudeDir>/memory.
func NewLayout(claudeDir, memoryDir string) Layout {
	if memoryDir == "" {
		memoryDir = filepath.Join(claudeDir, "memory")
	}
	return Layout{ClaudeDir: claudeDir, MemoryDir: memoryDir}
}

func (l Layout) ProjectsDir() string      { return filepath.Join(l.ClaudeDir, ProjectsDirName) }
func (l Layout) IndexFile() string        { return filepath.Join(l.MemoryDir, IndexFileName) }
func (l Layout) HistoryFile() string      { return filepath.Join(l.ClaudeDir, HistoryFileName) }
func (l Layout) ProjectMemoryDir() string { return filepath.Join(l.MemoryDir, ProjectMemoryDir) }
func (l Layout) BackupRoot() string       { return filepath.Join(l.MemoryDir, BackupDirName) }
func (l Layout) LockPath() string         { return filepath.Join(l.MemoryDir, LockDirName) }

// StorageRoots returns the projects root followed by every side-data root.
func (l Layout) StorageRoots() []string {
	roots := []string{l.ProjectsDir()}
	for _, dir := range SideDataDirs {
		roots = append(roots, filepath.Join(l.ClaudeDir, dir))
	}
	return roots
}

// StorageFolder is the primary storage folder for a folder identifier
func (l Layout) StorageFolder(folderID string) string {
	return filepath.Join(l.ProjectsDir(), folderID)
}

// NotesFile is the notes file for a project name
func (l Layout) NotesFile(projectName string) string {
	return filepath.Join(l.ProjectMemoryDir(), NotesFilename(projectName))
}

// RestoreTarget maps a backed-up basename to its live location. Unknown
// names report false and are skipped by restore.
func (l Layout) RestoreTarget(basename string) (string, bool) {
	switch {
	case basename == IndexFileName:
		return l.IndexFile(), true
	case basename == HistoryFileName:
		return l.HistoryFile(), true
	case IsNotesFilename(basename):
		return filepath.Join(l.ProjectMemoryDir(), basename), true
	default:
		return "", false
	}
}
