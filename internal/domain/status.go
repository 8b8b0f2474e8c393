package domain

import (
	"fmt"
	"time"
)

// ProjectStatus is a tracked project plus what the filesystem says about it
type ProjectStatus struct {
	CanonicalKey  string   `json:"canonicalKey"`
	Name          string   `json:"name"`
	OriginalPath  string   `json:"originalPath"`
	EncodedPaths  []string `json:"encodedPaths"`
	WorkDays      []string `json:"workDays"`
	Exists        bool     `json:"exists"`
	HasNotesFile  bool     `json:"hasNotesFile"`
	NotesFilePath string   `json:"notesFilePath,omitempty"`
	Issues        []string `json:"issues"`
}

// OrphanInfo describes a storage folder no tracked, existing project owns
type OrphanInfo struct {
	FolderName            string   `json:"folderName"`
	FolderPath            string   `json:"folderPath"`
	DecodedPathBestEffort string   `json:"decodedPathBestEffort,omitempty"`
	CatalogPath           string   `json:"catalogPath,omitempty"`
	AuthoritativePath     string   `json:"authoritativeOriginalPath,omitempty"`
	SubdirsPresent        []string `json:"subdirsPresent"`
	FileCount             int      `json:"fileCount"`
	TotalSizeBytes        int64    `json:"totalSizeBytes"`
}

// StaleEntry is an index row whose original path no longer exists
type StaleEntry struct {
	CanonicalKey string       `json:"canonicalKey"`
	Entry        ProjectEntry `json:"entry"`
}

// ValidationResult is the outcome of a precondition check. Issues block the
// operation; warnings do not.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
}

// Fail records a blocking issue
func (v *ValidationResult) Fail(format string, args ...any) {
	v.Issues = append(v.Issues, fmt.Sprintf(format, args...))
	v.Valid = false
}

// Warn records a non-blocking warning
func (v *ValidationResult) Warn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

// NewValidationResult starts a passing result
func NewValidationResult() ValidationResult {
	return ValidationResult{Valid: true, Issues: []string{}, Warnings: []string{}}
}

// BackupInfo describes one backup directory in the vault
type BackupInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"createdAt"`
	Files     []string  `json:"files"`
}

// RestoreResult reports what a restore put back
type RestoreResult struct {
	Success       bool     `json:"success"`
	RestoredPaths []string `json:"restoredPaths"`
	Skipped       []string `json:"skipped,omitempty"`
	Message       string   `json:"message"`
}

// JournalEntry is one recorded executor run
type JournalEntry struct {
	ID         string    `json:"id"`
	Operation  Operation `json:"operation"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	BackupPath string    `json:"backupPath,omitempty"`
	Summary    string    `json:"summary"`
}
