package application

import "projectkeeper/internal/domain"

// Re-export domain types for use by adapters
type (
	ProjectStatus    = domain.ProjectStatus
	OrphanInfo       = domain.OrphanInfo
	StaleEntry       = domain.StaleEntry
	OperationPlan    = domain.OperationPlan
	ValidationResult = domain.ValidationResult
	BackupInfo       = domain.BackupInfo
	RestoreResult    = domain.RestoreResult
	JournalEntry     = domain.JournalEntry
	MergeMode        = domain.MergeMode
	Operation        = domain.Operation
)

const (
	MergeModeMerge = domain.MergeModeMerge
	MergeModeClean = domain.MergeModeClean
)

// ParseMergeMode validates a merge mode name; empty means merge
func ParseMergeMode(s string) (MergeMode, error) {
	return domain.ParseMergeMode(s)
}
