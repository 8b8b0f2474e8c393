package ports

import "projectkeeper/internal/domain"

// BackupVault keeps timestamped copies of files before they are mutated
type BackupVault interface {
	// Backup copies files into a new backup directory and returns its path
	Backup(files []string) (string, error)

	// Restore copies a backup's files back to their live locations
	Restore(dir string) domain.RestoreResult

	// List returns every backup, newest first
	List() ([]domain.BackupInfo, error)

	Root() string
}
