package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"projectkeeper/internal/application"
	"projectkeeper/internal/domain"
)

// ListBackupsCommand lists backup directories, newest first
type ListBackupsCommand struct {
	engine *application.Engine
}

// NewListBackupsCommand creates a new ListBackupsCommand
func NewListBackupsCommand(engine *application.Engine) *ListBackupsCommand {
	return &ListBackupsCommand{engine: engine}
}

// Execute runs the list backups command
func (c *ListBackupsCommand) Execute(ctx context.Context) ([]domain.BackupInfo, error) {
	return c.engine.Vault.List()
}

// RestoreBackupCommand copies a backup's files back into place
type RestoreBackupCommand struct {
	engine    *application.Engine
	BackupDir string
}

// NewRestoreBackupCommand creates a new RestoreBackupCommand. A bare backup
// name is resolved against the vault root.
func NewRestoreBackupCommand(engine *application.Engine, backupDir string) *RestoreBackupCommand {
	return &RestoreBackupCommand{engine: engine, BackupDir: backupDir}
}

// Validate checks that the backup directory exists
func (c *RestoreBackupCommand) Validate() error {
	if err := application.ValidateRequired("backupDir", c.BackupDir); err != nil {
		return err
	}
	if !c.engine.Storage.IsDir(c.dir()) {
		return &application.ValidationError{
			Field:   "backupDir",
			Message: fmt.Sprintf("backup directory does not exist: %s", c.dir()),
		}
	}
	return nil
}

func (c *RestoreBackupCommand) dir() string {
	if filepath.IsAbs(c.BackupDir) {
		return c.BackupDir
	}
	return filepath.Join(c.engine.Vault.Root(), c.BackupDir)
}

// Execute runs the restore under the lock
func (c *RestoreBackupCommand) Execute(ctx context.Context) (domain.RestoreResult, error) {
	if err := c.Validate(); err != nil {
		return domain.RestoreResult{Message: err.Error(), RestoredPaths: []string{}}, err
	}
	return c.engine.Executor.Restore(ctx, c.dir())
}

// HistoryCommand lists recent executor runs from the journal
type HistoryCommand struct {
	engine *application.Engine
	Limit  int
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(engine *application.Engine, limit int) *HistoryCommand {
	return &HistoryCommand{engine: engine, Limit: limit}
}

// Execute runs the history command. Without a journal the history is empty.
func (c *HistoryCommand) Execute(ctx context.Context) ([]domain.JournalEntry, error) {
	if c.engine.Journal == nil {
		return []domain.JournalEntry{}, nil
	}
	return c.engine.Journal.Recent(ctx, c.Limit)
}
