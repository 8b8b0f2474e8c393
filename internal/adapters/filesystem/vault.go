package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"projectkeeper/internal/domain"
	"projectkeeper/internal/ports"
)

// BackupNameLayout names backup directories by UTC time
const BackupNameLayout = "20060102_150405"

var _ ports.BackupVault = (*Vault)(nil)

// Vault stores flat, timestamped copies of files under a root directory.
// Backups are never deleted automatically.
type Vault struct {
	layout domain.Layout
	now    func() time.Time
	logger *zap.Logger
}

// NewVault creates a vault rooted at layout.BackupRoot()
func NewVault(layout domain.Layout, logger *zap.Logger) *Vault {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Vault{layout: layout, now: time.Now, logger: logger}
}

func (v *Vault) Root() string {
	return v.layout.BackupRoot()
}

// Backup copies each existing file into a new directory named by the current
// UTC time and returns that directory. Files are stored by basename; two files
// sharing a basename overwrite each other.
func (v *Vault) Backup(files []string) (string, error) {
	dir, err := v.newBackupDir()
	if err != nil {
		return "", err
	}

	for _, f := range files {
		if !exists(f) {
			continue
		}
		if err := copyFile(f, filepath.Join(dir, filepath.Base(f))); err != nil {
			return dir, fmt.Errorf("failed to back up %s: %w", f, err)
		}
	}
	v.logger.Info("backup created", zap.String("dir", dir), zap.Int("files", len(files)))
	return dir, nil
}

func (v *Vault) newBackupDir() (string, error) {
	if err := os.MkdirAll(v.Root(), 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup root: %w", err)
	}
	base := v.now().UTC().Format(BackupNameLayout)
	dir := filepath.Join(v.Root(), base)
	for n := 2; ; n++ {
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("failed to create backup directory: %w", err)
		}
		dir = filepath.Join(v.Root(), fmt.Sprintf("%s_%d", base, n))
	}
}

// Restore copies every recognised file in dir back to its live location.
// Unrecognised names are skipped. The first failed copy stops the restore;
// files restored before it stay listed.
func (v *Vault) Restore(dir string) domain.RestoreResult {
	result := domain.RestoreResult{RestoredPaths: []string{}}

	entries, err := os.ReadDir(dir)
	if err != nil {
		result.Message = fmt.Sprintf("Backup directory not readable: %v", err)
		return result
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		target, ok := v.layout.RestoreTarget(entry.Name())
		if !ok {
			result.Skipped = append(result.Skipped, entry.Name())
			continue
		}
		if err := copyFile(filepath.Join(dir, entry.Name()), target); err != nil {
			result.Message = fmt.Sprintf("Restore failed at %s: %v", entry.Name(), err)
			return result
		}
		result.RestoredPaths = append(result.RestoredPaths, target)
	}

	result.Success = true
	result.Message = fmt.Sprintf("Restored %d files from %s", len(result.RestoredPaths), dir)
	v.logger.Info("backup restored", zap.String("dir", dir), zap.Int("files", len(result.RestoredPaths)))
	return result
}

// List returns every backup directory, newest first
func (v *Vault) List() ([]domain.BackupInfo, error) {
	entries, err := os.ReadDir(v.Root())
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backups: %w", err)
	}

	backups := []domain.BackupInfo{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(v.Root(), entry.Name())
		info := domain.BackupInfo{Name: entry.Name(), Path: path, Files: []string{}}
		if len(entry.Name()) >= len(BackupNameLayout) {
			if t, err := time.Parse(BackupNameLayout, entry.Name()[:len(BackupNameLayout)]); err == nil {
				info.CreatedAt = t
			}
		}
		if files, err := os.ReadDir(path); err == nil {
			for _, f := range files {
				if !f.IsDir() {
					info.Files = append(info.Files, f.Name())
				}
			}
		}
		backups = append(backups, info)
	}

	sort.Slice(backups, func(i, j int) bool { return backups[i].Name > backups[j].Name })
	return backups, nil
}
