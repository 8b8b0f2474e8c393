package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"projectkeeper/internal/domain"
	"projectkeeper/internal/ports"
)

var _ ports.Storage = (*Storage)(nil)

// Storage implements ports.Storage over the local filesystem
type Storage struct {
	layout          domain.Layout
	streamThreshold int64
	logger          *zap.Logger
}

// NewStorage creates a Storage for layout. Files at or above streamThreshold
// bytes are rewritten line by line.
func NewStorage(layout domain.Layout, streamThreshold int64, logger *zap.Logger) *Storage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Storage{layout: layout, streamThreshold: streamThreshold, logger: logger}
}

func (s *Storage) Exists(path string) bool { return exists(path) }
func (s *Storage) IsDir(path string) bool  { return isDir(path) }

// Writable reports whether the current user may create entries in path
func (s *Storage) Writable(path string) bool {
	return writable(path)
}

// ListFolders returns the names of the storage folders under the projects
// root, following symlinks to directories. A missing root yields no folders.
func (s *Storage) ListFolders() ([]string, error) {
	root := s.layout.ProjectsDir()
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", root, err)
	}

	var names []string
	for _, entry := range entries {
		// encoded ids never contain dots, so dotted names are quarantined or foreign
		if strings.Contains(entry.Name(), ".") || !isDirOrSymlink(entry, root) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// FolderStats counts regular files and their total size under folder
func (s *Storage) FolderStats(folder string) (int, int64) {
	count, total := 0, int64(0)
	_ = filepath.WalkDir(folder, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		count++
		total += info.Size()
		return nil
	})
	return count, total
}

// ReadCatalog loads the catalog inside folder
func (s *Storage) ReadCatalog(folder string) (*domain.SessionCatalog, error) {
	return ReadCatalogFile(catalogPath(folder))
}

// AuthoritativePath returns the project path recorded in folder's catalog
func (s *Storage) AuthoritativePath(folder string) (string, bool) {
	return authoritativePath(folder)
}

// DiscoverFolder derives what folder says about its project
func (s *Storage) DiscoverFolder(folder string) domain.FolderFacts {
	return discoverFolder(folder)
}

// Move renames src to dst, creating dst's parent
func (s *Storage) Move(src, dst string) error {
	if err := movePath(src, dst); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}
	s.logger.Info("moved", zap.String("src", src), zap.String("dst", dst))
	return nil
}

// RemoveAll deletes path and everything below it
func (s *Storage) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	s.logger.Info("removed", zap.String("path", path))
	return nil
}

// Absorb copies everything in src except its catalog into dst. Files already
// in dst are replaced only when the src copy is newer; directories merge
// recursively.
func (s *Storage) Absorb(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	for _, entry := range entries {
		if entry.Name() == domain.CatalogFileName {
			continue
		}
		if err := absorbEntry(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return fmt.Errorf("failed to absorb %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func absorbEntry(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	dstInfo, err := os.Stat(dst)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if srcInfo.IsDir() {
			return copyTree(src, dst)
		}
		return copyFile(src, dst)
	case err != nil:
		return err
	}

	if srcInfo.IsDir() && dstInfo.IsDir() {
		entries, err := os.ReadDir(src)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := absorbEntry(filepath.Join(src, e.Name()), filepath.Join(dst, e.Name())); err != nil {
				return err
			}
		}
		return nil
	}
	if srcInfo.IsDir() != dstInfo.IsDir() {
		return fmt.Errorf("%s and %s differ in kind", src, dst)
	}
	if srcInfo.ModTime().After(dstInfo.ModTime()) {
		return copyFile(src, dst)
	}
	return nil
}

// SafeDelete quarantines path by renaming it to path+suffix, appending .1, .2,
// ... when that name is taken. Returns the quarantine path.
func (s *Storage) SafeDelete(path, suffix string) (string, error) {
	if suffix == "" {
		return "", fmt.Errorf("safe delete of %s needs a suffix", path)
	}
	target := path + suffix
	for n := 1; exists(target); n++ {
		target = fmt.Sprintf("%s%s.%d", path, suffix, n)
	}
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("failed to quarantine %s: %w", path, err)
	}
	s.logger.Info("quarantined", zap.String("path", path), zap.String("as", target))
	return target, nil
}

// RepairCatalogs rewrites oldPath to newPath in every catalog under the
// projects root and returns how many catalogs changed. Unreadable catalogs are
// skipped.
func (s *Storage) RepairCatalogs(oldPath, newPath string) (int, error) {
	folders, err := s.ListFolders()
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, name := range folders {
		path := catalogPath(filepath.Join(s.layout.ProjectsDir(), name))
		cat, err := ReadCatalogFile(path)
		if err != nil {
			if ports.IsReadError(err) {
				s.logger.Warn("skipping unreadable catalog", zap.String("path", path), zap.Error(err))
			}
			continue
		}
		if !cat.RepairPaths(oldPath, newPath) {
			continue
		}
		if err := WriteCatalogFile(path, cat); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// RelinkCatalog points the fullPath of every entry in folder's catalog at folder
func (s *Storage) RelinkCatalog(folder string) error {
	path := catalogPath(folder)
	cat, err := ReadCatalogFile(path)
	if errors.Is(err, ports.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !cat.Relink(folder) {
		return nil
	}
	return WriteCatalogFile(path, cat)
}

// isDirOrSymlink reports whether the entry is a directory or a symlink that
// resolves to one
func isDirOrSymlink(entry os.DirEntry, parentDir string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(filepath.Join(parentDir, entry.Name()))
	return err == nil && fi.IsDir()
}
