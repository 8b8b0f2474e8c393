package filesystem

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"projectkeeper/internal/domain"
	"projectkeeper/internal/ports"
)

var _ ports.CatalogMerger = (*CatalogMerger)(nil)

// CatalogMerger merges session catalogs between storage folders
type CatalogMerger struct {
	logger *zap.Logger
}

// NewCatalogMerger creates a CatalogMerger
func NewCatalogMerger(logger *zap.Logger) *CatalogMerger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogMerger{logger: logger}
}

// Merge folds the catalog file src into the catalog file dst.
//
// Absent or unreadable catalogs count as empty. An empty src is rebuilt from
// the raw logs beside it, recording fallbackPath (or dst's own path) as their
// project. dst is written only when at least one entry was added or replaced,
// so re-running a merge leaves it byte-identical.
func (m *CatalogMerger) Merge(src, dst, fallbackPath string) (int, error) {
	source := m.load(src)
	dest := m.load(dst)

	if len(source.Entries) == 0 {
		projectPath := fallbackPath
		if projectPath == "" {
			projectPath = dest.AuthoritativePath()
		}
		source = rebuildCatalog(filepath.Dir(src), projectPath)
	}
	if len(source.Entries) == 0 {
		return 0, nil
	}

	merged, changed := domain.MergeCatalogEntries(dest.Entries, source.Entries)
	if changed == 0 {
		return 0, nil
	}

	dest.Entries = merged
	dest.Version = domain.CatalogVersion
	if dest.OriginalPath == "" && fallbackPath != "" {
		dest.OriginalPath = fallbackPath
	}
	if err := WriteCatalogFile(dst, dest); err != nil {
		return 0, fmt.Errorf("failed to write merged catalog: %w", err)
	}
	m.logger.Info("merged catalog", zap.String("src", src), zap.String("dst", dst), zap.Int("changed", changed))
	return changed, nil
}

// Reindex adds a recovered entry for every raw log in folder that its catalog
// does not list, and records projectPath as the catalog's original path.
// Returns the number of entries added.
func (m *CatalogMerger) Reindex(folder, projectPath string) (int, error) {
	path := catalogPath(folder)
	cat := m.load(path)
	known := cat.SessionIDs()

	added := 0
	for _, log := range listSessionLogs(folder) {
		if _, ok := known[log.ID]; ok {
			continue
		}
		cat.Entries = append(cat.Entries, recoveredEntry(log, projectPath))
		added++
	}

	if added == 0 && cat.OriginalPath == projectPath {
		return 0, nil
	}
	if added == 0 && len(cat.Entries) == 0 && !exists(path) {
		return 0, nil
	}

	domain.SortEntriesNewestFirst(cat.Entries)
	cat.Version = domain.CatalogVersion
	cat.OriginalPath = projectPath
	if err := WriteCatalogFile(path, cat); err != nil {
		return 0, fmt.Errorf("failed to write reindexed catalog: %w", err)
	}
	m.logger.Info("reindexed catalog", zap.String("folder", folder), zap.Int("added", added))
	return added, nil
}

// load reads a catalog, treating absent and unreadable files as empty
func (m *CatalogMerger) load(path string) *domain.SessionCatalog {
	cat, err := ReadCatalogFile(path)
	if err == nil {
		return cat
	}
	if !errors.Is(err, ports.ErrNotFound) {
		m.logger.Warn("treating unreadable catalog as empty", zap.String("path", path), zap.Error(err))
	}
	return &domain.SessionCatalog{}
}
