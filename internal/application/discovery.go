package application

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"projectkeeper/internal/domain"
	"projectkeeper/internal/ports"
)

// Discovery cross-references the index with the storage tree. It never
// mutates and reads without the lock, so its reports may be slightly stale.
type Discovery struct {
	index   ports.IndexStore
	storage ports.Storage
	layout  domain.Layout
	logger  *zap.Logger
}

// NewDiscovery creates a Discovery
func NewDiscovery(index ports.IndexStore, storage ports.Storage, layout domain.Layout, logger *zap.Logger) *Discovery {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discovery{index: index, storage: storage, layout: layout, logger: logger}
}

// LoadIndex reads the index. A missing index is empty; an unreadable one is
// an error.
func (d *Discovery) LoadIndex() (*domain.Index, error) {
	idx, err := d.index.Load()
	if errors.Is(err, ports.ErrNotFound) {
		return domain.NewIndex(), nil
	}
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// ProjectStatuses reports every tracked project with its filesystem health,
// sorted by canonical key
func (d *Discovery) ProjectStatuses(idx *domain.Index) []domain.ProjectStatus {
	statuses := make([]domain.ProjectStatus, 0, len(idx.Projects))
	for _, key := range idx.Keys() {
		e := idx.Projects[key]
		s := domain.ProjectStatus{
			CanonicalKey: key,
			Name:         e.Name,
			OriginalPath: e.OriginalPath,
			EncodedPaths: e.EncodedPaths,
			WorkDays:     e.WorkDays,
			Exists:       d.storage.IsDir(e.OriginalPath),
			Issues:       []string{},
		}
		if notes := d.layout.NotesFile(e.Name); d.storage.Exists(notes) {
			s.HasNotesFile = true
			s.NotesFilePath = notes
		}

		if !s.Exists {
			s.Issues = append(s.Issues, fmt.Sprintf("path missing: %s", e.OriginalPath))
		}
		folderFound := false
		for _, id := range e.EncodedPaths {
			if d.storage.IsDir(d.layout.StorageFolder(id)) {
				folderFound = true
				break
			}
		}
		if !folderFound {
			s.Issues = append(s.Issues, "no storage folder found")
		}
		if key != domain.CanonicalKey(e.OriginalPath) {
			s.Issues = append(s.Issues, fmt.Sprintf("index key %s does not match path %s", key, e.OriginalPath))
		}
		statuses = append(statuses, s)
	}
	return statuses
}

// FindOrphans reports storage folders that no tracked, existing project owns.
// A folder listed in any entry's encodedPaths is never an orphan, whatever
// its catalog says.
func (d *Discovery) FindOrphans(idx *domain.Index) ([]domain.OrphanInfo, error) {
	folders, err := d.storage.ListFolders()
	if err != nil {
		return nil, fmt.Errorf("failed to list storage folders: %w", err)
	}
	tracked := idx.TrackedFolders()

	orphans := []domain.OrphanInfo{}
	for _, name := range folders {
		if _, ok := tracked[name]; ok {
			continue
		}
		folder := d.layout.StorageFolder(name)
		recorded, ok := d.storage.AuthoritativePath(folder)
		if ok && d.storage.Exists(recorded) {
			continue
		}

		info := domain.OrphanInfo{
			FolderName:            name,
			FolderPath:            folder,
			DecodedPathBestEffort: domain.DecodePathBestEffort(name),
			AuthoritativePath:     recorded,
			SubdirsPresent:        []string{},
		}
		if catalog := filepath.Join(folder, domain.CatalogFileName); d.storage.Exists(catalog) {
			info.CatalogPath = catalog
		}
		for _, root := range d.layout.StorageRoots() {
			dir := filepath.Join(root, name)
			if !d.storage.IsDir(dir) {
				continue
			}
			info.SubdirsPresent = append(info.SubdirsPresent, filepath.Base(root))
			count, size := d.storage.FolderStats(dir)
			info.FileCount += count
			info.TotalSizeBytes += size
		}
		orphans = append(orphans, info)
	}

	d.logger.Debug("orphan scan complete", zap.Int("folders", len(folders)), zap.Int("orphans", len(orphans)))
	return orphans, nil
}

// FindStaleEntries reports index entries whose original path is gone
func (d *Discovery) FindStaleEntries(idx *domain.Index) []domain.StaleEntry {
	stale := []domain.StaleEntry{}
	for _, key := range idx.Keys() {
		e := idx.Projects[key]
		if d.storage.Exists(e.OriginalPath) {
			continue
		}
		stale = append(stale, domain.StaleEntry{CanonicalKey: key, Entry: *e.Clone()})
	}
	return stale
}

// DiscoverFolders reads project facts from every storage folder whose derived
// project path exists on disk
func (d *Discovery) DiscoverFolders() ([]domain.FolderFacts, error) {
	folders, err := d.storage.ListFolders()
	if err != nil {
		return nil, fmt.Errorf("failed to list storage folders: %w", err)
	}
	var facts []domain.FolderFacts
	for _, name := range folders {
		f := d.storage.DiscoverFolder(d.layout.StorageFolder(name))
		if f.Path == "" || !d.storage.IsDir(f.Path) {
			continue
		}
		facts = append(facts, f)
	}
	return facts, nil
}
