package ports

import "projectkeeper/internal/domain"

// Storage is the engine's view of the on-disk layout: storage folders, their
// catalogs, and the primitive file operations the executor composes.
type Storage interface {
	// Inspection
	Exists(path string) bool
	IsDir(path string) bool
	Writable(path string) bool
	ListFolders() ([]string, error)
	FolderStats(folder string) (fileCount int, totalBytes int64)

	// Catalogs
	ReadCatalog(folder string) (*domain.SessionCatalog, error)
	AuthoritativePath(folder string) (string, bool)
	DiscoverFolder(folder string) domain.FolderFacts

	// Mutation
	Move(src, dst string) error
	RemoveAll(path string) error
	Absorb(src, dst string) error
	SafeDelete(path, suffix string) (string, error)
	RewriteFile(path, oldText, newText string) (int, error)
	RepairCatalogs(oldPath, newPath string) (int, error)
	RelinkCatalog(folder string) error
}

// CatalogMerger merges per-folder session catalogs
type CatalogMerger interface {
	// Merge folds the catalog at src into the one at dst and returns the
	// number of entries added or updated. Zero means dst was not written.
	Merge(src, dst, fallbackPath string) (int, error)

	// Reindex adds recovered entries for raw logs missing from folder's
	// catalog and records projectPath as its originalPath.
	Reindex(folder, projectPath string) (int, error)
}
