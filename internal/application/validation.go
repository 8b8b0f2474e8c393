package application

import (
	"fmt"
	"path/filepath"
	"strings"

	"projectkeeper/internal/domain"
	"projectkeeper/internal/ports"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "oldPath" -> "old path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"oldPath":    "old path",
		"newPath":    "new path",
		"folderID":   "orphan folder ID",
		"targetPath": "target path",
		"backupDir":  "backup directory",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateAbsolutePath checks that a path field is present and absolute
func ValidateAbsolutePath(fieldName, path string) error {
	if err := ValidateRequired(fieldName, path); err != nil {
		return err
	}
	if !filepath.IsAbs(path) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be absolute, got: %s", formatFieldName(fieldName), path),
		}
	}
	return nil
}

// ValidateFolderID checks that an orphan id names a single path element
func ValidateFolderID(fieldName, id string) error {
	if err := ValidateRequired(fieldName, id); err != nil {
		return err
	}
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be a single folder name, got: %s", formatFieldName(fieldName), id),
		}
	}
	return nil
}

// Validator checks operation preconditions. It only reads.
type Validator struct {
	storage ports.Storage
	layout  domain.Layout
}

// NewValidator creates a Validator
func NewValidator(storage ports.Storage, layout domain.Layout) *Validator {
	return &Validator{storage: storage, layout: layout}
}

// ValidateMove checks that oldPath can be moved to newPath
func (v *Validator) ValidateMove(oldPath, newPath string) domain.ValidationResult {
	result := domain.NewValidationResult()
	if !collectFieldErrors(&result,
		ValidateAbsolutePath("oldPath", oldPath),
		ValidateAbsolutePath("newPath", newPath),
	) {
		return result
	}
	oldPath, newPath = filepath.Clean(oldPath), filepath.Clean(newPath)
	if oldPath == newPath {
		result.Fail("Old and new paths are the same: %s", oldPath)
		return result
	}

	switch {
	case !v.storage.Exists(oldPath):
		result.Fail("Source path does not exist: %s", oldPath)
	case !v.storage.IsDir(oldPath):
		result.Fail("Source path is not a directory: %s", oldPath)
	case !v.storage.Exists(newPath) && !v.storage.Writable(filepath.Dir(oldPath)):
		// the directory itself is renamed out of its parent
		result.Fail("No write permission: %s", filepath.Dir(oldPath))
	}

	parent := filepath.Dir(newPath)
	if !v.storage.IsDir(parent) {
		result.Fail("Destination parent does not exist: %s", parent)
	} else if !v.storage.Exists(newPath) && !v.storage.Writable(parent) {
		result.Fail("No write permission: %s", parent)
	}
	if v.storage.Exists(newPath) {
		result.Warn("Destination already exists: %s (choose merge or clean mode)", newPath)
	}

	v.checkRoots(&result)
	return result
}

// ValidateMergeOrphan checks that orphan folder folderID can be folded into
// the project at target
func (v *Validator) ValidateMergeOrphan(folderID, target string) domain.ValidationResult {
	result := domain.NewValidationResult()
	if !collectFieldErrors(&result,
		ValidateFolderID("folderID", folderID),
		ValidateAbsolutePath("targetPath", target),
	) {
		return result
	}
	target = filepath.Clean(target)

	folder := v.layout.StorageFolder(folderID)
	if !v.storage.IsDir(folder) {
		result.Fail("Orphan folder does not exist: %s", folder)
	}
	switch {
	case !v.storage.Exists(target):
		result.Fail("Target path does not exist: %s", target)
	case !v.storage.IsDir(target):
		result.Fail("Target path is not a directory: %s", target)
	}
	if domain.EncodePath(target) == folderID {
		result.Fail("Orphan folder %s already belongs to %s", folderID, target)
	}

	if !v.storage.IsDir(v.layout.StorageFolder(domain.EncodePath(target))) {
		result.Warn("Target has no existing storage folder; the orphan becomes its only session data")
	}

	v.checkRoots(&result)
	return result
}

// checkRoots fails when an existing data root cannot be written
func (v *Validator) checkRoots(result *domain.ValidationResult) {
	for _, root := range []string{v.layout.ClaudeDir, v.layout.MemoryDir} {
		if v.storage.Exists(root) && !v.storage.Writable(root) {
			result.Fail("No write permission: %s", root)
		}
	}
}

// collectFieldErrors records every non-nil error as an issue and reports
// whether all were nil
func collectFieldErrors(result *domain.ValidationResult, errs ...error) bool {
	ok := true
	for _, err := range errs {
		if err != nil {
			result.Fail("%s", err.Error())
			ok = false
		}
	}
	return ok
}
