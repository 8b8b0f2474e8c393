package domain

import (
	"strings"
	"unicode"
)

// Placeholder replaces both the path separator and the extension separator
// in storage folder names.
const Placeholder = "-"

// NotesSuffix is appended to the kebab-cased project name to form the notes filename
const NotesSuffix = "-long-term-memory.md"

var encoder = strings.NewReplacer("/", Placeholder, ".", Placeholder)

// EncodePath converts a filesystem path into the storage folder identifier.
//
// The encoding is lossy: "/home/me/my-app" and "/home/me/my/app" both become
// "-home-me-my-app". Never derive a path from a folder name for anything but display.
func EncodePath(path string) string {
	return encoder.Replace(path)
}

// DecodePathBestEffort guesses the path a folder identifier was encoded from.
// A leading placeholder becomes the root and every other placeholder becomes a
// separator, so hyphenated and dotted segments decode wrongly.
func DecodePathBestEffort(folderID string) string {
	if folderID == "" {
		return ""
	}
	return strings.ReplaceAll(folderID, Placeholder, "/")
}

// CanonicalKey is the index map key for a path
func CanonicalKey(path string) string {
	return strings.ToLower(path)
}

// NotesFilename returns the long-term notes filename for a project name,
// e.g. "My Project" -> "my-project-long-term-memory.md".
func NotesFilename(projectName string) string {
	lowered := strings.ReplaceAll(strings.ToLower(projectName), " ", "-")

	var b strings.Builder
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
		}
	}

	kebab := b.String()
	for strings.Contains(kebab, "--") {
		kebab = strings.ReplaceAll(kebab, "--", "-")
	}
	return strings.Trim(kebab, "-") + NotesSuffix
}

// IsNotesFilename reports whether name looks like a long-term notes file
func IsNotesFilename(name string) bool {
	return strings.HasSuffix(name, NotesSuffix) && len(name) > len(NotesSuffix)
}
