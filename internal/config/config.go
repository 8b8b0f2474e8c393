package config

import (
	"os"
	"path/filepath"
	"strings"
)

const DefaultClaudeDir = "~/.claude"

// ConfigFileName is looked up in the memory directory when no --config is given
const ConfigFileName = "projectkeeper.yaml"

// ClaudeDir returns the storage root from PROJECTKEEPER_CLAUDE_DIR,
// falling back to DefaultClaudeDir.
func ClaudeDir() string {
	if env := os.Getenv("PROJECTKEEPER_CLAUDE_DIR"); env != "" {
		return ExpandHome(env)
	}
	return ExpandHome(DefaultClaudeDir)
}

// DefaultConfigPath is <claude dir>/memory/projectkeeper.yaml
func DefaultConfigPath() string {
	return filepath.Join(ClaudeDir(), "memory", ConfigFileName)
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
