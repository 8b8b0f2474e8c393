package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	claude := t.TempDir()
	t.Setenv("PROJECTKEEPER_CLAUDE_DIR", claude)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, claude, cfg.Paths.ClaudeDir)
	assert.Equal(t, filepath.Join(claude, "memory"), cfg.Paths.MemoryDir)
	assert.Equal(t, 30*time.Second, cfg.Lock.Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Lock.PollInterval)
	assert.Equal(t, 5*time.Minute, cfg.Lock.StaleAge)
	assert.Equal(t, 3, cfg.Lock.MaxStaleRetries)
	assert.Equal(t, int64(10*1024*1024), cfg.Rewrite.StreamThreshold)
	assert.Equal(t, filepath.Join(claude, "memory", ".projectkeeper.db"), cfg.Journal.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	layout := cfg.Layout()
	assert.Equal(t, filepath.Join(claude, "memory", "projects-index.json"), layout.IndexFile())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "projectkeeper.yaml")
	yaml := `
paths:
  claude_dir: ` + dir + `
lock:
  timeout: 10s
  stale_age: 2m
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("PROJECTKEEPER_LOCK_TIMEOUT", "45s")
	t.Setenv("PROJECTKEEPER_JOURNAL_DISABLED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Paths.ClaudeDir)
	assert.Equal(t, 45*time.Second, cfg.Lock.Timeout, "env overrides file")
	assert.Equal(t, 2*time.Minute, cfg.Lock.StaleAge)
	assert.True(t, cfg.Journal.Disabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		yaml string
	}{
		{"poll longer than timeout", "lock:\n  timeout: 1s\n  poll_interval: 2s\n"},
		{"bad log level", "log:\n  level: shouty\n"},
		{"relative claude dir", "paths:\n  claude_dir: relative/dir\n"},
		{"too many retries", "lock:\n  max_stale_retries: 1000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PROJECTKEEPER_CLAUDE_DIR", dir)
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "lock.timeout", envKey("PROJECTKEEPER_LOCK_TIMEOUT"))
	assert.Equal(t, "paths.claude_dir", envKey("PROJECTKEEPER_PATHS_CLAUDE_DIR"))
	assert.Equal(t, "config", envKey("PROJECTKEEPER_CONFIG"))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".claude"), ExpandHome("~/.claude"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
}

func TestOverrideClaudeDir(t *testing.T) {
	cfg := Default("/home/a/.claude")
	cfg.OverrideClaudeDir("/srv/b/.claude")

	assert.Equal(t, "/srv/b/.claude", cfg.Paths.ClaudeDir)
	assert.Equal(t, "/srv/b/.claude/memory", cfg.Paths.MemoryDir)
	assert.Equal(t, "/srv/b/.claude/memory/.projectkeeper.db", cfg.Journal.Path)

	cfg = Default("/home/a/.claude")
	cfg.Paths.MemoryDir = "/notes"
	cfg.Journal.Path = "/var/journal.db"
	cfg.OverrideClaudeDir("/srv/b/.claude")

	assert.Equal(t, "/notes", cfg.Paths.MemoryDir, "explicit memory dir is kept")
	assert.Equal(t, "/var/journal.db", cfg.Journal.Path)
}
