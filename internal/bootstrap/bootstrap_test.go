package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"projectkeeper/internal/config"
	"projectkeeper/internal/logging"
)

func TestNewEngine_JournalDisabled(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Journal.Disabled = true

	engine := NewEngine(cfg, nil)
	defer engine.Close()

	assert.Nil(t, engine.Journal)
	assert.Equal(t, cfg.Paths.ClaudeDir, engine.Layout.ClaudeDir)
}

func TestNewEngine_JournalUnavailable(t *testing.T) {
	claude := t.TempDir()
	blocker := filepath.Join(claude, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := config.Default(claude)
	cfg.Journal.Path = filepath.Join(blocker, "journal.db")
	logger := logging.NewTestLogger()

	engine := NewEngine(cfg, logger.Logger)
	defer engine.Close()

	assert.Nil(t, engine.Journal)
	logger.AssertLogged(t, zapcore.WarnLevel, "operation journal unavailable")
}

func TestStart_ClaudeDirOverride(t *testing.T) {
	claude := t.TempDir()
	t.Setenv("PROJECTKEEPER_CLAUDE_DIR", t.TempDir())

	rt, err := Start(Options{ClaudeDir: claude, LogLevel: "debug"})
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, claude, rt.Config.Paths.ClaudeDir)
	assert.Equal(t, "debug", rt.Config.Log.Level)
	require.NotNil(t, rt.Engine.Journal)

	history, err := rt.Engine.Journal.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.FileExists(t, filepath.Join(claude, "memory", ".projectkeeper.db"))
}
