package views

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectkeeper/internal/adapters/filesystem"
	"projectkeeper/internal/adapters/lock"
	"projectkeeper/internal/application"
	"projectkeeper/internal/domain"
)

func setupEngine(t *testing.T) (*application.Engine, string) {
	t.Helper()
	root := t.TempDir()
	layout := domain.NewLayout(filepath.Join(root, ".claude"), "")
	require.NoError(t, os.MkdirAll(layout.ProjectsDir(), 0o755))
	require.NoError(t, os.MkdirAll(layout.MemoryDir, 0o755))

	engine := application.NewEngine(layout, application.ExecutorDeps{
		Index:   filesystem.NewIndexStore(layout.IndexFile()),
		Storage: filesystem.NewStorage(layout, 1<<20, nil),
		Merger:  filesystem.NewCatalogMerger(nil),
		Vault:   filesystem.NewVault(layout, nil),
		Locker:  lock.New(layout.LockPath(), lock.Options{Timeout: time.Second}, nil),
	}, nil)
	return engine, root
}

func track(t *testing.T, engine *application.Engine, paths ...string) {
	t.Helper()
	idx := domain.NewIndex()
	for _, p := range paths {
		idx.Upsert(domain.NewProjectEntry(p, domain.EncodePath(p), []string{"2026-02-10"}))
	}
	require.NoError(t, filesystem.NewIndexStore(engine.Layout.IndexFile()).Save(idx))
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedDashboard(t *testing.T, engine *application.Engine) *DashboardModel {
	t.Helper()
	m := NewDashboardModel(engine)
	m.SetSize(120, 40)
	m.Update(m.load())
	require.True(t, m.loaded)
	return m
}

func TestDashboard_LoadAndTabs(t *testing.T) {
	engine, root := setupEngine(t)
	alpha, gone := filepath.Join(root, "alpha"), filepath.Join(root, "gone")
	require.NoError(t, os.MkdirAll(alpha, 0o755))
	track(t, engine, alpha, gone)

	m := loadedDashboard(t, engine)
	assert.Len(t, m.projects, 2)
	assert.Len(t, m.stale, 1)
	assert.Contains(t, m.View(), "alpha")

	m.Update(keyPress("l"))
	assert.Equal(t, TabOrphans, m.tab)
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, TabProjects, m.tab)
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, TabBackups, m.tab, "tabs wrap around")
	assert.Contains(t, m.View(), "No backups yet")
}

func TestDashboard_CopyPath(t *testing.T) {
	engine, root := setupEngine(t)
	alpha := filepath.Join(root, "alpha")
	require.NoError(t, os.MkdirAll(alpha, 0o755))
	track(t, engine, alpha)

	m := loadedDashboard(t, engine)
	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	m.Update(keyPress("c"))
	assert.Equal(t, alpha, copied)
	assert.Equal(t, "Copied "+alpha, m.Message)
}

func TestDashboard_MoveNeedsProjectsTab(t *testing.T) {
	engine, root := setupEngine(t)
	alpha := filepath.Join(root, "alpha")
	track(t, engine, alpha)
	m := loadedDashboard(t, engine)

	_, cmd := m.Update(keyPress("m"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(SwitchToMoveMsg)
	require.True(t, ok)
	assert.Equal(t, alpha, msg.Project.OriginalPath)

	m.Update(keyPress("l"))
	_, cmd = m.Update(keyPress("m"))
	assert.Nil(t, cmd)
	assert.True(t, m.MessageErr)
}

func TestCleanupFlow(t *testing.T) {
	engine, root := setupEngine(t)
	gone := filepath.Join(root, "gone")
	track(t, engine, gone)
	m := loadedDashboard(t, engine)

	_, cmd := m.Update(keyPress("x"))
	require.NotNil(t, cmd)
	ready, ok := cmd().(PlanReadyMsg)
	require.True(t, ok)
	assert.Contains(t, ready.Plan.Plan.Summary, "1 stale")

	confirm := NewConfirmModel()
	confirm.SetPlan(ready)
	assert.Contains(t, confirm.View(), "Clean up stale entries")

	_, cmd = confirm.Update(keyPress("y"))
	require.NotNil(t, cmd)
	done, ok := cmd().(OperationDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Outcome.Err)
	assert.NotEmpty(t, done.Outcome.BackupPath)

	m.Update(m.load())
	assert.Empty(t, m.stale)
	assert.Len(t, m.backups, 1)
}

func TestConfirm_BlockedPlan(t *testing.T) {
	engine, root := setupEngine(t)

	form := NewMoveFormModel(engine)
	form.SetProject(domain.ProjectStatus{OriginalPath: filepath.Join(root, "missing")})
	form.form.SetValue(1, filepath.Join(root, "elsewhere"))

	_, cmd := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	ready, ok := cmd().(PlanReadyMsg)
	require.True(t, ok)
	assert.False(t, ready.Plan.Ready())

	confirm := NewConfirmModel()
	confirm.SetPlan(ready)
	_, cmd = confirm.Update(keyPress("y"))
	assert.Nil(t, cmd, "y is disabled while the plan has issues")
	assert.Contains(t, confirm.View(), "Source path does not exist")

	_, cmd = confirm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, SwitchToDashboardMsg{}, cmd())
}

func TestMoveForm_RequiresBothPaths(t *testing.T) {
	engine, _ := setupEngine(t)
	form := NewMoveFormModel(engine)
	form.SetProject(domain.ProjectStatus{OriginalPath: "/work/alpha"})

	_, cmd := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, "Both paths are required", form.Message)

	form.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, domain.MergeModeClean, form.mode)
}
