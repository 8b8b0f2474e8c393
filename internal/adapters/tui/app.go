package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"projectkeeper/internal/adapters/tui/views"
	"projectkeeper/internal/application"
	"projectkeeper/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewMove
	ViewMerge
	ViewConfirm
	ViewHelp
)

// App is the main TUI application model
type App struct {
	engine *application.Engine
	editor ports.NotesEditor

	state     ViewState
	dashboard *views.DashboardModel
	move      *views.MoveFormModel
	merge     *views.MergeFormModel
	confirm   *views.ConfirmModel
	help      *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. A nil editor disables note editing.
func NewApp(engine *application.Engine, editor ports.NotesEditor) *App {
	return &App{
		engine:    engine,
		editor:    editor,
		state:     ViewDashboard,
		dashboard: views.NewDashboardModel(engine),
		move:      views.NewMoveFormModel(engine),
		merge:     views.NewMergeFormModel(engine),
		confirm:   views.NewConfirmModel(),
		help:      views.NewHelpModel(),
	}
}

// State returns the active view
func (a *App) State() ViewState {
	return a.state
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.SetSize(msg.Width, msg.Height)
		a.move.SetSize(msg.Width, msg.Height)
		a.merge.SetSize(msg.Width, msg.Height)
		a.confirm.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToDashboardMsg:
		a.state = ViewDashboard
		if msg.Reload {
			return a, a.dashboard.Reload()
		}
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToMoveMsg:
		a.state = ViewMove
		a.move.SetProject(msg.Project)
		return a, a.move.Init()

	case views.SwitchToMergeMsg:
		a.state = ViewMerge
		a.merge.SetOrphan(msg.Orphan)
		return a, a.merge.Init()

	// Operation flow: plan, confirm, run
	case views.PlanReadyMsg:
		a.state = ViewConfirm
		a.confirm.SetPlan(msg)
		return a, nil

	case views.OperationDoneMsg:
		a.state = ViewDashboard
		text := msg.Outcome.Message
		if msg.Outcome.BackupPath != "" {
			text += " (backup: " + msg.Outcome.BackupPath + ")"
		}
		a.dashboard.SetMessage(text, msg.Outcome.Err != nil)
		return a, a.dashboard.Reload()

	case views.OpenEditorMsg:
		return a, a.openEditor(msg.Path)

	case editorFinishedMsg:
		if msg.err != nil {
			a.dashboard.SetMessage("Editor: "+msg.err.Error(), true)
		}
		return a, a.dashboard.Reload()
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewDashboard:
		_, cmd = a.dashboard.Update(msg)
	case ViewMove:
		_, cmd = a.move.Update(msg)
	case ViewMerge:
		_, cmd = a.merge.Update(msg)
	case ViewConfirm:
		_, cmd = a.confirm.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(path string) tea.Cmd {
	if a.editor == nil {
		a.dashboard.SetMessage("No editor configured", true)
		return nil
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewMove:
		return a.move.View()
	case ViewMerge:
		return a.merge.View()
	case ViewConfirm:
		return a.confirm.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.dashboard.View()
	}
}
