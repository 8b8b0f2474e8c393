package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"projectkeeper/internal/application"
	"projectkeeper/internal/application/commands"
	"projectkeeper/internal/domain"
)

// ToggleModeKey switches the move form between merge and clean
var ToggleModeKey = key.NewBinding(
	key.WithKeys("ctrl+t"),
	key.WithHelp("ctrl+t", "toggle mode"),
)

// MoveFormModel collects the paths for a project move
type MoveFormModel struct {
	ViewState
	engine *application.Engine
	form   *InputForm
	mode   domain.MergeMode
}

// NewMoveFormModel creates a new move form
func NewMoveFormModel(engine *application.Engine) *MoveFormModel {
	return &MoveFormModel{
		engine: engine,
		mode:   domain.MergeModeMerge,
		form: NewInputForm(
			NewInputField("Current path", "/path/the/project/lives/at"),
			NewInputField("New path", "/path/to/move/it/to"),
		),
	}
}

// SetProject prefills the form from the selected project
func (m *MoveFormModel) SetProject(p domain.ProjectStatus) {
	m.ClearMessage()
	m.mode = domain.MergeModeMerge
	m.form.Prefill(p.OriginalPath, "")
}

// Init returns the blink command for the focused input
func (m *MoveFormModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the move form
func (m *MoveFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToDashboardMsg{} }

		case key.Matches(msg, ToggleModeKey):
			if m.mode == domain.MergeModeMerge {
				m.mode = domain.MergeModeClean
			} else {
				m.mode = domain.MergeModeMerge
			}
			return m, nil

		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.submit()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *MoveFormModel) submit() tea.Cmd {
	oldPath, newPath := m.form.Value(0), m.form.Value(1)
	if oldPath == "" || newPath == "" {
		m.SetMessage("Both paths are required", true)
		return nil
	}

	engine, mode := m.engine, m.mode
	return func() tea.Msg {
		plan, err := commands.NewMoveProjectCommand(engine, oldPath, newPath, mode, false).Plan(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return PlanReadyMsg{
			Title: "Move project",
			Plan:  plan,
			Run: func(ctx context.Context) Outcome {
				return outcomeFromResult(commands.NewMoveProjectCommand(engine, oldPath, newPath, mode, true).Execute(ctx))
			},
		}
	}
}

// View renders the move form
func (m *MoveFormModel) View() string {
	return NewViewBuilder().
		Title("Move project").
		Subtitle("Moves the directory, its storage folders, index entry, notes and history").
		Line(m.form.RenderField(0)).
		Line(m.form.RenderField(1)).
		BlankLine().
		Line(RenderLabelValue("Mode", string(m.mode))+"  "+modeHint(m.mode)).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp("review plan", ToggleModeKey)).
		String()
}

func modeHint(mode domain.MergeMode) string {
	if mode == domain.MergeModeClean {
		return RenderMuted("an existing destination folder is replaced")
	}
	return RenderMuted("an existing destination folder is merged, newer files win")
}

// MergeFormModel collects the target project for an orphan merge
type MergeFormModel struct {
	ViewState
	engine *application.Engine
	form   *InputForm
	orphan domain.OrphanInfo
}

// NewMergeFormModel creates a new merge form
func NewMergeFormModel(engine *application.Engine) *MergeFormModel {
	return &MergeFormModel{
		engine: engine,
		form:   NewInputForm(NewInputField("Target project path", "/path/of/the/live/project")),
	}
}

// SetOrphan selects the folder to merge
func (m *MergeFormModel) SetOrphan(o domain.OrphanInfo) {
	m.ClearMessage()
	m.orphan = o
	m.form.Prefill("")
}

// Init returns the blink command for the focused input
func (m *MergeFormModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the merge form
func (m *MergeFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToDashboardMsg{} }

		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.submit()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *MergeFormModel) submit() tea.Cmd {
	target := m.form.Value(0)
	if target == "" {
		m.SetMessage("Target path is required", true)
		return nil
	}

	engine, folderID := m.engine, m.orphan.FolderName
	return func() tea.Msg {
		plan, err := commands.NewMergeOrphanCommand(engine, folderID, target, false).Plan(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return PlanReadyMsg{
			Title: "Merge orphaned folder",
			Plan:  plan,
			Run: func(ctx context.Context) Outcome {
				return outcomeFromResult(commands.NewMergeOrphanCommand(engine, folderID, target, true).Execute(ctx))
			},
		}
	}
}

// View renders the merge form
func (m *MergeFormModel) View() string {
	recorded := m.orphan.AuthoritativePath
	if recorded == "" {
		recorded = fmt.Sprintf("unknown (folder name suggests %s)", m.orphan.DecodedPathBestEffort)
	}
	return NewViewBuilder().
		Title("Merge orphaned folder").
		Subtitle("Sessions are merged into the target; the orphan is renamed, not deleted").
		Line(RenderLabelValue("Folder", m.orphan.FolderName)).
		Line(RenderLabelValue("Recorded path", recorded)).
		Line(RenderLabelValue("Contents", fmt.Sprintf("%d files, %s", m.orphan.FileCount, formatBytes(m.orphan.TotalSizeBytes)))).
		BlankLine().
		Line(m.form.RenderField(0)).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp("review plan")).
		String()
}
