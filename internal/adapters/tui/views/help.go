package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"projectkeeper/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg { return SwitchToDashboardMsg{} }
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	k := DashboardKeys
	return NewViewBuilder().
		Title("projectkeeper help").
		Subtitle("Keeps Claude project metadata in step with the filesystem").
		Line(styles.InputLabel.Render("Navigation")).
		Line(helpLine(k.Up, k.Down, k.PgUp, k.PgDown)).
		Line(helpLine(k.NextTab, k.PrevTab)).
		BlankLine().
		Line(styles.InputLabel.Render("Operations (each shows a plan and waits for y)")).
		Line(helpLine(k.Move)).
		Muted("    Projects tab: move the project directory and all of its metadata").
		Line(helpLine(k.Merge)).
		Muted("    Orphans tab: fold the folder's sessions into a live project").
		Line(helpLine(k.Cleanup)).
		Muted("    Remove index entries whose directory is gone").
		Line(helpLine(k.Sync)).
		Muted("    Add projects found in storage to the index").
		Line(helpLine(k.Restore)).
		Muted("    Backups tab: put the backed-up files back").
		BlankLine().
		Line(styles.InputLabel.Render("Other")).
		Line(helpLine(k.Copy, k.Edit, k.Reload)).
		Line(helpLine(k.Help, k.Quit)).
		BlankLine().
		Help(HelpKeys.Close).
		String()
}

func helpLine(bindings ...key.Binding) string {
	return "  " + RenderHelpLine(bindings...)
}
