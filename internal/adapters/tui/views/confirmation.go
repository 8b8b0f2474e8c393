package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"projectkeeper/internal/adapters/tui/styles"
	"projectkeeper/internal/application/commands"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "apply"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmModel shows a plan and runs it only after an explicit y
type ConfirmModel struct {
	ViewState
	Keys ConfirmKeyMap

	title   string
	plan    *commands.PlanResult
	run     RunFunc
	running bool
}

// NewConfirmModel creates a new confirmation model with default keys
func NewConfirmModel() *ConfirmModel {
	return &ConfirmModel{Keys: DefaultConfirmKeys}
}

// SetPlan loads the plan to review
func (m *ConfirmModel) SetPlan(msg PlanReadyMsg) {
	m.title = msg.Title
	m.plan = msg.Plan
	m.run = msg.Run
	m.running = false
	m.ClearMessage()
	m.Keys.Confirm.SetEnabled(m.plan != nil && m.plan.Ready())
}

// Init initializes the confirmation view
func (m *ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the confirmation view
func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.running {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToDashboardMsg{} }

		case key.Matches(msg, m.Keys.Confirm):
			if m.run == nil {
				return m, nil
			}
			m.running = true
			m.SetMessage("Working...", false)
			run := m.run
			return m, func() tea.Msg {
				return OperationDoneMsg{Outcome: run(context.Background())}
			}
		}
	}
	return m, nil
}

// View renders the confirmation view
func (m *ConfirmModel) View() string {
	v := NewViewBuilder().Title(m.title)
	if m.plan == nil {
		return v.Muted("Nothing to review").Help(m.Keys.Cancel).String()
	}

	v.Line(styles.PlanBox.Render(m.plan.Plan.Summary))
	if n := len(m.plan.Plan.Backups); n > 0 {
		v.Muted(pluralize(n, "file is", "files are") + " backed up before anything changes")
	}
	v.BlankLine()
	v.Raw(RenderValidation(m.plan.Validation))

	if !m.plan.Ready() {
		v.Line(styles.ErrorMsg.Render("This plan cannot be applied until the issues above are fixed."))
		v.BlankLine()
	}

	v.Message(m.Message, m.MessageErr)
	return v.Help(m.Keys.Confirm, m.Keys.Cancel).String()
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
