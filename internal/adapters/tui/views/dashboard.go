package views

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"projectkeeper/internal/adapters/tui/styles"
	"projectkeeper/internal/application"
	"projectkeeper/internal/application/commands"
	"projectkeeper/internal/domain"
)

// Tab is one of the dashboard's lists
type Tab int

const (
	TabProjects Tab = iota
	TabOrphans
	TabStale
	TabBackups
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabProjects:
		return "Projects"
	case TabOrphans:
		return "Orphans"
	case TabStale:
		return "Stale"
	case TabBackups:
		return "Backups"
	default:
		return "?"
	}
}

// DashboardKeyMap defines key bindings for the dashboard
type DashboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	PgUp    key.Binding
	PgDown  key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Move    key.Binding
	Merge   key.Binding
	Cleanup key.Binding
	Sync    key.Binding
	Restore key.Binding
	Copy    key.Binding
	Edit    key.Binding
	Reload  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var DashboardKeys = DashboardKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PgUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "prev page"),
	),
	PgDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "next page"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab", "l", "right"),
		key.WithHelp("tab", "next tab"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("shift+tab", "h", "left"),
		key.WithHelp("shift+tab", "prev tab"),
	),
	Move: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move"),
	),
	Merge: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "merge orphan"),
	),
	Cleanup: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "cleanup"),
	),
	Sync: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sync"),
	),
	Restore: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "restore"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy path"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit notes"),
	),
	Reload: key.NewBinding(
		key.WithKeys("R", "ctrl+r"),
		key.WithHelp("R", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// DashboardModel lists projects, orphans, stale entries and backups
type DashboardModel struct {
	ViewState
	engine *application.Engine
	copy   func(string) error

	tab       Tab
	pages     [tabCount]*Paginator
	loaded    bool
	projects  []domain.ProjectStatus
	orphans   []domain.OrphanInfo
	stale     []domain.StaleEntry
	backups   []domain.BackupInfo
	loadError error
}

// NewDashboardModel creates a new dashboard over engine
func NewDashboardModel(engine *application.Engine) *DashboardModel {
	m := &DashboardModel{engine: engine, copy: clipboard.WriteAll}
	for i := range m.pages {
		m.pages[i] = NewPaginator(15)
	}
	return m
}

type dataLoadedMsg struct {
	projects []domain.ProjectStatus
	orphans  []domain.OrphanInfo
	stale    []domain.StaleEntry
	backups  []domain.BackupInfo
}

// Init loads every list
func (m *DashboardModel) Init() tea.Cmd {
	return m.load
}

// Reload reloads every list from disk
func (m *DashboardModel) Reload() tea.Cmd {
	return m.load
}

func (m *DashboardModel) load() tea.Msg {
	ctx := context.Background()
	projects, err := commands.NewListProjectsCommand(m.engine).Execute(ctx)
	if err != nil {
		return errMsg{err}
	}
	orphans, err := commands.NewFindOrphansCommand(m.engine).Execute(ctx)
	if err != nil {
		return errMsg{err}
	}
	stale, err := commands.NewFindStaleCommand(m.engine).Execute(ctx)
	if err != nil {
		return errMsg{err}
	}
	backups, err := commands.NewListBackupsCommand(m.engine).Execute(ctx)
	if err != nil {
		return errMsg{err}
	}
	return dataLoadedMsg{projects: projects, orphans: orphans, stale: stale, backups: backups}
}

// Update handles messages for the dashboard
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case dataLoadedMsg:
		m.loaded = true
		m.loadError = nil
		m.projects, m.orphans, m.stale, m.backups = msg.projects, msg.orphans, msg.stale, msg.backups
		m.pages[TabProjects].SetTotal(len(m.projects))
		m.pages[TabOrphans].SetTotal(len(m.orphans))
		m.pages[TabStale].SetTotal(len(m.stale))
		m.pages[TabBackups].SetTotal(len(m.backups))
		return m, nil

	case errMsg:
		m.loaded = true
		m.loadError = msg.err
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *DashboardModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.ClearMessage()
	page := m.pages[m.tab]

	switch {
	case key.Matches(msg, DashboardKeys.Quit):
		return tea.Quit

	case key.Matches(msg, DashboardKeys.Up):
		page.CursorUp()

	case key.Matches(msg, DashboardKeys.Down):
		page.CursorDown()

	case key.Matches(msg, DashboardKeys.PgUp):
		page.PrevPage()

	case key.Matches(msg, DashboardKeys.PgDown):
		page.NextPage()

	case key.Matches(msg, DashboardKeys.NextTab):
		m.tab = (m.tab + 1) % tabCount

	case key.Matches(msg, DashboardKeys.PrevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount

	case key.Matches(msg, DashboardKeys.Reload):
		return m.Reload()

	case key.Matches(msg, DashboardKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }

	case key.Matches(msg, DashboardKeys.Move):
		if p, ok := m.selectedProject(); ok {
			return func() tea.Msg { return SwitchToMoveMsg{Project: p} }
		}
		m.SetMessage("Select a project on the Projects tab to move it", true)

	case key.Matches(msg, DashboardKeys.Merge):
		if o, ok := m.selectedOrphan(); ok {
			return func() tea.Msg { return SwitchToMergeMsg{Orphan: o} }
		}
		m.SetMessage("Select a folder on the Orphans tab to merge it", true)

	case key.Matches(msg, DashboardKeys.Cleanup):
		return m.planCleanup()

	case key.Matches(msg, DashboardKeys.Sync):
		return m.planSync()

	case key.Matches(msg, DashboardKeys.Restore):
		if b, ok := m.selectedBackup(); ok {
			return m.planRestore(b)
		}
		m.SetMessage("Select a backup on the Backups tab to restore it", true)

	case key.Matches(msg, DashboardKeys.Copy):
		path := m.selectedPath()
		if path == "" {
			return nil
		}
		if err := m.copy(path); err != nil {
			m.SetMessage(fmt.Sprintf("Copy failed: %v", err), true)
		} else {
			m.SetMessage("Copied "+path, false)
		}

	case key.Matches(msg, DashboardKeys.Edit):
		if p, ok := m.selectedProject(); ok {
			path := p.NotesFilePath
			if path == "" {
				path = m.engine.Layout.NotesFile(p.Name)
			}
			return func() tea.Msg { return OpenEditorMsg{Path: path} }
		}
	}
	return nil
}

func (m *DashboardModel) planCleanup() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		plan, err := commands.NewCleanupCommand(engine, false).Plan(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return PlanReadyMsg{
			Title: "Clean up stale entries",
			Plan:  plan,
			Run: func(ctx context.Context) Outcome {
				return outcomeFromResult(commands.NewCleanupCommand(engine, true).Execute(ctx))
			},
		}
	}
}

func (m *DashboardModel) planSync() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		plan, err := commands.NewSyncCommand(engine, false).Plan(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return PlanReadyMsg{
			Title: "Sync index from storage",
			Plan:  plan,
			Run: func(ctx context.Context) Outcome {
				return outcomeFromResult(commands.NewSyncCommand(engine, true).Execute(ctx))
			},
		}
	}
}

// planRestore previews a restore. Restores have no executor plan, so the
// summary lists the files that will be put back.
func (m *DashboardModel) planRestore(b domain.BackupInfo) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		lines := []string{fmt.Sprintf("Restore %d file(s) from %s", len(b.Files), b.Name)}
		for _, f := range b.Files {
			lines = append(lines, "  - "+f)
		}
		plan := &commands.PlanResult{Plan: domain.OperationPlan{
			Operation: domain.OperationRestore,
			Summary:   strings.Join(lines, "\n"),
		}}
		return PlanReadyMsg{
			Title: "Restore backup",
			Plan:  plan,
			Run: func(ctx context.Context) Outcome {
				res, err := commands.NewRestoreBackupCommand(engine, b.Path).Execute(ctx)
				if err != nil {
					return Outcome{Message: res.Message, Err: err}
				}
				out := Outcome{Message: res.Message}
				if !res.Success {
					out.Err = fmt.Errorf("restore incomplete: %s", res.Message)
				}
				return out
			},
		}
	}
}

func (m *DashboardModel) selectedProject() (domain.ProjectStatus, bool) {
	i := m.pages[TabProjects].Cursor()
	if m.tab != TabProjects || i >= len(m.projects) {
		return domain.ProjectStatus{}, false
	}
	return m.projects[i], true
}

func (m *DashboardModel) selectedOrphan() (domain.OrphanInfo, bool) {
	i := m.pages[TabOrphans].Cursor()
	if m.tab != TabOrphans || i >= len(m.orphans) {
		return domain.OrphanInfo{}, false
	}
	return m.orphans[i], true
}

func (m *DashboardModel) selectedBackup() (domain.BackupInfo, bool) {
	i := m.pages[TabBackups].Cursor()
	if m.tab != TabBackups || i >= len(m.backups) {
		return domain.BackupInfo{}, false
	}
	return m.backups[i], true
}

// selectedPath is what c copies on the current tab
func (m *DashboardModel) selectedPath() string {
	i := m.pages[m.tab].Cursor()
	switch m.tab {
	case TabProjects:
		if i < len(m.projects) {
			return m.projects[i].OriginalPath
		}
	case TabOrphans:
		if i < len(m.orphans) {
			return m.orphans[i].FolderPath
		}
	case TabStale:
		if i < len(m.stale) {
			return m.stale[i].Entry.OriginalPath
		}
	case TabBackups:
		if i < len(m.backups) {
			return m.backups[i].Path
		}
	}
	return ""
}

// SetSize updates the view dimensions and the list window
func (m *DashboardModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	// title, tabs, details and help take roughly 12 lines
	rows := max((height-12)/2, 3)
	for _, p := range m.pages {
		p.SetPageSize(rows)
	}
}

// View renders the dashboard
func (m *DashboardModel) View() string {
	v := NewViewBuilder().
		Title("projectkeeper").
		Subtitle(m.engine.Layout.ClaudeDir)

	if !m.loaded {
		return v.Line("Loading...").String()
	}

	v.Line(m.renderTabs()).BlankLine()
	if m.loadError == nil {
		v.Raw(m.renderList())
	}
	v.BlankLine().Message(m.Message, m.MessageErr)
	return v.Help(m.helpBindings()...).String()
}

func (m *DashboardModel) renderTabs() string {
	counts := [tabCount]int{len(m.projects), len(m.orphans), len(m.stale), len(m.backups)}
	var parts []string
	for t := Tab(0); t < tabCount; t++ {
		label := t.String()
		if counts[t] > 0 {
			label += " " + styles.TabCount.Render(fmt.Sprintf("%d", counts[t]))
		}
		if t == m.tab {
			parts = append(parts, styles.TabActive.Render(t.String()+fmt.Sprintf(" %d", counts[t])))
		} else {
			parts = append(parts, styles.Tab.Render(label))
		}
	}
	return strings.Join(parts, "")
}

func (m *DashboardModel) renderList() string {
	page := m.pages[m.tab]
	start, end := page.VisibleRange()
	if start >= end {
		return styles.MutedText.Render(m.emptyText()) + "\n"
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		title, detail := m.row(i)
		if i == page.Cursor() {
			b.WriteString(styles.RowSelected.Render("> " + title))
		} else {
			b.WriteString("  " + title)
		}
		b.WriteString("\n")
		if detail != "" {
			b.WriteString("    " + detail + "\n")
		}
	}
	if current, count := page.Page(); count > 1 {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("page %d/%d", current, count)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *DashboardModel) emptyText() string {
	switch m.tab {
	case TabProjects:
		return "No tracked projects. Press s to sync the index from storage."
	case TabOrphans:
		return "No orphaned folders."
	case TabStale:
		return "No stale entries."
	default:
		return "No backups yet."
	}
}

// row returns the plain title and styled detail line of item i on the current tab
func (m *DashboardModel) row(i int) (string, string) {
	switch m.tab {
	case TabProjects:
		p := m.projects[i]
		title := fmt.Sprintf("%s  %s", p.Name, p.OriginalPath)
		if len(p.Issues) > 0 {
			return title, styles.RowIssue.Render(strings.Join(p.Issues, "; "))
		}
		detail := fmt.Sprintf("%d folder(s), %d work day(s)", len(p.EncodedPaths), len(p.WorkDays))
		if p.HasNotesFile {
			detail += ", notes"
		}
		return title, styles.MutedText.Render(detail)

	case TabOrphans:
		o := m.orphans[i]
		recorded := o.AuthoritativePath
		if recorded == "" {
			recorded = "~" + o.DecodedPathBestEffort
		}
		detail := fmt.Sprintf("was %s · %d files, %s in %s",
			recorded, o.FileCount, formatBytes(o.TotalSizeBytes), strings.Join(o.SubdirsPresent, ", "))
		return o.FolderName, styles.MutedText.Render(detail)

	case TabStale:
		s := m.stale[i]
		return s.Entry.Name, styles.RowMissing.Render(s.Entry.OriginalPath + " (missing)")

	default:
		b := m.backups[i]
		title := fmt.Sprintf("%s  %s", b.Name, b.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		names := make([]string, 0, len(b.Files))
		for _, f := range b.Files {
			names = append(names, filepath.Base(f))
		}
		return title, styles.MutedText.Render(strings.Join(names, ", "))
	}
}

func (m *DashboardModel) helpBindings() []key.Binding {
	keys := DashboardKeys
	keys.Move.SetEnabled(m.tab == TabProjects)
	keys.Edit.SetEnabled(m.tab == TabProjects)
	keys.Merge.SetEnabled(m.tab == TabOrphans)
	keys.Restore.SetEnabled(m.tab == TabBackups)
	return []key.Binding{
		keys.NextTab, keys.Move, keys.Edit, keys.Merge, keys.Restore,
		keys.Cleanup, keys.Sync, keys.Copy, keys.Help, keys.Quit,
	}
}
