package views

import (
	"projectkeeper/internal/application/commands"
	"projectkeeper/internal/domain"
)

// Messages for view switching
type SwitchToDashboardMsg struct {
	Reload bool
}

type SwitchToHelpMsg struct{}

type SwitchToMoveMsg struct {
	Project domain.ProjectStatus
}

type SwitchToMergeMsg struct {
	Orphan domain.OrphanInfo
}

// PlanReadyMsg hands a computed plan to the confirmation view
type PlanReadyMsg struct {
	Title string
	Plan  *commands.PlanResult
	Run   RunFunc
}

// OperationDoneMsg reports a finished operation
type OperationDoneMsg struct {
	Outcome Outcome
}

// OpenEditorMsg asks the app to open path in the user's editor
type OpenEditorMsg struct {
	Path string
}

type errMsg struct {
	err error
}
