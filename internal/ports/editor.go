package ports

import "os/exec"

// NotesEditor opens project notes files in the user's editor
type NotesEditor interface {
	// Command builds the editor invocation for path, for use with the TUI's
	// process handoff
	Command(path string) (*exec.Cmd, error)
}
