package editor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"projectkeeper/internal/ports"
)

// Opener implements ports.NotesEditor
type Opener struct {
	lookPath func(string) (string, error)
}

// Ensure Opener implements ports.NotesEditor
var _ ports.NotesEditor = (*Opener)(nil)

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{lookPath: exec.LookPath}
}

// Command returns an exec.Cmd that opens path in the user's editor, for use
// with bubbletea's ExecProcess. The notes directory is created so a new notes
// file can be saved.
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	editor := o.findEditor()
	if len(editor) == 0 {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create notes directory: %w", err)
	}

	cmd := exec.Command(editor[0], append(editor[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// findEditor returns the editor argv to use. $EDITOR may carry flags,
// e.g. "code --wait".
func (o *Opener) findEditor() []string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}

	for _, name := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := o.lookPath(name); err == nil {
			return []string{path}
		}
	}
	return nil
}
