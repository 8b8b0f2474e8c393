package editor

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand(t *testing.T) {
	notes := filepath.Join(t.TempDir(), "project-memory", "alpha-long-term-memory.md")

	tests := []struct {
		name     string
		editor   string
		visual   string
		wantArgs []string
	}{
		{"editor", "nvim", "", []string{"nvim", notes}},
		{"editor with flags", "code --wait", "", []string{"code", "--wait", notes}},
		{"visual fallback", "", "hx", []string{"hx", notes}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EDITOR", tt.editor)
			t.Setenv("VISUAL", tt.visual)

			cmd, err := NewOpener().Command(notes)
			require.NoError(t, err)
			assert.Equal(t, tt.wantArgs, cmd.Args)
			assert.DirExists(t, filepath.Dir(notes))
		})
	}
}

func TestCommand_NoEditor(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")
	o := &Opener{lookPath: func(string) (string, error) { return "", errors.New("not found") }}

	_, err := o.Command(filepath.Join(t.TempDir(), "notes.md"))
	assert.ErrorContains(t, err, "no editor found")
}
