package views

import (
	"context"
	"errors"

	"projectkeeper/internal/application"
)

// ViewState holds the size and status line every view model carries.
// Embed it to get SetSize and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Outcome is what a confirmed operation reports back to the dashboard
type Outcome struct {
	Message    string
	BackupPath string
	Err        error
}

// RunFunc performs a confirmed operation
type RunFunc func(ctx context.Context) Outcome

func outcomeFromResult(res *application.Result) Outcome {
	out := Outcome{Message: res.Message, BackupPath: res.BackupPath}
	if !res.Success {
		out.Err = res.Err
		if out.Err == nil {
			out.Err = errors.New(res.Message)
		}
	}
	return out
}
