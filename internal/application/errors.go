package application

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	ErrNotFound             = errors.New("not found")
	ErrConfirmationRequired = errors.New("confirmation required: review the plan and confirm to execute")
	ErrLockTimeout          = errors.New("another operation is in progress; try again later")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// validationFailure folds a failed precondition check into one error
func validationFailure(field string, issues []string) *ValidationError {
	return &ValidationError{Field: field, Message: strings.Join(issues, "; ")}
}

// PartialFailure reports an error after mutation began. BackupPath holds the
// pre-operation copies that restore can put back.
type PartialFailure struct {
	Step       string
	BackupPath string
	Err        error
}

func (e *PartialFailure) Error() string {
	msg := fmt.Sprintf("failed during %s: %v", e.Step, e.Err)
	if e.BackupPath != "" {
		msg += fmt.Sprintf(" (backup at %s)", e.BackupPath)
	}
	return msg
}

func (e *PartialFailure) Unwrap() error {
	return e.Err
}
