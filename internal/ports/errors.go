package ports

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a persisted document does not exist
var ErrNotFound = errors.New("not found")

// ReadError reports a document that exists but could not be read or decoded
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// IsReadError reports whether err is or wraps a *ReadError
func IsReadError(err error) bool {
	var re *ReadError
	return errors.As(err, &re)
}
