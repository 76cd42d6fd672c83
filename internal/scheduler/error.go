package scheduler

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrUnsupportedScheduler indicates no renderer exists for the scheduler
	ErrUnsupportedScheduler = errors.New("unsupported scheduler")

	// ErrInvalidTimeFormat indicates time format is invalid
	ErrInvalidTimeFormat = errors.New("invalid time format")
)

// ExportWriteError represents an error writing the export file
type ExportWriteError struct {
	Path string // File path
	Err  error  // Underlying error
}

func (e *ExportWriteError) Error() string {
	return fmt.Sprintf("failed to write export file %s: %v", e.Path, e.Err)
}

func (e *ExportWriteError) Unwrap() error {
	return e.Err
}

// IsExportWriteError checks if an error is an ExportWriteError
func IsExportWriteError(err error) bool {
	var ew *ExportWriteError
	return errors.As(err, &ew)
}
