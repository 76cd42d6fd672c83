package keywords

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrMissingKeyword indicates a required keyword was not set
	ErrMissingKeyword = errors.New("required keyword not set")

	// ErrInvalidValue indicates a keyword value failed validation
	ErrInvalidValue = errors.New("invalid keyword value")

	// ErrUnreadablePath indicates a keyword names a file or directory that cannot be used
	ErrUnreadablePath = errors.New("path not readable")
)

// KeywordError reports a problem with one input keyword
type KeywordError struct {
	Keyword string // Keyword name (e.g. "nworkers")
	Value   string // Offending value, empty when missing
	Reason  string // Human readable detail
	Err     error  // One of the sentinel errors above
}

func (e *KeywordError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("keyword %s: %s", e.Keyword, e.Reason)
	}
	return fmt.Sprintf("keyword %s=%q: %s", e.Keyword, e.Value, e.Reason)
}

func (e *KeywordError) Unwrap() error {
	return e.Err
}

// IsKeywordError checks if an error is (or wraps) a KeywordError
func IsKeywordError(err error) bool {
	var ke *KeywordError
	return errors.As(err, &ke)
}
