package util

import "strings"

// ValidationError carries field-level format errors suitable for the
// `errors` list in API responses.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, "; ")
}
