package typesystem

import "fmt"

// ErrorStateError indicates a type already in an unrecoverable error state;
// match analysis over it is skipped without further diagnostics.
type ErrorStateError struct {
	Ty Type
}

func (e *ErrorStateError) Error() string {
	return fmt.Sprintf("type is in an error state: %s", e.Ty)
}
