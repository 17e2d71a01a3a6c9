package ledger

import "fmt"

// ValidationError rejects malformed input before any state is read. A
// ledger call that returns one has had no effect.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
