package store

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a referenced record does not exist. Callers can
// decide between lazy creation and failure.
var ErrNotFound = errors.New("record not found")

// ErrConflict reports a uniqueness violation, e.g. creating a plant for a
// (user, item, category) that already has one.
var ErrConflict = errors.New("record already exists")

// TransientError wraps storage failures that survived the backend's retry
// budget. Reads may be retried freely; mutations must be deduplicated by
// the caller before retrying.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient storage failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
