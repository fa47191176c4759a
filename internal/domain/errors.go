package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidConfig = errors.New("invalid queue configuration")
)

// DuplicateConfigError describes an active configuration that repeats an
// older active configuration. It is absorbed by deactivating the duplicate.
type DuplicateConfigError struct {
	KeptID      int64
	DuplicateID int64
}

func (e *DuplicateConfigError) Error() string {
	return fmt.Sprintf("config %d duplicates config %d", e.DuplicateID, e.KeptID)
}

// ConsistencyError means a renumbering produced a priority range that does not
// match the number of configurations. The pass is aborted.
type ConsistencyError struct {
	Expected    int
	MaxAssigned int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("total configurations (%d) do not match the maximum priority assigned (%d)", e.Expected, e.MaxAssigned)
}

// TransientStoreError wraps a store or context failure inside a pass.
// The pass was rolled back and may be retried by the caller.
type TransientStoreError struct {
	Err error
	Op  string
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientStoreError) Unwrap() error { return e.Err }

// IsRetryable reports whether err leaves the store untouched and may be retried.
func IsRetryable(err error) bool {
	var te *TransientStoreError
	return errors.As(err, &te)
}
