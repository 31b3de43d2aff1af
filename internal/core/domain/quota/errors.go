package quota

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable marks counter store failures. Wrapped errors carry
// the underlying cause; callers match with errors.Is.
var ErrStoreUnavailable = errors.New("quota counter store unavailable")

// QuotaExceededError reports a failed window or ceiling check. It is
// surfaced to the caller and never retried internally.
type QuotaExceededError struct {
	Resource ResourceKind
	Window   WindowKind
	Count    int64
	Limit    int64
}

func (e *QuotaExceededError) Error() string {
	if e.Window != "" {
		return fmt.Sprintf("%s limit exceeded for window %s (%d/%d)", e.Resource, e.Window, e.Count, e.Limit)
	}
	return fmt.Sprintf("%s limit reached (%d/%d)", e.Resource, e.Count, e.Limit)
}

// InvalidLimitError rejects a limit update before any mutation.
type InvalidLimitError struct {
	Resource ResourceKind
	Window   WindowKind
	Value    int64
	Reason   string
}

func (e *InvalidLimitError) Error() string {
	return fmt.Sprintf("invalid limit for %s/%s: %s (got %d)", e.Resource, e.Window, e.Reason, e.Value)
}
