// ABOUTME: Validation error returned for structurally invalid engine input.
// ABOUTME: Names the offending field so upstream collaborators can be fixed.
package engine

import (
	"fmt"
	"math"
)

// ValidationError reports a malformed input field. Missing optional values are
// never validation errors; they resolve to documented defaults instead.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// checkNonNegative validates a quantity that must be a finite value >= 0.
func checkNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, "must be a finite number")
	}
	if v < 0 {
		return invalid(field, fmt.Sprintf("must not be negative, got %g", v))
	}
	return nil
}
