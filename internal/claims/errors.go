package claims

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrClaimNotFound is returned when a claim id has no matching record
	ErrClaimNotFound = errors.New("claim not found")

	// ErrInvalidStatus is returned when a status update names an unknown status
	ErrInvalidStatus = errors.New("invalid claim status")
)

// ValidationError reports submission fields that were missing or malformed
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, fmt.Sprintf("invalid fields: %s", strings.Join(e.Invalid, ", ")))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}
