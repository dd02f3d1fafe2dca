package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Batch and image identifiers become path segments in store keys and
// inbox lookups, so the accepted alphabet is deliberately narrow.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateID checks a batch or image identifier at the boundary.
// Identifiers must be non-empty, contain only letters, digits, '-', '_'
// and '.', and must not contain a ".." traversal sequence.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if strings.Contains(id, "..") {
		return fmt.Errorf("%w: %q contains a traversal sequence", ErrInvalidID, id)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
