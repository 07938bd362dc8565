package core

import (
	"strings"

	"github.com/google/uuid"
)

// NewCorrelationID generates a turn correlation id in the "CID-<12 hex>"
// shape spec.md §4.1 step 1 requires.
func NewCorrelationID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "CID-" + hex[:12]
}
