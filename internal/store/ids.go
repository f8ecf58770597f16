package store

import (
	"strings"

	"github.com/google/uuid"
)

// newID returns prefix-<suffix> where suffix is the first 12 hex chars of a random UUID.
func newID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return prefix + "-" + suffix
}
