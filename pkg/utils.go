package pkg

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUIDv7 generates a UUID version 7. When the clock source fails it
// falls back to a random v4, which keeps ids unique if not time-sortable.
func GenerateUUIDv7() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}

	return id
}

// IsNilOrEmpty returns a boolean indicating if a *string is nil or empty.
// It's use TrimSpace so, a string "  " and "" will be considered empty.
func IsNilOrEmpty(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
