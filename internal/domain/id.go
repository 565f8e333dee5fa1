package domain

import "github.com/google/uuid"

// shortIDLen is the prefix length shown to humans.
const shortIDLen = 8

// generateID creates a new unique identifier.
func generateID() string {
	return uuid.New().String()
}

// ShortID returns the display prefix of id.
func ShortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}
