/*
Package randx provides functions for generating unique identifiers and validating
client-supplied identifiers.

Connection identifiers are UUID v4 strings; chat message identifiers are ULIDs,
whose lexicographic order roughly follows creation order.
*/
package randx

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// MaxRoomIDLength is the maximum accepted length (in bytes) for a room identifier.
const MaxRoomIDLength = 64

// ConnectionID generates a UUID v4 string identifying a single client connection.
func ConnectionID() string {
	return uuid.New().String()
}

// MessageID generates a ULID string to serve as a unique, roughly time-ordered
// identifier for a chat message.
func MessageID() string {
	return ulid.Make().String()
}

// IsValidRoomID checks whether the given string is acceptable as a room identifier.
// Room identifiers are creator-chosen and case-sensitive; they must be non-blank,
// at most MaxRoomIDLength bytes, and free of control characters.
func IsValidRoomID(id string) bool {
	if strings.TrimSpace(id) == "" || len(id) > MaxRoomIDLength {
		return false
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return false
		}
	}

	return true
}

// IsValidUsername checks whether the given string is acceptable as a display name.
// Usernames are not accounts and collisions are allowed; only blank and oversized
// names are rejected.
func IsValidUsername(name string) bool {
	return strings.TrimSpace(name) != "" && len(name) <= MaxRoomIDLength
}
