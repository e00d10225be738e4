// Package util is the utility kernel shared by the parser, the check
// framework, and the domain check modules: UUID handling, file hashing,
// rational/timecode arithmetic and XML helpers.
package util

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// rfc4122Pattern matches a lowercase, hyphenated RFC 4122 UUID, the only
// form allowed to appear inside a DCP.
var rfc4122Pattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// IsRFC4122 reports whether s is a lowercase RFC 4122 UUID, with or
// without a leading "urn:uuid:" scheme (both forms occur in DCP XML).
func IsRFC4122(s string) bool {
	return rfc4122Pattern.MatchString(StripURN(s))
}

// StripURN removes a leading "urn:uuid:" prefix, case-insensitively.
func StripURN(s string) string {
	const prefix = "urn:uuid:"
	if len(s) > len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):]
	}
	return s
}

// ParseUUID parses s (optionally URN-prefixed) into a canonical lowercase
// UUID string, or returns ok=false if s is not a valid UUID at all (even
// if not RFC 4122 lowercase form).
func ParseUUID(s string) (canonical string, ok bool) {
	id, err := uuid.Parse(StripURN(s))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// NewUUID generates a random RFC 4122 UUID, used by tests and by the KDM
// decryptor to name scratch artifacts.
func NewUUID() string {
	return uuid.New().String()
}
