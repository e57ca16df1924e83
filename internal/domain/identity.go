package domain

import (
	"strings"
	"unicode"
)

// Identity is the canonical record for a local account as returned by the
// identity store. Values are handed out per lookup and never mutated.
type Identity struct {
	Username    string
	ActorID     string
	ProfileURL  string
	DisplayName string
	Summary     string
}

// ValidUsername reports whether s can name a local account: non-empty and
// free of '@', path separators, whitespace and control characters.
func ValidUsername(s string) bool {
	if s == "" {
		return false
	}
	if strings.ContainsAny(s, "@/\\") {
		return false
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
