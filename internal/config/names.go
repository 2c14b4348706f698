package config

import "strings"

// Normalize converts a free-form name into the canonical slug used as a
// storage key: lowercase, whitespace and underscores become dashes, anything
// outside [a-z0-9-] is dropped, runs of dashes collapse into one, and
// leading/trailing dashes are trimmed.
//
// Normalize is total and idempotent. It returns "" for input with no usable
// characters; callers must reject that as an invalid name before using the
// result as a key.
func Normalize(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '_' || r == '-':
			if b.Len() > 0 && !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		}
	}
	return strings.TrimRight(b.String(), "-")
}
