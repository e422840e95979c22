package spmeta

import "strings"

// SanitizeNCName converts a value into a string usable as an XML ID: every
// character outside the NCName set is replaced with an underscore, and the
// result is prefixed with an underscore when it would otherwise start with a
// character that is invalid in the leading position (such as a digit).
//
// The transform is deterministic and idempotent. It does not guarantee
// collision avoidance between distinct inputs.
func SanitizeNCName(value string) string {
	var b strings.Builder
	b.Grow(len(value))

	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	sanitized := b.String()
	if sanitized == "" {
		return "_"
	}

	switch c := sanitized[0]; {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return sanitized
	default:
		return "_" + sanitized
	}
}
