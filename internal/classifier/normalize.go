package classifier

import (
	"strings"
	"unicode"
)

// NormalizeHeader canonicalizes a raw column header for matching: trims
// surrounding whitespace, lowercases, and collapses every run of
// whitespace or punctuation into a single underscore. "Employee No." and
// "employee_no" normalize to the same key.
func NormalizeHeader(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	pendingSep := false
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingSep = true
		}
	}
	return b.String()
}
