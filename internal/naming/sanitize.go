package naming

import (
	"regexp"
	"strings"
)

// Fallback is returned when nothing usable survives sanitization
const Fallback = "Unnamed"

var (
	// invalidChars matches anything that can't appear in an identifier
	invalidChars = regexp.MustCompile(`[^A-Za-z0-9_]`)
	// leadingJunk matches everything before the first letter or underscore
	leadingJunk = regexp.MustCompile(`^[^A-Za-z_]+`)
	// identifier matches what Sanitize produces
	identifier = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
)

// Sanitize turns free-form text into a PascalCase identifier made of letters
// and digits that starts with a letter.
//
// Example: "my cool_mod!!" → "MyCoolMod"
func Sanitize(part string) string {
	clean := invalidChars.ReplaceAllString(part, "_")
	clean = leadingJunk.ReplaceAllString(clean, "")

	words := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '_' || r == ' '
	})

	var b strings.Builder
	for _, w := range words {
		if b.Len() == 0 {
			// "_9" survives the leading strip, so the first word may still open with digits
			w = strings.TrimLeft(w, "0123456789")
			if w == "" {
				continue
			}
		}
		// words are ASCII after the first replace
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(strings.ToLower(w[1:]))
	}

	if b.Len() == 0 {
		return Fallback
	}
	return b.String()
}

// IsIdentifier reports whether s already has the shape Sanitize produces.
// Sanitize lowercases inner capitals, so an identifier read back from a
// written file must be used as is rather than sanitized again.
func IsIdentifier(s string) bool {
	return identifier.MatchString(s)
}

// DefaultNamespace suggests a namespace for a project name
// spaces become underscores, everything else is left for Sanitize
func DefaultNamespace(projectName string) string {
	return strings.ReplaceAll(projectName, " ", "_")
}
