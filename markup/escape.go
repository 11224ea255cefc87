package markup

import "strings"

// Escape returns s with the four HTML-significant characters replaced by
// their entity references: & < > and ". No other character is altered, so
// escaping is not idempotent: Escape("&amp;") yields "&amp;amp;".
func Escape(s string) string {
	if !strings.ContainsAny(s, `&<>"`) {
		return s
	}

	var sb strings.Builder

	sb.Grow(len(s) + len(s)/4)
	EscapeTo(&sb, s)

	return sb.String()
}

// EscapeTo appends the escaped form of s to sb.
func EscapeTo(sb *strings.Builder, s string) {
	last := 0

	for i := range len(s) {
		var ent string

		switch s[i] {
		case '&':
			ent = "&amp;"
		case '<':
			ent = "&lt;"
		case '>':
			ent = "&gt;"
		case '"':
			ent = "&quot;"
		default:
			continue
		}

		sb.WriteString(s[last:i])
		sb.WriteString(ent)

		last = i + 1
	}

	sb.WriteString(s[last:])
}
