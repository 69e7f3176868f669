package readme

import (
	"regexp"
	"strings"
)

var (
	// optional "*", optional "[...]" annotation, optional "?" and trailing blanks
	commentMarker = regexp.MustCompile(`^\*?(?:\[[^\]]*\])?\??\s*`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// SanitizeComment strips the leading annotation markers of an explanation
// and collapses whitespace runs to single spaces. Marker sequences are
// stripped until none remains, so SanitizeComment(SanitizeComment(s)) ==
// SanitizeComment(s).
func SanitizeComment(s string) string {
	s = strings.TrimSpace(s)
	for {
		stripped := commentMarker.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = stripped
	}
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// EscapeQuotes doubles single quotes for use inside an SQL string literal.
func EscapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
