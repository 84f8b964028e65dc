package server

import (
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[$()\[\]{}|\\^*+?]`)

// sanitizeSubject strips pattern metacharacters from a user supplied subject code
func sanitizeSubject(input string) string {
	return strings.ToUpper(strings.TrimSpace(unsafeChars.ReplaceAllString(input, "")))
}

// normalizeCourseCode accepts "cpsc-1150", "CPSC_1150" or "CPSC 1150" and
// returns "CPSC 1150"
func normalizeCourseCode(input string) string {
	code := unsafeChars.ReplaceAllString(input, "")
	code = strings.NewReplacer("-", " ", "_", " ").Replace(code)
	return strings.ToUpper(strings.Join(strings.Fields(code), " "))
}
