package utils

import (
	"strings"
)

// EscapeLikeWildcards escapes LIKE wildcard characters so user input is
// matched literally. Queries must declare ESCAPE '\'.
func EscapeLikeWildcards(input string) string {
	// Escape backslash first (as it's the escape character)
	input = strings.ReplaceAll(input, "\\", "\\\\")
	input = strings.ReplaceAll(input, "%", "\\%")
	input = strings.ReplaceAll(input, "_", "\\_")
	return input
}

// ContainsPattern builds a lower-cased %term% pattern for case-insensitive
// substring matching against LOWER(column).
func ContainsPattern(input string) string {
	input = strings.TrimSpace(input)
	if r := []rune(input); len(r) > 100 {
		input = string(r[:100])
	}
	return "%" + EscapeLikeWildcards(strings.ToLower(input)) + "%"
}

// SplitEmails splits a comma separated list, trimming blanks.
func SplitEmails(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if e := strings.TrimSpace(part); e != "" {
			out = append(out, e)
		}
	}
	return out
}
