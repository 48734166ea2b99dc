package extract

import (
	"regexp"
	"strings"
)

var (
	// first connector word, separator, ellipsis or RT/RW token ends a name
	reNameCut     = regexp.MustCompile(`(?i)\b(?:dan|yang|sekitamya|sekitarnya|dengan)\b|[,\n]|\.{2,}|…|\b(?:RT|RW)\b`)
	reNonNameChar = regexp.MustCompile(`[^A-Za-z\- '.]`)
)

const maxNameWords = 3

// CleanAdminName reduces a raw administrative-name capture to at most three words.
func CleanAdminName(name string) string {
	if loc := reNameCut.FindStringIndex(name); loc != nil && loc[0] > 0 {
		name = name[:loc[0]]
	}
	name = reNonNameChar.ReplaceAllString(name, " ")
	parts := strings.Fields(name)
	if len(parts) > maxNameWords {
		parts = parts[:maxNameWords]
	}
	return strings.TrimRight(strings.Join(parts, " "), ". ")
}
