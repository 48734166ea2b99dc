package ocr

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reHorizSpace = regexp.MustCompile(`[ \t]{2,}`)
	reParaBreak  = regexp.MustCompile(`\n\s*\n`)
)

// NormalizedText is a derived view of recognized text.
type NormalizedText struct {
	Normalized string   `json:"normalized"`
	Lines      []string `json:"lines"`
	Paragraphs []string `json:"paragraphs"`
}

// Normalize canonicalizes recognized text. Idempotent.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\r", "")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRightFunc(lines[i], unicode.IsSpace)
	}
	s = strings.Join(lines, "\n")

	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	s = reHorizSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeText normalizes raw and derives its lines and paragraphs.
func NormalizeText(raw string) NormalizedText {
	n := Normalize(raw)
	return NormalizedText{
		Normalized: n,
		Lines:      SplitLines(n),
		Paragraphs: SplitParagraphs(n),
	}
}

// SplitLines returns trimmed non-empty lines in order.
func SplitLines(s string) []string {
	out := []string{}
	for _, ln := range strings.Split(s, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

// SplitParagraphs splits on runs of blank lines and drops empties.
func SplitParagraphs(s string) []string {
	out := []string{}
	for _, p := range reParaBreak.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
