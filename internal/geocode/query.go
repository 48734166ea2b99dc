package geocode

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

var queryFixes = strings.NewReplacer(
	// recognition typos
	"Kelurahaan", "Kelurahan",
	"Kecaamatan", "Kecamatan",
	// abbreviations
	"Kab.", "Kabupaten ",
	"Kot.", "Kota ",
	// casing
	"Rt.", "RT.",
	"Rw.", "RW.",
)

func collapse(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// NormalizeQuery cleans a free-text query. Idempotent.
func NormalizeQuery(q string) string {
	return collapse(queryFixes.Replace(collapse(q)))
}
