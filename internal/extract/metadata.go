package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxTitleRunes = 200

type metadataRule struct {
	pattern *regexp.Regexp
	set     func(md *DocumentMetadata, m []string)
}

var metadataRules = []metadataRule{
	{
		pattern: regexp.MustCompile(`(?i)Soreang[,\s]+([0-9]{1,2} .*? 20\d{2})`),
		set:     func(md *DocumentMetadata, m []string) { md.Tanggal = trimmed(m[1]) },
	},
	{
		pattern: regexp.MustCompile(`(?i)Nomor\s*\n?\s*([\w\-/\. ]+)`),
		set:     func(md *DocumentMetadata, m []string) { md.Nomor = trimmed(m[1]) },
	},
	{
		pattern: regexp.MustCompile(`(?i)Sifat\s*\n?\s*([A-Za-z]+)`),
		set:     func(md *DocumentMetadata, m []string) { md.Sifat = trimmed(m[1]) },
	},
	{
		pattern: regexp.MustCompile(`(?i)Perihal\s*\n?\s*([^\n]+)`),
		set:     func(md *DocumentMetadata, m []string) { md.Perihal = trimmed(m[1]) },
	},
	{
		pattern: regexp.MustCompile(`(?i)SURAT\s+PERNYA?TAAN`),
		set: func(md *DocumentMetadata, _ []string) {
			kind := "surat pernyataan"
			md.JenisDokumen = &kind
		},
	},
}

// ExtractMetadata reads letter-header fields from normalized text.
func ExtractMetadata(text string) DocumentMetadata {
	var md DocumentMetadata
	for _, ln := range strings.Split(text, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			md.Title = &ln
			if utf8.RuneCountInString(ln) > maxTitleRunes {
				title := string([]rune(ln)[:maxTitleRunes])
				md.Title = &title
			}
			break
		}
	}
	for _, r := range metadataRules {
		if m := r.pattern.FindStringSubmatch(text); m != nil {
			r.set(&md, m)
		}
	}
	return md
}

func trimmed(s string) *string {
	s = strings.TrimSpace(s)
	return &s
}
