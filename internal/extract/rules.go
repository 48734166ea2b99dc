package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/docgeo/constants"
)

// Rule extracts one kind of location entity. Value is taken from submatch
// Group (0 = whole match) and passed through Clean before insertion. Rules
// with Apply handle their own insertion.
type Rule struct {
	Name     string
	Pattern  *regexp.Regexp
	Category constants.Category
	Group    int
	Clean    func(string) string
	Apply    func(loc *LocationEntities, m []string)
}

// LocationRules run in this order over the normalized text. Every rule runs.
var LocationRules = []Rule{
	{
		Name:     "provinsi",
		Pattern:  regexp.MustCompile(`(?i)\bProvinsi\s+([A-Z][A-Za-z .'-]+)`),
		Category: constants.Provinsi,
		Group:    1,
		Clean:    CleanAdminName,
	},
	{
		Name:     "kabupaten",
		Pattern:  regexp.MustCompile(`(?i)\bKabupaten\s+([A-Z][A-Za-z .'-]+)`),
		Category: constants.Kabupaten,
		Group:    1,
		Clean:    CleanAdminName,
	},
	{
		Name:     "kota",
		Pattern:  regexp.MustCompile(`(?i)\bKota\s+([A-Z][A-Za-z .'-]+)`),
		Category: constants.Kota,
		Group:    1,
		Clean:    CleanAdminName,
	},
	{
		Name:     "kecamatan",
		Pattern:  regexp.MustCompile(`(?i)\bKecamatan\s+([^\n,]+)`),
		Category: constants.Kecamatan,
		Group:    1,
		Clean:    CleanAdminName,
	},
	{
		Name:     "kelurahan",
		Pattern:  regexp.MustCompile(`(?i)\bKelurahan\s+([^\n,]+)`),
		Category: constants.Kelurahan,
		Group:    1,
		Clean:    CleanAdminName,
	},
	{
		Name:     "rt_rw",
		Pattern:  regexp.MustCompile(`(?i)RT[ .:]?0?(\d+)\s*/?\s*RW[ .:]?0?(\d+)(?:,?\s*Kelurahan\s+([^\n]+))?`),
		Category: constants.RTRW,
		Apply:    applyRTRW,
	},
	{
		Name:     "alamat",
		Pattern:  regexp.MustCompile(`(?i)\bLadang\s+[A-Z][^\n,]*?(RT\.?\s*0?\d+\s*RW\.?\s*0?\d+)`),
		Category: constants.Alamat,
	},
	{
		Name:     "perumahan",
		Pattern:  regexp.MustCompile(`(?i)\b(Perumahan|Kompleks|Taman)\s+[A-Z][A-Za-z ]*\d*`),
		Category: constants.Perumahan,
	},
}

// ExtractLocations applies LocationRules to normalized text.
func ExtractLocations(text string) LocationEntities {
	return ExtractWith(LocationRules, text)
}

// ExtractWith applies rules in order; every match is also kept in RawMatches.
func ExtractWith(rules []Rule, text string) LocationEntities {
	loc := newLocationEntities()
	for _, r := range rules {
		for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
			loc.RawMatches = append(loc.RawMatches, m[0])
			if r.Apply != nil {
				r.Apply(&loc, m)
				continue
			}
			val := m[r.Group]
			if r.Clean != nil {
				val = r.Clean(val)
			}
			loc.Add(r.Category, val)
		}
	}
	return loc
}

func applyRTRW(loc *LocationEntities, m []string) {
	rt, errRT := strconv.Atoi(m[1])
	rw, errRW := strconv.Atoi(m[2])
	if errRT != nil || errRW != nil {
		return
	}
	entry := RTRW{RT: rt, RW: rw}
	if kel := strings.TrimSpace(m[3]); kel != "" {
		if name := CleanAdminName(kel); name != "" {
			entry.Kelurahan = &name
			loc.Add(constants.Kelurahan, name)
		}
	}
	loc.RTRW = append(loc.RTRW, entry)
}
