package geocode

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/docgeo/constants"
	"github.com/joseph-ayodele/docgeo/internal/extract"
)

const (
	// MaxFreeTextCandidates bounds the free-text list.
	MaxFreeTextCandidates = 20
	// MaxExternalCandidates bounds the externally supplied hints taken first.
	MaxExternalCandidates = 10
)

// BuildStructured emits one query per housing complex then address line,
// followed by a street-less query that is always present.
func BuildStructured(loc extract.LocationEntities) []StructuredQuery {
	base := StructuredQuery{
		Suburb:  collapse(first(loc.Kelurahan)),
		City:    collapse(first(cityLevel(loc))),
		State:   collapse(first(loc.Provinsi)),
		Country: constants.DefaultCountry,
	}
	out := make([]StructuredQuery, 0, len(loc.Perumahan)+len(loc.Alamat)+1)
	for _, street := range append(append([]string{}, loc.Perumahan...), loc.Alamat...) {
		q := base
		q.Street = collapse(street)
		out = append(out, q)
	}
	return append(out, base)
}

// candidateList keeps insertion order and rejects entries equal after NormalizeQuery.
type candidateList struct {
	items []string
	seen  map[string]struct{}
}

func (l *candidateList) add(q string) {
	q = NormalizeQuery(q)
	if q == "" {
		return
	}
	if _, ok := l.seen[q]; ok {
		return
	}
	l.seen[q] = struct{}{}
	l.items = append(l.items, q)
}

// BuildFreeText orders free-text candidates from most to least specific:
// external hints, admin hierarchy combinations, streets with context,
// RT/RW units, then city and province alone.
func BuildFreeText(loc extract.LocationEntities, external []string) []string {
	l := &candidateList{seen: map[string]struct{}{}}

	if len(external) > MaxExternalCandidates {
		external = external[:MaxExternalCandidates]
	}
	for _, c := range external {
		l.add(c)
	}

	cities := cityLevel(loc)
	prov := first(loc.Provinsi)
	for _, ke := range orBlank(loc.Kelurahan) {
		for _, kc := range orBlank(loc.Kecamatan) {
			for _, kk := range orBlank(cities) {
				l.add(joinNonEmpty(ke, kc, kk, prov, constants.DefaultCountry))
			}
		}
	}

	ctx := joinNonEmpty(first(cities), prov, constants.DefaultCountry)
	for _, p := range loc.Perumahan {
		l.add(p + ", " + ctx)
	}
	for _, a := range loc.Alamat {
		l.add(a + ", " + ctx)
	}

	for _, r := range loc.RTRW {
		kel := ""
		if r.Kelurahan != nil {
			kel = *r.Kelurahan
		}
		l.add(joinNonEmpty(fmt.Sprintf("RT %02d / RW %02d", r.RT, r.RW), kel, ctx))
	}

	for _, kk := range cities {
		l.add(kk + ", " + constants.DefaultCountry)
	}
	if prov != "" {
		l.add(prov + ", " + constants.DefaultCountry)
	}

	if len(l.items) > MaxFreeTextCandidates {
		return l.items[:MaxFreeTextCandidates]
	}
	return l.items
}

// cityLevel prefers kota over kabupaten.
func cityLevel(loc extract.LocationEntities) []string {
	if len(loc.Kota) > 0 {
		return loc.Kota
	}
	return loc.Kabupaten
}

func first(xs []string) string {
	if len(xs) == 0 {
		return ""
	}
	return xs[0]
}

func orBlank(xs []string) []string {
	if len(xs) == 0 {
		return []string{""}
	}
	return xs
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
