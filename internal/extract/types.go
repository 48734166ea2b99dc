package extract

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/docgeo/constants"
)

// DocumentMetadata holds letter-header fields; each is set only when its rule matched.
type DocumentMetadata struct {
	Title        *string `json:"title,omitempty"`
	Tanggal      *string `json:"tanggal,omitempty"`
	Nomor        *string `json:"nomor,omitempty"`
	Sifat        *string `json:"sifat,omitempty"`
	Perihal      *string `json:"perihal,omitempty"`
	JenisDokumen *string `json:"jenis_dokumen,omitempty"`
}

// RTRW is one neighborhood unit reference.
type RTRW struct {
	RT        int     `json:"rt"`
	RW        int     `json:"rw"`
	Kelurahan *string `json:"kelurahan,omitempty"`
}

// LocationEntities groups extracted names per administrative level.
// Category lists never hold two whitespace-equal entries; first occurrence keeps its position.
type LocationEntities struct {
	Provinsi   []string `json:"provinsi"`
	Kabupaten  []string `json:"kabupaten"`
	Kota       []string `json:"kota"`
	Kecamatan  []string `json:"kecamatan"`
	Kelurahan  []string `json:"kelurahan"`
	Alamat     []string `json:"alamat"`
	Perumahan  []string `json:"perumahan"`
	RTRW       []RTRW   `json:"rt_rw"`
	RawMatches []string `json:"raw_matches"`
}

func newLocationEntities() LocationEntities {
	return LocationEntities{
		Provinsi:   []string{},
		Kabupaten:  []string{},
		Kota:       []string{},
		Kecamatan:  []string{},
		Kelurahan:  []string{},
		Alamat:     []string{},
		Perumahan:  []string{},
		RTRW:       []RTRW{},
		RawMatches: []string{},
	}
}

func (l *LocationEntities) list(cat constants.Category) *[]string {
	switch cat {
	case constants.Provinsi:
		return &l.Provinsi
	case constants.Kabupaten:
		return &l.Kabupaten
	case constants.Kota:
		return &l.Kota
	case constants.Kecamatan:
		return &l.Kecamatan
	case constants.Kelurahan:
		return &l.Kelurahan
	case constants.Alamat:
		return &l.Alamat
	case constants.Perumahan:
		return &l.Perumahan
	}
	return nil
}

// Values returns the list for cat, nil for unknown categories.
func (l *LocationEntities) Values(cat constants.Category) []string {
	if p := l.list(cat); p != nil {
		return *p
	}
	return nil
}

// Add inserts val into cat unless an entry equal after whitespace collapsing exists.
// Reports whether the value was inserted.
func (l *LocationEntities) Add(cat constants.Category, val string) bool {
	p := l.list(cat)
	if p == nil {
		return false
	}
	val = CollapseSpace(val)
	if val == "" {
		return false
	}
	for _, existing := range *p {
		if existing == val {
			return false
		}
	}
	*p = append(*p, val)
	return true
}

var reSpaceRun = regexp.MustCompile(`\s+`)

// CollapseSpace replaces whitespace runs with one space and trims.
func CollapseSpace(s string) string {
	return strings.TrimSpace(reSpaceRun.ReplaceAllString(s, " "))
}
