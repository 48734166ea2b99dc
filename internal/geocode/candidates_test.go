package geocode

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/docgeo/internal/extract"
)

func TestBuildFromExtractedText(t *testing.T) {
	loc := extract.ExtractLocations("Kelurahan Baleendah, Kecamatan Baleendah, Kabupaten Bandung ... RT 04/RW 06")

	wantStructured := []StructuredQuery{{Suburb: "Baleendah", City: "Bandung", Country: "Indonesia"}}
	if diff := cmp.Diff(wantStructured, BuildStructured(loc)); diff != "" {
		t.Errorf("structured (-want +got):\n%s", diff)
	}

	wantFree := []string{
		"Baleendah, Baleendah, Bandung, Indonesia",
		"RT 04 / RW 06, Bandung, Indonesia",
		"Bandung, Indonesia",
	}
	if diff := cmp.Diff(wantFree, BuildFreeText(loc, nil)); diff != "" {
		t.Errorf("free text (-want +got):\n%s", diff)
	}
}

func TestBuildStructuredStreetsFirst(t *testing.T) {
	loc := extract.LocationEntities{
		Provinsi:  []string{"Jawa Barat"},
		Kota:      []string{"Bandung"},
		Kabupaten: []string{"Bandung Barat"},
		Kelurahan: []string{"Citeureup"},
		Perumahan: []string{"Perumahan  Taman Asri 8"},
		Alamat:    []string{"Ladang Kaladi RT.04 RW.06"},
	}
	base := StructuredQuery{Suburb: "Citeureup", City: "Bandung", State: "Jawa Barat", Country: "Indonesia"}
	withStreet := func(s string) StructuredQuery { q := base; q.Street = s; return q }

	want := []StructuredQuery{
		withStreet("Perumahan Taman Asri 8"),
		withStreet("Ladang Kaladi RT.04 RW.06"),
		base,
	}
	if diff := cmp.Diff(want, BuildStructured(loc)); diff != "" {
		t.Errorf("structured (-want +got):\n%s", diff)
	}
}

func TestBuildStructuredEmptyEntities(t *testing.T) {
	got := BuildStructured(extract.LocationEntities{})
	want := []StructuredQuery{{Country: "Indonesia"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("structured (-want +got):\n%s", diff)
	}
}

func TestBuildFreeTextOrderAndDedup(t *testing.T) {
	kel := "Citeureup"
	loc := extract.LocationEntities{
		Provinsi:  []string{"Jawa Barat"},
		Kota:      []string{"Bandung"},
		Kecamatan: []string{"Dayeuhkolot"},
		Kelurahan: []string{"Citeureup"},
		Perumahan: []string{"Perumahan Taman Asri"},
		RTRW:      []extract.RTRW{{RT: 3, RW: 12, Kelurahan: &kel}},
	}
	external := []string{
		"Citeureup,  Dayeuhkolot, Bandung",
		"Citeureup, Dayeuhkolot, Bandung",
		"Kab. Bandung",
	}
	want := []string{
		"Citeureup, Dayeuhkolot, Bandung",
		"Kabupaten Bandung",
		"Citeureup, Dayeuhkolot, Bandung, Jawa Barat, Indonesia",
		"Perumahan Taman Asri, Bandung, Jawa Barat, Indonesia",
		"RT 03 / RW 12, Citeureup, Bandung, Jawa Barat, Indonesia",
		"Bandung, Indonesia",
		"Jawa Barat, Indonesia",
	}
	if diff := cmp.Diff(want, BuildFreeText(loc, external)); diff != "" {
		t.Errorf("free text (-want +got):\n%s", diff)
	}
}

func TestBuildFreeTextCaps(t *testing.T) {
	var external []string
	for i := 0; i < 15; i++ {
		external = append(external, fmt.Sprintf("hint %d", i))
	}
	got := BuildFreeText(extract.LocationEntities{}, external)
	want := append(append([]string{}, external[:MaxExternalCandidates]...), "Indonesia")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("free text (-want +got):\n%s", diff)
	}

	loc := extract.LocationEntities{}
	for i := 0; i < 5; i++ {
		loc.Kelurahan = append(loc.Kelurahan, fmt.Sprintf("Kel%d", i))
		loc.Kecamatan = append(loc.Kecamatan, fmt.Sprintf("Kec%d", i))
	}
	got = BuildFreeText(loc, external)
	if len(got) != MaxFreeTextCandidates {
		t.Fatalf("len = %d, want %d", len(got), MaxFreeTextCandidates)
	}
	seen := map[string]bool{}
	for _, q := range got {
		if seen[q] {
			t.Errorf("duplicate candidate %q", q)
		}
		seen[q] = true
	}
}

func TestBuildFreeTextEmpty(t *testing.T) {
	// the hierarchy combination degenerates to the country alone
	got := BuildFreeText(extract.LocationEntities{}, nil)
	if diff := cmp.Diff([]string{"Indonesia"}, got); diff != "" {
		t.Errorf("free text (-want +got):\n%s", diff)
	}
}
