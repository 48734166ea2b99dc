package extract

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/joseph-ayodele/docgeo/constants"
)

func strp(s string) *string { return &s }

func TestExtractLocationsEndToEnd(t *testing.T) {
	text := "Kelurahan Baleendah, Kecamatan Baleendah, Kabupaten Bandung ... RT 04/RW 06"
	got := ExtractLocations(text)

	checks := []struct {
		name string
		got  []string
		want []string
	}{
		{"kelurahan", got.Kelurahan, []string{"Baleendah"}},
		{"kecamatan", got.Kecamatan, []string{"Baleendah"}},
		{"kabupaten", got.Kabupaten, []string{"Bandung"}},
		{"kota", got.Kota, []string{}},
		{"provinsi", got.Provinsi, []string{}},
	}
	for _, c := range checks {
		if diff := cmp.Diff(c.want, c.got); diff != "" {
			t.Errorf("%s (-want +got):\n%s", c.name, diff)
		}
	}
	if diff := cmp.Diff([]RTRW{{RT: 4, RW: 6}}, got.RTRW); diff != "" {
		t.Errorf("rt_rw (-want +got):\n%s", diff)
	}
	if len(got.RawMatches) != 4 {
		t.Errorf("raw matches = %q, want 4 entries", got.RawMatches)
	}
}

func TestExtractLocationsLetter(t *testing.T) {
	text := "Provinsi Jawa Barat\n" +
		"Kota Bandung dan sekitarnya\n" +
		"Kecamatan Dayeuhkolot yang mengakibatkan banjir\n" +
		"Ladang Kaladi RT.04 RW.06, Kelurahan Citeureup\n" +
		"RT 3 / RW 12, Kelurahan Citeureup Indah Permai Raya\n" +
		"Perumahan Taman Asri 8\n" +
		"Kompleks Griya   Bandung"
	got := ExtractLocations(text)

	want := LocationEntities{
		Provinsi:  []string{"Jawa Barat"},
		Kabupaten: []string{},
		Kota:      []string{"Bandung"},
		Kecamatan: []string{"Dayeuhkolot"},
		Kelurahan: []string{"Citeureup", "Citeureup Indah Permai"},
		Alamat:    []string{"Ladang Kaladi RT.04 RW.06"},
		Perumahan: []string{"Perumahan Taman Asri 8", "Kompleks Griya Bandung"},
		RTRW: []RTRW{
			{RT: 4, RW: 6, Kelurahan: strp("Citeureup")},
			{RT: 3, RW: 12, Kelurahan: strp("Citeureup Indah Permai")},
		},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(LocationEntities{}, "RawMatches")); diff != "" {
		t.Fatalf("entities (-want +got):\n%s", diff)
	}
}

func TestCategoryListsAreDeduplicated(t *testing.T) {
	text := "Kelurahan Baleendah\nkelurahan  Baleendah\nKelurahan Baleendah  , x\n" +
		"RT 01 RW 02 Kelurahan Baleendah\nKelurahan baleendah"
	got := ExtractLocations(text)
	if diff := cmp.Diff([]string{"Baleendah", "baleendah"}, got.Kelurahan); diff != "" {
		t.Fatalf("kelurahan (-want +got):\n%s", diff)
	}
	for _, cat := range constants.AsStringSlice() {
		vals := got.Values(constants.Category(cat))
		seen := map[string]bool{}
		for _, v := range vals {
			k := CollapseSpace(v)
			if seen[k] {
				t.Fatalf("%s has duplicate %q", cat, v)
			}
			seen[k] = true
		}
	}
}

func TestAddDedupIsWhitespaceNormalized(t *testing.T) {
	loc := newLocationEntities()
	if !loc.Add(constants.Kota, "  Bandung   Barat ") {
		t.Fatal("first insert rejected")
	}
	if loc.Add(constants.Kota, "Bandung\tBarat") {
		t.Fatal("whitespace variant inserted")
	}
	if !loc.Add(constants.Kota, "bandung barat") {
		t.Fatal("case variant should be kept")
	}
	if loc.Add(constants.Kota, "   ") {
		t.Fatal("blank value inserted")
	}
	if loc.Add(constants.RTRW, "x") {
		t.Fatal("non-list category accepted")
	}
	if diff := cmp.Diff([]string{"Bandung Barat", "bandung barat"}, loc.Kota); diff != "" {
		t.Fatalf("kota (-want +got):\n%s", diff)
	}
}

func TestCleanAdminName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Baleendah", "Baleendah"},
		{"Baleendah dan sekitarnya", "Baleendah"},
		{"Dayeuhkolot yang mengakibatkan", "Dayeuhkolot"},
		{"Bandung ... RT 04", "Bandung"},
		{"Bandung…", "Bandung"},
		{"Citeureup Indah Permai Raya Sekali", "Citeureup Indah Permai"},
		{"Andir, Kecamatan Baleendah", "Andir"},
		{"Bojong 2 Soang", "Bojong Soang"},
		{"dan Bojongsoang", "dan Bojongsoang"},
		{"Sukapura.", "Sukapura"},
		{"Cibeunying Kaler dengan curah hujan", "Cibeunying Kaler"},
	}
	for _, tc := range cases {
		if got := CleanAdminName(tc.in); got != tc.want {
			t.Errorf("CleanAdminName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractWithCustomTable(t *testing.T) {
	rules := []Rule{{
		Name:     "desa",
		Pattern:  regexp.MustCompile(`(?i)\bDesa\s+([^\n,]+)`),
		Category: constants.Kelurahan,
		Group:    1,
		Clean:    CleanAdminName,
	}}
	got := ExtractWith(rules, "Desa Sukamaju, Desa Sukamaju\nDesa Cikoneng")
	if diff := cmp.Diff([]string{"Sukamaju", "Cikoneng"}, got.Kelurahan); diff != "" {
		t.Fatalf("kelurahan (-want +got):\n%s", diff)
	}
	if len(got.RawMatches) != 3 {
		t.Fatalf("raw matches %q, want 3", got.RawMatches)
	}
}
