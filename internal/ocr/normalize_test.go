package ocr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeRules(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf", "a\r\nb\r\n", "a\nb"},
		{"trailing per line", "a  \t\nb \n", "a\nb"},
		{"blank runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"whitespace-only lines count as blank", "a\n  \n\t\n \nb", "a\n\nb"},
		{"horizontal runs", "Kelurahan \t  Baleendah", "Kelurahan Baleendah"},
		{"outer trim", "\n\n  hello  \n\n", "hello"},
		{"nfc", "Cafe\u0301", "Caf\u00e9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"\r\r\n",
		"SURAT PERNYATAAN\r\n\r\n\r\n  Nomor :  123/ABC  \n\t\n\n\nKelurahan  Baleendah,\tKecamatan Baleendah  ",
		" \t a \t\t b \n \n \n c \t",
		"x\n\n\n\n\n\n",
		" lead and trail ",
		"one\n \n\t\ntwo\n\n\n\nthree",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	raw := "SURAT PERNYATAAN\r\n\r\nNomor : 12/2024  \n Sifat : Penting\n\n\n\nPerihal banjir"
	got := NormalizeText(raw)
	want := NormalizedText{
		Normalized: "SURAT PERNYATAAN\n\nNomor : 12/2024\n Sifat : Penting\n\nPerihal banjir",
		Lines:      []string{"SURAT PERNYATAAN", "Nomor : 12/2024", "Sifat : Penting", "Perihal banjir"},
		Paragraphs: []string{"SURAT PERNYATAAN", "Nomor : 12/2024\n Sifat : Penting", "Perihal banjir"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("NormalizeText mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeTextEmpty(t *testing.T) {
	got := NormalizeText("  \n\n ")
	if got.Normalized != "" || len(got.Lines) != 0 || len(got.Paragraphs) != 0 {
		t.Fatalf("expected empty view, got %+v", got)
	}
}
