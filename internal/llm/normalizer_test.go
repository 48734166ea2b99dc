package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/docgeo/internal/extract"
)

type fakeCompleter struct {
	content string
	err     error
	system  string
	prompt  string
}

func (f *fakeCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	f.system, f.prompt = system, prompt
	return f.content, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func TestNormalizeValidOutput(t *testing.T) {
	fc := &fakeCompleter{content: "```json\n" + `{
		"lokasi_banjir": {"nama": "Kp. Citeureup RT 03/RW 12", "komponen": {"provinsi": "Jawa Barat", "kota": "Bandung", "kecamatan": "Dayeuhkolot", "kelurahan": "Citeureup", "rt": "03", "rw": 12, "area": ""}},
		"normalized_query_candidates": ["Citeureup, Dayeuhkolot, Bandung", 7, null, "  "],
		"ringkasan": " Banjir setinggi 1 meter. "
	}` + "\n```"}
	n := NewLocationNormalizer(fc, quietLogger())

	got := n.Normalize(context.Background(), "teks surat", extract.LocationEntities{})
	want := &LocationOutput{
		LokasiBanjir: &FloodLocation{
			Nama: "Kp. Citeureup RT 03/RW 12",
			Komponen: Components{
				Provinsi:  strp("Jawa Barat"),
				Kota:      strp("Bandung"),
				Kecamatan: strp("Dayeuhkolot"),
				Kelurahan: strp("Citeureup"),
				RT:        intp(3),
				RW:        intp(12),
			},
		},
		NormalizedQueryCandidates: []string{"Citeureup, Dayeuhkolot, Bandung"},
		Ringkasan:                 "Banjir setinggi 1 meter.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
	if fc.system != SystemPrompt || !strings.HasPrefix(fc.prompt, "INSTRUKSI\n") {
		t.Errorf("unexpected request: system=%q prompt=%.20q", fc.system, fc.prompt)
	}
}

func TestNormalizeFailuresYieldNil(t *testing.T) {
	cases := []struct {
		name string
		fc   *fakeCompleter
	}{
		{"completer error", &fakeCompleter{err: errors.New("connection refused")}},
		{"no json", &fakeCompleter{content: "Maaf, saya tidak bisa membantu."}},
		{"truncated json", &fakeCompleter{content: `{"ringkasan": "banjir"`}},
		{"schema mismatch", &fakeCompleter{content: `{"ringkasan": 5}`}},
	}
	for _, c := range cases {
		n := NewLocationNormalizer(c.fc, quietLogger())
		if got := n.Normalize(context.Background(), "x", extract.LocationEntities{}); got != nil {
			t.Errorf("%s: got %+v, want nil", c.name, got)
		}
	}
}

func TestNormalizeDisabled(t *testing.T) {
	n := NewLocationNormalizer(nil, quietLogger())
	if n.Enabled() {
		t.Fatal("nil completer should disable the normalizer")
	}
	if got := n.Normalize(context.Background(), "x", extract.LocationEntities{}); got != nil {
		t.Errorf("got %+v, want nil", got)
	}

	var nilNormalizer *LocationNormalizer
	if got := nilNormalizer.Normalize(context.Background(), "x", extract.LocationEntities{}); got != nil {
		t.Errorf("nil normalizer: got %+v", got)
	}
}

func TestSanitizeLocationJSONNonObjectLocation(t *testing.T) {
	out, dropped, err := SanitizeLocationJSON([]byte(`{"lokasi_banjir": "Bandung", "ringkasan": "x"}`), quietLogger())
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if diff := cmp.Diff([]string{"lokasi_banjir(type)"}, dropped); diff != "" {
		t.Errorf("dropped (-want +got):\n%s", diff)
	}
	if err := ValidateJSONAgainstSchema(BuildLocationJSONSchema(), out); err != nil {
		t.Errorf("sanitized output should validate: %v", err)
	}
}
