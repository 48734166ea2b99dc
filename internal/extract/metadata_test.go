package extract

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractMetadata(t *testing.T) {
	text := "SURAT PERNYATAAN\n\nSoreang, 12 Maret 2024\nNomor\n 470/123-Kel.Bln\nSifat Penting\nPerihal : Laporan banjir Kelurahan Baleendah"
	got := ExtractMetadata(text)
	want := DocumentMetadata{
		Title:        strp("SURAT PERNYATAAN"),
		Tanggal:      strp("12 Maret 2024"),
		Nomor:        strp("470/123-Kel.Bln"),
		Sifat:        strp("Penting"),
		Perihal:      strp(": Laporan banjir Kelurahan Baleendah"),
		JenisDokumen: strp("surat pernyataan"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("metadata (-want +got):\n%s", diff)
	}
}

func TestExtractMetadataAbsentFields(t *testing.T) {
	got := ExtractMetadata("\n\nLaporan warga\nair setinggi lutut")
	if got.Title == nil || *got.Title != "Laporan warga" {
		t.Fatalf("title = %v", got.Title)
	}
	if got.Tanggal != nil || got.Nomor != nil || got.Sifat != nil || got.Perihal != nil || got.JenisDokumen != nil {
		t.Fatalf("unexpected fields: %+v", got)
	}
	if empty := ExtractMetadata(""); empty != (DocumentMetadata{}) {
		t.Fatalf("expected zero metadata, got %+v", empty)
	}
}

func TestExtractMetadataTitleTruncated(t *testing.T) {
	long := strings.Repeat("é", 250)
	got := ExtractMetadata(long + "\nnext")
	if got.Title == nil || len([]rune(*got.Title)) != 200 {
		t.Fatalf("title not truncated to 200 runes")
	}
}

func TestSuratPernyataanTypo(t *testing.T) {
	got := ExtractMetadata("surat pernytaan warga")
	if got.JenisDokumen == nil {
		t.Fatal("expected jenis_dokumen for PERNYTAAN variant")
	}
}
