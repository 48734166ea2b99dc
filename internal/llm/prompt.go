package llm

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/joseph-ayodele/docgeo/internal/extract"
)

// SystemPrompt accompanies every location prompt.
const SystemPrompt = "Kembalikan hanya JSON sesuai skema."

// MaxPromptTextRunes bounds the TEKS section.
const MaxPromptTextRunes = 2000

const locationInstruction = "Anda asisten ekstraksi alamat Indonesia. Kembalikan JSON valid sesuai skema. " +
	"Normalisasikan alamat dan pilih satu lokasi_banjir paling representatif. " +
	"Jangan keluarkan teks selain JSON."

const locationSchemaExample = `{"lokasi_banjir": {"nama": "string", "komponen": {"provinsi": "string|null", "kota": "string|null", "kecamatan": "string|null", "kelurahan": "string|null", "rt": 0, "rw": 0, "area": "string|null"}}, "normalized_query_candidates": ["string"], "ringkasan": "string"}`

// promptEntities is the compact entity view shown to the model.
type promptEntities struct {
	Kota      []string       `json:"kota"`
	Kecamatan []string       `json:"kecamatan"`
	Kelurahan []string       `json:"kelurahan"`
	Alamat    []string       `json:"alamat"`
	Perumahan []string       `json:"perumahan"`
	RTRW      []extract.RTRW `json:"rt_rw"`
}

// BuildLocationPrompt renders the INSTRUKSI, SKEMA, ENTITAS_LOKASI and TEKS sections.
func BuildLocationPrompt(text string, loc extract.LocationEntities) string {
	var b strings.Builder
	b.WriteString("INSTRUKSI\n")
	b.WriteString(locationInstruction)
	b.WriteString("\n\nSKEMA\n")
	b.WriteString(locationSchemaExample)
	b.WriteString("\n\nENTITAS_LOKASI\n")
	b.WriteString(compactJSON(promptEntities{
		Kota:      loc.Kota,
		Kecamatan: loc.Kecamatan,
		Kelurahan: loc.Kelurahan,
		Alamat:    loc.Alamat,
		Perumahan: loc.Perumahan,
		RTRW:      loc.RTRW,
	}))
	b.WriteString("\n\nTEKS\n")
	b.WriteString(truncateRunes(text, MaxPromptTextRunes))
	return b.String()
}

func compactJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "{}"
	}
	return strings.TrimSpace(buf.String())
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
