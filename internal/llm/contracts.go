package llm

import "context"

// Components is the structured address the model returns for the flood location.
type Components struct {
	Provinsi  *string `json:"provinsi"`
	Kota      *string `json:"kota"`
	Kecamatan *string `json:"kecamatan"`
	Kelurahan *string `json:"kelurahan"`
	RT        *int    `json:"rt"`
	RW        *int    `json:"rw"`
	Area      *string `json:"area"`
}

// FloodLocation is the single most representative location in the letter.
type FloodLocation struct {
	Nama     string     `json:"nama"`
	Komponen Components `json:"komponen"`
}

// LocationOutput is the normalized shape we want from the LLM.
type LocationOutput struct {
	LokasiBanjir              *FloodLocation `json:"lokasi_banjir"`
	NormalizedQueryCandidates []string       `json:"normalized_query_candidates"`
	Ringkasan                 string         `json:"ringkasan"`
}

// Completer sends one system+user exchange and returns the assistant content.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}
