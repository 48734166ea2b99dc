package pipeline

import (
	"github.com/joseph-ayodele/docgeo/internal/extract"
	"github.com/joseph-ayodele/docgeo/internal/geocode"
	"github.com/joseph-ayodele/docgeo/internal/llm"
	"github.com/joseph-ayodele/docgeo/internal/ocr"
)

// PageResult is everything derived from one page image.
type PageResult struct {
	Index       int                      `json:"index"`
	Recognition ocr.RecognitionResult    `json:"recognition"`
	Text        ocr.NormalizedText       `json:"text"`
	Metadata    extract.DocumentMetadata `json:"metadata"`
	Locations   extract.LocationEntities `json:"locations"`
	Geocoding   geocode.Outcome          `json:"geocoding"`
	LLM         *llm.LocationOutput      `json:"llm"`
}

// PageError records a page dropped from aggregation.
type PageError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// FinalRecord is the caller-facing projection of the best page.
type FinalRecord struct {
	Message string   `json:"message"`
	Lokasi  string   `json:"lokasi"`
	Lat     *float64 `json:"lat"`
	Long    *float64 `json:"long"`
}

// DocumentResult carries the record plus the provenance needed to persist it.
type DocumentResult struct {
	Record   FinalRecord  `json:"record"`
	Engine   string       `json:"engine"`
	BestPage int          `json:"best_page"`
	Pages    []PageResult `json:"pages"`
	Failed   []PageError  `json:"failed,omitempty"`
}

// Records is the wire shape: a list holding the single record.
func (d DocumentResult) Records() []FinalRecord {
	return []FinalRecord{d.Record}
}
