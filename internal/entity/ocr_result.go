package entity

import (
	"time"

	"github.com/google/uuid"
)

// OCRResult is a stored document resolution for data transfer between layers.
type OCRResult struct {
	ID         uuid.UUID `json:"id"`
	Message    string    `json:"message"`
	Lokasi     string    `json:"lokasi"`
	Latitude   *float64  `json:"lat"`
	Longitude  *float64  `json:"long"`
	SourceFile string    `json:"source_file"`
	Engine     string    `json:"engine"`
	CreatedAt  time.Time `json:"created_at"`
}
