package ocr

import (
	"context"
	"math"
)

// BBox is an axis-aligned box in image pixels.
type BBox struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Point is one vertex of an engine's native box or polygon.
type Point struct {
	X float64
	Y float64
}

// Word is one recognized token. Confidence is the engine's own value, nil when it reports none.
type Word struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
	BBox       BBox     `json:"bbox"`
}

// RecognitionResult is the output of one engine call on one page.
type RecognitionResult struct {
	Engine string `json:"engine"`
	Text   string `json:"text"`
	Words  []Word `json:"words"`
}

// Engine is a text recognizer for a single page image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (RecognitionResult, error)
}

// BBoxFromPoints derives a box from the min/max of a point list.
// Left/top are truncated first and width/height measured from them.
func BBoxFromPoints(pts []Point) BBox {
	if len(pts) == 0 {
		return BBox{}
	}
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	left, top := int(minX), int(minY)
	return BBox{
		Left:   left,
		Top:    top,
		Width:  int(maxX - float64(left)),
		Height: int(maxY - float64(top)),
	}
}

// RectPoints expands a left/top/width/height box into its corner points.
func RectPoints(left, top, width, height float64) []Point {
	return []Point{
		{X: left, Y: top},
		{X: left + width, Y: top},
		{X: left + width, Y: top + height},
		{X: left, Y: top + height},
	}
}

func confPtr(v float64) *float64 { return &v }
