//go:build !ocr

package ocr

import (
	"context"
	"errors"
	"log/slog"
)

// ErrOCRNotEnabled is returned when the in-process engine was not compiled in.
// Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("in-process OCR not enabled; rebuild with -tags ocr")

// GosseractEngine is unavailable in this build.
type GosseractEngine struct{}

// NewGosseractEngine always fails without the ocr build tag.
func NewGosseractEngine(context.Context, Config, *slog.Logger) (*GosseractEngine, error) {
	return nil, ErrOCRNotEnabled
}

func (*GosseractEngine) Name() string { return "gosseract" }

func (*GosseractEngine) Recognize(context.Context, []byte) (RecognitionResult, error) {
	return RecognitionResult{}, ErrOCRNotEnabled
}
