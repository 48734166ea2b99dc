//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/joseph-ayodele/docgeo/constants"
)

// GosseractEngine runs Tesseract in-process through cgo bindings.
type GosseractEngine struct {
	langs       []string
	tessdataDir string
	logger      *slog.Logger
}

// NewGosseractEngine verifies the library loads with the first configured language.
func NewGosseractEngine(_ context.Context, cfg Config, logger *slog.Logger) (*GosseractEngine, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	e := &GosseractEngine{langs: cfg.TesseractLangs, tessdataDir: cfg.TessdataDir, logger: logger}

	c := e.newClient()
	defer c.Close()
	if err := c.SetLanguage(e.langs[0]); err != nil {
		return nil, fmt.Errorf("gosseract language %s: %w", e.langs[0], err)
	}
	logger.Debug("ocr.gosseract.ready", "version", c.Version(), "langs", strings.Join(e.langs, ","))
	return e, nil
}

func (e *GosseractEngine) newClient() *gosseract.Client {
	c := gosseract.NewClient()
	if e.tessdataDir != "" {
		c.TessdataPrefix = e.tessdataDir
	}
	return c
}

func (e *GosseractEngine) Name() string { return constants.EngineGosseract }

// Recognize uses a fresh client per call; clients are not safe for concurrent use.
func (e *GosseractEngine) Recognize(ctx context.Context, image []byte) (RecognitionResult, error) {
	var lastErr error
	for _, lang := range e.langs {
		if err := ctx.Err(); err != nil {
			return RecognitionResult{}, err
		}
		res, err := e.recognizeLang(image, lang)
		if err != nil {
			lastErr = err
			e.logger.Debug("ocr.gosseract.lang_failed", "lang", lang, "error", err)
			continue
		}
		return res, nil
	}
	return RecognitionResult{}, lastErr
}

func (e *GosseractEngine) recognizeLang(image []byte, lang string) (RecognitionResult, error) {
	c := e.newClient()
	defer c.Close()

	if err := c.SetLanguage(lang); err != nil {
		return RecognitionResult{}, fmt.Errorf("set language: %w", err)
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return RecognitionResult{}, fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return RecognitionResult{}, fmt.Errorf("recognize text: %w", err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return RecognitionResult{}, fmt.Errorf("bounding boxes: %w", err)
	}
	words := make([]Word, 0, len(boxes))
	for _, b := range boxes {
		if strings.TrimSpace(b.Word) == "" {
			continue
		}
		pts := []Point{
			{X: float64(b.Box.Min.X), Y: float64(b.Box.Min.Y)},
			{X: float64(b.Box.Max.X), Y: float64(b.Box.Max.Y)},
		}
		words = append(words, Word{
			Text:       b.Word,
			Confidence: confPtr(b.Confidence),
			BBox:       BBoxFromPoints(pts),
		})
	}
	return RecognitionResult{
		Engine: constants.EngineGosseract + ":" + lang,
		Text:   text,
		Words:  words,
	}, nil
}
