package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/docgeo/internal/common"
	"github.com/joseph-ayodele/docgeo/internal/extract"
	"github.com/joseph-ayodele/docgeo/internal/geocode"
	"github.com/joseph-ayodele/docgeo/internal/llm"
	"github.com/joseph-ayodele/docgeo/internal/ocr"
)

// Recognizer is the active recognition engine (ocr.Recognizer).
type Recognizer interface {
	Engine() string
	Recognize(ctx context.Context, image []byte) (ocr.RecognitionResult, error)
}

// LocationResolver turns query candidates into coordinates (geocode.Resolver).
type LocationResolver interface {
	Resolve(ctx context.Context, structured []geocode.StructuredQuery, freeText func(ctx context.Context) []string) geocode.Outcome
}

// LocationNormalizer is the optional model step (llm.LocationNormalizer).
type LocationNormalizer interface {
	Normalize(ctx context.Context, text string, loc extract.LocationEntities) *llm.LocationOutput
}

type Config struct {
	PageWorkers int // default 2
}

// Processor runs recognition, extraction, normalization and geocoding per page,
// then picks the best page of a document.
type Processor struct {
	cfg        Config
	recognizer Recognizer
	resolver   LocationResolver
	normalizer LocationNormalizer
	logger     *slog.Logger
}

// NewProcessor fails without a recognizer. resolver and normalizer may be nil.
func NewProcessor(cfg Config, recognizer Recognizer, resolver LocationResolver, normalizer LocationNormalizer, logger *slog.Logger) (*Processor, error) {
	if recognizer == nil {
		return nil, common.NewAppError("ENGINE_UNAVAILABLE", "processor requires a recognition engine", common.ErrEngineUnavailable)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PageWorkers <= 0 {
		cfg.PageWorkers = 2
	}
	return &Processor{
		cfg:        cfg,
		recognizer: recognizer,
		resolver:   resolver,
		normalizer: normalizer,
		logger:     logger,
	}, nil
}

// Engine reports the active recognition engine.
func (p *Processor) Engine() string { return p.recognizer.Engine() }

// ProcessPage runs the full chain on one page image. The model call overlaps the
// structured geocoding phase; its candidates are only awaited when free-text
// queries are needed.
func (p *Processor) ProcessPage(ctx context.Context, index int, image []byte) (PageResult, error) {
	start := time.Now()
	res := PageResult{Index: index}

	rec, err := p.recognizer.Recognize(ctx, image)
	if err != nil {
		return res, err
	}
	res.Recognition = rec
	res.Text = ocr.NormalizeText(rec.Text)
	res.Metadata = extract.ExtractMetadata(res.Text.Normalized)
	res.Locations = extract.ExtractLocations(res.Text.Normalized)

	llmOut := p.startNormalize(ctx, res.Text.Normalized, res.Locations)
	freeText := func(context.Context) []string {
		var external []string
		if out := llmOut(); out != nil {
			external = out.NormalizedQueryCandidates
		}
		return geocode.BuildFreeText(res.Locations, external)
	}

	if p.resolver != nil {
		res.Geocoding = p.resolver.Resolve(ctx, geocode.BuildStructured(res.Locations), freeText)
	} else {
		res.Geocoding = geocode.Outcome{Enabled: false, Attempts: []geocode.Attempt{}}
	}
	res.LLM = llmOut()

	p.logger.Info("pipeline.page.ok",
		"page", index,
		"engine", rec.Engine,
		"text_len", len(res.Text.Normalized),
		"geocoded", res.Geocoding.Primary != nil,
		"llm", res.LLM != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// startNormalize launches the model call and returns a function that waits for it.
func (p *Processor) startNormalize(ctx context.Context, text string, loc extract.LocationEntities) func() *llm.LocationOutput {
	if p.normalizer == nil {
		return func() *llm.LocationOutput { return nil }
	}
	done := make(chan *llm.LocationOutput, 1)
	go func() {
		done <- p.normalizer.Normalize(ctx, text, loc)
	}()
	var once sync.Once
	var out *llm.LocationOutput
	return func() *llm.LocationOutput {
		once.Do(func() { out = <-done })
		return out
	}
}

// ProcessDocument processes pages with bounded parallelism. Failed pages are
// dropped; the page with the longest normalized text wins, earliest on ties.
func (p *Processor) ProcessDocument(ctx context.Context, pages [][]byte) (DocumentResult, error) {
	if len(pages) == 0 {
		return DocumentResult{}, common.NewAppError("EMPTY_DOCUMENT", "document has no pages", common.ErrInvalidInput)
	}
	start := time.Now()

	results := make([]*PageResult, len(pages))
	errs := make([]error, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.PageWorkers)
	for i, img := range pages {
		g.Go(func() error {
			res, err := p.ProcessPage(gctx, i, img)
			if err != nil {
				p.logger.Warn("pipeline.page.failed", "page", i, "error", err)
				errs[i] = err
				return nil
			}
			results[i] = &res
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return DocumentResult{}, err
	}

	out := DocumentResult{Engine: p.recognizer.Engine(), BestPage: -1, Pages: []PageResult{}}
	for i, r := range results {
		if r == nil {
			out.Failed = append(out.Failed, PageError{Index: i, Error: errs[i].Error()})
			continue
		}
		out.Pages = append(out.Pages, *r)
	}
	if len(out.Pages) == 0 {
		p.logger.Error("pipeline.document.failed", "pages", len(pages))
		return out, common.NewAppError("ALL_PAGES_FAILED",
			fmt.Sprintf("%d of %d pages failed", len(pages), len(pages)),
			fmt.Errorf("%w: %w", common.ErrAllPagesFailed, errors.Join(errs...)))
	}

	best := bestPage(out.Pages)
	out.BestPage = best.Index
	out.Record = Project(best)
	if best.Recognition.Engine != "" {
		out.Engine = best.Recognition.Engine
	}

	p.logger.Info("pipeline.document.ok",
		"pages", len(pages),
		"failed", len(out.Failed),
		"best_page", out.BestPage,
		"engine", out.Engine,
		"geocoded", out.Record.Lat != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// bestPage picks the longest normalized text; pages must be in index order.
func bestPage(pages []PageResult) PageResult {
	sorted := append([]PageResult(nil), pages...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Text.Normalized) > len(sorted[j].Text.Normalized)
	})
	return sorted[0]
}

// Project builds the caller-facing record from one page.
func Project(page PageResult) FinalRecord {
	var rec FinalRecord
	if page.LLM != nil {
		rec.Message = page.LLM.Ringkasan
		if page.LLM.LokasiBanjir != nil {
			rec.Lokasi = strings.TrimSpace(page.LLM.LokasiBanjir.Nama)
		}
		if rec.Lokasi == "" {
			for _, c := range page.LLM.NormalizedQueryCandidates {
				if c = strings.TrimSpace(c); c != "" {
					rec.Lokasi = c
					break
				}
			}
		}
	}
	if primary := page.Geocoding.Primary; primary != nil {
		if rec.Lokasi == "" {
			rec.Lokasi = primary.DisplayName
		}
		lat, lon := primary.Lat, primary.Lon
		rec.Lat, rec.Long = &lat, &lon
	}
	return rec
}
