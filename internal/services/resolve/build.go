package resolve

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/docgeo/internal/common"
	"github.com/joseph-ayodele/docgeo/internal/document"
	"github.com/joseph-ayodele/docgeo/internal/geocode"
	"github.com/joseph-ayodele/docgeo/internal/llm"
	"github.com/joseph-ayodele/docgeo/internal/llm/openrouter"
	"github.com/joseph-ayodele/docgeo/internal/ocr"
	"github.com/joseph-ayodele/docgeo/internal/pipeline"
	"github.com/joseph-ayodele/docgeo/internal/repository"
)

// Build selects the recognition engine once and wires loader, geocoders and the
// optional model step into a Service. It fails with ErrEngineUnavailable when no
// engine initializes.
func Build(ctx context.Context, cfg *common.Config, results repository.OCRResultRepository, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	runner := ocr.ExecRunner{Logger: logger}

	ocrCfg := ocr.Config{
		Engines:         cfg.OCR.Engines,
		Tesseract:       cfg.OCR.Tesseract,
		TesseractLangs:  cfg.OCR.TesseractLangs,
		TessdataDir:     cfg.OCR.TessdataDir,
		RemoteURL:       cfg.OCR.RemoteURL,
		RemoteHealthURL: cfg.OCR.RemoteHealth,
		Timeout:         cfg.OCR.Timeout,
	}
	recognizer, err := ocr.SelectEngine(ctx, ocr.Factories(ocrCfg, runner, logger), cfg.OCR.Timeout, logger)
	if err != nil {
		return nil, err
	}

	loader := document.NewLoader(document.Config{
		Pdftoppm:      cfg.OCR.Pdftoppm,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
		HeicConverter: cfg.OCR.HeicConverter,
	}, runner, logger)

	throttles := geocode.NewThrottleRegistry(cfg.Geocode.MinInterval)
	nominatim := geocode.NewNominatim(geocode.ProviderConfig{
		BaseURL:   cfg.Geocode.NominatimURL,
		UserAgent: cfg.Geocode.UserAgent,
		Timeout:   cfg.Geocode.Timeout,
	}, nil, logger)
	photon := geocode.NewPhoton(geocode.ProviderConfig{
		BaseURL:   cfg.Geocode.PhotonURL,
		UserAgent: cfg.Geocode.UserAgent,
		Timeout:   cfg.Geocode.Timeout,
	}, nil, logger)
	resolver := geocode.NewResolver(geocode.ResolverConfig{
		Enabled:     cfg.Geocode.Enabled,
		MinInterval: cfg.Geocode.MinInterval,
	}, nominatim, nominatim, photon, throttles, logger)

	var normalizer pipeline.LocationNormalizer
	switch {
	case !cfg.LLM.Enabled:
		logger.Info("llm.location.disabled", "reason", "LLM_ENABLED=false")
	case cfg.LLM.APIKey == "":
		logger.Info("llm.location.disabled", "reason", "OPENROUTER_API_KEY not set")
	default:
		client := openrouter.NewClient(openrouter.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Referer:     cfg.LLM.Referer,
			Title:       cfg.LLM.Title,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
		normalizer = llm.NewLocationNormalizer(client, logger)
	}

	proc, err := pipeline.NewProcessor(pipeline.Config{PageWorkers: cfg.Pipeline.PageWorkers}, recognizer, resolver, normalizer, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("resolve.ready",
		"engine", proc.Engine(),
		"geocode", cfg.Geocode.Enabled,
		"llm", normalizer != nil,
		"persist", results != nil,
	)
	return NewService(loader, proc, results, logger), nil
}
