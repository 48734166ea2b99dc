package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/docgeo/constants"
	"github.com/joseph-ayodele/docgeo/internal/common"
)

type Config struct {
	Engines []string // priority order; default constants.DefaultEngineOrder

	Tesseract      string   // binary name or absolute path; if empty -> "tesseract"
	TesseractLangs []string // tried in order; default ind, eng
	TessdataDir    string
	PSM            int // 0 = tesseract default

	RemoteURL       string // inference endpoint; engine disabled when empty
	RemoteHealthURL string // probed at startup; defaults to RemoteURL

	Timeout time.Duration // per recognition call, default 60s
}

func (c Config) withDefaults() Config {
	if len(c.Engines) == 0 {
		c.Engines = constants.DefaultEngineOrder
	}
	if c.Tesseract == "" {
		c.Tesseract = "tesseract"
	}
	if len(c.TesseractLangs) == 0 {
		c.TesseractLangs = []string{"ind", "eng"}
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return c
}

// Factory initializes one engine. Init fails when the engine cannot serve.
type Factory struct {
	Name string
	Init func(ctx context.Context) (Engine, error)
}

// Factories maps cfg.Engines onto engine constructors, keeping the configured order.
func Factories(cfg Config, runner Runner, logger *slog.Logger) []Factory {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	if runner == nil {
		runner = ExecRunner{Logger: logger}
	}

	out := make([]Factory, 0, len(cfg.Engines))
	for _, name := range cfg.Engines {
		switch name {
		case constants.EngineRemote:
			out = append(out, Factory{Name: name, Init: func(ctx context.Context) (Engine, error) {
				return NewRemoteEngine(ctx, cfg, nil, logger)
			}})
		case constants.EngineGosseract:
			out = append(out, Factory{Name: name, Init: func(ctx context.Context) (Engine, error) {
				return NewGosseractEngine(ctx, cfg, logger)
			}})
		case constants.EngineTesseract:
			out = append(out, Factory{Name: name, Init: func(ctx context.Context) (Engine, error) {
				return NewTesseractEngine(ctx, cfg, runner, logger)
			}})
		default:
			logger.Warn("ocr.engine.unknown", "engine", name)
		}
	}
	return out
}

// Recognizer is the process-wide active engine. It is chosen once by
// SelectEngine and never changes afterwards.
type Recognizer struct {
	engine  Engine
	timeout time.Duration
	logger  *slog.Logger
}

// SelectEngine returns a Recognizer around the first factory that initializes.
func SelectEngine(ctx context.Context, factories []Factory, timeout time.Duration, logger *slog.Logger) (*Recognizer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	for _, f := range factories {
		eng, err := f.Init(ctx)
		if err != nil {
			logger.Info("ocr.engine.skip", "engine", f.Name, "error", err)
			continue
		}
		logger.Info("ocr.engine.selected", "engine", eng.Name())
		return &Recognizer{engine: eng, timeout: timeout, logger: logger}, nil
	}
	logger.Error("ocr.engine.none", "tried", len(factories))
	return nil, common.NewAppError("ENGINE_UNAVAILABLE",
		fmt.Sprintf("none of %d configured engines initialized", len(factories)),
		common.ErrEngineUnavailable)
}

// NewRecognizer wraps an already initialized engine.
func NewRecognizer(engine Engine, timeout time.Duration, logger *slog.Logger) (*Recognizer, error) {
	if engine == nil {
		return nil, common.NewAppError("ENGINE_UNAVAILABLE", "nil engine", common.ErrEngineUnavailable)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Recognizer{engine: engine, timeout: timeout, logger: logger}, nil
}

// Engine reports the active engine name.
func (r *Recognizer) Engine() string { return r.engine.Name() }

// Recognize runs the active engine once. Failures are not retried on other engines.
func (r *Recognizer) Recognize(ctx context.Context, image []byte) (RecognitionResult, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.engine.Recognize(ctx, image)
	if err != nil {
		r.logger.Warn("ocr.recognize.failed",
			"engine", r.engine.Name(),
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return RecognitionResult{}, fmt.Errorf("%w: %s: %w", common.ErrRecognitionFailed, r.engine.Name(), err)
	}
	if res.Engine == "" {
		res.Engine = r.engine.Name()
	}
	r.logger.Debug("ocr.recognize.ok",
		"engine", res.Engine,
		"text_len", len(res.Text),
		"words", len(res.Words),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}
