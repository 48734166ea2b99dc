package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/docgeo/constants"
)

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// TesseractEngine shells out to the tesseract CLI and reads its TSV output.
type TesseractEngine struct {
	bin         string
	langs       []string
	tessdataDir string
	psm         int
	runner      Runner
	logger      *slog.Logger
}

// NewTesseractEngine resolves the binary and keeps only the configured languages it has installed.
func NewTesseractEngine(ctx context.Context, cfg Config, runner Runner, logger *slog.Logger) (*TesseractEngine, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ExecRunner{Logger: logger}
	}
	if _, err := lookPath(cfg.Tesseract); err != nil {
		return nil, fmt.Errorf("tesseract binary %q: %w", cfg.Tesseract, err)
	}

	e := &TesseractEngine{
		bin:         cfg.Tesseract,
		langs:       cfg.TesseractLangs,
		tessdataDir: cfg.TessdataDir,
		psm:         cfg.PSM,
		runner:      runner,
		logger:      logger,
	}

	args := []string{"--list-langs"}
	if e.tessdataDir != "" {
		args = append(args, "--tessdata-dir", e.tessdataDir)
	}
	out, errb, err := runner.Run(ctx, e.bin, args...)
	if err != nil {
		logger.Warn("ocr.tesseract.list_langs_failed", "error", err, "stderr", Truncate(string(errb), 512))
		return e, nil
	}
	// older builds print the list on stderr
	installed := parseLangList(string(out) + "\n" + string(errb))
	var usable []string
	for _, l := range e.langs {
		if _, ok := installed[l]; ok {
			usable = append(usable, l)
		}
	}
	if len(usable) == 0 {
		return nil, fmt.Errorf("none of languages %v installed for tesseract", e.langs)
	}
	e.langs = usable
	return e, nil
}

func (e *TesseractEngine) Name() string { return constants.EngineTesseract }

// Recognize tries each language in order and reports the one that worked as "tesseract:<lang>".
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (RecognitionResult, error) {
	f, err := os.CreateTemp("", "docgeo-page-*")
	if err != nil {
		return RecognitionResult{}, err
	}
	defer func(path string) {
		if err := os.Remove(path); err != nil {
			e.logger.Warn("failed to remove temp image", "path", path, "error", err)
		}
	}(f.Name())
	if _, err := f.Write(image); err != nil {
		_ = f.Close()
		return RecognitionResult{}, fmt.Errorf("write temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		return RecognitionResult{}, fmt.Errorf("close temp image: %w", err)
	}

	var errs []error
	for _, lang := range e.langs {
		args := []string{f.Name(), "stdout", "-l", lang}
		if e.psm > 0 {
			args = append(args, "--psm", strconv.Itoa(e.psm))
		}
		if e.tessdataDir != "" {
			args = append(args, "--tessdata-dir", e.tessdataDir)
		}
		// tesseract <file> stdout -l <lang> tsv
		args = append(args, "tsv")

		out, errb, err := e.runner.Run(ctx, e.bin, args...)
		if err != nil {
			errs = append(errs, fmt.Errorf("lang %s: %w: %s", lang, err, Truncate(strings.TrimSpace(string(errb)), 256)))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		text, words := parseTSV(out)
		return RecognitionResult{
			Engine: constants.EngineTesseract + ":" + lang,
			Text:   text,
			Words:  words,
		}, nil
	}
	return RecognitionResult{}, fmt.Errorf("tesseract: %w", errors.Join(errs...))
}

func parseLangList(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, ln := range strings.Split(s, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.Contains(ln, " ") {
			continue // header line
		}
		out[ln] = struct{}{}
	}
	return out
}
