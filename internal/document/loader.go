package document

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/joseph-ayodele/docgeo/constants"
	"github.com/joseph-ayodele/docgeo/internal/common"
	"github.com/joseph-ayodele/docgeo/internal/ocr"
)

var pdfMagic = []byte("%PDF-")

type Config struct {
	Pdftoppm      string // default "pdftoppm"
	DPI           int    // default 200
	MaxPages      int    // default 3
	HeicConverter string // heif-convert | magick | sips; empty rejects HEIC
}

func (c Config) withDefaults() Config {
	if c.Pdftoppm == "" {
		c.Pdftoppm = "pdftoppm"
	}
	if c.DPI <= 0 {
		c.DPI = 200
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 3
	}
	return c
}

// Loader turns an uploaded document into page images (PNG bytes).
type Loader struct {
	cfg    Config
	runner ocr.Runner
	logger *slog.Logger
}

func NewLoader(cfg Config, runner ocr.Runner, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ocr.ExecRunner{Logger: logger}
	}
	return &Loader{cfg: cfg.withDefaults(), runner: runner, logger: logger}
}

// LoadFile reads path and returns its pages.
func (l *Loader) LoadFile(ctx context.Context, path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return l.Load(ctx, filepath.Base(path), data)
}

// Load returns the page images of a document. filename only supplies the
// extension hint; PDF is also recognized by its magic bytes.
func (l *Loader) Load(ctx context.Context, filename string, data []byte) ([][]byte, error) {
	if len(data) == 0 {
		return nil, common.NewAppError("EMPTY_FILE", "document is empty", common.ErrInvalidInput)
	}
	ext := constants.NormalizeExt(filepath.Ext(filename))

	switch {
	case bytes.HasPrefix(data, pdfMagic) || ext == "pdf":
		return l.rasterizePDF(ctx, data)
	case constants.IsHEICExt(ext):
		converted, err := l.convertHEIC(ctx, ext, data)
		if err != nil {
			return nil, err
		}
		return l.decodeImage(converted)
	default:
		return l.decodeImage(data)
	}
}

// decodeImage re-encodes any supported raster format to PNG.
func (l *Loader) decodeImage(data []byte) ([][]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, common.NewAppError("UNSUPPORTED_FILE", "cannot decode image", fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}
	if format == "png" {
		return [][]byte{data}, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	l.logger.Debug("document.image.reencoded", "from", format, "bytes", buf.Len())
	return [][]byte{buf.Bytes()}, nil
}

func (l *Loader) rasterizePDF(ctx context.Context, data []byte) ([][]byte, error) {
	tmpDir, err := os.MkdirTemp("", "docgeo-pdf-*")
	if err != nil {
		return nil, err
	}
	defer func(path string) {
		if err := os.RemoveAll(path); err != nil {
			l.logger.Warn("document.tmp.cleanup_failed", "dir", path, "error", err)
		}
	}(tmpDir)

	in := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, err
	}
	prefix := filepath.Join(tmpDir, "page")

	// pdftoppm -r <dpi> -png -f 1 -l <max> <in.pdf> <tmp/page>
	_, errb, err := l.runner.Run(ctx, l.cfg.Pdftoppm,
		"-r", strconv.Itoa(l.cfg.DPI),
		"-png",
		"-f", "1",
		"-l", strconv.Itoa(l.cfg.MaxPages),
		in, prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, ocr.Truncate(string(errb), 512))
	}

	// prefix-1.png, prefix-2.png, ... (zero padded for long documents)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) > l.cfg.MaxPages {
		matches = matches[:l.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return nil, common.NewAppError("UNSUPPORTED_FILE", "pdftoppm produced no pages", common.ErrInvalidInput)
	}

	pages := make([][]byte, 0, len(matches))
	for _, m := range matches {
		b, err := os.ReadFile(m)
		if err != nil {
			return nil, fmt.Errorf("read page %s: %w", filepath.Base(m), err)
		}
		pages = append(pages, b)
	}
	l.logger.Info("document.pdf.rasterized", "pages", len(pages), "dpi", l.cfg.DPI)
	return pages, nil
}
