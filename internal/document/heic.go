package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/docgeo/internal/common"
	"github.com/joseph-ayodele/docgeo/internal/ocr"
)

// convertHEIC shells out to the configured converter and returns PNG bytes.
func (l *Loader) convertHEIC(ctx context.Context, ext string, data []byte) ([]byte, error) {
	if l.cfg.HeicConverter == "" {
		return nil, common.NewAppError("UNSUPPORTED_FILE",
			"HEIC not supported: set HEIC_CONVERTER to one of: heif-convert | magick | sips",
			common.ErrInvalidInput)
	}

	tmpDir, err := os.MkdirTemp("", "docgeo-heic-*")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	in := filepath.Join(tmpDir, "in."+ext)
	out := filepath.Join(tmpDir, "page.png")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, err
	}

	var args []string
	switch l.cfg.HeicConverter {
	case "heif-convert", "magick":
		args = []string{in, out}
	case "sips":
		args = []string{"-s", "format", "png", in, "--out", out}
	default:
		return nil, common.NewAppError("CONFIG_ERROR",
			fmt.Sprintf("unknown HEIC converter %q", l.cfg.HeicConverter), common.ErrInvalidInput)
	}
	if _, errb, err := l.runner.Run(ctx, l.cfg.HeicConverter, args...); err != nil {
		return nil, fmt.Errorf("%s convert failed: %w: %s", l.cfg.HeicConverter, err, ocr.Truncate(string(errb), 512))
	}

	b, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("HEIC conversion produced no output: %w", err)
	}
	l.logger.Debug("document.heic.converted", "converter", l.cfg.HeicConverter, "bytes", len(b))
	return b, nil
}
