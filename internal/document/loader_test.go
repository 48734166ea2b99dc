package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/docgeo/internal/common"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tinyImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return img
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, tinyImage()); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// fakeRunner writes pages PNG files next to the output prefix (last argument).
type fakeRunner struct {
	pages int
	png   []byte
	name  string
	args  []string
	err   error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.name, f.args = name, args
	if f.err != nil {
		return nil, []byte("boom"), f.err
	}
	prefix := args[len(args)-1]
	for i := 1; i <= f.pages; i++ {
		if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), f.png, 0o600); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, nil
}

func TestLoadPDFLimitsPages(t *testing.T) {
	r := &fakeRunner{pages: 5, png: pngBytes(t)}
	l := NewLoader(Config{DPI: 150, MaxPages: 3}, r, quietLogger())

	pages, err := l.Load(context.Background(), "upload.bin", []byte("%PDF-1.7 fake"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("pages = %d, want 3", len(pages))
	}
	if r.name != "pdftoppm" {
		t.Errorf("command = %q", r.name)
	}
	want := []string{"-r", "150", "-png", "-f", "1", "-l", "3"}
	if diff := cmp.Diff(want, r.args[:len(want)]); diff != "" {
		t.Errorf("args (-want +got):\n%s", diff)
	}
	if filepath.Ext(r.args[len(want)]) != ".pdf" {
		t.Errorf("input arg = %q", r.args[len(want)])
	}
}

func TestLoadPDFRasterizerFails(t *testing.T) {
	r := &fakeRunner{err: errors.New("exit status 1")}
	l := NewLoader(Config{}, r, quietLogger())
	if _, err := l.Load(context.Background(), "a.pdf", []byte("not really")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadPDFNoPages(t *testing.T) {
	l := NewLoader(Config{}, &fakeRunner{}, quietLogger())
	_, err := l.Load(context.Background(), "a.pdf", []byte("%PDF-"))
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestLoadImageReencodesToPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, tinyImage(), nil); err != nil {
		t.Fatal(err)
	}
	l := NewLoader(Config{}, &fakeRunner{}, quietLogger())

	pages, err := l.Load(context.Background(), "scan.jpg", buf.Bytes())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("pages = %d", len(pages))
	}
	if _, err := png.Decode(bytes.NewReader(pages[0])); err != nil {
		t.Errorf("page is not PNG: %v", err)
	}
}

func TestLoadPNGPassthrough(t *testing.T) {
	data := pngBytes(t)
	l := NewLoader(Config{}, &fakeRunner{}, quietLogger())
	pages, err := l.Load(context.Background(), "scan.png", data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(pages[0], data) {
		t.Error("png should be passed through unchanged")
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	l := NewLoader(Config{}, &fakeRunner{}, quietLogger())
	for name, data := range map[string][]byte{
		"empty":   nil,
		"garbage": []byte("hello world"),
	} {
		if _, err := l.Load(context.Background(), "x.png", data); !errors.Is(err, common.ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", name, err)
		}
	}
}

func TestLoadHEIC(t *testing.T) {
	l := NewLoader(Config{}, &fakeRunner{}, quietLogger())
	if _, err := l.Load(context.Background(), "photo.heic", []byte("heic")); !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("without converter: err = %v, want ErrInvalidInput", err)
	}

	// sips writes to the path after --out, which is also the last argument
	r := &fakeRunner{png: pngBytes(t)}
	l = NewLoader(Config{HeicConverter: "sips"}, &heicRunner{r}, quietLogger())
	pages, err := l.Load(context.Background(), "photo.HEIC", []byte("heic"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pages) != 1 || r.name != "sips" {
		t.Errorf("pages=%d command=%q", len(pages), r.name)
	}
}

// heicRunner writes the converted PNG to the output path.
type heicRunner struct{ *fakeRunner }

func (h *heicRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	h.name, h.args = name, args
	return nil, nil, os.WriteFile(args[len(args)-1], h.png, 0o600)
}
