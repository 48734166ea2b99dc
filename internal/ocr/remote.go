package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/joseph-ayodele/docgeo/constants"
)

// RemoteEngine posts page images to an OCR inference service (PaddleOCR or
// EasyOCR behind HTTP) that answers with polygon lines.
type RemoteEngine struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// remoteResponse is the inference service contract. Points are the engine's
// native quadrilateral; confidence is 0..1 or absent.
type remoteResponse struct {
	Engine string `json:"engine"`
	Lines  []struct {
		Text       string       `json:"text"`
		Confidence *float64     `json:"confidence"`
		Points     [][2]float64 `json:"points"`
	} `json:"lines"`
}

// NewRemoteEngine probes the service health endpoint once.
func NewRemoteEngine(ctx context.Context, cfg Config, client *http.Client, logger *slog.Logger) (*RemoteEngine, error) {
	cfg = cfg.withDefaults()
	if cfg.RemoteURL == "" {
		return nil, errors.New("remote OCR disabled: no URL configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	health := cfg.RemoteHealthURL
	if health == "" {
		health = strings.TrimRight(cfg.RemoteURL, "/") + "/health"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, health, nil)
	if err != nil {
		return nil, fmt.Errorf("build health request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote OCR health: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote OCR unhealthy: %d", resp.StatusCode)
	}
	return &RemoteEngine{url: cfg.RemoteURL, client: client, logger: logger}, nil
}

func (e *RemoteEngine) Name() string { return constants.EngineRemote }

func (e *RemoteEngine) Recognize(ctx context.Context, image []byte) (RecognitionResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "page.png")
	if err != nil {
		return RecognitionResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return RecognitionResult{}, fmt.Errorf("copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return RecognitionResult{}, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, body)
	if err != nil {
		return RecognitionResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return RecognitionResult{}, fmt.Errorf("send request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			e.logger.Warn("ocr.remote.body_close_error", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return RecognitionResult{}, fmt.Errorf("inference failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return RecognitionResult{}, fmt.Errorf("decode response: %w", err)
	}

	res := RecognitionResult{Engine: constants.EngineRemote}
	if out.Engine != "" {
		res.Engine = constants.EngineRemote + ":" + out.Engine
	}
	texts := make([]string, 0, len(out.Lines))
	for _, ln := range out.Lines {
		pts := make([]Point, 0, len(ln.Points))
		for _, p := range ln.Points {
			pts = append(pts, Point{X: p[0], Y: p[1]})
		}
		texts = append(texts, ln.Text)
		res.Words = append(res.Words, Word{
			Text:       ln.Text,
			Confidence: ln.Confidence,
			BBox:       BBoxFromPoints(pts),
		})
	}
	res.Text = strings.Join(texts, "\n")
	return res, nil
}
