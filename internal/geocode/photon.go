package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/joseph-ayodele/docgeo/constants"
)

const DefaultPhotonURL = "https://photon.komoot.io/api/"

// Photon is the secondary free-text geocoder.
type Photon struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *slog.Logger
}

func NewPhoton(cfg ProviderConfig, client *http.Client, logger *slog.Logger) *Photon {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultPhotonURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Photon{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    newHTTPClient(client, cfg.Timeout),
		logger:    logger,
	}
}

func (p *Photon) Name() string { return constants.ProviderPhoton }

type photonResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
		Properties struct {
			Name     string          `json:"name"`
			OSMValue string          `json:"osm_value"`
			Type     string          `json:"type"`
			Extent   json.RawMessage `json:"extent"`
		} `json:"properties"`
	} `json:"features"`
}

func (p *Photon) Resolve(ctx context.Context, query string) (*Result, error) {
	params := url.Values{
		"q":     {query},
		"limit": {"1"},
		"lang":  {"id"},
	}
	raw, err := getJSON(ctx, p.client, p.baseURL+"?"+params.Encode(), p.userAgent, p.logger)
	if err != nil {
		return nil, err
	}
	var out photonResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode photon response: %w", err)
	}
	if len(out.Features) == 0 {
		return nil, nil
	}
	f := out.Features[0]
	if len(f.Geometry.Coordinates) < 2 {
		return nil, nil
	}
	res := &Result{
		Lat:         f.Geometry.Coordinates[1],
		Lon:         f.Geometry.Coordinates[0],
		DisplayName: f.Properties.Name,
		Class:       strPtr(f.Properties.OSMValue),
		Type:        strPtr(f.Properties.Type),
	}
	// extent is usually a bbox array; only a scalar is kept
	var importance float64
	if len(f.Properties.Extent) > 0 && json.Unmarshal(f.Properties.Extent, &importance) == nil {
		res.Importance = &importance
	}
	return res, nil
}
