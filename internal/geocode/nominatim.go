package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/joseph-ayodele/docgeo/constants"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"

// Nominatim serves both structured and free-text search, limited to Indonesia.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *slog.Logger
}

func NewNominatim(cfg ProviderConfig, client *http.Client, logger *slog.Logger) *Nominatim {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNominatimURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Nominatim{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    newHTTPClient(client, cfg.Timeout),
		logger:    logger,
	}
}

func (n *Nominatim) Name() string { return constants.ProviderNominatim }

func (n *Nominatim) Resolve(ctx context.Context, query string) (*Result, error) {
	params := n.baseParams()
	params.Set("q", query)
	return n.search(ctx, params)
}

func (n *Nominatim) ResolveStructured(ctx context.Context, q StructuredQuery) (*Result, error) {
	params := n.baseParams()
	for k, v := range map[string]string{
		"street":  q.Street,
		"suburb":  q.Suburb,
		"city":    q.City,
		"state":   q.State,
		"country": q.Country,
	} {
		if v != "" {
			params.Set(k, v)
		}
	}
	return n.search(ctx, params)
}

func (n *Nominatim) baseParams() url.Values {
	return url.Values{
		"format":         {"jsonv2"},
		"addressdetails": {"1"},
		"limit":          {"1"},
		"countrycodes":   {"id"},
	}
}

type nominatimPlace struct {
	Lat         json.RawMessage `json:"lat"`
	Lon         json.RawMessage `json:"lon"`
	DisplayName string          `json:"display_name"`
	Class       string          `json:"class"`
	Type        string          `json:"type"`
	Importance  *float64        `json:"importance"`
}

func (n *Nominatim) search(ctx context.Context, params url.Values) (*Result, error) {
	raw, err := getJSON(ctx, n.client, n.baseURL+"?"+params.Encode(), n.userAgent, n.logger)
	if err != nil {
		return nil, err
	}
	var places []nominatimPlace
	if err := json.Unmarshal(raw, &places); err != nil {
		return nil, fmt.Errorf("decode nominatim response: %w", err)
	}
	if len(places) == 0 {
		return nil, nil
	}
	p := places[0]
	lat, err := parseCoord(p.Lat)
	if err != nil {
		return nil, fmt.Errorf("nominatim lat: %w", err)
	}
	lon, err := parseCoord(p.Lon)
	if err != nil {
		return nil, fmt.Errorf("nominatim lon: %w", err)
	}
	return &Result{
		Lat:         lat,
		Lon:         lon,
		DisplayName: p.DisplayName,
		Class:       strPtr(p.Class),
		Type:        strPtr(p.Type),
		Importance:  p.Importance,
	}, nil
}

// parseCoord accepts "-6.99" and -6.99; Nominatim sends strings.
func parseCoord(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseFloat(s, 64)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, err
	}
	return f, nil
}
