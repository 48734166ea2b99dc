package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNominatimStructured(t *testing.T) {
	var got url.Values
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		ua = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[{"lat":"-6.9951","lon":"107.6263","display_name":"Baleendah, Bandung","class":"boundary","type":"administrative","importance":0.41}]`))
	}))
	defer srv.Close()

	n := NewNominatim(ProviderConfig{BaseURL: srv.URL, UserAgent: "docgeo-test"}, nil, quietLogger())
	res, err := n.ResolveStructured(context.Background(), StructuredQuery{Suburb: "Baleendah", City: "Bandung", Country: "Indonesia"})
	if err != nil {
		t.Fatalf("ResolveStructured: %v", err)
	}

	want := url.Values{
		"format":         {"jsonv2"},
		"addressdetails": {"1"},
		"limit":          {"1"},
		"countrycodes":   {"id"},
		"suburb":         {"Baleendah"},
		"city":           {"Bandung"},
		"country":        {"Indonesia"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("params (-want +got):\n%s", diff)
	}
	if ua != "docgeo-test" {
		t.Errorf("user agent = %q", ua)
	}
	if res == nil || res.Lat != -6.9951 || res.Lon != 107.6263 || res.DisplayName != "Baleendah, Bandung" {
		t.Fatalf("result = %+v", res)
	}
	if res.Class == nil || *res.Class != "boundary" || res.Importance == nil || *res.Importance != 0.41 {
		t.Errorf("result extras = %+v", res)
	}
}

func TestNominatimFreeTextNoMatch(t *testing.T) {
	var q string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	n := NewNominatim(ProviderConfig{BaseURL: srv.URL, UserAgent: "docgeo-test"}, nil, quietLogger())
	res, err := n.Resolve(context.Background(), "Bandung, Indonesia")
	if err != nil || res != nil {
		t.Fatalf("Resolve = %+v, %v; want nil, nil", res, err)
	}
	if q != "Bandung, Indonesia" {
		t.Errorf("q = %q", q)
	}
}

func TestNominatimHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	n := NewNominatim(ProviderConfig{BaseURL: srv.URL, UserAgent: "docgeo-test"}, nil, quietLogger())
	if _, err := n.Resolve(context.Background(), "x"); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestPhoton(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{"features":[{"geometry":{"coordinates":[107.63,-6.98]},"properties":{"name":"Citeureup","osm_value":"village","type":"district","extent":[107.6,-6.9,107.7,-7.0]}}]}`))
	}))
	defer srv.Close()

	p := NewPhoton(ProviderConfig{BaseURL: srv.URL, UserAgent: "docgeo-test"}, nil, quietLogger())
	res, err := p.Resolve(context.Background(), "Citeureup, Bandung")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if diff := cmp.Diff(url.Values{"q": {"Citeureup, Bandung"}, "limit": {"1"}, "lang": {"id"}}, got); diff != "" {
		t.Errorf("params (-want +got):\n%s", diff)
	}
	village, district := "village", "district"
	want := &Result{Lat: -6.98, Lon: 107.63, DisplayName: "Citeureup", Class: &village, Type: &district}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result (-want +got):\n%s", diff)
	}
}

func TestPhotonEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	p := NewPhoton(ProviderConfig{BaseURL: srv.URL}, nil, quietLogger())
	res, err := p.Resolve(context.Background(), "nowhere")
	if err != nil || res != nil {
		t.Fatalf("Resolve = %+v, %v; want nil, nil", res, err)
	}
}
