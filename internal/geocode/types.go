package geocode

import (
	"context"

	"github.com/joseph-ayodele/docgeo/constants"
)

// StructuredQuery is an address split into components.
type StructuredQuery struct {
	Street  string `json:"street"`
	Suburb  string `json:"suburb"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// Result is one geocoder match.
type Result struct {
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	DisplayName string   `json:"display_name"`
	Class       *string  `json:"class"`
	Type        *string  `json:"type"`
	Importance  *float64 `json:"importance"`
}

// Attempt is one provider call in the cascade. Exactly one of Structured or Query is set.
type Attempt struct {
	Phase      constants.Phase  `json:"phase"`
	Provider   string           `json:"provider"`
	Structured *StructuredQuery `json:"structured,omitempty"`
	Query      string           `json:"query,omitempty"`
	Result     *Result          `json:"result"`
	Error      string           `json:"error,omitempty"`
}

// Outcome is the audit trail of one resolution. Primary is the first match.
type Outcome struct {
	Enabled  bool      `json:"enabled"`
	Primary  *Result   `json:"primary"`
	Attempts []Attempt `json:"attempts"`
}

// StructuredProvider resolves component queries. (nil, nil) means no match.
type StructuredProvider interface {
	Name() string
	ResolveStructured(ctx context.Context, q StructuredQuery) (*Result, error)
}

// FreeTextProvider resolves single-string queries. (nil, nil) means no match.
type FreeTextProvider interface {
	Name() string
	Resolve(ctx context.Context, query string) (*Result, error)
}
