package constants

// Phase identifies which half of the geocoding cascade produced an attempt.
type Phase string

// Stable values, also written to logs.
const (
	PhaseStructured Phase = "structured"
	PhaseFreeText   Phase = "free_text"
)

// Provider names used for rate-limit clocks and attempt logs.
const (
	ProviderNominatim = "nominatim"
	ProviderPhoton    = "photon"
)

// DefaultCountry is appended to every geocoding query.
const DefaultCountry = "Indonesia"
