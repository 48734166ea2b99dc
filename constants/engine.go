package constants

// Recognition engine identifiers, in default priority order.
const (
	EngineRemote    = "remote"
	EngineGosseract = "gosseract"
	EngineTesseract = "tesseract"
)

// DefaultEngineOrder is used when OCR_ENGINES is unset.
var DefaultEngineOrder = []string{EngineRemote, EngineGosseract, EngineTesseract}
