package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docgeo/internal/common"
	"github.com/joseph-ayodele/docgeo/internal/extract"
)

// LocationNormalizer asks a model for a canonical flood location and extra
// geocoding candidates. Every failure yields nil; the pipeline continues without it.
type LocationNormalizer struct {
	completer Completer
	schema    map[string]any
	logger    *slog.Logger
}

// NewLocationNormalizer returns a normalizer; a nil completer disables it.
func NewLocationNormalizer(completer Completer, logger *slog.Logger) *LocationNormalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocationNormalizer{
		completer: completer,
		schema:    BuildLocationJSONSchema(),
		logger:    logger,
	}
}

// Enabled reports whether Normalize can produce output.
func (n *LocationNormalizer) Enabled() bool {
	return n != nil && n.completer != nil
}

// Normalize returns the validated model output, or nil.
func (n *LocationNormalizer) Normalize(ctx context.Context, text string, loc extract.LocationEntities) *LocationOutput {
	if !n.Enabled() {
		return nil
	}
	rid := uuid.New().String()
	start := time.Now()
	n.logger.Info("llm.location.start", "req_id", rid, "text_len", len(text))

	content, err := n.completer.Complete(ctx, SystemPrompt, BuildLocationPrompt(text, loc))
	if err != nil {
		n.logger.Warn("llm.location.unavailable",
			"req_id", rid,
			"error", fmt.Errorf("%w: %w", common.ErrLLMUnavailable, err),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	obj := FirstJSONObject(content)
	if obj == "" {
		n.logger.Warn("llm.location.no_json", "req_id", rid, "content_len", len(content))
		return nil
	}

	cleaned, _, err := SanitizeLocationJSON([]byte(obj), n.logger)
	if err != nil {
		n.logger.Warn("llm.location.decode_error", "req_id", rid, "error", err)
		return nil
	}
	if err := ValidateJSONAgainstSchema(n.schema, cleaned); err != nil {
		n.logger.Warn("llm.location.schema_validation_failed", "req_id", rid, "error", err, "content", string(cleaned))
		return nil
	}

	var out LocationOutput
	if err := json.Unmarshal(cleaned, &out); err != nil {
		n.logger.Warn("llm.location.unmarshal_failed", "req_id", rid, "error", err)
		return nil
	}

	n.logger.Info("llm.location.ok",
		"req_id", rid,
		"has_location", out.LokasiBanjir != nil,
		"candidates", len(out.NormalizedQueryCandidates),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &out
}
