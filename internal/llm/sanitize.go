package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

var stringComponents = []string{"provinsi", "kota", "kecamatan", "kelurahan", "area"}

// SanitizeLocationJSON repairs the usual model slips so the document can still
// validate: non-string candidates are dropped, "04"-style RT/RW become ints,
// blank strings become null, a non-object lokasi_banjir is removed.
func SanitizeLocationJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	var dropped []string

	if v, ok := m["normalized_query_candidates"]; ok {
		items, isList := v.([]any)
		if !isList {
			delete(m, "normalized_query_candidates")
			dropped = append(dropped, "normalized_query_candidates(type)")
		} else {
			kept := make([]any, 0, len(items))
			for _, it := range items {
				if s, isStr := it.(string); isStr && strings.TrimSpace(s) != "" {
					kept = append(kept, strings.TrimSpace(s))
				} else {
					dropped = append(dropped, "normalized_query_candidates[]")
				}
			}
			m["normalized_query_candidates"] = kept
		}
	}

	if v, ok := m["ringkasan"].(string); ok {
		m["ringkasan"] = strings.TrimSpace(v)
	}

	switch lb := m["lokasi_banjir"].(type) {
	case nil:
	case map[string]any:
		if n, ok := lb["nama"]; ok {
			if s, isStr := n.(string); isStr {
				lb["nama"] = strings.TrimSpace(s)
			} else {
				delete(lb, "nama")
				dropped = append(dropped, "nama(type)")
			}
		}
		if k, ok := lb["komponen"]; ok {
			if comp, isObj := k.(map[string]any); isObj {
				dropped = append(dropped, sanitizeComponents(comp)...)
			} else {
				delete(lb, "komponen")
				dropped = append(dropped, "komponen(type)")
			}
		}
	default:
		delete(m, "lokasi_banjir")
		dropped = append(dropped, "lokasi_banjir(type)")
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.location.sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

func sanitizeComponents(comp map[string]any) []string {
	var dropped []string
	for _, k := range stringComponents {
		v, ok := comp[k]
		if !ok || v == nil {
			continue
		}
		s, isStr := v.(string)
		switch {
		case !isStr:
			comp[k] = nil
			dropped = append(dropped, k+"(type)")
		case strings.TrimSpace(s) == "" || strings.EqualFold(strings.TrimSpace(s), "null"):
			comp[k] = nil
		default:
			comp[k] = strings.TrimSpace(s)
		}
	}
	for _, k := range []string{"rt", "rw"} {
		switch t := comp[k].(type) {
		case nil:
		case float64:
			if t < 0 || t != float64(int(t)) {
				comp[k] = nil
				dropped = append(dropped, k+"(range)")
			}
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(t))
			if err != nil || n < 0 {
				comp[k] = nil
				dropped = append(dropped, k+"(parse)")
			} else {
				comp[k] = n
			}
		default:
			comp[k] = nil
			dropped = append(dropped, k+"(type)")
		}
	}
	return dropped
}
