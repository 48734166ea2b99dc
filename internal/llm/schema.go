package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildLocationJSONSchema returns the JSON-Schema the model output must satisfy.
// Every field is optional; the pipeline falls back field by field.
func BuildLocationJSONSchema() map[string]any {
	nullableString := map[string]any{"type": []string{"string", "null"}}
	nullableInt := map[string]any{"type": []string{"integer", "null"}, "minimum": 0}

	komponen := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"provinsi":  nullableString,
			"kota":      nullableString,
			"kecamatan": nullableString,
			"kelurahan": nullableString,
			"rt":        nullableInt,
			"rw":        nullableInt,
			"area":      nullableString,
		},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"lokasi_banjir": map[string]any{
				"type": []string{"object", "null"},
				"properties": map[string]any{
					"nama":     map[string]any{"type": "string"},
					"komponen": komponen,
				},
			},
			"normalized_query_candidates": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"ringkasan": nullableString,
		},
	}
}

// ValidateJSONAgainstSchema validates data against schemaMap.
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
