package impact

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Shemantipal/Green-Receipt/constants"
)

// BuildAnalysisJSONSchema returns the JSON-Schema (draft 2020-12 subset) the
// model's output is expected to match. Used as the strict first pass before
// the lenient per-item coercion.
func BuildAnalysisJSONSchema() map[string]any {
	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":                map[string]any{"type": "string", "minLength": 1},
			"quantity":            map[string]any{"type": "integer", "minimum": 1},
			"unit_price":          map[string]any{"type": "number", "minimum": 0},
			"carbon_footprint_kg": map[string]any{"type": "number", "minimum": 0},
			"water_usage_liters":  map[string]any{"type": "number", "minimum": 0},
			"packaging_waste_g":   map[string]any{"type": "number", "minimum": 0},
			"eco_rating":          map[string]any{"type": "string", "enum": constants.RatingsAsStringSlice()},
			"alternatives":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"name"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"store": map[string]any{"type": "string"},
			"date":  map[string]any{"type": "string"},
			"items": map[string]any{
				"type":  "array",
				"items": item,
			},
			"recommendations": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"items"},
	}
}

// ValidateAgainstSchema validates "data" against "schemaMap".
func ValidateAgainstSchema(schemaMap map[string]any, data []byte) error {
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
