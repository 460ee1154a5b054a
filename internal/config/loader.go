package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/common"
)

// vendorConfigSchema is the JSON-Schema (draft 2020-12 subset) every
// vendor config file must satisfy before the typed validation runs.
func vendorConfigSchema() map[string]any {
	fieldProps := map[string]any{
		"pattern":        map[string]any{"type": "string", "minLength": 1},
		"match_type":     map[string]any{"type": "string", "enum": []string{"global", "line_by_line"}},
		"share_value":    map[string]any{"type": "boolean"},
		"table_column":   map[string]any{"type": "string"},
		"fallback_value": map[string]any{"type": "string"},
	}
	return map[string]any{
		"type":     "object",
		"required": []string{"vendor_id", "vendor_name", "fields"},
		"properties": map[string]any{
			"vendor_id":       map[string]any{"type": "string", "minLength": 1},
			"vendor_name":     map[string]any{"type": "string", "minLength": 1},
			"extraction_mode": map[string]any{"type": "string", "enum": []string{"table", "text"}},
			"multi_match":     map[string]any{"type": "boolean"},
			"fields": map[string]any{
				"type":          "object",
				"minProperties": 1,
				"additionalProperties": map[string]any{
					"type":       "object",
					"required":   []string{"pattern"},
					"properties": fieldProps,
				},
			},
			"fallback_strategy": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"enabled": map[string]any{"type": "boolean"},
					"conditions": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"ocr_quality_threshold": map[string]any{"type": "integer", "minimum": 0},
						},
					},
					"fallback_entries": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":     "object",
							"required": []string{"PLATE_NO"},
						},
					},
				},
			},
			"detection": map[string]any{"type": "object"},
		},
	}
}

func validateAgainstSchema(data []byte) error {
	b, err := json.Marshal(vendorConfigSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("vendor_config.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("vendor_config.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return schema.Validate(v)
}

// Parse builds a validated VendorConfig from raw JSON.
func Parse(data []byte) (*VendorConfig, error) {
	if err := validateAgainstSchema(data); err != nil {
		return nil, &common.ConfigError{Message: "schema validation failed", Cause: err}
	}
	var cfg VendorConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &common.ConfigError{Message: "config is not valid JSON", Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads and validates a vendor config file.
func Load(path string) (*VendorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &common.ConfigError{Message: "config file " + path + " not readable", Cause: err}
	}
	return Parse(data)
}

// LoadDir loads every *.json vendor config under dir, keyed by
// vendor_id. Files that fail validation are skipped with an error in
// the returned map of problems.
func LoadDir(dir string) (map[string]*VendorConfig, map[string]error) {
	configs := make(map[string]*VendorConfig)
	problems := make(map[string]error)

	entries, err := os.ReadDir(dir)
	if err != nil {
		problems[dir] = err
		return configs, problems
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		cfg, err := Load(path)
		if err != nil {
			problems[path] = err
			continue
		}
		configs[cfg.VendorID] = cfg
	}
	return configs, problems
}
