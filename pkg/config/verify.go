package config

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	// parse schema
	var schema map[string]interface{}
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to JSON and make sure every top-level key is known to the schema
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var configMap map[string]interface{}
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	if props, ok := schemaProperties(schema); ok {
		for key := range configMap {
			if _, known := props[key]; !known {
				return fmt.Errorf("unknown config section %q", key)
			}
		}
	}

	// basic validation - check required fields match
	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// schemaProperties returns properties of the Config definition, either inlined or referenced via $defs
func schemaProperties(schema map[string]interface{}) (map[string]interface{}, bool) {
	if props, ok := schema["properties"].(map[string]interface{}); ok {
		return props, true
	}
	defs, ok := schema["$defs"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	cfgDef, ok := defs["Config"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	props, ok := cfgDef["properties"].(map[string]interface{})
	return props, ok
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}
	if len(cfg.Categories) == 0 {
		return fmt.Errorf("categories are required")
	}
	if cfg.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	for i, fg := range cfg.Feeds {
		if len(fg.URLs) == 0 {
			return fmt.Errorf("feeds[%d].urls is required", i)
		}
	}
	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
