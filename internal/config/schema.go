package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

// ErrSchema indicates a config file that does not match the schema.
var ErrSchema = errors.New("config does not match schema")

// Schema returns the embedded JSON schema of the config file.
func Schema() []byte {
	return schemaJSON
}

// ValidateFile checks a YAML config file against the embedded schema.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	return ValidateYAML(data)
}

// ValidateYAML checks raw YAML config content against the embedded schema.
// Empty content is valid.
func ValidateYAML(data []byte) error {
	var raw map[string]any

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if raw == nil {
		raw = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		details = append(details, verr.String())
	}

	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(details, "; "))
}
