// internal/catalog/loader.go
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mergington-activities/internal/registry"

	"github.com/xeipuuv/gojsonschema"
)

var ErrInvalidCatalog = errors.New("INVALID_CATALOG")

// File is the on-disk layout of a seed catalog.
type File struct {
	Version    string                       `json:"version"`
	UpdatedAt  string                       `json:"updated_at,omitempty"`
	Activities map[string]registry.Activity `json:"activities"`
}

const seedSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["activities"],
  "properties": {
    "version": {"type": "string"},
    "updated_at": {"type": "string"},
    "activities": {
      "type": "object",
      "minProperties": 1,
      "propertyNames": {"minLength": 1},
      "additionalProperties": {
        "type": "object",
        "required": ["description", "schedule", "max_participants", "participants"],
        "properties": {
          "description": {"type": "string"},
          "schedule": {"type": "string"},
          "max_participants": {"type": "integer", "minimum": 1},
          "participants": {
            "type": "array",
            "uniqueItems": true,
            "items": {"type": "string", "minLength": 1}
          }
        }
      }
    }
  }
}`

// LoadFile reads a JSON seed catalog, validates it and returns the
// activities keyed by name.
func LoadFile(path string) (map[string]registry.Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates raw JSON against the seed schema and decodes it.
func Parse(data []byte) (map[string]registry.Activity, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(seedSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, errs)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	for name, a := range f.Activities {
		if a.Participants == nil {
			a.Participants = []string{}
			f.Activities[name] = a
		}
	}
	return f.Activities, nil
}

// Load returns the catalog at path, or the built-in catalog when path is empty.
func Load(path string) (map[string]registry.Activity, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// WriteFile stores activities in the seed file format, creating parent
// directories as needed.
func WriteFile(path string, activities map[string]registry.Activity) error {
	data, err := json.MarshalIndent(File{
		Version:    "1",
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
		Activities: activities,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog %s: %w", path, err)
	}
	return nil
}
