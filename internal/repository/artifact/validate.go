package artifact

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const featuresSchema = `{
  "type": "array",
  "minItems": 1,
  "items": {"type": "string", "minLength": 1}
}`

const defaultsSchema = `{
  "type": "object",
  "additionalProperties": {"type": "number"}
}`

var (
	compileOnce      sync.Once
	compiledFeatures *jsonschema.Schema
	compiledDefaults *jsonschema.Schema
	compileErr       error
)

func compiled() (features, defaults *jsonschema.Schema, err error) {
	compileOnce.Do(func() {
		compiledFeatures, compileErr = compile("features", featuresSchema)
		if compileErr != nil {
			return
		}
		compiledDefaults, compileErr = compile("feature_defaults", defaultsSchema)
	})
	return compiledFeatures, compiledDefaults, compileErr
}

func compile(name, def string) (*jsonschema.Schema, error) {
	var parsed any
	if err := json.Unmarshal([]byte(def), &parsed); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}
	c := jsonschema.NewCompiler()
	url := "schema://" + name + ".json"
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("add resource %s: %w", name, err)
	}
	return c.Compile(url)
}

// validate checks raw JSON against a compiled schema.
func validate(s *jsonschema.Schema, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := s.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
