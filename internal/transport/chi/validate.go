package chi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const screeningRequestSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "overrides": {"type": "object", "additionalProperties": {"type": "number"}},
    "use_defaults": {"type": "boolean"},
    "top_k": {"type": "integer", "minimum": 0}
  }
}`

var (
	requestSchemaOnce sync.Once
	requestSchema     *jsonschema.Schema
	requestSchemaErr  error
)

func compiledRequestSchema() (*jsonschema.Schema, error) {
	requestSchemaOnce.Do(func() {
		var parsed any
		if err := json.Unmarshal([]byte(screeningRequestSchema), &parsed); err != nil {
			requestSchemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://screening_request.json"
		if err := c.AddResource(url, parsed); err != nil {
			requestSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		requestSchema, requestSchemaErr = c.Compile(url)
	})
	return requestSchema, requestSchemaErr
}

// decodeScreeningRequest validates body against the request schema and decodes it.
// An empty body is an empty request.
func decodeScreeningRequest(body []byte) (ScreeningRequest, error) {
	var req ScreeningRequest
	if len(body) == 0 {
		return req, nil
	}

	// UnmarshalJSON keeps numbers as json.Number so "integer" checks are exact.
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return req, fmt.Errorf("invalid JSON: %w", err)
	}
	schema, err := compiledRequestSchema()
	if err != nil {
		return req, fmt.Errorf("compile request schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return req, fmt.Errorf("schema validation failed: %w", err)
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}
	return req, nil
}
