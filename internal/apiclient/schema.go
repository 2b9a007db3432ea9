package apiclient

import (
	"encoding/json"
	"fmt"

	"github.com/qri-io/jsonschema"
)

const jobRoleSchema = `{
  "type": "object",
  "required": ["id", "name"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string"},
    "description": {"type": ["string", "null"]}
  }
}`

const postSchema = `{
  "type": "object",
  "required": ["id", "title"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "title": {"type": "string"},
    "content": {"type": ["string", "null"]}
  }
}`

// listingSchema wraps a record schema in the {"data": [...], "count": N} envelope.
func listingSchema(record string) string {
	return fmt.Sprintf(`{
  "type": "object",
  "required": ["data", "count"],
  "properties": {
    "data": {"type": "array", "items": %s},
    "count": {"type": "integer", "minimum": 0}
  }
}`, record)
}

func compileSchema(src string) (*jsonschema.Schema, error) {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(src), rs); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return rs, nil
}
