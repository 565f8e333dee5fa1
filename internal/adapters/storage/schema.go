package storage

import (
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const stateSchemaURL = "streak://state.schema.json"

// stateSchema describes the storage file. Both collections are optional so
// older files load through additive defaults; null is treated like absent.
const stateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "todos": {
      "type": ["array", "null"],
      "items": { "$ref": "#/definitions/todo" }
    },
    "habits": {
      "type": ["array", "null"],
      "items": { "$ref": "#/definitions/habit" }
    }
  },
  "definitions": {
    "todo": {
      "type": "object",
      "required": ["id", "text"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "text": { "type": "string" },
        "done": { "type": "boolean" },
        "created_at": { "type": "string" }
      }
    },
    "habit": {
      "type": "object",
      "required": ["id", "name"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "name": { "type": "string" },
        "created_at": { "type": "string" },
        "completed_dates": {
          "type": ["array", "null"],
          "items": { "type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$" }
        }
      }
    }
  }
}`

// compileStateSchema compiles the embedded storage schema.
func compileStateSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(stateSchemaURL, strings.NewReader(stateSchema)); err != nil {
		return nil, fmt.Errorf("add state schema: %w", err)
	}
	schema, err := compiler.Compile(stateSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile state schema: %w", err)
	}
	return schema, nil
}

// firstSchemaCause walks a validation error down to its first leaf, which
// names the offending location more precisely than the root.
func firstSchemaCause(err error) (location, message string) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return "", err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	location = ve.InstanceLocation
	if location == "" {
		location = "/"
	}
	return location, ve.Message
}
