package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const catalogSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["blocks"],
  "properties": {
    "blocks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["ids", "texture", "rgbColor", "debutVersion", "direction"],
        "properties": {
          "ids": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id", "version"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "version": {"$ref": "#/definitions/version"}
              }
            }
          },
          "texture": {"$ref": "#/definitions/faces"},
          "rgbColor": {"$ref": "#/definitions/faces"},
          "debutVersion": {"$ref": "#/definitions/version"},
          "direction": {
            "type": "array",
            "items": {"type": "string"}
          },
          "isLighting": {"type": "boolean"},
          "isTimeVarying": {"type": "boolean"},
          "burnable": {"type": "boolean"},
          "endermanPickable": {"type": "boolean"},
          "hasGravity": {"type": "boolean"},
          "hasEnergy": {"type": "boolean"},
          "isTransparency": {"type": "boolean"},
          "isCommandFormatId": {"type": "boolean"}
        }
      }
    }
  },
  "definitions": {
    "version": {
      "type": "array",
      "minItems": 3,
      "maxItems": 3,
      "items": {"type": "integer", "minimum": 0}
    },
    "faces": {
      "type": "object",
      "additionalProperties": {"type": ["string", "null"]}
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("catalog.schema.json", catalogSchema)
	})
	return schema, schemaErr
}

// Validate checks a raw catalog document against the catalog schema.
func Validate(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
