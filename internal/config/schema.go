package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema describes the shape of a configuration document. Semantic
// checks (durations, positive intervals) live in Validate.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "interval":    {"type": "string"},
    "iterations":  {"type": "integer", "minimum": 0},
    "rate":        {"type": "number", "minimum": 0},
    "format":      {"enum": ["text", "json"]},
    "noColor":     {"type": "boolean"},
    "groupEvery":  {"type": "integer", "minimum": 0},
    "metricsAddr": {"type": "string"},
    "log": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "level": {"enum": ["debug", "info", "warn", "error"]},
        "file":  {"type": "string"},
        "rotation": {
          "type": "object",
          "additionalProperties": false,
          "properties": {
            "maxSize":    {"type": "integer", "minimum": 0},
            "maxBackups": {"type": "integer", "minimum": 0},
            "maxAge":     {"type": "integer", "minimum": 0},
            "compress":   {"type": "boolean"}
          }
        }
      }
    },
    "workloads": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["name", "work"],
        "properties": {
          "name":  {"type": "string", "minLength": 1},
          "work":  {"type": "string"},
          "bytes": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("config.json", strings.NewReader(configSchema)); err != nil {
			schemaErr = fmt.Errorf("invalid schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("config.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("invalid schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// validateSchema checks a JSON document against configSchema and converts
// failures into ValidationErrors.
func validateSchema(doc []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	err = schema.Validate(v)
	if err == nil {
		return nil
	}

	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}

	errs := &ValidationErrors{}
	collectSchemaErrors(verr, errs)
	if !errs.HasErrors() {
		errs.Add(verr.InstanceLocation, verr.Message)
	}
	return errs
}

// collectSchemaErrors flattens the leaf causes of a schema failure.
func collectSchemaErrors(verr *jsonschema.ValidationError, errs *ValidationErrors) {
	if len(verr.Causes) == 0 {
		errs.Add(schemaPath(verr.InstanceLocation), verr.Message)
		return
	}
	for _, cause := range verr.Causes {
		collectSchemaErrors(cause, errs)
	}
}

// schemaPath turns a JSON pointer ("/workloads/0/name") into a dotted path.
func schemaPath(pointer string) string {
	p := strings.TrimPrefix(pointer, "/")
	return strings.ReplaceAll(p, "/", ".")
}
