package gateway

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const keyPointsSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {
    "category": {"type": ["array", "null"], "items": {"type": "string"}}
  },
  "type": "object"
}`

// keyPointCategories are the JSON keys requested from the model, in display order
var keyPointCategories = []string{"clauses", "legalSections", "names", "organizations", "locations"}

type keyPointsSchemas struct {
	object   *jsonschema.Schema
	category *jsonschema.Schema
}

var (
	keyPointsSchemaOnce sync.Once
	keyPointsSchema     keyPointsSchemas
	keyPointsSchemaErr  error
)

func compileKeyPointsSchema() (keyPointsSchemas, error) {
	keyPointsSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("key_points.json", strings.NewReader(keyPointsSchemaJSON)); err != nil {
			keyPointsSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		if keyPointsSchema.object, keyPointsSchemaErr = compiler.Compile("key_points.json"); keyPointsSchemaErr != nil {
			keyPointsSchemaErr = fmt.Errorf("compile schema: %w", keyPointsSchemaErr)
			return
		}
		if keyPointsSchema.category, keyPointsSchemaErr = compiler.Compile("key_points.json#/definitions/category"); keyPointsSchemaErr != nil {
			keyPointsSchemaErr = fmt.Errorf("compile category schema: %w", keyPointsSchemaErr)
		}
	})
	return keyPointsSchema, keyPointsSchemaErr
}

// validateKeyPoints checks that a decoded JSON value is an object and returns,
// per category, the validation error of its value. Absent categories are valid.
func validateKeyPoints(v any) (map[string]error, error) {
	schemas, err := compileKeyPointsSchema()
	if err != nil {
		return nil, err
	}
	if err := schemas.object.Validate(v); err != nil {
		return nil, fmt.Errorf("key points do not match schema: %w", err)
	}

	obj := v.(map[string]any)
	invalid := make(map[string]error)
	for _, name := range keyPointCategories {
		value, ok := obj[name]
		if !ok {
			continue
		}
		if err := schemas.category.Validate(value); err != nil {
			invalid[name] = err
		}
	}
	return invalid, nil
}
