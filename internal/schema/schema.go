// Package schema reflects toolset argument structs into the JSON-schema
// maps that handler descriptors carry.
package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Object reflects a struct value into a plain object schema. Field names
// and constraints come from json/jsonschema struct tags.
func Object(v any) map[string]any {
	reflector := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}
	s := reflector.Reflect(v)
	s.Version = ""

	data, err := json.Marshal(s)
	if err != nil {
		return Empty()
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return Empty()
	}
	delete(out, "$schema")
	delete(out, "$id")
	return out
}

// Empty is the schema for tools that take no arguments.
func Empty() map[string]any {
	return map[string]any{"type": "object"}
}
