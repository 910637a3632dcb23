package schema

import "testing"

type queryArgs struct {
	Query string `json:"query" jsonschema:"description=Platform query to run"`
	Limit int    `json:"limit,omitempty"`
}

func TestObjectReflectsStruct(t *testing.T) {
	s := Object(&queryArgs{})
	if s["type"] != "object" {
		t.Fatalf("unexpected type: %v", s["type"])
	}
	props, ok := s["properties"].(map[string]any)
	if !ok {
		t.Fatalf("missing properties: %#v", s)
	}
	if _, ok := props["query"]; !ok {
		t.Fatalf("missing query property: %#v", props)
	}
	if _, ok := props["limit"]; !ok {
		t.Fatalf("missing limit property: %#v", props)
	}
	if _, ok := s["$schema"]; ok {
		t.Fatalf("schema envelope keys must be stripped")
	}
}

func TestObjectMarksRequiredFields(t *testing.T) {
	s := Object(&queryArgs{})
	required, ok := s["required"].([]any)
	if !ok {
		t.Fatalf("missing required list: %#v", s)
	}
	if len(required) != 1 || required[0] != "query" {
		t.Fatalf("unexpected required list: %#v", required)
	}
}

func TestEmpty(t *testing.T) {
	s := Empty()
	if s["type"] != "object" || len(s) != 1 {
		t.Fatalf("unexpected empty schema: %#v", s)
	}
}
