package records

import "orgbridge/internal/schema"

type queryInput struct {
	Query string `json:"query" jsonschema:"description=Query expression"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum number of records"`
}

type getInput struct {
	Kind string `json:"kind" jsonschema:"description=Record kind"`
	ID   string `json:"id" jsonschema:"description=Record id"`
}

type createInput struct {
	Kind    string         `json:"kind" jsonschema:"description=Record kind"`
	Fields  map[string]any `json:"fields" jsonschema:"description=Record fields"`
	Confirm bool           `json:"confirm" jsonschema:"description=Must be true to proceed"`
}

type exportInput struct {
	Query string `json:"query" jsonschema:"description=Query expression"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum number of records"`
}

func schemaQuery() map[string]any {
	return schema.Object(queryInput{})
}

func schemaGet() map[string]any {
	return schema.Object(getInput{})
}

func schemaCreate() map[string]any {
	return schema.Object(createInput{})
}

func schemaExport() map[string]any {
	return schema.Object(exportInput{})
}
