package org

func schemaContext() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func schemaWhoAmI() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
