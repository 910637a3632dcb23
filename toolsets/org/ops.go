package org

import (
	"context"
	"encoding/json"
	"fmt"

	"orgbridge/internal/mcp"
)

// Fetch retrieves the raw org context and records it in process state so
// other toolsets can consult it without another round trip. The raw value is
// never returned to a client unsanitized.
func (t *Toolset) Fetch(ctx context.Context) (map[string]any, error) {
	raw, err := t.ctx.Platform.OrgContext(ctx)
	if err != nil {
		return nil, err
	}
	if t.ctx.State != nil {
		t.ctx.State.SetOrgContext(raw)
	}
	return raw, nil
}

func (t *Toolset) handleContext(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	raw, err := t.Fetch(ctx)
	if err != nil {
		return errorResult(err), err
	}
	return mcp.ToolResult{Data: t.ctx.Sanitizer.Map(raw)}, nil
}

func (t *Toolset) handleWhoAmI(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	raw, err := t.ctx.Platform.WhoAmI(ctx)
	if err != nil {
		return errorResult(err), err
	}
	return mcp.ToolResult{Data: t.ctx.Sanitizer.Map(raw)}, nil
}

func (t *Toolset) handleContextResource(ctx context.Context, uri string) (mcp.ResourceResult, error) {
	raw, err := t.Fetch(ctx)
	if err != nil {
		return mcp.ResourceResult{}, err
	}
	data, err := json.MarshalIndent(t.ctx.Sanitizer.Map(raw), "", "  ")
	if err != nil {
		return mcp.ResourceResult{}, fmt.Errorf("encode org context: %w", err)
	}
	return mcp.ResourceResult{MIMEType: "application/json", Text: string(data)}, nil
}

func (t *Toolset) handleTriagePrompt(ctx context.Context, req mcp.PromptRequest) (mcp.PromptResult, error) {
	topic := req.Arguments["topic"]
	if topic == "" {
		return mcp.PromptResult{}, fmt.Errorf("missing required argument: topic")
	}
	record := req.Arguments["record"]

	text := fmt.Sprintf("Triage %q inside the current organization.\n", topic)
	text += "1. Call org.context to confirm which org you are acting in.\n"
	text += "2. Use records.query to find related records.\n"
	if record != "" {
		text += fmt.Sprintf("3. Start from record %s via records.get and expand outward.\n", record)
	} else {
		text += "3. Inspect the most recent matches via records.get.\n"
	}
	text += "4. Summarize findings and propose a next action."

	return mcp.PromptResult{
		Description: fmt.Sprintf("Triage guide for %s", topic),
		Messages: []mcp.PromptMessage{
			{Role: "user", Text: text},
		},
	}, nil
}

func errorResult(err error) mcp.ToolResult {
	return mcp.ToolResult{Data: map[string]any{"error": err.Error()}}
}
