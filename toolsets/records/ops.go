package records

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"orgbridge/internal/mcp"
	"orgbridge/internal/tmpfile"
)

func (t *Toolset) handleQuery(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	query := toString(req.Arguments["query"])
	if query == "" {
		err := fmt.Errorf("missing required field: query")
		return errorResult(err), err
	}
	limit := toInt(req.Arguments["limit"], 0)

	recs, err := t.ctx.Platform.Query(ctx, query, limit)
	if err != nil {
		return errorResult(err), err
	}
	sanitized := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		sanitized = append(sanitized, t.ctx.Sanitizer.Map(rec))
	}
	return mcp.ToolResult{
		Data:     map[string]any{"records": sanitized, "count": len(sanitized)},
		Metadata: mcp.ToolMetadata{Records: recordIDs(recs)},
	}, nil
}

func (t *Toolset) handleGet(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	kind := toString(req.Arguments["kind"])
	id := toString(req.Arguments["id"])
	if kind == "" || id == "" {
		err := fmt.Errorf("missing required fields: kind, id")
		return errorResult(err), err
	}

	rec, err := t.ctx.Platform.GetRecord(ctx, kind, id)
	if err != nil {
		return errorResult(err), err
	}
	return mcp.ToolResult{
		Data:     t.ctx.Sanitizer.Map(rec),
		Metadata: mcp.ToolMetadata{Records: []string{id}},
	}, nil
}

func (t *Toolset) handleCreate(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	if err := requireConfirm(req.Arguments); err != nil {
		return errorResult(err), err
	}
	kind := toString(req.Arguments["kind"])
	if kind == "" {
		err := fmt.Errorf("missing required field: kind")
		return errorResult(err), err
	}
	fields, _ := req.Arguments["fields"].(map[string]any)
	if len(fields) == 0 {
		err := fmt.Errorf("missing required field: fields")
		return errorResult(err), err
	}

	created, err := t.ctx.Platform.CreateRecord(ctx, kind, fields)
	if err != nil {
		return errorResult(err), err
	}
	return mcp.ToolResult{
		Data:     t.ctx.Sanitizer.Map(created),
		Metadata: mcp.ToolMetadata{Records: recordIDs([]map[string]any{created})},
	}, nil
}

// handleExport reuses records.query through the invoker so exports share the
// same sanitization, timeout, and audit path, then persists the result as a
// workspace scratch artifact.
func (t *Toolset) handleExport(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	query := toString(req.Arguments["query"])
	if query == "" {
		err := fmt.Errorf("missing required field: query")
		return errorResult(err), err
	}
	limit := toInt(req.Arguments["limit"], 0)

	queryResult, err := t.ctx.Invoker.Call(ctx, "records.query", map[string]any{
		"query": query,
		"limit": limit,
	})
	if err != nil {
		return errorResult(err), err
	}
	data, err := json.MarshalIndent(queryResult.Data, "", "  ")
	if err != nil {
		return errorResult(err), err
	}

	baseDir, err := t.ctx.Tmp.EnsureBaseDir(t.ctx.State.PrimaryWorkspace())
	if err != nil {
		return errorResult(err), err
	}
	retention := 0
	if t.ctx.Config != nil {
		retention = t.ctx.Config.TempFiles.RetentionDays
	}
	path, err := t.ctx.Tmp.Write(baseDir, "records-export", data, tmpfile.WriteOptions{
		Ext:           "json",
		RetentionDays: retention,
	})
	if err != nil {
		return errorResult(err), err
	}

	return mcp.ToolResult{
		Data: map[string]any{"path": path, "bytes": len(data)},
		Resource: &mcp.ResourceRef{
			URI:         "file://" + path,
			Name:        filepath.Base(path),
			MIMEType:    "application/json",
			Description: fmt.Sprintf("Records matching %q", query),
			Text:        string(data),
		},
		Metadata: mcp.ToolMetadata{
			Records:   queryResult.Metadata.Records,
			Artifacts: []string{path},
		},
	}, nil
}

func recordIDs(recs []map[string]any) []string {
	var ids []string
	for _, rec := range recs {
		if id := toString(rec["id"]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func requireConfirm(args map[string]any) error {
	if val, ok := args["confirm"].(bool); ok && val {
		return nil
	}
	return fmt.Errorf("confirm=true required for this operation")
}

func errorResult(err error) mcp.ToolResult {
	return mcp.ToolResult{Data: map[string]any{"error": err.Error()}}
}

func toString(val any) string {
	if val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", val)
}

func toInt(val any, fallback int) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}
