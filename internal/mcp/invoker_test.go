package mcp

import (
	"context"
	"errors"
	"testing"
)

func TestInvokerCallsRegisteredTool(t *testing.T) {
	reg := NewRegistry(nil)
	d := toolDescriptor("records.query")
	d.Tool = func(ctx context.Context, req ToolRequest) (ToolResult, error) {
		if req.Arguments["query"] != "q" {
			t.Fatalf("arguments not forwarded: %#v", req.Arguments)
		}
		return ToolResult{Data: map[string]any{"ok": true}}, nil
	}
	if err := reg.Register(d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invoker := NewToolInvoker(reg, ToolContext{})
	result, err := invoker.Call(context.Background(), "records.query", map[string]any{"query": "q"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := result.Data.(map[string]any)
	if data["ok"] != true {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestInvokerUnknownTool(t *testing.T) {
	invoker := NewToolInvoker(NewRegistry(nil), ToolContext{})
	_, err := invoker.Call(context.Background(), "nope", nil)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestInvokerNil(t *testing.T) {
	var invoker *ToolInvoker
	if _, err := invoker.Call(context.Background(), "x", nil); err == nil {
		t.Fatalf("expected error from nil invoker")
	}
}
