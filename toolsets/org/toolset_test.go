package org

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"orgbridge/internal/mcp"
	"orgbridge/internal/platform"
	"orgbridge/internal/redact"
	"orgbridge/internal/state"
)

func newTestToolset(t *testing.T, handler http.HandlerFunc) (*Toolset, *state.State) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	st := state.New()
	toolset := New()
	ctx := mcp.ToolsetContext{
		Platform:  platform.NewClient(server.URL),
		Sanitizer: redact.New(),
		State:     st,
		Services:  mcp.NewServiceRegistry(),
	}
	if err := toolset.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	return toolset, st
}

func TestInitRequiresPlatformClient(t *testing.T) {
	if err := New().Init(mcp.ToolsetContext{Sanitizer: redact.New()}); err == nil {
		t.Fatalf("expected error for missing platform client")
	}
}

func TestInitPublishesContextService(t *testing.T) {
	toolset, _ := newTestToolset(t, func(w http.ResponseWriter, r *http.Request) {})
	svc, ok := toolset.ctx.Services.Get(ContextServiceName)
	if !ok {
		t.Fatalf("context service not registered")
	}
	if svc != toolset {
		t.Fatalf("unexpected service value")
	}
}

func TestRegisterDescriptors(t *testing.T) {
	toolset, _ := newTestToolset(t, func(w http.ResponseWriter, r *http.Request) {})
	reg := mcp.NewRegistry(nil)
	if err := toolset.Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := len(reg.ListAll(mcp.CategoryTool)); got != 2 {
		t.Fatalf("expected 2 tools, got %d", got)
	}
	if got := len(reg.ListAll(mcp.CategoryPrompt)); got != 1 {
		t.Fatalf("expected 1 prompt, got %d", got)
	}
	if got := len(reg.ListAll(mcp.CategoryResource)); got != 1 {
		t.Fatalf("expected 1 resource, got %d", got)
	}
}

func TestHandleContextSanitizesAndRecordsState(t *testing.T) {
	toolset, st := newTestToolset(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/org" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"org_1","name":"Acme","accessToken":"tok_123"}`))
	})

	result, err := toolset.handleContext(context.Background(), mcp.ToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, ok := result.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data type: %T", result.Data)
	}
	if data["name"] != "Acme" {
		t.Fatalf("unexpected name: %v", data["name"])
	}
	if data["accessToken"] != "[REDACTED - length: 7]" {
		t.Fatalf("token not redacted: %v", data["accessToken"])
	}

	stored := st.OrgContext()
	if stored == nil || stored["accessToken"] != "tok_123" {
		t.Fatalf("raw context not recorded in state: %#v", stored)
	}
}

func TestHandleWhoAmIErrorPath(t *testing.T) {
	toolset, _ := newTestToolset(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"unauthorized","message":"bad token"}`))
	})

	_, err := toolset.handleWhoAmI(context.Background(), mcp.ToolRequest{})
	var apiErr *platform.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
}

func TestContextResourceIsSanitizedJSON(t *testing.T) {
	toolset, _ := newTestToolset(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Acme","secret":"shh"}`))
	})

	result, err := toolset.handleContextResource(context.Background(), "org://context")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MIMEType != "application/json" {
		t.Fatalf("unexpected mime type: %s", result.MIMEType)
	}
	if !strings.Contains(result.Text, `"Acme"`) {
		t.Fatalf("missing org name: %s", result.Text)
	}
	if strings.Contains(result.Text, "shh") {
		t.Fatalf("secret leaked: %s", result.Text)
	}
}

func TestTriagePromptRequiresTopic(t *testing.T) {
	toolset, _ := newTestToolset(t, func(w http.ResponseWriter, r *http.Request) {})
	if _, err := toolset.handleTriagePrompt(context.Background(), mcp.PromptRequest{Arguments: map[string]string{}}); err == nil {
		t.Fatalf("expected error for missing topic")
	}
}

func TestTriagePromptMentionsRecord(t *testing.T) {
	toolset, _ := newTestToolset(t, func(w http.ResponseWriter, r *http.Request) {})
	result, err := toolset.handleTriagePrompt(context.Background(), mcp.PromptRequest{
		Arguments: map[string]string{"topic": "login failures", "record": "rec_42"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Messages) != 1 {
		t.Fatalf("expected one message, got %d", len(result.Messages))
	}
	if !strings.Contains(result.Messages[0].Text, "rec_42") {
		t.Fatalf("record not referenced: %s", result.Messages[0].Text)
	}
}
