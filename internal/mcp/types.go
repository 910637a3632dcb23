package mcp

import (
	"context"
	"log/slog"

	"orgbridge/internal/audit"
	"orgbridge/internal/cache"
	"orgbridge/internal/config"
	"orgbridge/internal/platform"
	"orgbridge/internal/redact"
	"orgbridge/internal/state"
	"orgbridge/internal/tmpfile"
)

// Category classifies what a descriptor exposes to a connected client.
type Category string

const (
	CategoryTool     Category = "tool"
	CategoryPrompt   Category = "prompt"
	CategoryResource Category = "resource"
)

type ToolSafety string

const (
	SafetyReadOnly ToolSafety = "read_only"
	SafetyWrite    ToolSafety = "write"
)

type ToolHandler func(ctx context.Context, req ToolRequest) (ToolResult, error)

type PromptHandler func(ctx context.Context, req PromptRequest) (PromptResult, error)

type ResourceHandler func(ctx context.Context, uri string) (ResourceResult, error)

// Descriptor is one invokable capability. It is created during the
// registration phase and immutable afterwards.
type Descriptor struct {
	Name        string
	Category    Category
	Description string
	ToolsetID   string

	// Tool fields.
	InputSchema map[string]any
	Safety      ToolSafety
	Tool        ToolHandler

	// Prompt fields.
	Arguments []PromptArgument
	Prompt    PromptHandler

	// Resource fields.
	URI      string
	MIMEType string
	Resource ResourceHandler
}

type PromptArgument struct {
	Name        string
	Description string
	Required    bool
}

type ToolRequest struct {
	Arguments map[string]any
	Context   ToolContext
}

// ResourceRef describes an artifact a tool wants attached to its response.
// Handlers never attach content themselves; the SDK bridge negotiates the
// attachment shape against the client's capabilities.
type ResourceRef struct {
	URI         string
	Name        string
	MIMEType    string
	Description string
	// Text is the inline body used when the client only supports embedded
	// resources. Empty means the artifact cannot be inlined.
	Text string
}

type ToolResult struct {
	Data     any
	Resource *ResourceRef
	Metadata ToolMetadata
}

type ToolMetadata struct {
	Records   []string `json:"records,omitempty"`
	Artifacts []string `json:"artifacts,omitempty"`
}

type PromptRequest struct {
	Arguments map[string]string
	Context   ToolContext
}

type PromptMessage struct {
	Role string
	Text string
}

type PromptResult struct {
	Description string
	Messages    []PromptMessage
}

type ResourceResult struct {
	MIMEType string
	Text     string
}

// ToolContext carries every shared service a handler may need. It is built
// once during startup and injected; there is no package-level state.
type ToolContext struct {
	Config    *config.Config
	State     *state.State
	Platform  *platform.Client
	Sanitizer *redact.Sanitizer
	Audit     *audit.Logger
	Logger    *slog.Logger
	Services  *ServiceRegistry
	Cache     *cache.Store
	Tmp       *tmpfile.Manager
	Invoker   *ToolInvoker
	Registry  Registry
}

type ToolsetContext = ToolContext
