// Package sdk is the public surface for toolset authors. It re-exports the
// internal types a toolset needs so out-of-tree toolsets never import
// internal packages directly.
package sdk

import (
	"orgbridge/internal/mcp"
	"orgbridge/internal/platform"
	"orgbridge/internal/redact"
	"orgbridge/internal/schema"
	"orgbridge/internal/tmpfile"
)

// Core toolset interfaces and types.
type Toolset = mcp.Toolset

type ToolsetContext = mcp.ToolsetContext

type Descriptor = mcp.Descriptor

type Category = mcp.Category

type ToolHandler = mcp.ToolHandler

type PromptHandler = mcp.PromptHandler

type ResourceHandler = mcp.ResourceHandler

type ToolSafety = mcp.ToolSafety

type ToolRequest = mcp.ToolRequest

type ToolResult = mcp.ToolResult

type ToolMetadata = mcp.ToolMetadata

type ResourceRef = mcp.ResourceRef

type PromptArgument = mcp.PromptArgument

type PromptRequest = mcp.PromptRequest

type PromptMessage = mcp.PromptMessage

type PromptResult = mcp.PromptResult

type ResourceResult = mcp.ResourceResult

type Registry = mcp.Registry

const (
	CategoryTool     = mcp.CategoryTool
	CategoryPrompt   = mcp.CategoryPrompt
	CategoryResource = mcp.CategoryResource

	SafetyReadOnly = mcp.SafetyReadOnly
	SafetyWrite    = mcp.SafetyWrite
)

// Toolset registration for plugin discovery.
func RegisterToolset(id string, factory mcp.ToolsetFactory) error {
	return mcp.RegisterToolset(id, factory)
}

func MustRegisterToolset(id string, factory mcp.ToolsetFactory) {
	mcp.MustRegisterToolset(id, factory)
}

func RegisteredToolsets() []string {
	return mcp.RegisteredToolsets()
}

// Shared services and invoker.
type ServiceRegistry = mcp.ServiceRegistry

type ToolInvoker = mcp.ToolInvoker

// Platform and workspace helpers.
type PlatformClient = platform.Client

type Sanitizer = redact.Sanitizer

type TempFileManager = tmpfile.Manager

// ObjectSchema reflects a JSON schema for a tool input struct.
func ObjectSchema(v any) map[string]any {
	return schema.Object(v)
}

// EmptySchema is the schema for tools that take no arguments.
func EmptySchema() map[string]any {
	return schema.Empty()
}
