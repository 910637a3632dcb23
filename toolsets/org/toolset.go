// Package org exposes the organization context of the connected platform:
// who the caller is, which org they act in, and the org's limits.
package org

import (
	"errors"

	"orgbridge/internal/mcp"
)

// ContextServiceName is the shared-service key other toolsets use to reach
// the org context provider.
const ContextServiceName = "org-context"

type Toolset struct {
	ctx mcp.ToolsetContext
}

func New() *Toolset {
	return &Toolset{}
}

func init() {
	mcp.MustRegisterToolset("org", func() mcp.Toolset {
		return New()
	})
}

func (t *Toolset) ID() string {
	return "org"
}

func (t *Toolset) Version() string {
	return "0.1.0"
}

func (t *Toolset) Init(ctx mcp.ToolsetContext) error {
	if ctx.Platform == nil {
		return errors.New("missing platform client")
	}
	if ctx.Sanitizer == nil {
		return errors.New("missing sanitizer")
	}
	t.ctx = ctx
	if ctx.Services != nil {
		if err := ctx.Services.Register(ContextServiceName, t); err != nil {
			return err
		}
	}
	return nil
}

func (t *Toolset) Register(reg mcp.Registry) error {
	descriptors := []mcp.Descriptor{
		{
			Name:        "org.context",
			Category:    mcp.CategoryTool,
			Description: "Get the current organization context (id, name, user, limits). Sensitive fields are redacted.",
			ToolsetID:   t.ID(),
			InputSchema: schemaContext(),
			Safety:      mcp.SafetyReadOnly,
			Tool:        t.handleContext,
		},
		{
			Name:        "org.whoami",
			Category:    mcp.CategoryTool,
			Description: "Identify the authenticated platform user.",
			ToolsetID:   t.ID(),
			InputSchema: schemaWhoAmI(),
			Safety:      mcp.SafetyReadOnly,
			Tool:        t.handleWhoAmI,
		},
		{
			Name:        "org.triage",
			Category:    mcp.CategoryPrompt,
			Description: "Walk through triaging an issue inside the current org.",
			ToolsetID:   t.ID(),
			Arguments: []mcp.PromptArgument{
				{Name: "topic", Description: "What is being triaged", Required: true},
				{Name: "record", Description: "Optional record id to start from"},
			},
			Prompt: t.handleTriagePrompt,
		},
		{
			Name:        "org.context_resource",
			Category:    mcp.CategoryResource,
			Description: "The current organization context as a JSON document.",
			ToolsetID:   t.ID(),
			URI:         "org://context",
			MIMEType:    "application/json",
			Resource:    t.handleContextResource,
		},
	}
	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}
