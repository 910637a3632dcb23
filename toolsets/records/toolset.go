// Package records exposes the platform's record store: querying, reading,
// creating, and exporting records as workspace artifacts.
package records

import (
	"errors"

	"orgbridge/internal/mcp"
)

type Toolset struct {
	ctx mcp.ToolsetContext
}

func New() *Toolset {
	return &Toolset{}
}

func init() {
	mcp.MustRegisterToolset("records", func() mcp.Toolset {
		return New()
	})
}

func (t *Toolset) ID() string {
	return "records"
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
	return nil
}

func (t *Toolset) Register(reg mcp.Registry) error {
	descriptors := []mcp.Descriptor{
		{
			Name:        "records.query",
			Category:    mcp.CategoryTool,
			Description: "Query platform records with a query expression.",
			ToolsetID:   t.ID(),
			InputSchema: schemaQuery(),
			Safety:      mcp.SafetyReadOnly,
			Tool:        t.handleQuery,
		},
		{
			Name:        "records.get",
			Category:    mcp.CategoryTool,
			Description: "Fetch a single record by kind and id.",
			ToolsetID:   t.ID(),
			InputSchema: schemaGet(),
			Safety:      mcp.SafetyReadOnly,
			Tool:        t.handleGet,
		},
		{
			Name:        "records.create",
			Category:    mcp.CategoryTool,
			Description: "Create a platform record (requires confirm=true).",
			ToolsetID:   t.ID(),
			InputSchema: schemaCreate(),
			Safety:      mcp.SafetyWrite,
			Tool:        t.handleCreate,
		},
		{
			Name:        "records.export",
			Category:    mcp.CategoryTool,
			Description: "Run a query and write the matching records to a workspace scratch file.",
			ToolsetID:   t.ID(),
			InputSchema: schemaExport(),
			Safety:      mcp.SafetyReadOnly,
			Tool:        t.handleExport,
		},
	}
	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}
