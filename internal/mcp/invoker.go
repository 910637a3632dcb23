package mcp

import (
	"context"
	"errors"
	"time"
)

// ToolInvoker lets one tool reuse another by name (records.export reuses
// records.query). Calls go through the same lookup, timeout, and audit path
// as client-originated calls.
type ToolInvoker struct {
	reg Registry
	ctx ToolContext
}

func NewToolInvoker(reg Registry, ctx ToolContext) *ToolInvoker {
	return &ToolInvoker{reg: reg, ctx: ctx}
}

func (i *ToolInvoker) Call(ctx context.Context, toolName string, args map[string]any) (ToolResult, error) {
	if i == nil || i.reg == nil {
		return ToolResult{}, errors.New("tool registry not available")
	}
	d, err := i.reg.Lookup(CategoryTool, toolName)
	if err != nil {
		return ToolResult{}, err
	}
	execCtx, cancel := withToolTimeout(ctx, i.ctx.Config, d.Name)
	defer cancel()

	started := time.Now()
	result, toolErr := d.Tool(execCtx, ToolRequest{Arguments: args, Context: i.ctx})
	logAudit(i.ctx, d, outcomeOf(toolErr), time.Since(started), toolErr)
	return result, toolErr
}
