package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	sdkjsonrpc "github.com/modelcontextprotocol/go-sdk/jsonrpc"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"orgbridge/internal/audit"
)

// BindSDKServer registers every descriptor with the transport collaborator.
// It runs once, after the registry is sealed and before the transport binds,
// so connected clients never see a partially-built capability list.
func BindSDKServer(server *sdkmcp.Server, reg *HandlerRegistry, ctx ToolContext) error {
	if server == nil || reg == nil {
		return fmt.Errorf("server and registry are required")
	}
	caps := newCapabilityCache()

	for _, d := range reg.ListAll(CategoryTool) {
		tool := &sdkmcp.Tool{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: d.InputSchema,
		}
		server.AddTool(tool, toolHandler(d, ctx, caps))
	}
	for _, d := range reg.ListAll(CategoryPrompt) {
		prompt := &sdkmcp.Prompt{
			Name:        d.Name,
			Description: d.Description,
		}
		for _, arg := range d.Arguments {
			prompt.Arguments = append(prompt.Arguments, &sdkmcp.PromptArgument{
				Name:        arg.Name,
				Description: arg.Description,
				Required:    arg.Required,
			})
		}
		server.AddPrompt(prompt, promptHandler(d, ctx))
	}
	for _, d := range reg.ListAll(CategoryResource) {
		resource := &sdkmcp.Resource{
			URI:         d.URI,
			Name:        d.Name,
			MIMEType:    d.MIMEType,
			Description: d.Description,
		}
		server.AddResource(resource, resourceHandler(d, ctx))
	}
	return nil
}

// capabilityCache resolves a session's capability set exactly once and
// reuses it for the life of the connection.
type capabilityCache struct {
	mu   sync.Mutex
	caps map[*sdkmcp.ServerSession]Capabilities
}

func newCapabilityCache() *capabilityCache {
	return &capabilityCache{caps: map[*sdkmcp.ServerSession]Capabilities{}}
}

func (c *capabilityCache) forSession(session *sdkmcp.ServerSession) Capabilities {
	if session == nil {
		return Capabilities{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if caps, ok := c.caps[session]; ok {
		return caps
	}
	caps := DeriveCapabilities(session.InitializeParams())
	c.caps[session] = caps
	return caps
}

func toolHandler(d Descriptor, ctx ToolContext, caps *capabilityCache) sdkmcp.ToolHandler {
	return func(callCtx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		if ctx.State != nil && ctx.State.ShuttingDown() {
			return nil, &sdkjsonrpc.Error{Code: -32000, Message: "server is shutting down"}
		}
		args := map[string]any{}
		if req != nil && req.Params != nil && len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return nil, &sdkjsonrpc.Error{Code: sdkjsonrpc.CodeInvalidParams, Message: fmt.Sprintf("invalid arguments: %v", err)}
			}
		}

		execCtx, cancel := withToolTimeout(callCtx, ctx.Config, d.Name)
		started := time.Now()
		result, toolErr := d.Tool(execCtx, ToolRequest{Arguments: args, Context: ctx})
		cancel()
		logAudit(ctx, d, outcomeOf(toolErr), time.Since(started), toolErr)

		res := buildCallToolResult(result, toolErr)
		if toolErr == nil && result.Resource != nil {
			var session *sdkmcp.ServerSession
			if req != nil {
				session = req.Session
			}
			caps.forSession(session).Attach(result.Resource, res, ctx.Logger)
		}
		return res, nil
	}
}

func buildCallToolResult(result ToolResult, toolErr error) *sdkmcp.CallToolResult {
	res := &sdkmcp.CallToolResult{}
	if len(result.Metadata.Records) > 0 || len(result.Metadata.Artifacts) > 0 {
		res.Meta = sdkmcp.Meta{
			"records":   result.Metadata.Records,
			"artifacts": result.Metadata.Artifacts,
		}
	}
	if toolErr != nil {
		res.IsError = true
		res.StructuredContent = BuildErrorEnvelope(toolErr, result.Data)
		res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: toolErr.Error()}}
		return res
	}

	if result.Data != nil {
		res.StructuredContent = result.Data
		dataJSON, err := json.Marshal(result.Data)
		if err != nil {
			res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: fmt.Sprintf("%v", result.Data)}}
		} else {
			res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: string(dataJSON)}}
		}
	} else {
		res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: "{}"}}
	}
	return res
}

func promptHandler(d Descriptor, ctx ToolContext) sdkmcp.PromptHandler {
	return func(callCtx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		args := map[string]string{}
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}
		started := time.Now()
		result, err := d.Prompt(callCtx, PromptRequest{Arguments: args, Context: ctx})
		logAudit(ctx, d, outcomeOf(err), time.Since(started), err)
		if err != nil {
			return nil, err
		}
		out := &sdkmcp.GetPromptResult{Description: result.Description}
		for _, msg := range result.Messages {
			out.Messages = append(out.Messages, &sdkmcp.PromptMessage{
				Role:    sdkmcp.Role(msg.Role),
				Content: &sdkmcp.TextContent{Text: msg.Text},
			})
		}
		return out, nil
	}
}

func resourceHandler(d Descriptor, ctx ToolContext) sdkmcp.ResourceHandler {
	return func(callCtx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
		uri := d.URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		started := time.Now()
		result, err := d.Resource(callCtx, uri)
		logAudit(ctx, d, outcomeOf(err), time.Since(started), err)
		if err != nil {
			return nil, err
		}
		return &sdkmcp.ReadResourceResult{
			Contents: []*sdkmcp.ResourceContents{{
				URI:      uri,
				MIMEType: result.MIMEType,
				Text:     result.Text,
			}},
		}, nil
	}
}

func outcomeOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func logAudit(ctx ToolContext, d Descriptor, outcome string, duration time.Duration, err error) {
	if ctx.Audit == nil {
		return
	}
	event := audit.Event{
		Timestamp:  time.Now().UTC(),
		Category:   string(d.Category),
		Name:       d.Name,
		Toolset:    d.ToolsetID,
		Outcome:    outcome,
		DurationMS: duration.Milliseconds(),
	}
	if err != nil {
		event.Error = err.Error()
	}
	ctx.Audit.Log(event)
}
