package mcp

import (
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Capabilities is the per-connection record of what a client can render.
// It is derived once from the initialize payload and immutable afterwards.
type Capabilities struct {
	ClientName        string
	ResourceLinks     bool
	EmbeddedResources bool
}

// linkFamilies render link-style resource content; embedFamilies accept
// inlined resource objects but not links. Anything else gets omission, which
// is always a valid outcome: the same data stays reachable through tools.
var (
	linkFamilies  = []string{"vscode", "visual studio code", "cursor", "windsurf", "claude"}
	embedFamilies = []string{"inspector", "zed"}
)

// DeriveCapabilities resolves a client's declared identity into the typed
// capability record used for every response on that connection.
func DeriveCapabilities(params *sdkmcp.InitializeParams) Capabilities {
	if params == nil || params.ClientInfo == nil {
		return Capabilities{}
	}
	return DeriveCapabilitiesForClient(params.ClientInfo.Name)
}

func DeriveCapabilitiesForClient(name string) Capabilities {
	caps := Capabilities{ClientName: name}
	lower := strings.ToLower(name)
	for _, family := range linkFamilies {
		if strings.Contains(lower, family) {
			caps.ResourceLinks = true
			caps.EmbeddedResources = true
			return caps
		}
	}
	for _, family := range embedFamilies {
		if strings.Contains(lower, family) {
			caps.EmbeddedResources = true
			return caps
		}
	}
	return caps
}

// Attach adds ref to the result in the richest shape the client accepts:
// a link when supported, an inlined resource otherwise, or nothing at all.
// Omission is not an error; it is logged so operators can trace it.
func (c Capabilities) Attach(ref *ResourceRef, res *sdkmcp.CallToolResult, logger *slog.Logger) {
	if ref == nil || res == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	switch {
	case c.ResourceLinks:
		res.Content = append(res.Content, &sdkmcp.ResourceLink{
			URI:         ref.URI,
			Name:        ref.Name,
			MIMEType:    ref.MIMEType,
			Description: ref.Description,
		})
	case c.EmbeddedResources && ref.Text != "":
		res.Content = append(res.Content, &sdkmcp.EmbeddedResource{
			Resource: &sdkmcp.ResourceContents{
				URI:      ref.URI,
				MIMEType: ref.MIMEType,
				Text:     ref.Text,
			},
		})
	default:
		logger.Debug("resource attachment omitted",
			"client", c.ClientName, "uri", ref.URI)
	}
}
