package mcp

// Toolset is a pluggable bundle of descriptors. Toolsets register
// themselves with MustRegisterToolset from an init function and are
// instantiated by id during the registration phase.
type Toolset interface {
	ID() string
	Version() string
	Init(ctx ToolsetContext) error
	Register(reg Registry) error
}
