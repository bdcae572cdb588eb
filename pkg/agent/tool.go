package agent

import "context"

// ToolKind classifies a tool for dispatch routing. Terminal and
// file-edit calls pass through the approval gate; sub-agent calls run
// serially; reads stream chunked output.
type ToolKind string

const (
	ToolKindRead     ToolKind = "read"
	ToolKindWrite    ToolKind = "write"
	ToolKindTerminal ToolKind = "terminal"
	ToolKindSubAgent ToolKind = "subagent"
)

// Tool is a single capability the model can invoke. Implementations
// live in pkg/tools; the dispatcher only sees this interface.
type Tool interface {
	// Definition returns the name, description, and parameter schema
	// advertised to the model.
	Definition() ToolDefinition

	// Kind determines dispatch routing.
	Kind() ToolKind

	// Cacheable reports whether results may be reused within a turn.
	// Only pure read-only tools with deterministic arguments qualify.
	Cacheable() bool

	// Execute runs the tool. Argument validation happens here, at the
	// boundary — the loop never trusts arg shape. Failures are reported
	// on ToolResult.Error; the error return is reserved for host-level
	// faults (cancelled context, broken workspace).
	Execute(ctx context.Context, host HostEnvironment, args map[string]any) (*ToolResult, error)
}

// ToolRegistry resolves tool names to implementations.
// Implemented by tools.Registry.
type ToolRegistry interface {
	// Lookup returns the named tool, or false if unknown.
	Lookup(name string) (Tool, bool)

	// Definitions returns the definitions for the given tool names,
	// preserving order and skipping unknown names.
	Definitions(names []string) []ToolDefinition

	// Names returns every registered tool name, sorted.
	Names() []string
}
