// Package tools implements the built-in workspace tools the model can
// call: file reads and edits, content search, symbol lookup, terminal
// execution, and sub-agent delegation. Every tool validates its raw
// argument map against a JSON Schema derived from its args struct, and
// all filesystem access goes through agent.HostEnvironment so the
// tools never touch the OS directly.
package tools

import (
	"sort"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// Registry resolves tool names to implementations. Registration order
// is preserved for prompt assembly; Names is sorted for stable logs.
type Registry struct {
	order  []string
	byName map[string]agent.Tool
}

func NewRegistry(list ...agent.Tool) *Registry {
	r := &Registry{byName: make(map[string]agent.Tool, len(list))}
	for _, t := range list {
		r.Register(t)
	}
	return r
}

// Register adds a tool, replacing any previous tool of the same name.
func (r *Registry) Register(t agent.Tool) {
	name := t.Definition().Name
	if _, exists := r.byName[name]; !exists {
		r.order = append(r.order, name)
	}
	r.byName[name] = t
}

func (r *Registry) Lookup(name string) (agent.Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Definitions returns the definitions for the given names, preserving
// their order and skipping names the registry does not know.
func (r *Registry) Definitions(names []string) []agent.ToolDefinition {
	defs := make([]agent.ToolDefinition, 0, len(names))
	for _, name := range names {
		if t, ok := r.byName[name]; ok {
			defs = append(defs, t.Definition())
		}
	}
	return defs
}

func (r *Registry) Names() []string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Builtin returns a registry holding the full built-in tool surface.
// Mode-based narrowing happens in ForMode, not here.
func Builtin() *Registry {
	return NewRegistry(
		newReadFileTool(),
		newReadManyFilesTool(),
		newListDirTool(),
		newFileStatTool(),
		newSearchTool(),
		newFindFilesTool(),
		newFindDefinitionTool(),
		newFindReferencesTool(),
		newDocumentSymbolsTool(),
		newWorkspaceSymbolsTool(),
		newDiagnosticsTool(),
		newWorkspaceOverviewTool(),
		newWriteTool(),
		newEditTool(),
		newDeletePathTool(),
		newTerminalTool(),
		newRunSubagentTool(),
	)
}
