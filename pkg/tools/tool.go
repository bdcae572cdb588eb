package tools

import (
	"context"

	jsvalidate "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// tool is the shared harness behind every built-in: it owns the
// definition advertised to the model, validates and decodes raw
// argument maps at the execution boundary, and delegates to a typed
// run function. A is the tool's args struct.
type tool[A any] struct {
	def       agent.ToolDefinition
	kind      agent.ToolKind
	cacheable bool
	schema    *jsvalidate.Schema
	run       func(ctx context.Context, host agent.HostEnvironment, args A) (*agent.ToolResult, error)
}

func newTool[A any](
	name, description string,
	kind agent.ToolKind,
	cacheable bool,
	run func(ctx context.Context, host agent.HostEnvironment, args A) (*agent.ToolResult, error),
) agent.Tool {
	schemaJSON := deriveSchema[A]()
	return &tool[A]{
		def: agent.ToolDefinition{
			Name:             name,
			Description:      description,
			ParametersSchema: schemaJSON,
		},
		kind:      kind,
		cacheable: cacheable,
		schema:    compileSchema(name, schemaJSON),
		run:       run,
	}
}

func (t *tool[A]) Definition() agent.ToolDefinition { return t.def }

func (t *tool[A]) Kind() agent.ToolKind { return t.kind }

func (t *tool[A]) Cacheable() bool { return t.cacheable }

// Execute validates args and runs the tool. Bad arguments come back on
// ToolResult.Error so the model sees what to fix; the error return is
// reserved for host faults.
func (t *tool[A]) Execute(ctx context.Context, host agent.HostEnvironment, args map[string]any) (*agent.ToolResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	decoded, err := decodeArgs[A](t.def.Name, t.schema, args)
	if err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}
	return t.run(ctx, host, decoded)
}
