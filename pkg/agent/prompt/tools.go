package prompt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// FormatToolDocs renders tool definitions for injection into a text-mode
// system prompt. Parameter details come from each tool's JSON Schema.
func FormatToolDocs(tools []agent.ToolDefinition) string {
	if len(tools) == 0 {
		return "No tools available."
	}

	var sb strings.Builder
	for i, tool := range tools {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- `")
		sb.WriteString(tool.Name)
		sb.WriteString("`: ")
		sb.WriteString(tool.Description)
		sb.WriteString("\n")

		for _, line := range schemaParamLines(tool) {
			sb.WriteString("  ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// schemaParamLines renders one line per parameter from the tool's JSON
// Schema, alphabetically. A missing or unparseable schema documents the
// tool without parameters.
func schemaParamLines(tool agent.ToolDefinition) []string {
	if tool.ParametersSchema == "" {
		return nil
	}
	var schema map[string]any
	if err := json.Unmarshal([]byte(tool.ParametersSchema), &schema); err != nil {
		slog.Debug("unparseable tool schema, documenting without parameters",
			"tool", tool.Name, "error", err)
		return nil
	}
	properties, ok := schema["properties"].(map[string]any)
	if !ok || len(properties) == 0 {
		return nil
	}

	required := make(map[string]bool)
	if list, ok := schema["required"].([]any); ok {
		for _, r := range list {
			if name, ok := r.(string); ok {
				required[name] = true
			}
		}
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		prop, _ := properties[name].(map[string]any)
		lines = append(lines, paramLine(name, prop, required[name]))
	}
	return lines
}

// paramLine renders one parameter: name, requiredness, type, description,
// and any default or enum hints the schema carries.
func paramLine(name string, prop map[string]any, required bool) string {
	var sb strings.Builder
	sb.WriteString(name)

	kind := "optional"
	if required {
		kind = "required"
	}
	if t, ok := prop["type"].(string); ok && t != "" {
		fmt.Fprintf(&sb, " (%s %s)", kind, t)
	} else {
		fmt.Fprintf(&sb, " (%s)", kind)
	}

	if desc, ok := prop["description"].(string); ok && desc != "" {
		sb.WriteString(": ")
		sb.WriteString(desc)
	}

	var hints []string
	if def, ok := prop["default"]; ok {
		hints = append(hints, fmt.Sprintf("default %v", def))
	}
	if enum, ok := prop["enum"].([]any); ok && len(enum) > 0 {
		opts := make([]string, 0, len(enum))
		for _, v := range enum {
			opts = append(opts, fmt.Sprintf("%v", v))
		}
		hints = append(hints, "one of: "+strings.Join(opts, ", "))
	}
	if len(hints) > 0 {
		sb.WriteString(" [")
		sb.WriteString(strings.Join(hints, "; "))
		sb.WriteString("]")
	}

	return sb.String()
}
