package tools

import (
	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/config"
)

// The read-only investigation surface shared by every non-writing mode.
var readOnlyTools = []string{
	"read_file",
	"read_many_files",
	"list_dir",
	"file_stat",
	"search",
	"find_files",
	"find_definition",
	"find_references",
	"document_symbols",
	"workspace_symbols",
	"diagnostics",
	"workspace_overview",
}

var writeTools = []string{"write", "edit", "delete_path"}

// ForMode maps an executor mode to its allowed tool names. The
// enumeration is closed: an unknown mode falls back to the read-only
// set rather than guessing at write access.
func ForMode(mode config.Mode) []string {
	switch mode {
	case config.ModeExplore, config.ModePlan, config.ModeChat:
		return cloneNames(readOnlyTools)
	case config.ModeReview:
		return append(cloneNames(readOnlyTools), "terminal")
	case config.ModeDeepExplore:
		return append(cloneNames(readOnlyTools), "run_subagent")
	case config.ModeDeepExploreWrite:
		return append(append(cloneNames(readOnlyTools), "run_subagent"), writeTools...)
	case config.ModeAgent:
		// The orchestrator delegates all reading to sub-agents.
		return append(cloneNames(writeTools), "terminal", "run_subagent")
	default:
		return cloneNames(readOnlyTools)
	}
}

// Filter splits parsed calls into those allowed in the current mode
// and those that are not. Dropped calls are reported back so the loop
// can tell the model instead of silently ignoring it.
func Filter(calls []agent.ToolCall, allowed []string) (kept, dropped []agent.ToolCall) {
	set := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		set[name] = true
	}
	for _, call := range calls {
		if set[call.Name] {
			kept = append(kept, call)
		} else {
			dropped = append(dropped, call)
		}
	}
	return kept, dropped
}

func cloneNames(names []string) []string {
	return append([]string(nil), names...)
}
