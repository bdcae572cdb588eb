package dispatch

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kiln-dev/kiln/pkg/agent"
)

const (
	// diagnosticsWait bounds how long a file edit waits for the host's
	// analyzers to settle before the result is enriched.
	diagnosticsWait = 3 * time.Second

	maxDiagnosticsListed = 5
)

// lineDiff compares two file bodies as line multisets and reports how
// many lines were added and removed. Order-insensitive: a moved line
// counts as neither.
func lineDiff(before, after string) (adds, dels int) {
	counts := make(map[string]int)
	for _, line := range splitLines(before) {
		counts[line]++
	}
	for _, line := range splitLines(after) {
		if counts[line] > 0 {
			counts[line]--
		} else {
			adds++
		}
	}
	for _, n := range counts {
		dels += n
	}
	return adds, dels
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// diagnosticsNote waits for the host to settle after an edit and
// renders an [AUTO-DIAGNOSTICS] block when error-severity findings are
// present. Empty when the file is clean or diagnostics are unavailable.
func diagnosticsNote(ctx context.Context, host agent.HostEnvironment, path string) string {
	diags, err := host.WaitForDiagnostics(ctx, path, diagnosticsWait)
	if err != nil {
		return ""
	}
	var errs []agent.Diagnostic
	for _, d := range diags {
		if d.Severity == agent.DiagnosticError {
			errs = append(errs, d)
		}
	}
	if len(errs) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n\n[AUTO-DIAGNOSTICS] %d error(s) detected in %s after this change:", len(errs), path)
	for i, d := range errs {
		if i == maxDiagnosticsListed {
			fmt.Fprintf(&sb, "\n- ... and %d more", len(errs)-maxDiagnosticsListed)
			break
		}
		fmt.Fprintf(&sb, "\n- line %d: %s", d.Line, d.Message)
	}
	return sb.String()
}

var chunkMarker = regexp.MustCompile(`\[Showing lines (\d+)-(\d+) of (\d+)\.`)

// chunkDetail surfaces the chunk range of a paged read on the UI
// action, so consecutive chunks of one file read as a stream.
func chunkDetail(output string) string {
	m := chunkMarker.FindStringSubmatch(output)
	if m == nil {
		return ""
	}
	return fmt.Sprintf("lines %s-%s of %s", m[1], m[2], m[3])
}

// actionTitle renders the one-line UI label for a tool call.
func actionTitle(call agent.ToolCall) string {
	arg := func(key string) string {
		v, _ := call.Args[key].(string)
		return v
	}
	switch call.Name {
	case "read_file":
		return "Read " + arg("path")
	case "read_many_files":
		if paths, ok := call.Args["paths"].([]any); ok {
			return fmt.Sprintf("Read %d files", len(paths))
		}
		return "Read files"
	case "list_dir":
		if p := arg("path"); p != "" {
			return "Listed " + p
		}
		return "Listed workspace root"
	case "file_stat":
		return "Inspected " + arg("path")
	case "search":
		return fmt.Sprintf("Searched for %q", compact(arg("query"), 40))
	case "find_files":
		return fmt.Sprintf("Matched files against %q", compact(arg("pattern"), 40))
	case "find_definition":
		return "Looked up definition of " + arg("symbolName")
	case "find_references":
		return "Found references to " + arg("symbolName")
	case "document_symbols":
		return "Outlined " + arg("path")
	case "workspace_symbols":
		return fmt.Sprintf("Searched symbols for %q", compact(arg("query"), 40))
	case "diagnostics":
		if p := arg("path"); p != "" {
			return "Checked diagnostics for " + p
		}
		return "Checked workspace diagnostics"
	case "workspace_overview":
		return "Surveyed the workspace"
	case "write":
		return "Wrote " + arg("path")
	case "edit":
		return "Edited " + arg("path")
	case "delete_path":
		return "Deleted " + arg("path")
	case "terminal":
		return "Ran " + compact(arg("command"), 60)
	case "run_subagent":
		if t := arg("title"); t != "" {
			return t
		}
		return "Delegated: " + compact(arg("task"), 60)
	default:
		return call.Name
	}
}

// pathArg extracts a call's path-like argument for the UI event.
func pathArg(call agent.ToolCall) string {
	v, _ := call.Args["path"].(string)
	return v
}
