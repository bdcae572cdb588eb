package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/kiln-dev/kiln/pkg/agent"
)

type writeArgs struct {
	Path    string `json:"path" jsonschema:"description=Workspace-relative path of the file to create or overwrite"`
	Content string `json:"content" jsonschema:"description=Full new content of the file"`
}

func newWriteTool() agent.Tool {
	return newTool("write",
		"Create a file or replace its entire content. Parent directories are created as needed.",
		agent.ToolKindWrite, false, runWrite)
}

func runWrite(ctx context.Context, host agent.HostEnvironment, args writeArgs) (*agent.ToolResult, error) {
	verb := "Created"
	if stat, err := host.Stat(ctx, args.Path); err == nil {
		if stat.IsDir {
			return &agent.ToolResult{Error: fmt.Sprintf("%s is a directory", args.Path)}, nil
		}
		verb = "Updated"
	}

	if err := host.WriteFile(ctx, args.Path, args.Content); err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}
	lines := strings.Count(args.Content, "\n")
	if args.Content != "" && !strings.HasSuffix(args.Content, "\n") {
		lines++
	}
	return &agent.ToolResult{
		Output: fmt.Sprintf("%s %s (%d lines, %s)", verb, args.Path, lines, formatSize(int64(len(args.Content)))),
	}, nil
}

type editArgs struct {
	Path       string `json:"path" jsonschema:"description=Workspace-relative path of the file to edit"`
	OldText    string `json:"old_text" jsonschema:"description=Exact text to replace; must appear exactly once unless replace_all is set"`
	NewText    string `json:"new_text" jsonschema:"description=Replacement text"`
	ReplaceAll bool   `json:"replace_all,omitempty" jsonschema:"description=Replace every occurrence instead of requiring a unique match"`
}

func newEditTool() agent.Tool {
	return newTool("edit",
		"Replace a text fragment inside a file. Include enough surrounding lines in old_text to make the match unique.",
		agent.ToolKindWrite, false, runEdit)
}

func runEdit(ctx context.Context, host agent.HostEnvironment, args editArgs) (*agent.ToolResult, error) {
	if args.OldText == "" {
		return &agent.ToolResult{Error: "old_text must not be empty; use write to create a file"}, nil
	}
	if args.OldText == args.NewText {
		return &agent.ToolResult{Error: "old_text and new_text are identical"}, nil
	}

	content, err := host.ReadFile(ctx, args.Path)
	if err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}
	if strings.ContainsRune(content, '\x00') {
		return &agent.ToolResult{Error: fmt.Sprintf("%s appears to be a binary file", args.Path)}, nil
	}

	updated, replaced, note, errMsg := applyEdit(content, args.OldText, args.NewText, args.ReplaceAll)
	if errMsg != "" {
		return &agent.ToolResult{Error: fmt.Sprintf("%s in %s", errMsg, args.Path)}, nil
	}

	if err := host.WriteFile(ctx, args.Path, updated); err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}

	out := fmt.Sprintf("Edited %s: %d replacement(s)", args.Path, replaced)
	if note != "" {
		out += " " + note
	}
	return &agent.ToolResult{Output: out}, nil
}

// applyEdit performs the replacement with three matching passes: exact,
// CRLF-adjusted, then typographic-character normalization. The note
// tells the model when a non-exact pass was needed, so it learns its
// quoting drifted.
func applyEdit(content, oldText, newText string, replaceAll bool) (updated string, replaced int, note, errMsg string) {
	if n := strings.Count(content, oldText); n > 0 {
		return spliceExact(content, oldText, newText, n, replaceAll)
	}

	// Files written by Windows tooling carry \r\n the model never echoes.
	if strings.Contains(content, "\r\n") && strings.Contains(oldText, "\n") && !strings.Contains(oldText, "\r\n") {
		crlfOld := strings.ReplaceAll(oldText, "\n", "\r\n")
		if n := strings.Count(content, crlfOld); n > 0 {
			crlfNew := strings.ReplaceAll(newText, "\n", "\r\n")
			updated, replaced, note, errMsg = spliceExact(content, crlfOld, crlfNew, n, replaceAll)
			if errMsg == "" && note == "" {
				note = "(matched with Windows line endings)"
			}
			return updated, replaced, note, errMsg
		}
	}

	normContent, idx := normalizeForMatch(content)
	normOld, _ := normalizeForMatch(oldText)
	if normOld == "" {
		return "", 0, "", "old_text not found"
	}
	n := strings.Count(normContent, normOld)
	switch {
	case n == 0:
		return "", 0, "", "old_text not found; re-read the file, its content may have changed"
	case n > 1 && !replaceAll:
		return "", 0, "", fmt.Sprintf("old_text appears %d times; add surrounding context or set replace_all", n)
	}

	// Splice the ORIGINAL bytes using the index map, so the file keeps
	// its real characters everywhere outside the replaced ranges.
	var sb strings.Builder
	prev := 0
	pos := 0
	for {
		hit := strings.Index(normContent[pos:], normOld)
		if hit < 0 {
			break
		}
		start := idx[pos+hit]
		end := idx[pos+hit+len(normOld)]
		sb.WriteString(content[prev:start])
		sb.WriteString(newText)
		prev = end
		pos = pos + hit + len(normOld)
		replaced++
		if !replaceAll {
			break
		}
	}
	sb.WriteString(content[prev:])
	return sb.String(), replaced, "(matched after normalizing typographic characters)", ""
}

func spliceExact(content, oldText, newText string, n int, replaceAll bool) (string, int, string, string) {
	if n > 1 && !replaceAll {
		return "", 0, "", fmt.Sprintf("old_text appears %d times; add surrounding context or set replace_all", n)
	}
	if replaceAll {
		return strings.ReplaceAll(content, oldText, newText), n, "", ""
	}
	pos := strings.Index(content, oldText)
	return content[:pos] + newText + content[pos+len(oldText):], 1, "", ""
}

type deletePathArgs struct {
	Path string `json:"path" jsonschema:"description=Workspace-relative file or directory to delete"`
}

func newDeletePathTool() agent.Tool {
	return newTool("delete_path",
		"Delete a file or a directory with its contents.",
		agent.ToolKindWrite, false, runDeletePath)
}

func runDeletePath(ctx context.Context, host agent.HostEnvironment, args deletePathArgs) (*agent.ToolResult, error) {
	stat, err := host.Stat(ctx, args.Path)
	if err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}

	if err := host.DeletePath(ctx, args.Path); err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}
	if stat.IsDir {
		return &agent.ToolResult{Output: fmt.Sprintf("Deleted directory %s and its contents", args.Path)}, nil
	}
	return &agent.ToolResult{Output: fmt.Sprintf("Deleted %s", args.Path)}, nil
}
