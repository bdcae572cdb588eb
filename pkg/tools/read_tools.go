package tools

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/kiln-dev/kiln/pkg/agent"
)

const (
	maxReadLines     = 2000
	maxReadManyFiles = 10
	maxReadManyLines = 400
	maxListEntries   = 200
	maxListDepth     = 3
)

type readFileArgs struct {
	Path   string `json:"path" jsonschema:"description=Workspace-relative path of the file to read"`
	Offset int    `json:"offset,omitempty" jsonschema:"description=1-based line number to start reading from"`
	Limit  int    `json:"limit,omitempty" jsonschema:"description=Maximum number of lines to return"`
}

func newReadFileTool() agent.Tool {
	return newTool("read_file",
		"Read a file from the workspace with line numbers. Use offset and limit to page through large files.",
		agent.ToolKindRead, true, runReadFile)
}

func runReadFile(ctx context.Context, host agent.HostEnvironment, args readFileArgs) (*agent.ToolResult, error) {
	stat, err := host.Stat(ctx, args.Path)
	if err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}
	if stat.IsDir {
		return &agent.ToolResult{Error: fmt.Sprintf("%s is a directory; use list_dir instead", args.Path)}, nil
	}

	content, err := host.ReadFile(ctx, args.Path)
	if err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}
	if strings.ContainsRune(content, '\x00') {
		return &agent.ToolResult{Error: fmt.Sprintf("%s appears to be a binary file (%s)", args.Path, formatSize(stat.Size))}, nil
	}
	if content == "" {
		return &agent.ToolResult{Output: fmt.Sprintf("%s is empty", args.Path)}, nil
	}

	rendered, errMsg := renderFileSlice(args.Path, content, args.Offset, args.Limit, maxReadLines)
	if errMsg != "" {
		return &agent.ToolResult{Error: errMsg}, nil
	}
	return &agent.ToolResult{Output: rendered}, nil
}

// renderFileSlice numbers lines cat -n style and appends a continuation
// hint when the slice does not reach the end of the file.
func renderFileSlice(relPath, content string, offset, limit, maxLines int) (out string, errMsg string) {
	lines := strings.Split(content, "\n")
	// A trailing newline produces one empty phantom line; drop it so
	// line counts match what editors report.
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	total := len(lines)

	start := offset
	if start <= 0 {
		start = 1
	}
	if start > total {
		return "", fmt.Sprintf("offset %d is beyond the end of %s (%d lines)", start, relPath, total)
	}

	if limit <= 0 || limit > maxLines {
		limit = maxLines
	}
	end := start + limit - 1
	if end > total {
		end = total
	}

	var sb strings.Builder
	for i := start; i <= end; i++ {
		sb.WriteString(fmt.Sprintf("%6d\t%s\n", i, capLine(lines[i-1], maxLineChars)))
	}
	if end < total {
		sb.WriteString(fmt.Sprintf("[Showing lines %d-%d of %d. Continue with offset=%d.]", start, end, total, end+1))
	}
	return strings.TrimRight(sb.String(), "\n"), ""
}

type readManyFilesArgs struct {
	Paths []string `json:"paths" jsonschema:"description=Workspace-relative paths to read,minItems=1"`
}

func newReadManyFilesTool() agent.Tool {
	return newTool("read_many_files",
		"Read several files in one call. Each file is capped; use read_file with an offset for anything large.",
		agent.ToolKindRead, true, runReadManyFiles)
}

func runReadManyFiles(ctx context.Context, host agent.HostEnvironment, args readManyFilesArgs) (*agent.ToolResult, error) {
	paths := args.Paths
	var note string
	if len(paths) > maxReadManyFiles {
		note = fmt.Sprintf("\n[%d paths requested; only the first %d were read.]", len(paths), maxReadManyFiles)
		paths = paths[:maxReadManyFiles]
	}

	var sb strings.Builder
	for i, p := range paths {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("=== %s ===\n", p))

		stat, err := host.Stat(ctx, p)
		switch {
		case err != nil:
			sb.WriteString(fmt.Sprintf("[error: %s]", err))
			continue
		case stat.IsDir:
			sb.WriteString("[error: is a directory]")
			continue
		}

		content, err := host.ReadFile(ctx, p)
		if err != nil {
			sb.WriteString(fmt.Sprintf("[error: %s]", err))
			continue
		}
		if strings.ContainsRune(content, '\x00') {
			sb.WriteString(fmt.Sprintf("[binary file, %s]", formatSize(stat.Size)))
			continue
		}
		rendered, errMsg := renderFileSlice(p, content, 0, maxReadManyLines, maxReadManyLines)
		if errMsg != "" {
			sb.WriteString(fmt.Sprintf("[error: %s]", errMsg))
			continue
		}
		sb.WriteString(rendered)
	}
	sb.WriteString(note)

	out, _ := truncateHead(sb.String(), maxOutputLines, maxOutputBytes)
	return &agent.ToolResult{Output: out}, nil
}

type listDirArgs struct {
	Path  string `json:"path,omitempty" jsonschema:"description=Workspace-relative directory to list; omit for the workspace root"`
	Depth int    `json:"depth,omitempty" jsonschema:"description=Recursion depth from 1 to 3; default 1"`
}

func newListDirTool() agent.Tool {
	return newTool("list_dir",
		"List a directory's contents. Directories end with a slash; files show their size.",
		agent.ToolKindRead, true, runListDir)
}

func runListDir(ctx context.Context, host agent.HostEnvironment, args listDirArgs) (*agent.ToolResult, error) {
	depth := args.Depth
	if depth <= 0 {
		depth = 1
	}
	if depth > maxListDepth {
		depth = maxListDepth
	}

	root := cleanRel(args.Path)
	var sb strings.Builder
	count := 0
	capped := false

	var list func(dir string, level int) error
	list = func(dir string, level int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		entries, err := host.ListDir(ctx, dir)
		if err != nil {
			return err
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].IsDir != entries[j].IsDir {
				return entries[i].IsDir
			}
			return entries[i].Name < entries[j].Name
		})
		indent := strings.Repeat("  ", level)
		for _, entry := range entries {
			if count >= maxListEntries {
				capped = true
				return nil
			}
			count++
			if entry.IsDir {
				sb.WriteString(fmt.Sprintf("%s%s/\n", indent, entry.Name))
				if level+1 < depth && !skippedDirs[entry.Name] {
					if err := list(path.Join(dir, entry.Name), level+1); err != nil {
						return err
					}
				}
			} else {
				sb.WriteString(fmt.Sprintf("%s%s (%s)\n", indent, entry.Name, formatSize(entry.Size)))
			}
		}
		return nil
	}

	if err := list(root, 0); err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}
	if count == 0 {
		return &agent.ToolResult{Output: fmt.Sprintf("%s is empty", root)}, nil
	}

	out := strings.TrimRight(sb.String(), "\n")
	if capped {
		out += fmt.Sprintf("\n[Listing capped at %d entries. List a subdirectory for more.]", maxListEntries)
	}
	return &agent.ToolResult{Output: out}, nil
}

type fileStatArgs struct {
	Path string `json:"path" jsonschema:"description=Workspace-relative path to inspect"`
}

func newFileStatTool() agent.Tool {
	return newTool("file_stat",
		"Report whether a path exists and its type and size without reading it.",
		agent.ToolKindRead, true, runFileStat)
}

func runFileStat(ctx context.Context, host agent.HostEnvironment, args fileStatArgs) (*agent.ToolResult, error) {
	stat, err := host.Stat(ctx, args.Path)
	if err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}

	modified := time.UnixMilli(stat.MtimeMs).UTC().Format(time.RFC3339)
	if stat.IsDir {
		entries, err := host.ListDir(ctx, args.Path)
		if err != nil {
			return &agent.ToolResult{Error: err.Error()}, nil
		}
		return &agent.ToolResult{
			Output: fmt.Sprintf("%s: directory, %d entries, modified %s", args.Path, len(entries), modified),
		}, nil
	}
	return &agent.ToolResult{
		Output: fmt.Sprintf("%s: file, %s, modified %s", args.Path, formatSize(stat.Size), modified),
	}, nil
}

type workspaceOverviewArgs struct{}

func newWorkspaceOverviewTool() agent.Tool {
	return newTool("workspace_overview",
		"Summarize the workspace: top-level layout, project markers, and dominant file types. A good first call in an unfamiliar repository.",
		agent.ToolKindRead, true, runWorkspaceOverview)
}

// Files whose presence identifies the project flavor.
var projectMarkers = []string{
	"go.mod", "package.json", "Cargo.toml", "pyproject.toml",
	"requirements.txt", "pom.xml", "build.gradle", "Makefile",
	"Dockerfile", "docker-compose.yml",
}

func runWorkspaceOverview(ctx context.Context, host agent.HostEnvironment, _ workspaceOverviewArgs) (*agent.ToolResult, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Workspace: %s\n\n", host.WorkspaceRoot()))

	entries, err := host.ListDir(ctx, ".")
	if err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})

	var markers []string
	sb.WriteString("Top level:\n")
	for _, entry := range entries {
		if entry.IsDir {
			sb.WriteString(fmt.Sprintf("  %s/\n", entry.Name))
		} else {
			sb.WriteString(fmt.Sprintf("  %s (%s)\n", entry.Name, formatSize(entry.Size)))
			for _, marker := range projectMarkers {
				if entry.Name == marker {
					markers = append(markers, marker)
				}
			}
		}
	}

	extCounts := map[string]int{}
	totalFiles := 0
	err = walkFiles(ctx, host, "", func(rel string, _ agent.DirEntry) error {
		totalFiles++
		if ext := path.Ext(rel); ext != "" {
			extCounts[ext]++
		}
		return nil
	})
	if err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}

	if len(markers) > 0 {
		sb.WriteString(fmt.Sprintf("\nProject markers: %s\n", strings.Join(markers, ", ")))
	}

	type extCount struct {
		ext string
		n   int
	}
	counts := make([]extCount, 0, len(extCounts))
	for ext, n := range extCounts {
		counts = append(counts, extCount{ext, n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].n != counts[j].n {
			return counts[i].n > counts[j].n
		}
		return counts[i].ext < counts[j].ext
	})
	if len(counts) > 8 {
		counts = counts[:8]
	}

	sb.WriteString(fmt.Sprintf("\n%d files", totalFiles))
	if len(counts) > 0 {
		parts := make([]string, 0, len(counts))
		for _, c := range counts {
			parts = append(parts, fmt.Sprintf("%s ×%d", c.ext, c.n))
		}
		sb.WriteString(": " + strings.Join(parts, ", "))
	}
	return &agent.ToolResult{Output: sb.String()}, nil
}
