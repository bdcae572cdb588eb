package tools

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar"

	"github.com/kiln-dev/kiln/pkg/agent"
)

const (
	defaultSearchResults = 100
	maxSearchResults     = 500
	defaultFindResults   = 200
	maxFindResults       = 1000
	maxSearchFileSize    = 1 << 20 // skip files larger than 1MB
	maxMatchLineChars    = 250
)

type searchArgs struct {
	Query         string `json:"query" jsonschema:"description=Regular expression to search file contents for"`
	Path          string `json:"path,omitempty" jsonschema:"description=File or directory to search under; omit for the whole workspace"`
	Glob          string `json:"glob,omitempty" jsonschema:"description=Filename filter such as *.go or src/**/*.ts"`
	CaseSensitive bool   `json:"case_sensitive,omitempty" jsonschema:"description=Match case exactly; default is case-insensitive"`
	MaxResults    int    `json:"max_results,omitempty" jsonschema:"description=Cap on returned matches; default 100"`
}

func newSearchTool() agent.Tool {
	return newTool("search",
		"Search file contents with a regular expression. Returns path:line: text matches.",
		agent.ToolKindRead, true, runSearch)
}

func runSearch(ctx context.Context, host agent.HostEnvironment, args searchArgs) (*agent.ToolResult, error) {
	pattern := args.Query
	if !args.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return &agent.ToolResult{Error: fmt.Sprintf("invalid regular expression: %s", err)}, nil
	}
	if args.Glob != "" {
		if _, err := doublestar.Match(args.Glob, "sample"); err != nil {
			return &agent.ToolResult{Error: fmt.Sprintf("invalid glob %q", args.Glob)}, nil
		}
	}

	limit := args.MaxResults
	if limit <= 0 {
		limit = defaultSearchResults
	}
	if limit > maxSearchResults {
		limit = maxSearchResults
	}

	var matches []string
	capped := false
	scan := func(rel string, size int64) error {
		if size > maxSearchFileSize {
			return nil
		}
		content, err := host.ReadFile(ctx, rel)
		if err != nil || strings.ContainsRune(content, '\x00') {
			return nil // unreadable and binary files are silently skipped
		}
		for i, line := range strings.Split(content, "\n") {
			if !re.MatchString(line) {
				continue
			}
			if len(matches) >= limit {
				capped = true
				return errStopWalk
			}
			matches = append(matches, fmt.Sprintf("%s:%d: %s", rel, i+1, capLine(strings.TrimRight(line, "\r"), maxMatchLineChars)))
		}
		return nil
	}

	start := cleanRel(args.Path)
	stat, err := host.Stat(ctx, start)
	if err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}
	if !stat.IsDir {
		if err := scan(start, stat.Size); err != nil && err != errStopWalk {
			return &agent.ToolResult{Error: err.Error()}, nil
		}
	} else {
		err := walkFiles(ctx, host, start, func(rel string, entry agent.DirEntry) error {
			if !globMatches(args.Glob, rel) {
				return nil
			}
			return scan(rel, entry.Size)
		})
		if err != nil {
			return &agent.ToolResult{Error: err.Error()}, nil
		}
	}

	if len(matches) == 0 {
		return &agent.ToolResult{Output: fmt.Sprintf("No matches for %q", args.Query)}, nil
	}
	out := strings.Join(matches, "\n")
	if capped {
		out += fmt.Sprintf("\n[Results capped at %d matches. Narrow the query or path.]", limit)
	}
	return &agent.ToolResult{Output: out}, nil
}

type findFilesArgs struct {
	Pattern    string `json:"pattern" jsonschema:"description=Glob matched against workspace-relative paths such as **/*_test.go"`
	Path       string `json:"path,omitempty" jsonschema:"description=Directory to search under; omit for the whole workspace"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"description=Cap on returned paths; default 200"`
}

func newFindFilesTool() agent.Tool {
	return newTool("find_files",
		"Find files by name glob. Bare patterns like *.sql match at any depth.",
		agent.ToolKindRead, true, runFindFiles)
}

func runFindFiles(ctx context.Context, host agent.HostEnvironment, args findFilesArgs) (*agent.ToolResult, error) {
	if _, err := doublestar.Match(args.Pattern, "sample"); err != nil {
		return &agent.ToolResult{Error: fmt.Sprintf("invalid glob %q", args.Pattern)}, nil
	}

	limit := args.MaxResults
	if limit <= 0 {
		limit = defaultFindResults
	}
	if limit > maxFindResults {
		limit = maxFindResults
	}

	var found []string
	capped := false
	err := walkFiles(ctx, host, cleanRel(args.Path), func(rel string, _ agent.DirEntry) error {
		if !globMatches(args.Pattern, rel) {
			return nil
		}
		if len(found) >= limit {
			capped = true
			return errStopWalk
		}
		found = append(found, rel)
		return nil
	})
	if err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}

	if len(found) == 0 {
		return &agent.ToolResult{Output: fmt.Sprintf("No files match %q", args.Pattern)}, nil
	}
	out := strings.Join(found, "\n")
	if capped {
		out += fmt.Sprintf("\n[Results capped at %d paths.]", limit)
	}
	return &agent.ToolResult{Output: out}, nil
}

// globMatches reports whether rel matches pattern. A pattern without a
// path separator also matches against the base name, so *.go finds
// files at any depth the way fd does.
func globMatches(pattern, rel string) bool {
	if pattern == "" {
		return true
	}
	if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		if ok, err := doublestar.Match(pattern, path.Base(rel)); err == nil && ok {
			return true
		}
	}
	return false
}
