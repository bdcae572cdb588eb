package tools

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/kiln-dev/kiln/pkg/agent"
)

const (
	maxDefinitionResults = 20
	maxReferenceResults  = 100
	maxDocumentSymbols   = 200
	maxWorkspaceSymbols  = 50
	diagnosticsWait      = 2 * time.Second
)

// Extensions scanned by the symbol tools. Everything else is skipped
// so reference counts aren't inflated by lockfiles and fixtures.
var codeExtensions = map[string]bool{
	".go": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".mjs": true, ".cjs": true, ".py": true, ".rs": true, ".java": true,
	".kt": true, ".c": true, ".h": true, ".cpp": true, ".hpp": true,
	".cc": true, ".cs": true, ".rb": true, ".php": true, ".swift": true,
	".scala": true, ".sh": true, ".sql": true, ".proto": true, ".vue": true,
}

func isCodeFile(rel string) bool { return codeExtensions[strings.ToLower(path.Ext(rel))] }

// definitionRegexps builds the line patterns that introduce symbol as a
// definition in the language implied by ext. Pure heuristics: good
// enough to land the model on the right line without a language server.
func definitionRegexps(ext, symbol string) []*regexp.Regexp {
	name := regexp.QuoteMeta(symbol)
	var exprs []string
	switch strings.ToLower(ext) {
	case ".go":
		exprs = []string{
			`^func\s+(?:\([^)]+\)\s*)?` + name + `\s*[([]`,
			`^type\s+` + name + `\b`,
			`^(?:var|const)\s+` + name + `\b`,
		}
	case ".py":
		exprs = []string{
			`^\s*(?:def|class)\s+` + name + `\b`,
			`^` + name + `\s*=`,
		}
	case ".rs":
		exprs = []string{
			`\b(?:fn|struct|enum|trait|mod)\s+` + name + `\b`,
			`\b(?:const|static)\s+` + name + `\s*:`,
		}
	case ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".vue":
		exprs = []string{
			`\bfunction\s+` + name + `\s*\(`,
			`\b(?:class|interface|enum)\s+` + name + `\b`,
			`\btype\s+` + name + `\s*=`,
			`\b(?:const|let|var)\s+` + name + `\s*=`,
			`^\s*(?:async\s+)?` + name + `\s*\([^)]*\)\s*\{`,
		}
	default:
		exprs = []string{
			`\b(?:func|function|fn|def|class|type|struct|interface|trait|enum|const|let|var|static)\s+` + name + `\b`,
		}
	}
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, regexp.MustCompile(expr))
	}
	return out
}

type findDefinitionArgs struct {
	SymbolName string `json:"symbolName" jsonschema:"description=Exact name of the symbol to locate"`
	Path       string `json:"path,omitempty" jsonschema:"description=File or directory to restrict the search to"`
}

func newFindDefinitionTool() agent.Tool {
	return newTool("find_definition",
		"Locate where a function or type or variable is defined. Returns path:line: matches.",
		agent.ToolKindRead, true, runFindDefinition)
}

func runFindDefinition(ctx context.Context, host agent.HostEnvironment, args findDefinitionArgs) (*agent.ToolResult, error) {
	var found []string
	scan := func(rel, content string) {
		patterns := definitionRegexps(path.Ext(rel), args.SymbolName)
		for i, line := range strings.Split(content, "\n") {
			if len(found) >= maxDefinitionResults {
				return
			}
			for _, re := range patterns {
				if re.MatchString(line) {
					found = append(found, fmt.Sprintf("%s:%d: %s", rel, i+1, capLine(strings.TrimSpace(line), maxMatchLineChars)))
					break
				}
			}
		}
	}

	if err := scanCodeFiles(ctx, host, args.Path, func(rel, content string) error {
		scan(rel, content)
		if len(found) >= maxDefinitionResults {
			return errStopWalk
		}
		return nil
	}); err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}

	if len(found) == 0 {
		return &agent.ToolResult{Output: fmt.Sprintf("No definition found for %q", args.SymbolName)}, nil
	}
	return &agent.ToolResult{Output: strings.Join(found, "\n")}, nil
}

type findReferencesArgs struct {
	SymbolName string `json:"symbolName" jsonschema:"description=Exact name of the symbol to find usages of"`
	Path       string `json:"path,omitempty" jsonschema:"description=File or directory to restrict the search to"`
}

func newFindReferencesTool() agent.Tool {
	return newTool("find_references",
		"Find every usage of a symbol name across the workspace code files.",
		agent.ToolKindRead, true, runFindReferences)
}

func runFindReferences(ctx context.Context, host agent.HostEnvironment, args findReferencesArgs) (*agent.ToolResult, error) {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(args.SymbolName) + `\b`)

	var found []string
	capped := false
	if err := scanCodeFiles(ctx, host, args.Path, func(rel, content string) error {
		for i, line := range strings.Split(content, "\n") {
			if !re.MatchString(line) {
				continue
			}
			if len(found) >= maxReferenceResults {
				capped = true
				return errStopWalk
			}
			found = append(found, fmt.Sprintf("%s:%d: %s", rel, i+1, capLine(strings.TrimSpace(line), maxMatchLineChars)))
		}
		return nil
	}); err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}

	if len(found) == 0 {
		return &agent.ToolResult{Output: fmt.Sprintf("No references to %q", args.SymbolName)}, nil
	}
	out := strings.Join(found, "\n")
	if capped {
		out += fmt.Sprintf("\n[References capped at %d. Restrict the path for more.]", maxReferenceResults)
	}
	return &agent.ToolResult{Output: out}, nil
}

type documentSymbolsArgs struct {
	Path string `json:"path" jsonschema:"description=File to outline"`
}

func newDocumentSymbolsTool() agent.Tool {
	return newTool("document_symbols",
		"Outline the top-level symbols of one file with their line numbers.",
		agent.ToolKindRead, true, runDocumentSymbols)
}

// outlinePattern captures (kind, name) definitions for one language.
type outlinePattern struct {
	re   *regexp.Regexp
	kind string
}

func outlinePatterns(ext string) []outlinePattern {
	switch strings.ToLower(ext) {
	case ".go":
		return []outlinePattern{
			{regexp.MustCompile(`^func\s+(?:\([^)]+\)\s*)?(\w+)`), "func"},
			{regexp.MustCompile(`^type\s+(\w+)`), "type"},
			{regexp.MustCompile(`^var\s+(\w+)`), "var"},
			{regexp.MustCompile(`^const\s+(\w+)`), "const"},
		}
	case ".py":
		return []outlinePattern{
			{regexp.MustCompile(`^\s*class\s+(\w+)`), "class"},
			{regexp.MustCompile(`^\s*def\s+(\w+)`), "def"},
		}
	case ".rs":
		return []outlinePattern{
			{regexp.MustCompile(`\bfn\s+(\w+)`), "fn"},
			{regexp.MustCompile(`\b(?:struct|enum|trait)\s+(\w+)`), "type"},
		}
	default:
		return []outlinePattern{
			{regexp.MustCompile(`\bfunction\s+(\w+)`), "function"},
			{regexp.MustCompile(`\bclass\s+(\w+)`), "class"},
			{regexp.MustCompile(`\binterface\s+(\w+)`), "interface"},
			{regexp.MustCompile(`\benum\s+(\w+)`), "enum"},
			{regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=`), "const"},
			{regexp.MustCompile(`^\s*def\s+(\w+)`), "def"},
		}
	}
}

func runDocumentSymbols(ctx context.Context, host agent.HostEnvironment, args documentSymbolsArgs) (*agent.ToolResult, error) {
	content, err := host.ReadFile(ctx, args.Path)
	if err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}

	patterns := outlinePatterns(path.Ext(args.Path))
	var out []string
	for i, line := range strings.Split(content, "\n") {
		if len(out) >= maxDocumentSymbols {
			break
		}
		for _, p := range patterns {
			if m := p.re.FindStringSubmatch(line); m != nil {
				out = append(out, fmt.Sprintf("%6d\t%s\t%s", i+1, p.kind, m[1]))
				break
			}
		}
	}

	if len(out) == 0 {
		return &agent.ToolResult{Output: fmt.Sprintf("No symbols recognized in %s", args.Path)}, nil
	}
	return &agent.ToolResult{Output: strings.Join(out, "\n")}, nil
}

type workspaceSymbolsArgs struct {
	Query      string `json:"query" jsonschema:"description=Substring of the symbol name to look for"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"description=Cap on returned symbols; default 50"`
}

func newWorkspaceSymbolsTool() agent.Tool {
	return newTool("workspace_symbols",
		"Find symbols by name substring across the whole workspace.",
		agent.ToolKindRead, true, runWorkspaceSymbols)
}

func runWorkspaceSymbols(ctx context.Context, host agent.HostEnvironment, args workspaceSymbolsArgs) (*agent.ToolResult, error) {
	limit := args.MaxResults
	if limit <= 0 || limit > maxWorkspaceSymbols {
		limit = maxWorkspaceSymbols
	}
	query := strings.ToLower(args.Query)

	var found []string
	if err := scanCodeFiles(ctx, host, "", func(rel, content string) error {
		patterns := outlinePatterns(path.Ext(rel))
		for i, line := range strings.Split(content, "\n") {
			for _, p := range patterns {
				m := p.re.FindStringSubmatch(line)
				if m == nil || !strings.Contains(strings.ToLower(m[1]), query) {
					continue
				}
				if len(found) >= limit {
					return errStopWalk
				}
				found = append(found, fmt.Sprintf("%s\t%s\t%s:%d", m[1], p.kind, rel, i+1))
				break
			}
		}
		return nil
	}); err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}

	if len(found) == 0 {
		return &agent.ToolResult{Output: fmt.Sprintf("No symbols matching %q", args.Query)}, nil
	}
	return &agent.ToolResult{Output: strings.Join(found, "\n")}, nil
}

type diagnosticsArgs struct {
	Path string `json:"path,omitempty" jsonschema:"description=File to check; omit to report all known problems"`
}

func newDiagnosticsTool() agent.Tool {
	// Not cacheable: diagnostics change as files are written.
	return newTool("diagnostics",
		"Report compiler and analyzer problems for a file or the whole workspace.",
		agent.ToolKindRead, false, runDiagnostics)
}

func runDiagnostics(ctx context.Context, host agent.HostEnvironment, args diagnosticsArgs) (*agent.ToolResult, error) {
	var diags []agent.Diagnostic
	if args.Path != "" {
		var err error
		diags, err = host.WaitForDiagnostics(ctx, args.Path, diagnosticsWait)
		if err != nil {
			return &agent.ToolResult{Error: err.Error()}, nil
		}
	} else {
		diags = host.ErrorDiagnostics("")
	}

	if len(diags) == 0 {
		return &agent.ToolResult{Output: "No problems reported."}, nil
	}
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, fmt.Sprintf("%s:%d [%s] %s", d.Path, d.Line, d.Severity, d.Message))
	}
	return &agent.ToolResult{Output: strings.Join(lines, "\n")}, nil
}

// scanCodeFiles reads every code file under start (a file path is
// scanned directly) and hands the content to fn. Oversized and binary
// files are skipped.
func scanCodeFiles(ctx context.Context, host agent.HostEnvironment, start string, fn func(rel, content string) error) error {
	start = cleanRel(start)
	stat, err := host.Stat(ctx, start)
	if err != nil {
		return err
	}

	visit := func(rel string, size int64) error {
		if size > maxSearchFileSize {
			return nil
		}
		content, err := host.ReadFile(ctx, rel)
		if err != nil || strings.ContainsRune(content, '\x00') {
			return nil
		}
		return fn(rel, content)
	}

	if !stat.IsDir {
		if err := visit(start, stat.Size); err != nil && err != errStopWalk {
			return err
		}
		return nil
	}
	return walkFiles(ctx, host, start, func(rel string, entry agent.DirEntry) error {
		if !isCodeFile(rel) {
			return nil
		}
		return visit(rel, entry.Size)
	})
}
