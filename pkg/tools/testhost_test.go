package tools

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// fakeHost is an in-memory HostEnvironment backed by a rel-path → content
// map. Directories exist implicitly wherever files have them as prefixes.
type fakeHost struct {
	files map[string]string
	diags map[string][]agent.Diagnostic

	commands  []string
	cmdResult *agent.CommandResult
}

func newFakeHost(files map[string]string) *fakeHost {
	clean := make(map[string]string, len(files))
	for rel, content := range files {
		clean[path.Clean(rel)] = content
	}
	return &fakeHost{files: clean, diags: map[string][]agent.Diagnostic{}}
}

func (h *fakeHost) WorkspaceRoot() string { return "/work" }

func (h *fakeHost) AsRelativePath(p string) string {
	return strings.TrimPrefix(p, "/work/")
}

func (h *fakeHost) ActiveEditorPath() string { return "" }

func (h *fakeHost) ReadFile(_ context.Context, p string) (string, error) {
	content, ok := h.files[path.Clean(p)]
	if !ok {
		return "", fmt.Errorf("no such file: %s", p)
	}
	return content, nil
}

func (h *fakeHost) WriteFile(_ context.Context, p string, content string) error {
	h.files[path.Clean(p)] = content
	return nil
}

func (h *fakeHost) Stat(_ context.Context, p string) (*agent.FileStat, error) {
	clean := path.Clean(p)
	if content, ok := h.files[clean]; ok {
		return &agent.FileStat{Size: int64(len(content)), MtimeMs: 1700000000000}, nil
	}
	if clean == "." || h.hasChildren(clean) {
		return &agent.FileStat{IsDir: true, MtimeMs: 1700000000000}, nil
	}
	return nil, fmt.Errorf("no such path: %s", p)
}

func (h *fakeHost) hasChildren(dir string) bool {
	prefix := dir + "/"
	for rel := range h.files {
		if strings.HasPrefix(rel, prefix) {
			return true
		}
	}
	return false
}

func (h *fakeHost) ListDir(_ context.Context, dir string) ([]agent.DirEntry, error) {
	clean := path.Clean(dir)
	prefix := ""
	if clean != "." {
		if !h.hasChildren(clean) {
			return nil, fmt.Errorf("no such directory: %s", dir)
		}
		prefix = clean + "/"
	}

	seen := map[string]agent.DirEntry{}
	for rel, content := range h.files {
		if !strings.HasPrefix(rel, prefix) {
			continue
		}
		rest := strings.TrimPrefix(rel, prefix)
		name, _, nested := strings.Cut(rest, "/")
		if nested {
			seen[name] = agent.DirEntry{Name: name, IsDir: true}
		} else {
			seen[name] = agent.DirEntry{Name: name, Size: int64(len(content))}
		}
	}
	entries := make([]agent.DirEntry, 0, len(seen))
	for _, entry := range seen {
		entries = append(entries, entry)
	}
	return entries, nil
}

func (h *fakeHost) DeletePath(_ context.Context, p string) error {
	clean := path.Clean(p)
	if _, ok := h.files[clean]; ok {
		delete(h.files, clean)
		return nil
	}
	prefix := clean + "/"
	removed := false
	for rel := range h.files {
		if strings.HasPrefix(rel, prefix) {
			delete(h.files, rel)
			removed = true
		}
	}
	if !removed {
		return fmt.Errorf("no such path: %s", p)
	}
	return nil
}

func (h *fakeHost) ExecCommand(_ context.Context, command string, _ time.Duration) (*agent.CommandResult, error) {
	h.commands = append(h.commands, command)
	if h.cmdResult != nil {
		return h.cmdResult, nil
	}
	return &agent.CommandResult{Command: command, Output: "ok\n"}, nil
}

func (h *fakeHost) WaitForDiagnostics(_ context.Context, p string, _ time.Duration) ([]agent.Diagnostic, error) {
	return h.diags[path.Clean(p)], nil
}

func (h *fakeHost) ErrorDiagnostics(p string) []agent.Diagnostic {
	if p != "" {
		return h.diags[path.Clean(p)]
	}
	var all []agent.Diagnostic
	for _, list := range h.diags {
		all = append(all, list...)
	}
	return all
}
