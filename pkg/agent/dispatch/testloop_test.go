package dispatch

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/config"
	"github.com/kiln-dev/kiln/pkg/events"
	"github.com/kiln-dev/kiln/pkg/tools"
)

// fakeHost is an in-memory HostEnvironment backed by a rel-path →
// content map. Mutex-guarded because the dispatcher executes the
// parallel bucket concurrently.
type fakeHost struct {
	mu    sync.Mutex
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

func (h *fakeHost) content(rel string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	content, ok := h.files[path.Clean(rel)]
	return content, ok
}

func (h *fakeHost) setDiagnostics(rel string, diags ...agent.Diagnostic) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.diags[path.Clean(rel)] = diags
}

func (h *fakeHost) commandLog() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.commands...)
}

func (h *fakeHost) WorkspaceRoot() string { return "/work" }

func (h *fakeHost) AsRelativePath(p string) string {
	return strings.TrimPrefix(p, "/work/")
}

func (h *fakeHost) ActiveEditorPath() string { return "" }

func (h *fakeHost) ReadFile(_ context.Context, p string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	content, ok := h.files[path.Clean(p)]
	if !ok {
		return "", fmt.Errorf("no such file: %s", p)
	}
	return content, nil
}

func (h *fakeHost) WriteFile(_ context.Context, p string, content string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.files[path.Clean(p)] = content
	return nil
}

func (h *fakeHost) Stat(_ context.Context, p string) (*agent.FileStat, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clean := path.Clean(p)
	if content, ok := h.files[clean]; ok {
		return &agent.FileStat{Size: int64(len(content)), MtimeMs: 1700000000000}, nil
	}
	if clean == "." || h.hasChildrenLocked(clean) {
		return &agent.FileStat{IsDir: true, MtimeMs: 1700000000000}, nil
	}
	return nil, fmt.Errorf("no such path: %s", p)
}

func (h *fakeHost) hasChildrenLocked(dir string) bool {
	prefix := dir + "/"
	for rel := range h.files {
		if strings.HasPrefix(rel, prefix) {
			return true
		}
	}
	return false
}

func (h *fakeHost) ListDir(_ context.Context, dir string) ([]agent.DirEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clean := path.Clean(dir)
	prefix := ""
	if clean != "." {
		if !h.hasChildrenLocked(clean) {
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
	h.mu.Lock()
	defer h.mu.Unlock()
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
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands = append(h.commands, command)
	if h.cmdResult != nil {
		return h.cmdResult, nil
	}
	return &agent.CommandResult{Command: command, Output: "ok\n"}, nil
}

func (h *fakeHost) WaitForDiagnostics(_ context.Context, p string, _ time.Duration) ([]agent.Diagnostic, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.diags[path.Clean(p)], nil
}

func (h *fakeHost) ErrorDiagnostics(p string) []agent.Diagnostic {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p != "" {
		return h.diags[path.Clean(p)]
	}
	var all []agent.Diagnostic
	for _, list := range h.diags {
		all = append(all, list...)
	}
	return all
}

// recordingBus captures every event by delivery mode. The
// onApprovalRequest hook fires inline from Emit, which lets a test
// answer an approval while the dispatcher blocks on the gate: the gate
// registers the pending slot before publishing, so a synchronous
// HandleResponse from the hook is never lost.
type recordingBus struct {
	mu       sync.Mutex
	emits    []events.Event
	posts    []events.Event
	persists []events.Event

	onApprovalRequest func(approvalID string)
}

func (b *recordingBus) Emit(_ context.Context, event events.Event) error {
	b.mu.Lock()
	b.emits = append(b.emits, event)
	hook := b.onApprovalRequest
	b.mu.Unlock()
	if req, ok := event.(events.ApprovalRequestPayload); ok && hook != nil {
		hook(req.ApprovalID)
	}
	return nil
}

func (b *recordingBus) Post(_ context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.posts = append(b.posts, event)
	return nil
}

func (b *recordingBus) Persist(_ context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.persists = append(b.persists, event)
	return nil
}

func (b *recordingBus) emittedActions() []events.ToolActionPayload {
	b.mu.Lock()
	defer b.mu.Unlock()
	var actions []events.ToolActionPayload
	for _, ev := range b.emits {
		if a, ok := ev.(events.ToolActionPayload); ok {
			actions = append(actions, a)
		}
	}
	return actions
}

func (b *recordingBus) approvalResults() []events.ApprovalResultPayload {
	b.mu.Lock()
	defer b.mu.Unlock()
	var results []events.ApprovalResultPayload
	for _, ev := range b.emits {
		if r, ok := ev.(events.ApprovalResultPayload); ok {
			results = append(results, r)
		}
	}
	return results
}

func (b *recordingBus) persistedFilesChanged() []events.FilesChangedPayload {
	b.mu.Lock()
	defer b.mu.Unlock()
	var changes []events.FilesChangedPayload
	for _, ev := range b.persists {
		if c, ok := ev.(events.FilesChangedPayload); ok {
			changes = append(changes, c)
		}
	}
	return changes
}

// newTestLoop assembles a LoopContext against the real built-in tool
// registry, an in-memory host, and no persistence. Checkpoint snapshots
// and session-policy overlays are exercised separately in service tests.
func newTestLoop(t *testing.T, host agent.HostEnvironment, bus agent.EventBus) *agent.LoopContext {
	t.Helper()
	return &agent.LoopContext{
		SessionID: "sess-test",
		TurnID:    "turn-test",
		Policy:    config.DefaultToolPolicyConfig(),
		Registry:  tools.Builtin(),
		Host:      host,
		Bus:       bus,
	}
}

func call(name string, args map[string]any) agent.ToolCall {
	if args == nil {
		args = map[string]any{}
	}
	return agent.ToolCall{Name: name, Args: args}
}
