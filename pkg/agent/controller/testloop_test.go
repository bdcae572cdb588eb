package controller

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

// scriptTurn is one scripted streaming response. err fails the Chat
// call itself; block makes the stream hang after its chunks until the
// caller's context is cancelled, the way a real request does.
type scriptTurn struct {
	chunks []agent.Chunk
	err    error
	block  bool
}

// scriptedBackend replays scripted turns for Chat and answers blocking
// calls (compaction, summaries, titles) through the noStream hook.
// Requests are recorded with their message list copied, since the
// engine mutates the history slice between iterations.
type scriptedBackend struct {
	mu       sync.Mutex
	turns    []scriptTurn
	requests []*agent.ChatRequest

	noStream func(req *agent.ChatRequest) (*agent.ChatResponse, error)

	capability *agent.ModelCapability
	capErr     error
}

func (b *scriptedBackend) Chat(ctx context.Context, req *agent.ChatRequest) (<-chan agent.Chunk, error) {
	b.mu.Lock()
	b.requests = append(b.requests, copyRequest(req))
	if len(b.turns) == 0 {
		n := len(b.requests)
		b.mu.Unlock()
		return nil, fmt.Errorf("scripted backend exhausted at request %d", n)
	}
	turn := b.turns[0]
	b.turns = b.turns[1:]
	b.mu.Unlock()

	if turn.err != nil {
		return nil, turn.err
	}
	ch := make(chan agent.Chunk)
	go func() {
		defer close(ch)
		for _, chunk := range turn.chunks {
			select {
			case ch <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if turn.block {
			<-ctx.Done()
		}
	}()
	return ch, nil
}

func (b *scriptedBackend) ChatNoStream(_ context.Context, req *agent.ChatRequest) (*agent.ChatResponse, error) {
	b.mu.Lock()
	b.requests = append(b.requests, copyRequest(req))
	hook := b.noStream
	b.mu.Unlock()
	if hook == nil {
		return nil, fmt.Errorf("no scripted non-streaming response")
	}
	return hook(req)
}

func (b *scriptedBackend) Capability(_ context.Context, model string) (*agent.ModelCapability, error) {
	if b.capErr != nil {
		return nil, b.capErr
	}
	if b.capability != nil {
		return b.capability, nil
	}
	return &agent.ModelCapability{
		Name:             model,
		SupportsTools:    true,
		SupportsThinking: true,
		ContextLength:    16384,
	}, nil
}

// request returns the i-th recorded request (streaming and blocking
// calls interleaved in arrival order).
func (b *scriptedBackend) request(t *testing.T, i int) *agent.ChatRequest {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if i >= len(b.requests) {
		t.Fatalf("only %d requests recorded, wanted index %d", len(b.requests), i)
	}
	return b.requests[i]
}

func (b *scriptedBackend) requestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func copyRequest(req *agent.ChatRequest) *agent.ChatRequest {
	dup := *req
	dup.Messages = append([]agent.ConversationMessage(nil), req.Messages...)
	return &dup
}

// lastUserContent returns the content of the trailing user message of a
// recorded request — the continuation the engine fed the model.
func lastUserContent(t *testing.T, req *agent.ChatRequest) string {
	t.Helper()
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == agent.RoleUser {
			return req.Messages[i].Content
		}
	}
	t.Fatal("request has no user message")
	return ""
}

// Chunk constructors.

func text(s string) agent.Chunk     { return &agent.TextChunk{Content: s} }
func thinking(s string) agent.Chunk { return &agent.ThinkingChunk{Content: s} }

func nativeCall(name string, args map[string]any) agent.Chunk {
	if args == nil {
		args = map[string]any{}
	}
	return &agent.ToolCallChunk{Call: agent.ToolCall{Name: name, Args: args}}
}

func done(prompt, completion int) agent.Chunk {
	return &agent.DoneChunk{Reason: "stop", PromptTokens: prompt, CompletionTokens: completion}
}

func doneLength(prompt, completion int) agent.Chunk {
	return &agent.DoneChunk{Reason: agent.DoneReasonLength, PromptTokens: prompt, CompletionTokens: completion}
}

func stream(chunks ...agent.Chunk) scriptTurn { return scriptTurn{chunks: chunks} }

func call(name string, args map[string]any) agent.ToolCall {
	if args == nil {
		args = map[string]any{}
	}
	return agent.ToolCall{Name: name, Args: args}
}

// recordingBus captures every event by delivery mode. The onEvent hook
// fires inline from Emit and Post on the engine's goroutine, which lets
// a test answer an approval or cancel the turn at an exact point in the
// stream.
type recordingBus struct {
	mu       sync.Mutex
	emits    []events.Event
	posts    []events.Event
	persists []events.Event

	onEvent func(ev events.Event)
}

func (b *recordingBus) Emit(_ context.Context, event events.Event) error {
	b.mu.Lock()
	b.emits = append(b.emits, event)
	hook := b.onEvent
	b.mu.Unlock()
	if hook != nil {
		hook(event)
	}
	return nil
}

func (b *recordingBus) Post(_ context.Context, event events.Event) error {
	b.mu.Lock()
	b.posts = append(b.posts, event)
	hook := b.onEvent
	b.mu.Unlock()
	if hook != nil {
		hook(event)
	}
	return nil
}

func (b *recordingBus) Persist(_ context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.persists = append(b.persists, event)
	return nil
}

// streamedText concatenates every posted response-text delta.
func (b *recordingBus) streamedText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	for _, ev := range b.posts {
		if chunk, ok := ev.(events.StreamChunkPayload); ok {
			sb.WriteString(chunk.Delta)
		}
	}
	return sb.String()
}

func (b *recordingBus) posted(eventType string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.Event
	for _, ev := range b.posts {
		if ev.EventType() == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func (b *recordingBus) emitted(eventType string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.Event
	for _, ev := range b.emits {
		if ev.EventType() == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// memHost is an in-memory HostEnvironment with scripted diagnostics,
// external-change reports, and editor focus.
type memHost struct {
	mu    sync.Mutex
	files map[string]string
	diags map[string][]agent.Diagnostic

	commands  []string
	cmdResult *agent.CommandResult

	external []string
	focus    string
}

func newMemHost(files map[string]string) *memHost {
	clean := make(map[string]string, len(files))
	for rel, content := range files {
		clean[path.Clean(rel)] = content
	}
	return &memHost{files: clean, diags: map[string][]agent.Diagnostic{}}
}

func (h *memHost) content(rel string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	content, ok := h.files[path.Clean(rel)]
	return content, ok
}

func (h *memHost) setDiagnostics(rel string, diags ...agent.Diagnostic) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.diags[path.Clean(rel)] = diags
}

func (h *memHost) reportExternal(paths ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.external = append(h.external, paths...)
}

func (h *memHost) setFocus(p string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.focus = p
}

func (h *memHost) commandLog() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.commands...)
}

func (h *memHost) WorkspaceRoot() string { return "/work" }

func (h *memHost) AsRelativePath(p string) string {
	return strings.TrimPrefix(p, "/work/")
}

func (h *memHost) ActiveEditorPath() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.focus
}

func (h *memHost) ReadFile(_ context.Context, p string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	content, ok := h.files[path.Clean(p)]
	if !ok {
		return "", fmt.Errorf("no such file: %s", p)
	}
	return content, nil
}

func (h *memHost) WriteFile(_ context.Context, p string, content string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.files[path.Clean(p)] = content
	return nil
}

func (h *memHost) Stat(_ context.Context, p string) (*agent.FileStat, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	content, ok := h.files[path.Clean(p)]
	if !ok {
		return nil, fmt.Errorf("no such path: %s", p)
	}
	return &agent.FileStat{Size: int64(len(content)), MtimeMs: 1700000000000}, nil
}

func (h *memHost) ListDir(_ context.Context, dir string) ([]agent.DirEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clean := path.Clean(dir)
	prefix := ""
	if clean != "." {
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

func (h *memHost) DeletePath(_ context.Context, p string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	clean := path.Clean(p)
	if _, ok := h.files[clean]; !ok {
		return fmt.Errorf("no such path: %s", p)
	}
	delete(h.files, clean)
	return nil
}

func (h *memHost) ExecCommand(_ context.Context, command string, _ time.Duration) (*agent.CommandResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands = append(h.commands, command)
	if h.cmdResult != nil {
		return h.cmdResult, nil
	}
	return &agent.CommandResult{Command: command, Output: "ok\n"}, nil
}

func (h *memHost) WaitForDiagnostics(_ context.Context, p string, _ time.Duration) ([]agent.Diagnostic, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.diags[path.Clean(p)], nil
}

func (h *memHost) ErrorDiagnostics(p string) []agent.Diagnostic {
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

func (h *memHost) DrainExternalChanges() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	changed := h.external
	h.external = nil
	return changed
}

// stubPrompts is a canned PromptBuilder. The loop only threads prompt
// text through; the real builder is exercised in its own package.
type stubPrompts struct{}

func (stubPrompts) BuildSystemPrompt(lc *agent.LoopContext, _ []agent.ToolDefinition, _ bool) string {
	return "You are kiln, a coding agent. Mode: " + string(lc.Executor.Mode) + "."
}

func (stubPrompts) BuildTaskMessage(lc *agent.LoopContext) string {
	if lc.SubAgent != nil && lc.SubAgent.ContextHint != "" {
		return lc.SubAgent.ContextHint + "\n\n" + lc.Task
	}
	return lc.Task
}

func (stubPrompts) BuildCompactionSystemPrompt() string { return "Condense the transcript." }

func (stubPrompts) BuildCompactionUserPrompt(transcript string) string { return transcript }

func (stubPrompts) BuildTurnSummarySystemPrompt() string { return "Summarize the turn." }

func (stubPrompts) BuildTurnSummaryUserPrompt(outputs []string, _ string) string {
	return strings.Join(outputs, "\n")
}

func (stubPrompts) BuildTitleSystemPrompt() string { return "Title the session." }

func (stubPrompts) BuildTitleUserPrompt(task string) string { return task }

// newTestLoop assembles a LoopContext against the real built-in tool
// registry and no persistence. Iteration budget is small so exhaustion
// paths stay cheap to script.
func newTestLoop(t *testing.T, mode config.Mode, task string, backend agent.ChatBackend, host agent.HostEnvironment, bus agent.EventBus) *agent.LoopContext {
	t.Helper()
	return &agent.LoopContext{
		SessionID:        "sess-ctrl",
		TurnID:           "turn-1",
		Task:             task,
		Model:            "qwen3:8b",
		ModelConfig:      &config.ModelConfig{},
		Policy:           config.DefaultToolPolicyConfig(),
		GlobalContextCap: 32768,
		Executor: &agent.ExecutorConfig{
			Mode:              mode,
			AllowedTools:      tools.ForMode(mode),
			AllowOutputToUser: true,
			AllowWrites:       mode.AllowsWrites(),
			MaxIterations:     6,
			PromptBuilder:     stubPrompts{},
		},
		Backend:  backend,
		Registry: tools.Builtin(),
		Host:     host,
		Bus:      bus,
	}
}
