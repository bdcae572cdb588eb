package e2e

import (
	"context"
	"fmt"
	"sync"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// ScriptEntry is one scripted model call. Entries are consumed in the
// order the engine issues Chat calls; a test that knows its turn will
// take N model calls scripts exactly N entries.
type ScriptEntry struct {
	// Chunks is the exact stream to deliver. Entries that script tool
	// calls or thinking set this and should end with a DoneChunk.
	Chunks []agent.Chunk

	// Text is shorthand for one text chunk followed by a clean done
	// chunk. Ignored when Chunks is set.
	Text string

	// Err fails the Chat call itself, before any chunk is delivered.
	Err error

	// WaitCh delays the stream until the channel is closed. Lets a
	// test hold a turn in "generating" while it observes the system.
	WaitCh <-chan struct{}

	// BlockUntilCancelled holds the stream open until the request
	// context is cancelled, then closes the channel without a done
	// chunk. Simulates a model that never finishes responding.
	BlockUntilCancelled bool

	// OnBlock receives one notification when a blocking entry starts
	// waiting. Must be buffered.
	OnBlock chan<- struct{}
}

// ScriptedBackend implements agent.ChatBackend with canned responses.
// Chat calls consume scripted entries; ChatNoStream (titles, fallback
// summaries) always returns NoStreamReply and never touches the script,
// since title generation runs concurrently with the main loop.
//
// Entries are matched per model when a route is registered for the
// request's model name, falling back to the shared sequential script.
// Multi-session tests give each session its own model name to keep
// their scripts independent.
type ScriptedBackend struct {
	mu sync.Mutex

	script []ScriptEntry
	next   int

	routes    map[string][]ScriptEntry
	routeNext map[string]int

	capabilities map[string]*agent.ModelCapability

	chatCalls     []*agent.ChatRequest
	noStreamCalls []*agent.ChatRequest

	// NoStreamReply is the content of every ChatNoStream response.
	NoStreamReply string
}

// NewScriptedBackend returns an empty backend. All models support
// native tool calls and thinking unless overridden with SetCapability.
func NewScriptedBackend() *ScriptedBackend {
	return &ScriptedBackend{
		routes:        make(map[string][]ScriptEntry),
		routeNext:     make(map[string]int),
		capabilities:  make(map[string]*agent.ModelCapability),
		NoStreamReply: "Scripted test session",
	}
}

// Add appends entries to the shared sequential script.
func (b *ScriptedBackend) Add(entries ...ScriptEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.script = append(b.script, entries...)
}

// Route appends entries to the per-model script for the given model
// name. Requests for that model never consume the sequential script.
func (b *ScriptedBackend) Route(model string, entries ...ScriptEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[model] = append(b.routes[model], entries...)
}

// SetCapability overrides the capability record for one model.
func (b *ScriptedBackend) SetCapability(model string, cap *agent.ModelCapability) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.capabilities[model] = cap
}

// Chat pops the next scripted entry and streams its chunks.
func (b *ScriptedBackend) Chat(ctx context.Context, req *agent.ChatRequest) (<-chan agent.Chunk, error) {
	b.mu.Lock()
	b.chatCalls = append(b.chatCalls, req)

	var entry ScriptEntry
	if routed, ok := b.routes[req.Model]; ok {
		i := b.routeNext[req.Model]
		if i >= len(routed) {
			b.mu.Unlock()
			return nil, fmt.Errorf("scripted backend: model %s exhausted its %d entries", req.Model, len(routed))
		}
		entry = routed[i]
		b.routeNext[req.Model] = i + 1
	} else {
		if b.next >= len(b.script) {
			b.mu.Unlock()
			return nil, fmt.Errorf("scripted backend: no entry for call %d", b.next+1)
		}
		entry = b.script[b.next]
		b.next++
	}
	b.mu.Unlock()

	if entry.Err != nil {
		return nil, entry.Err
	}

	if entry.BlockUntilCancelled {
		ch := make(chan agent.Chunk)
		go func() {
			if entry.OnBlock != nil {
				entry.OnBlock <- struct{}{}
			}
			<-ctx.Done()
			close(ch)
		}()
		return ch, nil
	}

	chunks := entry.Chunks
	if len(chunks) == 0 {
		chunks = []agent.Chunk{
			&agent.TextChunk{Content: entry.Text},
			&agent.DoneChunk{Reason: "stop", PromptTokens: 128, CompletionTokens: 32},
		}
	}

	if entry.WaitCh == nil {
		ch := make(chan agent.Chunk, len(chunks))
		for _, c := range chunks {
			ch <- c
		}
		close(ch)
		return ch, nil
	}

	ch := make(chan agent.Chunk)
	go func() {
		defer close(ch)
		select {
		case <-entry.WaitCh:
		case <-ctx.Done():
			return
		}
		for _, c := range chunks {
			select {
			case ch <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// ChatNoStream serves title and fallback-summary calls.
func (b *ScriptedBackend) ChatNoStream(_ context.Context, req *agent.ChatRequest) (*agent.ChatResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.noStreamCalls = append(b.noStreamCalls, req)
	return &agent.ChatResponse{
		Content:          b.NoStreamReply,
		DoneReason:       "stop",
		PromptTokens:     24,
		CompletionTokens: 8,
	}, nil
}

// Capability reports native tool and thinking support for every model.
func (b *ScriptedBackend) Capability(_ context.Context, model string) (*agent.ModelCapability, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cap, ok := b.capabilities[model]; ok {
		return cap, nil
	}
	return &agent.ModelCapability{
		Name:             model,
		SupportsTools:    true,
		SupportsThinking: true,
		ContextLength:    16384,
	}, nil
}

// ChatCalls returns how many streaming calls the engine has made.
func (b *ScriptedBackend) ChatCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.chatCalls)
}

// NoStreamCalls returns how many blocking utility calls were made.
func (b *ScriptedBackend) NoStreamCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.noStreamCalls)
}

// Requests returns a copy of every streaming request seen so far.
func (b *ScriptedBackend) Requests() []*agent.ChatRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*agent.ChatRequest, len(b.chatCalls))
	copy(out, b.chatCalls)
	return out
}
