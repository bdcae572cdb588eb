package controller

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/events"
)

func newCollector(bus agent.EventBus, known ...string) *streamCollector {
	k := make(map[string]bool, len(known))
	for _, name := range known {
		k[name] = true
	}
	sc := newStreamCollector(bus, slog.Default(), "qwen3:8b", k)
	sc.interval = 0 // tests assert per-delta flushes unless stated
	return sc
}

func collectChunks(t *testing.T, sc *streamCollector, chunks ...agent.Chunk) (*StreamResult, error) {
	t.Helper()
	ch := make(chan agent.Chunk, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	return sc.collect(context.Background(), ch)
}

func collapses(bus *recordingBus) []events.CollapseThinkingPayload {
	var out []events.CollapseThinkingPayload
	for _, ev := range bus.posted(events.EventCollapseThinking) {
		out = append(out, ev.(events.CollapseThinkingPayload))
	}
	return out
}

func TestCollectBasicStream(t *testing.T) {
	bus := &recordingBus{}
	sc := newCollector(bus)

	res, err := collectChunks(t, sc,
		thinking("The user wants a greeting. "),
		thinking("Plain text will do."),
		text("Hello"),
		text(" world"),
		done(120, 30),
	)
	require.NoError(t, err)

	assert.Equal(t, "Hello world", res.Response)
	assert.Equal(t, "The user wants a greeting. Plain text will do.", res.Thinking)
	assert.Equal(t, 120, res.PromptTokens)
	assert.Equal(t, 30, res.CompletionTokens)
	assert.False(t, res.Truncated)

	assert.Len(t, bus.posted(events.EventShowThinking), 1)
	assert.Len(t, bus.posted(events.EventStreamThinking), 2)
	assert.Equal(t, "Hello world", bus.streamedText())

	// Thinking folds once, on the first visible response text.
	folds := collapses(bus)
	require.Len(t, folds, 1)
	assert.Empty(t, folds[0].Preparing)
}

func TestCollectSentinelNeverReachesUI(t *testing.T) {
	bus := &recordingBus{}
	sc := newCollector(bus)

	// The sentinel arrives split across deltas; the holdback keeps the
	// partial token off screen until it resolves.
	res, err := collectChunks(t, sc,
		text("All done here. [TASK_"),
		text("COMPLETE] Enjoy."),
		done(80, 12),
	)
	require.NoError(t, err)

	assert.Contains(t, res.Response, agent.CompletionSentinel)
	streamed := bus.streamedText()
	assert.NotContains(t, strings.ToLower(streamed), "task_complete")
	assert.Contains(t, streamed, "All done here.")
	assert.Contains(t, streamed, "Enjoy.")
}

func TestCollectTrailingSentinelHeldAtFinish(t *testing.T) {
	bus := &recordingBus{}
	sc := newCollector(bus)

	_, err := collectChunks(t, sc,
		text("Everything checks out. [TASK_COMP"),
		done(50, 8),
	)
	require.NoError(t, err)
	assert.Equal(t, "Everything checks out. ", bus.streamedText())
}

func TestCollectFreezesOnTaggedCall(t *testing.T) {
	bus := &recordingBus{}
	sc := newCollector(bus, "read_file")

	res, err := collectChunks(t, sc,
		thinking("Need the file contents."),
		text(`<tool_call>{"name": "read_file", "arguments": {"path": "main.go"}}</tool_call>`),
		text(" trailing noise"),
		done(90, 25),
	)
	require.NoError(t, err)

	// Nothing visible streamed; the collapse carries the preparing hint.
	assert.Empty(t, bus.streamedText())
	folds := collapses(bus)
	require.Len(t, folds, 1)
	assert.Equal(t, "Reading a file…", folds[0].Preparing)

	// The raw response still carries everything for the parser.
	assert.Contains(t, res.Response, "<tool_call>")
	assert.Contains(t, res.Response, "trailing noise")
}

func TestCollectFlushesProseBeforeTaggedCall(t *testing.T) {
	bus := &recordingBus{}
	sc := newCollector(bus, "read_file")

	_, err := collectChunks(t, sc,
		text("Let me check the entrypoint.\n"),
		text(`<tool_call>{"name": "read_file", "arguments": {"path": "cmd/main.go"}}</tool_call>`),
		done(90, 25),
	)
	require.NoError(t, err)
	assert.Equal(t, "Let me check the entrypoint.\n", bus.streamedText())
}

func TestCollectFreezesOnBareCall(t *testing.T) {
	t.Run("known tool freezes the stream", func(t *testing.T) {
		bus := &recordingBus{}
		sc := newCollector(bus, "search")

		_, err := collectChunks(t, sc,
			text(`I'll look for it. {"name": "search", "arguments": {"query": "Budgeter"}}`),
			done(70, 20),
		)
		require.NoError(t, err)
		assert.Equal(t, "I'll look for it. ", bus.streamedText())
	})

	t.Run("unknown name keeps streaming", func(t *testing.T) {
		bus := &recordingBus{}
		sc := newCollector(bus, "search")

		payload := `The config is {"name": "serverA", "arguments": {"port": 8080}} as shipped.`
		_, err := collectChunks(t, sc, text(payload), done(70, 20))
		require.NoError(t, err)
		assert.Equal(t, payload, bus.streamedText())
	})
}

func TestCollectNativeToolCall(t *testing.T) {
	bus := &recordingBus{}
	sc := newCollector(bus, "write")

	res, err := collectChunks(t, sc,
		thinking("Time to write the file."),
		nativeCall("write", map[string]any{"path": "main.go", "content": "package main\n"}),
		done(200, 40),
	)
	require.NoError(t, err)

	require.Len(t, res.NativeCalls, 1)
	assert.Equal(t, "write", res.NativeCalls[0].Name)

	folds := collapses(bus)
	require.Len(t, folds, 1)
	assert.Equal(t, "Writing main.go…", folds[0].Preparing)
	assert.Empty(t, bus.streamedText())
}

func TestCollectToolParseErrorIsRecoverableInline(t *testing.T) {
	bus := &recordingBus{}
	sc := newCollector(bus)

	res, err := collectChunks(t, sc,
		text("Calling the tool now."),
		&agent.ErrorChunk{Message: `error parsing tool call: invalid character '“', raw='{"name": "search"}'`},
		text(" Still here."),
		done(60, 15),
	)
	require.NoError(t, err)
	require.Len(t, res.ToolParseErrors, 1)
	assert.Equal(t, "Calling the tool now. Still here.", res.Response)
	assert.Equal(t, "Calling the tool now. Still here.", bus.streamedText())
}

func TestCollectFatalError(t *testing.T) {
	bus := &recordingBus{}
	sc := newCollector(bus)

	res, err := collectChunks(t, sc,
		text("Partial answer"),
		&agent.ErrorChunk{Message: "model runner has unexpectedly stopped"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model stream failed")
	// The partial result survives for persistence.
	assert.Equal(t, "Partial answer", res.Response)
}

func TestCollectTruncation(t *testing.T) {
	bus := &recordingBus{}
	sc := newCollector(bus)

	res, err := collectChunks(t, sc,
		text("An unfinished thou"),
		doneLength(300, 4096),
	)
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Equal(t, 4096, res.CompletionTokens)
}

func TestCollectThrottleBatchesDeltas(t *testing.T) {
	bus := &recordingBus{}
	sc := newCollector(bus)
	sc.interval = 10 * time.Second // only the first flush and the final forced flush pass

	_, err := collectChunks(t, sc,
		text("a"), text("b"), text("c"),
		done(10, 3),
	)
	require.NoError(t, err)

	chunks := bus.posted(events.EventStreamChunk)
	require.Len(t, chunks, 2)
	assert.Equal(t, "a", chunks[0].(events.StreamChunkPayload).Delta)
	assert.Equal(t, "bc", chunks[1].(events.StreamChunkPayload).Delta)
}

func TestDetectToolCallSyntax(t *testing.T) {
	known := map[string]bool{"search": true, "read_file": true}

	tests := []struct {
		name     string
		text     string
		wantCut  int
		wantName string
	}{
		{
			name:     "tagged call counts without a known name",
			text:     `prose <tool_call>{"na`,
			wantCut:  6,
			wantName: "",
		},
		{
			name:     "tagged call yields the name once readable",
			text:     `prose <tool_call>{"name": "read_file", "arg`,
			wantCut:  6,
			wantName: "read_file",
		},
		{
			name:     "bare call requires a known tool",
			text:     `x {"name": "unknown_thing", "arguments": {"a": 1}}`,
			wantCut:  -1,
			wantName: "",
		},
		{
			name:     "bare call with known tool",
			text:     `x {"name": "search", "arguments": {"query": "q"}}`,
			wantCut:  2,
			wantName: "search",
		},
		{
			name:     "earliest syntax wins",
			text:     `{"name": "search", "arguments": {}} then <tool_call>`,
			wantCut:  0,
			wantName: "search",
		},
		{
			name:     "plain prose",
			text:     "no calls anywhere",
			wantCut:  -1,
			wantName: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cut, name := detectToolCallSyntax(tt.text, known)
			assert.Equal(t, tt.wantCut, cut)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestUIHoldback(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"plain text", 0},
		{"ends with [TASK", 5},
		{"ends with [task_comp", 10},
		{"ends with <tool", 5},
		{"ends with <tool_call>", 11},
		{"ends with <agent_cont", 11},
		{"[", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, uiHoldback(tt.text), "text %q", tt.text)
	}

	// The final flush only withholds sentinel fragments; a tag can no
	// longer complete once the stream has ended.
	assert.Equal(t, 0, sentinelHoldback("ends with <tool_call"))
	assert.Equal(t, 10, sentinelHoldback("ends with [TASK_COMP"))
}

func TestStripCompletionSentinelVariants(t *testing.T) {
	assert.Equal(t, "done ", stripCompletionSentinel("done [TASK_COMPLETE]"))
	assert.Equal(t, "a b", stripCompletionSentinel("a [task_complete]b"))
	assert.Equal(t, "ab", stripCompletionSentinel("[TASK_COMPLETE]a[Task_Complete]b"))
	assert.Equal(t, "untouched", stripCompletionSentinel("untouched"))

	// Runes whose lowercase form has a different byte width must not
	// shift the match offsets into the surrounding text.
	assert.Equal(t, "Ⱥ", stripCompletionSentinel("Ⱥ[TASK_COMPLETE]"))
	assert.Equal(t, "İ done ", stripCompletionSentinel("İ done [TASK_COMPLETE]"))
	assert.Equal(t, "İstanbul Ⱥ rest", stripCompletionSentinel("İstanbul [task_complete]Ⱥ rest"))
}

func TestPreparingHint(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"write", map[string]any{"path": "pkg/a.go"}, "Writing pkg/a.go…"},
		{"write", nil, "Writing a file…"},
		{"edit", map[string]any{"path": "b.go"}, "Editing b.go…"},
		{"read_file", map[string]any{"path": "c.go"}, "Reading c.go…"},
		{"read_file", nil, "Reading a file…"},
		{"search", nil, "Searching the workspace…"},
		{"terminal", nil, "Running a command…"},
		{"run_subagent", nil, "Delegating a sub-task…"},
		{"", nil, "Preparing tool calls…"},
		{"diagnostics", nil, "Preparing diagnostics…"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, preparingHint(tt.name, tt.args), "tool %q", tt.name)
	}
}
