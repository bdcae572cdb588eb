package controller

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/agent"
)

func TestIsCompletionSignaled(t *testing.T) {
	tests := []struct {
		name     string
		response string
		thinking string
		want     bool
	}{
		{"sentinel in response", "All done. [TASK_COMPLETE]", "", true},
		{"sentinel in thinking", "", "I believe [task_complete] applies.", true},
		{"mixed case", "[Task_Complete]", "", true},
		{"control packet complete", `<agent_control>{"state": "complete"}</agent_control>`, "", true},
		{"control packet in thinking", "", `<agent_control>{"state": "complete"}`, true},
		{"control packet other state", `<agent_control>{"state": "need_tools"}</agent_control>`, "", false},
		{"loose phrase is not enough", "The task is now complete.", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCompletionSignaled(tt.response, tt.thinking))
		})
	}
}

func TestStripSentinel(t *testing.T) {
	assert.Equal(t, "Done.", StripSentinel("Done. [TASK_COMPLETE]"))
	assert.Equal(t, "Done.", StripSentinel("[task_complete] Done."))
	assert.Equal(t, "", StripSentinel("[TASK_COMPLETE]"))
	assert.Equal(t, "untouched", StripSentinel("untouched"))
}

func TestCompletionGates(t *testing.T) {
	ctx := context.Background()

	t.Run("read-only modes accept immediately", func(t *testing.T) {
		g := &completionGates{}
		note := g.check(ctx, gateInput{
			task:        "fix the bug in main.go",
			allowWrites: false,
			host:        newMemHost(nil),
		})
		assert.Empty(t, note)
	})

	t.Run("write intent with no writes holds every time", func(t *testing.T) {
		g := &completionGates{}
		in := gateInput{
			task:        "Fix the off-by-one in the pager",
			allowWrites: true,
			host:        newMemHost(nil),
		}
		first := g.check(ctx, in)
		require.Contains(t, first, "No files have been modified yet")
		// Unlike the nudges, this gate never relents.
		assert.Equal(t, first, g.check(ctx, in))
	})

	t.Run("run intent nudges once", func(t *testing.T) {
		g := &completionGates{}
		in := gateInput{
			task:        "run the linter and report what it says",
			allowWrites: true,
			host:        newMemHost(nil),
		}
		first := g.check(ctx, in)
		require.Contains(t, first, "no command was executed")
		assert.Empty(t, g.check(ctx, in))
	})

	t.Run("run intent satisfied by a terminal call", func(t *testing.T) {
		g := &completionGates{}
		note := g.check(ctx, gateInput{
			task:        "run the benchmarks",
			ranTerminal: true,
			allowWrites: true,
			host:        newMemHost(nil),
		})
		assert.Empty(t, note)
	})

	t.Run("diagnostics on written files block once", func(t *testing.T) {
		host := newMemHost(map[string]string{"pkg/a.go": "package a"})
		host.setDiagnostics("pkg/a.go",
			agent.Diagnostic{Path: "pkg/a.go", Line: 3, Severity: agent.DiagnosticError, Message: "undefined: frob"},
			agent.Diagnostic{Path: "pkg/a.go", Line: 9, Severity: agent.DiagnosticWarning, Message: "unused parameter"},
		)
		g := &completionGates{}
		in := gateInput{
			task:        "apply the fix",
			wroteFiles:  []string{"pkg/a.go"},
			allowWrites: true,
			host:        host,
		}
		first := g.check(ctx, in)
		require.Contains(t, first, "[AUTO-DIAGNOSTICS] 1 error(s) remain")
		assert.Contains(t, first, "pkg/a.go:3: undefined: frob")
		assert.NotContains(t, first, "unused parameter")

		// Second declaration passes: the model saw the report and stood
		// by its completion.
		assert.Empty(t, g.check(ctx, in))
	})

	t.Run("clean written files accept", func(t *testing.T) {
		g := &completionGates{}
		note := g.check(ctx, gateInput{
			task:        "implement the parser",
			wroteFiles:  []string{"parser.go"},
			allowWrites: true,
			host:        newMemHost(map[string]string{"parser.go": "package parser"}),
		})
		assert.Empty(t, note)
	})
}

func TestWrittenFileDiagnosticsCapsOutput(t *testing.T) {
	host := newMemHost(nil)
	diags := make([]agent.Diagnostic, 0, 8)
	for i := 1; i <= 8; i++ {
		diags = append(diags, agent.Diagnostic{
			Path: "big.go", Line: i, Severity: agent.DiagnosticError, Message: "broken",
		})
	}
	host.setDiagnostics("big.go", diags...)

	note := writtenFileDiagnostics(context.Background(), host, []string{"big.go"})
	require.Contains(t, note, "8 error(s) remain")
	assert.Contains(t, note, "- ... and 3 more")
	assert.Equal(t, maxDiagnosticLines, strings.Count(note, "broken"))
	assert.Contains(t, note, "Fix these before declaring completion.")
}

func TestCheckNoToolCompletion(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wrote    bool
		streak   int
		want     noToolDecision
	}{
		{"first chatty turn probes", "Let me think about this.", false, 1, noToolContinue},
		{"answer after file work concludes", "I refactored the loader.", true, 1, noToolBreakImplicit},
		{"empty answer after file work keeps probing", "   ", true, 1, noToolContinue},
		{"streak at threshold concludes", "still talking", false, agent.MaxConsecutiveNoTool, noToolBreakConsecutive},
		{"streak beats implicit", "talking", true, agent.MaxConsecutiveNoTool, noToolBreakConsecutive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkNoToolCompletion(tt.response, tt.wrote, tt.streak))
		})
	}
}
