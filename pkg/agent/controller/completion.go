package controller

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// Completion detection. The only accepted signals are the literal
// sentinel (in either channel) and a control packet echoing state
// "complete". Loose phrases are never enough: small models reach for
// "the task is now complete" the moment a task gets hard.

// IsCompletionSignaled reports whether the response or thinking carries
// a completion signal.
func IsCompletionSignaled(response, thinking string) bool {
	if containsSentinel(response) || containsSentinel(thinking) {
		return true
	}
	return controlState(response) == ControlComplete || controlState(thinking) == ControlComplete
}

func containsSentinel(s string) bool {
	if s == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(agent.CompletionSentinel))
}

// StripSentinel removes every completion sentinel occurrence from text
// bound for the user or the conversation log.
func StripSentinel(s string) string {
	return strings.TrimSpace(stripCompletionSentinel(s))
}

// Verb families that ground the completion gates in the task text.
var (
	writeIntentPattern = regexp.MustCompile(`(?i)\b(add|create|write|implement|fix|update|modify|change|refactor|rename|remove|delete|edit|insert|apply)\b`)
	runIntentPattern   = regexp.MustCompile(`(?i)\b(run|test|build|compile|execute|verify|lint|benchmark|install)\b`)
)

// completionGates vets a declared completion against what the turn
// actually did. The no-writes gate holds every time it applies; the
// verb nudge and the diagnostics check each fire at most once, so a
// model that pushes back after explaining itself is let through.
type completionGates struct {
	verbNudged       bool
	diagnosticsNoted bool
}

// gateInput is what the gates inspect.
type gateInput struct {
	task        string
	wroteFiles  []string
	ranTerminal bool
	allowWrites bool
	host        agent.HostEnvironment
}

// check returns a rejection note to feed back to the model, or "" to
// accept the completion. Read-only modes accept immediately: a chat
// answer is complete when the model says so.
func (g *completionGates) check(ctx context.Context, in gateInput) string {
	if !in.allowWrites {
		return ""
	}
	if len(in.wroteFiles) == 0 && writeIntentPattern.MatchString(in.task) {
		return "No files have been modified yet, but the task asks for changes. Reading files does not change them. Make the required edits before declaring completion."
	}
	if !g.verbNudged && len(in.wroteFiles) == 0 && !in.ranTerminal && runIntentPattern.MatchString(in.task) {
		g.verbNudged = true
		return "The task suggests running or verifying something, but no command was executed and no file was changed. Do that work before declaring completion, or state explicitly why none was needed."
	}
	if !g.diagnosticsNoted && len(in.wroteFiles) > 0 {
		if note := writtenFileDiagnostics(ctx, in.host, in.wroteFiles); note != "" {
			g.diagnosticsNoted = true
			return note
		}
	}
	return ""
}

// diagnosticsSettle bounds how long a completion check waits for the
// language server to catch up with each written file.
const diagnosticsSettle = 3 * time.Second

const maxDiagnosticLines = 5

// writtenFileDiagnostics waits for diagnostics on each written file to
// settle and renders the remaining errors, or "" when everything is
// clean.
func writtenFileDiagnostics(ctx context.Context, host agent.HostEnvironment, paths []string) string {
	var errs []agent.Diagnostic
	for _, path := range paths {
		diags, err := host.WaitForDiagnostics(ctx, path, diagnosticsSettle)
		if err != nil {
			continue
		}
		for _, d := range diags {
			if d.Severity == agent.DiagnosticError {
				errs = append(errs, d)
			}
		}
	}
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[AUTO-DIAGNOSTICS] %d error(s) remain in files you modified:\n", len(errs))
	for i, d := range errs {
		if i == maxDiagnosticLines {
			fmt.Fprintf(&b, "- ... and %d more\n", len(errs)-maxDiagnosticLines)
			break
		}
		fmt.Fprintf(&b, "- %s:%d: %s\n", d.Path, d.Line, d.Message)
	}
	b.WriteString("Fix these before declaring completion.")
	return b.String()
}

// noToolDecision is the verdict on an iteration that called no tools.
type noToolDecision int

const (
	noToolContinue noToolDecision = iota
	noToolBreakImplicit
	noToolBreakConsecutive
)

// checkNoToolCompletion decides what a tool-free assistant turn means:
// an implicit wrap-up after file work already happened, a conversation
// that has run out of steam, or a turn worth probing with a
// continuation.
func checkNoToolCompletion(response string, hasWrittenFiles bool, consecutiveNoTool int) noToolDecision {
	if consecutiveNoTool >= agent.MaxConsecutiveNoTool {
		return noToolBreakConsecutive
	}
	if hasWrittenFiles && strings.TrimSpace(response) != "" {
		return noToolBreakImplicit
	}
	return noToolContinue
}
