package controller

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/tools"
)

// Tool-call recovery. When the Ollama server cannot parse a model's
// tool call it emits "error parsing tool call: ... raw='{...}'" and
// keeps streaming. The broken JSON is usually a near-miss — smart
// quotes, a missing name field — so the recoverer rebuilds the call
// from the error text instead of burning an iteration on a retry.

var rawFragmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)raw='(\{.*\})'`),
	regexp.MustCompile(`(?s)raw="(\{.*\})"`),
	regexp.MustCompile("(?s)raw=`(\\{.*\\})`"),
}

// RecoverToolCall rebuilds one tool call from a parse-error message:
// extract the JSON fragment, normalize exotic quotes, parse, and infer
// a missing tool name from the argument shape.
func RecoverToolCall(errMsg string) (agent.ToolCall, bool) {
	fragment := extractRawFragment(errMsg)
	if fragment == "" {
		return agent.ToolCall{}, false
	}
	normalized := tools.NormalizeQuotes(fragment)
	if call, ok := parseCallObject(normalized); ok {
		return call, true
	}
	// Not {name, arguments} shaped — the fragment may be the bare
	// argument object of a call whose envelope got lost.
	var args map[string]any
	if err := json.Unmarshal([]byte(normalized), &args); err != nil {
		return agent.ToolCall{}, false
	}
	name := inferToolName(args)
	if name == "" {
		return agent.ToolCall{}, false
	}
	return agent.ToolCall{Name: name, Args: args}, true
}

// RecoverToolCalls runs recovery over every parse error from one
// stream. Returns the rebuilt calls plus a feedback hint when some
// fragments stayed broken.
func RecoverToolCalls(parseErrors []string, log *slog.Logger) ([]agent.ToolCall, string) {
	var calls []agent.ToolCall
	failed := 0
	for _, msg := range parseErrors {
		call, ok := RecoverToolCall(msg)
		if !ok {
			failed++
			log.Warn("Could not recover malformed tool call", "error", oneLine(msg, 200))
			continue
		}
		log.Info("Recovered malformed tool call", "tool", call.Name)
		calls = append(calls, call)
	}
	if failed == 0 {
		return calls, ""
	}
	return calls, fmt.Sprintf("%d of your tool calls could not be parsed. Emit each call as strict JSON with ASCII double quotes: {\"name\": \"tool\", \"arguments\": {...}}.", failed)
}

func extractRawFragment(errMsg string) string {
	for _, p := range rawFragmentPatterns {
		if m := p.FindStringSubmatch(errMsg); m != nil {
			return m[1]
		}
	}
	// No raw= marker; take the widest brace span in the message.
	i := strings.Index(errMsg, "{")
	j := strings.LastIndex(errMsg, "}")
	if i >= 0 && j > i {
		return errMsg[i : j+1]
	}
	return ""
}

// inferToolName guesses the intended tool from a bare argument object.
// Ordered most-specific first; {path} alone means read_file only after
// the write and definition shapes have been ruled out.
func inferToolName(args map[string]any) string {
	has := func(key string) bool {
		_, ok := args[key]
		return ok
	}
	switch {
	case has("query"):
		return "search"
	case has("path") && has("content"):
		return "write"
	case has("command"):
		return "terminal"
	case has("symbolName") && has("path"):
		return "find_definition"
	case has("path"):
		return "read_file"
	}
	return ""
}
