package controller

import (
	"encoding/json"
	"strings"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/tools"
)

// Text-mode tool-call extraction. Models without native tool support
// embed calls in their response as
//
//	<tool_call>{"name":"read_file","arguments":{"path":"main.go"}}</tool_call>
//
// and smaller models routinely mangle the shape: dropped close tags,
// bare JSON without tags, "args" instead of "arguments", arguments
// double-encoded as a JSON string, smart quotes. The extractor accepts
// all of these; whatever looks like call syntax is removed from the
// user-visible response even when it does not parse.

const (
	toolCallOpen  = "<tool_call>"
	toolCallClose = "</tool_call>"
)

// ExtractToolCalls pulls text-mode tool calls out of a completed
// response. Returns the parsed calls and the response with call syntax
// removed. Bare JSON objects count only when their name is a known tool.
func ExtractToolCalls(response string, known map[string]bool) ([]agent.ToolCall, string) {
	calls, cleaned := extractTagged(response)
	bare, cleaned := extractBare(cleaned, known)
	return append(calls, bare...), strings.TrimSpace(cleaned)
}

func extractTagged(response string) ([]agent.ToolCall, string) {
	if !strings.Contains(response, toolCallOpen) {
		return nil, response
	}
	var calls []agent.ToolCall
	var kept strings.Builder
	rest := response
	for {
		i := strings.Index(rest, toolCallOpen)
		if i < 0 {
			kept.WriteString(rest)
			break
		}
		kept.WriteString(rest[:i])
		body := rest[i+len(toolCallOpen):]
		block := body
		rest = ""
		if j := strings.Index(body, toolCallClose); j >= 0 {
			block = body[:j]
			rest = body[j+len(toolCallClose):]
		}
		if call, ok := parseCallObject(strings.TrimSpace(block)); ok {
			calls = append(calls, call)
		}
	}
	return calls, kept.String()
}

func extractBare(text string, known map[string]bool) ([]agent.ToolCall, string) {
	if len(known) == 0 || !strings.Contains(text, `"name"`) {
		return nil, text
	}
	var calls []agent.ToolCall
	var kept strings.Builder
	idx := 0
	for idx < len(text) {
		loc := bareCallSyntaxPattern.FindStringSubmatchIndex(text[idx:])
		if loc == nil {
			kept.WriteString(text[idx:])
			break
		}
		start := idx + loc[0]
		name := text[idx+loc[2] : idx+loc[3]]
		end := braceSpan(text, start)
		if !known[name] || end < 0 {
			// Not one of ours, or it never closes: keep the text and step
			// past the opening brace so scanning cannot loop.
			kept.WriteString(text[idx : start+1])
			idx = start + 1
			continue
		}
		call, ok := parseCallObject(text[start:end])
		if !ok {
			kept.WriteString(text[idx : start+1])
			idx = start + 1
			continue
		}
		kept.WriteString(text[idx:start])
		calls = append(calls, call)
		idx = end
	}
	return calls, kept.String()
}

// braceSpan returns the end index (exclusive) of the JSON object
// opening at start, honoring string literals and escapes, or -1 when
// the object never closes.
func braceSpan(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// parseCallObject decodes one {"name":..., "arguments":...} object,
// retrying with normalized quotes when the strict parse fails.
func parseCallObject(raw string) (agent.ToolCall, bool) {
	var shape struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
		Args      json.RawMessage `json:"args"`
	}
	if json.Unmarshal([]byte(raw), &shape) != nil {
		if json.Unmarshal([]byte(tools.NormalizeQuotes(raw)), &shape) != nil {
			return agent.ToolCall{}, false
		}
	}
	if shape.Name == "" {
		return agent.ToolCall{}, false
	}
	argsRaw := shape.Arguments
	if len(argsRaw) == 0 {
		argsRaw = shape.Args
	}
	return agent.ToolCall{Name: shape.Name, Args: decodeArgs(argsRaw)}, true
}

// decodeArgs accepts an arguments object, a JSON-encoded object string
// (models double-encode under pressure), or nothing.
func decodeArgs(raw json.RawMessage) map[string]any {
	if len(raw) == 0 || string(raw) == "null" {
		return map[string]any{}
	}
	var m map[string]any
	if json.Unmarshal(raw, &m) == nil {
		return m
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if json.Unmarshal([]byte(s), &m) == nil {
			return m
		}
		if json.Unmarshal([]byte(tools.NormalizeQuotes(s)), &m) == nil {
			return m
		}
	}
	return map[string]any{}
}
