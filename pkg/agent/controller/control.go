package controller

import (
	"encoding/json"
	"strings"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/tools"
)

// Control packets. After each tool batch (and after a tool-free turn
// worth probing) the loop appends a continuation user message carrying
// a machine-readable <agent_control> packet plus a one-line directive.
// The packet keeps weaker models oriented — where they are in the
// iteration budget, what just happened — and gives them a structured
// way to declare completion by echoing state "complete".

const (
	controlOpen  = "<agent_control>"
	controlClose = "</agent_control>"
)

// Control packet states.
const (
	ControlNeedTools   = "need_tools"
	ControlNeedFixes   = "need_fixes"
	ControlNeedSummary = "need_summary"
	ControlComplete    = "complete"
)

// ControlPacket is the structured between-iteration directive.
type ControlPacket struct {
	State               string   `json:"state"`
	Iteration           int      `json:"iteration"`
	MaxIterations       int      `json:"maxIterations"`
	RemainingIterations int      `json:"remainingIterations"`
	FilesChanged        []string `json:"filesChanged"`
	ToolResults         string   `json:"toolResults,omitempty"`
	Note                string   `json:"note,omitempty"`
}

// Render returns the wire form: the JSON packet wrapped in control tags
// followed by the directive line for the packet's state.
func (p ControlPacket) Render() string {
	if p.FilesChanged == nil {
		p.FilesChanged = []string{}
	}
	body, err := json.Marshal(p)
	if err != nil {
		body = []byte(`{"state":"` + p.State + `"}`)
	}
	return controlOpen + string(body) + controlClose + "\n" + directiveFor(p.State)
}

func directiveFor(state string) string {
	switch state {
	case ControlNeedFixes:
		return "Fix the failures reported above, then proceed with tool calls or " + agent.CompletionSentinel + "."
	case ControlNeedSummary:
		return "This is your final step. Summarize what you accomplished and end with " + agent.CompletionSentinel + "."
	default:
		return "Proceed with tool calls or " + agent.CompletionSentinel + "."
	}
}

// controlState extracts the state field of an embedded control packet,
// or "" when no packet parses. Models echo packets back with the same
// defects as tool calls, so the close tag is optional and exotic quotes
// are tolerated.
func controlState(text string) string {
	i := strings.Index(text, controlOpen)
	if i < 0 {
		return ""
	}
	body := text[i+len(controlOpen):]
	if j := strings.Index(body, controlClose); j >= 0 {
		body = body[:j]
	} else {
		k := strings.Index(body, "{")
		if k < 0 {
			return ""
		}
		end := braceSpan(body, k)
		if end < 0 {
			return ""
		}
		body = body[k:end]
	}
	trimmed := strings.TrimSpace(body)
	var p struct {
		State string `json:"state"`
	}
	if json.Unmarshal([]byte(trimmed), &p) != nil &&
		json.Unmarshal([]byte(tools.NormalizeQuotes(trimmed)), &p) != nil {
		return ""
	}
	return p.State
}
