// Package prompt renders every piece of prompt text the loop engines send
// to the model: per-mode system prompts, opening task messages, and the
// auxiliary prompts for history compaction, turn summaries, and session
// titles.
package prompt

import (
	"strings"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// Builder is the canonical agent.PromptBuilder. Stateless; one shared
// instance serves every session and mode.
type Builder struct{}

// New returns the prompt builder the queue worker wires into executor
// configs.
func New() *Builder { return &Builder{} }

var _ agent.PromptBuilder = (*Builder)(nil)

// BuildSystemPrompt composes the system message for a turn. Sections, in
// order: identity, mode instructions, workspace orientation, tool protocol
// (full tool documentation for text-mode models), completion protocol, and
// the sub-agent focus block for delegated loops.
func (b *Builder) BuildSystemPrompt(lc *agent.LoopContext, tools []agent.ToolDefinition, nativeTools bool) string {
	sections := []string{
		identityInstructions,
		modeInstructions(lc.Executor.Mode),
	}

	if ws := formatWorkspaceSection(lc); ws != "" {
		sections = append(sections, ws)
	}

	if nativeTools {
		sections = append(sections, nativeToolProtocol)
	} else {
		sections = append(sections, formatTextToolProtocol(tools))
	}

	sections = append(sections, completionProtocol)

	if lc.IsSubAgent() {
		sections = append(sections, subAgentFocus)
	}

	return strings.Join(sections, "\n\n")
}

// BuildTaskMessage renders the opening user message for a turn. Top-level
// turns pass the user's text through untouched; delegated turns get the
// orchestrator's context hint ahead of the assigned task.
func (b *Builder) BuildTaskMessage(lc *agent.LoopContext) string {
	if lc.IsSubAgent() {
		return formatSubAgentTask(lc.SubAgent)
	}
	return lc.Task
}

// formatWorkspaceSection orients the model in the workspace: the root path
// and, when known, the file the user last had focused.
func formatWorkspaceSection(lc *agent.LoopContext) string {
	if lc.Host == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Workspace\n\n")
	sb.WriteString("Root: ")
	sb.WriteString(lc.Host.WorkspaceRoot())
	sb.WriteString("\n")
	if active := lc.Host.ActiveEditorPath(); active != "" {
		sb.WriteString("Active editor file: ")
		sb.WriteString(lc.Host.AsRelativePath(active))
		sb.WriteString("\n")
	}
	sb.WriteString("Tool paths are resolved against the root unless absolute.")
	return sb.String()
}
