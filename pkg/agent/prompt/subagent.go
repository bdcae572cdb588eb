package prompt

import (
	"strings"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// subAgentFocus closes the system prompt for delegated loops. Sub-agent
// output never reaches the user; it is reported back to the orchestrator.
const subAgentFocus = `## Sub-Agent Focus

You were dispatched by an orchestrator for one specific task.

- Stay on the assigned task. Do not widen the investigation.
- Your final response goes to the orchestrator, not the user. Lead with the
  findings and the evidence; skip pleasantries.
- Include the file paths and symbol names the orchestrator needs to act on
  your findings.`

// formatSubAgentTask renders the opening user message for a delegated loop:
// the orchestrator's context hint, when present, ahead of the assigned task.
func formatSubAgentTask(sub *agent.SubAgentContext) string {
	var sb strings.Builder
	if sub.ContextHint != "" {
		sb.WriteString("## Context from the orchestrator\n\n")
		sb.WriteString(sub.ContextHint)
		sb.WriteString("\n\n")
	}
	sb.WriteString("## Task\n\n")
	sb.WriteString(sub.Task)
	return sb.String()
}
