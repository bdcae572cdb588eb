package prompt

import (
	"strings"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// completionProtocol tells the model how the loop recognizes a finished
// task. The sentinel and the control packet are the only accepted signals;
// the loop ignores loose phrases on purpose.
const completionProtocol = `## Finishing

When the task is fully done, end your reply with the literal token
[TASK_COMPLETE]. Nothing else ends the session: phrases like "the task is
complete" keep the loop running.

Between steps you receive an <agent_control> message carrying loop state
(iteration counts, files changed, tool results). It comes from the runtime,
not the user. Follow the directive on its last line.

Do not declare completion while work is unverified. If you changed files,
check diagnostics first.`

// nativeToolProtocol is the tool section for models with native tool
// calling; the definitions themselves travel in the request.
const nativeToolProtocol = `## Tools

Call tools through the tool-calling interface. Each result arrives as a tool
message. You may request several independent calls in one reply; they execute
as a batch and the results come back in call order.`

// textToolPreamble opens the tool section for models without native tool
// calling. The documented tool list follows it.
const textToolPreamble = `## Tools

This model has no native tool calling. To invoke a tool, emit a block in
exactly this form, JSON between the tags:

<tool_call>{"name": "read_file", "arguments": {"path": "src/main.go"}}</tool_call>

Rules:
- One JSON object per block: a "name" plus an "arguments" object.
- Several blocks in one reply are allowed; they run as a batch.
- Results arrive in the next user message inside [tool result] blocks.
- Text outside the blocks is shown to the user. Keep explanations out of the
  JSON.

Available tools:`

// formatTextToolProtocol renders the full text-mode tool section: syntax
// rules plus the documented tool list.
func formatTextToolProtocol(tools []agent.ToolDefinition) string {
	var sb strings.Builder
	sb.WriteString(textToolPreamble)
	sb.WriteString("\n\n")
	sb.WriteString(FormatToolDocs(tools))
	return sb.String()
}
