package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kiln-dev/kiln/pkg/agent"
)

const (
	defaultCommandTimeout = 30 * time.Second
	maxCommandTimeout     = 300 * time.Second
)

type terminalArgs struct {
	Command        string `json:"command" jsonschema:"description=Shell command to run in the workspace root"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" jsonschema:"description=Override the default 30s timeout; capped at 300"`
}

func newTerminalTool() agent.Tool {
	return newTool("terminal",
		"Run a shell command in the workspace and return its combined output.",
		agent.ToolKindTerminal, false, runTerminal)
}

func runTerminal(ctx context.Context, host agent.HostEnvironment, args terminalArgs) (*agent.ToolResult, error) {
	if strings.TrimSpace(args.Command) == "" {
		return &agent.ToolResult{Error: "command must not be empty"}, nil
	}

	timeout := defaultCommandTimeout
	if args.TimeoutSeconds > 0 {
		timeout = time.Duration(args.TimeoutSeconds) * time.Second
		if timeout > maxCommandTimeout {
			timeout = maxCommandTimeout
		}
	}

	res, err := host.ExecCommand(ctx, args.Command, timeout)
	if err != nil {
		return &agent.ToolResult{Error: err.Error()}, nil
	}

	out, _ := truncateTail(strings.TrimRight(res.Output, "\n"), maxOutputLines, maxOutputBytes)
	if out == "" {
		out = "(no output)"
	}

	// A timeout is a tool failure; a nonzero exit is ordinary command
	// behavior (grep with no matches exits 1) and stays on Output with
	// the code appended for the model to judge.
	if res.TimedOut {
		return &agent.ToolResult{Error: out + fmt.Sprintf("\n(command timed out after %s)", timeout)}, nil
	}
	if res.ExitCode != 0 {
		out += fmt.Sprintf("\n(exit code %d)", res.ExitCode)
	}
	return &agent.ToolResult{Output: out}, nil
}

type runSubagentArgs struct {
	Task        string `json:"task" jsonschema:"description=Self-contained task for the sub-agent; include every fact it needs"`
	Mode        string `json:"mode,omitempty" jsonschema:"description=Sub-agent mode,enum=explore,enum=deep-explore"`
	Title       string `json:"title,omitempty" jsonschema:"description=Short label shown in the session timeline"`
	ContextHint string `json:"context_hint,omitempty" jsonschema:"description=Files or findings the sub-agent should start from"`
	Description string `json:"description,omitempty" jsonschema:"description=One line on why this delegation helps"`
}

// ErrSubAgentNotRoutable is returned if run_subagent reaches direct
// execution. The dispatcher intercepts the name and runs the sub-agent
// loop itself; the registered tool only supplies the definition.
var ErrSubAgentNotRoutable = errors.New("run_subagent must be routed by the dispatcher")

func newRunSubagentTool() agent.Tool {
	return newTool("run_subagent",
		"Delegate a focused read-only investigation to a sub-agent and receive its findings as this tool's result.",
		agent.ToolKindSubAgent, false,
		func(ctx context.Context, host agent.HostEnvironment, args runSubagentArgs) (*agent.ToolResult, error) {
			return nil, ErrSubAgentNotRoutable
		})
}
