package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/config"
)

// stubHost implements the three HostEnvironment methods the builder reads.
// The embedded interface panics on anything else, which prompt code never
// reaches.
type stubHost struct {
	agent.HostEnvironment
	root   string
	active string
}

func (h stubHost) WorkspaceRoot() string    { return h.root }
func (h stubHost) ActiveEditorPath() string { return h.active }
func (h stubHost) AsRelativePath(p string) string {
	return strings.TrimPrefix(p, h.root+"/")
}

func loopContext(mode config.Mode) *agent.LoopContext {
	return &agent.LoopContext{
		Task:     "summarize the loader",
		Executor: &agent.ExecutorConfig{Mode: mode},
	}
}

func TestBuildSystemPrompt_NativeTools(t *testing.T) {
	lc := loopContext(config.ModeExplore)
	lc.Host = stubHost{root: "/work/proj", active: "/work/proj/src/main.go"}

	got := New().BuildSystemPrompt(lc, nil, true)

	assert.Contains(t, got, "## Kiln Coding Agent")
	assert.Contains(t, got, "## Explore Mode")
	assert.Contains(t, got, "Root: /work/proj")
	assert.Contains(t, got, "Active editor file: src/main.go")
	assert.Contains(t, got, "tool-calling interface")
	assert.Contains(t, got, "[TASK_COMPLETE]")
	assert.NotContains(t, got, "<tool_call>")
	assert.NotContains(t, got, "## Sub-Agent Focus")
}

func TestBuildSystemPrompt_TextTools(t *testing.T) {
	tools := []agent.ToolDefinition{
		{Name: "read_file", Description: "Read a file"},
	}

	got := New().BuildSystemPrompt(loopContext(config.ModeExplore), tools, false)

	assert.Contains(t, got, "no native tool calling")
	assert.Contains(t, got, `<tool_call>{"name": "read_file", "arguments": {"path": "src/main.go"}}</tool_call>`)
	assert.Contains(t, got, "- `read_file`: Read a file")
}

func TestBuildSystemPrompt_NoHostOmitsWorkspace(t *testing.T) {
	got := New().BuildSystemPrompt(loopContext(config.ModeChat), nil, true)
	assert.NotContains(t, got, "## Workspace")
}

func TestBuildSystemPrompt_NoActiveEditor(t *testing.T) {
	lc := loopContext(config.ModeExplore)
	lc.Host = stubHost{root: "/work/proj"}

	got := New().BuildSystemPrompt(lc, nil, true)

	assert.Contains(t, got, "Root: /work/proj")
	assert.NotContains(t, got, "Active editor file:")
}

func TestBuildSystemPrompt_SubAgentFocus(t *testing.T) {
	lc := loopContext(config.ModeExplore)
	lc.SubAgent = &agent.SubAgentContext{Task: "map the config package"}

	got := New().BuildSystemPrompt(lc, nil, true)

	assert.Contains(t, got, "## Sub-Agent Focus")
	assert.Contains(t, got, "goes to the orchestrator")
}

func TestBuildSystemPrompt_SectionOrder(t *testing.T) {
	lc := loopContext(config.ModeAgent)
	lc.Host = stubHost{root: "/work/proj"}

	got := New().BuildSystemPrompt(lc, nil, true)

	identity := strings.Index(got, "## Kiln Coding Agent")
	mode := strings.Index(got, "## Agent Mode")
	workspace := strings.Index(got, "## Workspace")
	tools := strings.Index(got, "## Tools")
	finishing := strings.Index(got, "## Finishing")
	require.GreaterOrEqual(t, identity, 0)
	assert.Greater(t, mode, identity)
	assert.Greater(t, workspace, mode)
	assert.Greater(t, tools, workspace)
	assert.Greater(t, finishing, tools)
}

func TestBuildTaskMessage_TopLevel(t *testing.T) {
	got := New().BuildTaskMessage(loopContext(config.ModeExplore))
	assert.Equal(t, "summarize the loader", got)
}

func TestBuildTaskMessage_SubAgentWithHint(t *testing.T) {
	lc := loopContext(config.ModeExplore)
	lc.SubAgent = &agent.SubAgentContext{
		Task:        "map the config package",
		ContextHint: "the entry point is cmd/kiln/main.go",
	}

	got := New().BuildTaskMessage(lc)

	assert.Equal(t, "## Context from the orchestrator\n\n"+
		"the entry point is cmd/kiln/main.go\n\n"+
		"## Task\n\nmap the config package", got)
}

func TestBuildTaskMessage_SubAgentWithoutHint(t *testing.T) {
	lc := loopContext(config.ModeExplore)
	lc.SubAgent = &agent.SubAgentContext{Task: "map the config package"}

	got := New().BuildTaskMessage(lc)

	assert.Equal(t, "## Task\n\nmap the config package", got)
}
