package controller

import (
	"context"
	"strings"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/config"
	"github.com/kiln-dev/kiln/pkg/events"
	"github.com/kiln-dev/kiln/pkg/tools"
)

// Sub-agent delegation. An exploration is the same Engine bound to a
// read-only executor, a quarantined event bus, a fresh iteration
// budget, and no persistence: the parent keeps only the returned
// findings. The dispatcher invokes the runner serially, so one Ollama
// host is never asked to serve two loops at once.

const (
	subAgentThinkingCap = 4000
	subAgentPerToolCap  = 4000
	subAgentSummaryCap  = 8000
)

// subAgentModes are the modes a delegated task may request. Sub-agents
// never write and never nest; anything else falls back to explore.
var subAgentModes = map[config.Mode]bool{
	config.ModeExplore: true,
	config.ModePlan:    true,
	config.ModeChat:    true,
}

// dataBearingTools are the read-side tools whose output is worth
// quoting verbatim in a findings digest.
var dataBearingTools = map[string]bool{
	"read_file":          true,
	"read_many_files":    true,
	"search":             true,
	"find_definition":    true,
	"find_references":    true,
	"document_symbols":   true,
	"workspace_symbols":  true,
	"workspace_overview": true,
}

// NewSubAgentRunner returns the callback the dispatcher invokes for
// run_subagent calls. Each invocation builds a child loop context
// sharing the parent's backend, registry, and host, then drives a
// fresh engine over it.
func NewSubAgentRunner(parent *agent.LoopContext) agent.SubAgentRunner {
	return func(ctx context.Context, req agent.SubAgentRequest) (string, error) {
		mode := config.Mode(req.Mode)
		if !subAgentModes[mode] {
			mode = config.ModeExplore
		}

		child := &agent.LoopContext{
			SessionID:        parent.SessionID,
			TurnID:           parent.TurnID,
			Task:             req.Task,
			Model:            parent.Model,
			ModelConfig:      parent.ModelConfig,
			Policy:           parent.Policy,
			GlobalContextCap: parent.GlobalContextCap,
			Executor: &agent.ExecutorConfig{
				Mode:              mode,
				AllowedTools:      tools.ForMode(mode),
				AllowOutputToUser: false,
				AllowWrites:       false,
				MaxIterations:     config.DefaultSubAgentMaxIterations,
				PromptBuilder:     parent.Executor.PromptBuilder,
			},
			Backend:  parent.Backend,
			Registry: parent.Registry,
			Host:     parent.Host,
			Bus:      events.NewSubAgentBus(parent.Bus, oneLine(req.Task, 60)),
			Redactor: parent.Redactor,
			SubAgent: &agent.SubAgentContext{
				Task:            req.Task,
				ContextHint:     req.ContextHint,
				ParentSessionID: parent.SessionID,
			},
		}

		result := NewEngine(child, nil).Run(ctx)
		switch result.Status {
		case agent.TurnStatusCancelled:
			if err := ctx.Err(); err != nil {
				return "", err
			}
			return "", context.Canceled
		case agent.TurnStatusError:
			return "", result.Error
		}
		return result.FinalMessage, nil
	}
}

// subAgentFindings synthesizes what an exploration learned, degrading
// from best to worst source: the text the model wrote, the tail of its
// reasoning, a digest of data-bearing tool output, or nothing.
func (e *Engine) subAgentFindings() string {
	if text := strings.TrimSpace(strings.Join(e.streamedText, "\n\n")); text != "" {
		return text
	}
	if t := strings.TrimSpace(strings.Join(e.thinkingLog, "\n\n")); t != "" {
		return tailChars(t, subAgentThinkingCap)
	}
	return buildToolResultsSummary(e.toolRecords)
}

type toolRecord struct {
	label   string
	content string
}

// buildToolResultsSummary concatenates retained tool output under
// per-tool and total caps, newest last, so the parent gets raw material
// even when the explorer never wrote a word.
func buildToolResultsSummary(records []toolRecord) string {
	var b strings.Builder
	for _, r := range records {
		if b.Len() >= subAgentSummaryCap {
			break
		}
		content := r.content
		if remain := subAgentSummaryCap - b.Len(); len(content) > remain {
			content = truncateChars(content, remain)
		}
		b.WriteString("## " + r.label + "\n" + content + "\n\n")
	}
	return strings.TrimSpace(b.String())
}
