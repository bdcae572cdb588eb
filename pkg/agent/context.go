package agent

import (
	"context"

	"github.com/kiln-dev/kiln/pkg/config"
	"github.com/kiln-dev/kiln/pkg/events"
	"github.com/kiln-dev/kiln/pkg/services"
)

// LoopContext carries all dependencies and state needed by a loop engine
// for one user turn. Created by the queue worker for each claimed turn.
type LoopContext struct {
	// Identity
	SessionID string
	TurnID    string

	// Task is the user message that started this turn. Arbitrary text —
	// not parsed, not assumed to have any structure.
	Task string

	// Model is the resolved model name for this turn.
	Model string

	// ModelConfig holds the merged per-model settings (builtin ← models.yaml).
	// Never nil — an unconfigured model gets the zero value.
	ModelConfig *config.ModelConfig

	// Policy is the resolved tool policy (auto-approve defaults, safe
	// prefixes, sensitive patterns, per-tool timeout).
	Policy *config.ToolPolicyConfig

	// GlobalContextCap is the hard ceiling on the context window. The
	// budgeter clamps every model's detected window to it.
	GlobalContextCap int

	// Executor is the capability record for the session's mode. Decides
	// tool surface, write access, UI visibility, and iteration budget.
	Executor *ExecutorConfig

	// Dependencies (injected by the worker)
	Backend  ChatBackend
	Registry ToolRegistry
	Host     HostEnvironment
	Bus      EventBus
	Services *ServiceBundle

	// Redactor sweeps secrets out of tool output before it reaches the
	// model, the UI, or persistence. nil disables the sweep.
	Redactor OutputRedactor

	// SubAgent is set when this loop was dispatched by an orchestrator
	// session. nil for top-level turns.
	SubAgent *SubAgentContext

	// RunSubAgent dispatches a delegated exploration task and blocks until
	// its summary is ready. nil when the mode's tool set has no subagent
	// tool — dispatch code must treat that as "tool unavailable".
	RunSubAgent SubAgentRunner
}

// IsSubAgent reports whether this loop runs as a delegated sub-agent.
func (lc *LoopContext) IsSubAgent() bool {
	return lc.SubAgent != nil
}

// ExecutorConfig is the capability record resolved from the session mode.
// The agent and explore engines share one loop parameterized by this record
// instead of forking into a type hierarchy.
type ExecutorConfig struct {
	Mode config.Mode

	// AllowedTools is the closed tool set for the mode, in registry order.
	AllowedTools []string

	// AllowOutputToUser gates streaming text, thinking, and final-message
	// events. False for sub-agents, whose output is a summary for the
	// parent, not UI content.
	AllowOutputToUser bool

	// AllowWrites gates the write/edit tool surface and checkpoint creation.
	AllowWrites bool

	// MaxIterations bounds the loop before a forced conclusion.
	MaxIterations int

	// PromptBuilder builds all prompt text for this mode. Stateless,
	// shared across turns.
	PromptBuilder PromptBuilder
}

// ServiceBundle groups the persistence services a loop engine needs.
type ServiceBundle struct {
	Session    *services.SessionService
	Message    *services.MessageService
	Checkpoint *services.CheckpointService
	Memory     *services.MemoryService
}

// SubAgentContext carries sub-agent-specific data for loop engines and
// prompt builders. nil for top-level turns.
type SubAgentContext struct {
	// Task assigned by the orchestrator.
	Task string
	// ContextHint is optional orchestrator-supplied background (files
	// already known, earlier findings) prepended to the task message.
	ContextHint string
	// ParentSessionID identifies the orchestrator session.
	ParentSessionID string
}

// PromptBuilder builds all prompt text for loop engines.
// Implemented by prompt.Builder; defined as an interface here to avoid a
// circular import between pkg/agent and pkg/agent/prompt.
type PromptBuilder interface {
	// BuildSystemPrompt renders the mode-specific system prompt, including
	// tool documentation for text-mode models and workspace orientation.
	BuildSystemPrompt(lc *LoopContext, tools []ToolDefinition, nativeTools bool) string

	// BuildTaskMessage renders the opening user message for a turn
	// (the task, plus sub-agent context hints when present).
	BuildTaskMessage(lc *LoopContext) string

	// BuildCompactionSystemPrompt and BuildCompactionUserPrompt drive the
	// mid-turn history summarization call.
	BuildCompactionSystemPrompt() string
	BuildCompactionUserPrompt(transcript string) string

	// BuildTurnSummarySystemPrompt and BuildTurnSummaryUserPrompt drive the
	// end-of-turn fallback summary when the model streamed no text.
	BuildTurnSummarySystemPrompt() string
	BuildTurnSummaryUserPrompt(toolOutputs []string, condensedThinking string) string

	// BuildTitleSystemPrompt and BuildTitleUserPrompt drive session title
	// generation from the first user turn.
	BuildTitleSystemPrompt() string
	BuildTitleUserPrompt(task string) string
}

// OutputRedactor is the secret sweep applied to tool output. Implemented
// by masking.Service; defined as an interface here so the dispatcher can
// be tested without compiled pattern tables.
type OutputRedactor interface {
	RedactToolOutput(content string) string
}

// EventBus delivers UI events with three persistence modes. Implemented by
// events.SessionBus (and wrapped by events.SubAgentBus for delegated loops);
// defined as an interface here so loop engines can be tested with mocks.
//
// Emit persists a timeline marker and publishes; Post publishes only
// (transient hints — spinners, stream deltas); Persist writes the marker
// without publishing. Anything that must survive a session reload goes
// through Emit.
type EventBus interface {
	Emit(ctx context.Context, event events.Event) error
	Post(ctx context.Context, event events.Event) error
	Persist(ctx context.Context, event events.Event) error
}
