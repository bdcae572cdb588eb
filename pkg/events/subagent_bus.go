package events

import "context"

// Bus is the publishing surface implemented by SessionBus and its
// decorators. The loop engines depend on this shape.
type Bus interface {
	Emit(ctx context.Context, event Event) error
	Post(ctx context.Context, event Event) error
	Persist(ctx context.Context, event Event) error
}

// SubAgentBus quarantines a sub-agent's output from the UI. Tool
// actions pass through so the user sees activity inside the wrapper
// progress group; streamed text, thinking indicators, and final
// messages are swallowed — a sub-agent's findings reach the user only
// through its parent's tool result. Thinking deltas are downgraded to
// transient subagentThinking hints.
type SubAgentBus struct {
	inner Bus
	task  string
}

// NewSubAgentBus wraps a session bus for a sub-agent turn.
// task labels the subagentThinking hints.
func NewSubAgentBus(inner Bus, task string) *SubAgentBus {
	return &SubAgentBus{inner: inner, task: task}
}

// Emit forwards tool actions and drops everything else.
func (b *SubAgentBus) Emit(ctx context.Context, event Event) error {
	if b.allowed(event) {
		return b.inner.Emit(ctx, event)
	}
	return nil
}

// Post forwards tool actions, converts thinking deltas to
// subagentThinking hints, and drops everything else.
func (b *SubAgentBus) Post(ctx context.Context, event Event) error {
	if b.allowed(event) {
		return b.inner.Post(ctx, event)
	}
	if thinking, ok := event.(StreamThinkingPayload); ok {
		return b.inner.Post(ctx, SubagentThinkingPayload{
			Task:  b.task,
			Delta: thinking.Delta,
		})
	}
	return nil
}

// Persist forwards tool actions and drops everything else.
func (b *SubAgentBus) Persist(ctx context.Context, event Event) error {
	if b.allowed(event) {
		return b.inner.Persist(ctx, event)
	}
	return nil
}

func (b *SubAgentBus) allowed(event Event) bool {
	_, ok := event.(ToolActionPayload)
	return ok
}
