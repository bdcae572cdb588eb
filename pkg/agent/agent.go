// Package agent provides the core types and interfaces for kiln's
// iterative coding agent. The loop engines live in pkg/agent/controller,
// tool routing in pkg/agent/dispatch, and context budgeting in
// pkg/agent/budget; this package holds what they all share.
package agent

// TurnStatus represents the outcome of one agent turn (one user input
// driven to completion, cancellation, or error).
type TurnStatus string

const (
	TurnStatusCompleted TurnStatus = "completed"
	TurnStatusCancelled TurnStatus = "cancelled"
	TurnStatusError     TurnStatus = "error"
)

// TurnResult is returned by a loop engine after a turn ends.
// Lightweight — all intermediate state was already persisted during the turn.
type TurnResult struct {
	Status       TurnStatus
	FinalMessage string
	FilesChanged []string
	Iterations   int
	Error        error
	TokensUsed   TokenUsage
}

// TokenUsage aggregates token consumption across the LLM calls of a turn.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
}

// Add accumulates the counts from a single call.
func (u *TokenUsage) Add(prompt, completion int) {
	u.PromptTokens += prompt
	u.CompletionTokens += completion
}

// Total returns the combined token count.
func (u *TokenUsage) Total() int {
	return u.PromptTokens + u.CompletionTokens
}
