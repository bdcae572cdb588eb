package config

// Mode defines the executor modes a session can run in. The mode decides
// which tools the model may call and whether its output streams to the user.
type Mode string

const (
	// ModeExplore is read-only investigation of the workspace.
	ModeExplore Mode = "explore"
	// ModePlan is read-only planning (same tool surface as explore).
	ModePlan Mode = "plan"
	// ModeChat is conversational Q&A over the workspace, read-only.
	ModeChat Mode = "chat"
	// ModeReview is read-only plus terminal, for running checks.
	ModeReview Mode = "review"
	// ModeDeepExplore is read-only plus sub-agent delegation.
	ModeDeepExplore Mode = "deep-explore"
	// ModeDeepExploreWrite adds write access to deep exploration.
	ModeDeepExploreWrite Mode = "deep-explore-write"
	// ModeAgent is the orchestrator: write + terminal + sub-agent, with all
	// reading delegated to sub-agents.
	ModeAgent Mode = "agent"
)

// IsValid checks if the mode is one of the supported executor modes.
func (m Mode) IsValid() bool {
	switch m {
	case ModeExplore,
		ModePlan,
		ModeChat,
		ModeReview,
		ModeDeepExplore,
		ModeDeepExploreWrite,
		ModeAgent:
		return true
	default:
		return false
	}
}

// AllowsWrites reports whether sessions in this mode may modify files.
func (m Mode) AllowsWrites() bool {
	return m == ModeAgent || m == ModeDeepExploreWrite
}

// AllModes lists every supported mode, for validation messages.
func AllModes() []Mode {
	return []Mode{
		ModeExplore,
		ModePlan,
		ModeChat,
		ModeReview,
		ModeDeepExplore,
		ModeDeepExploreWrite,
		ModeAgent,
	}
}
