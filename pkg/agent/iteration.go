package agent

const (
	// MaxConsecutiveFailures is the threshold for aborting the loop.
	// After this many model calls fail back to back, the turn errors out
	// rather than burning the whole iteration budget on a dead backend.
	MaxConsecutiveFailures = 2

	// MaxConsecutiveNoTool is how many tool-free assistant turns in a row
	// the loop tolerates before treating the conversation as concluded.
	MaxConsecutiveNoTool = 3
)

// IterationState tracks loop progress across iterations for one turn.
// Shared by the agent and explore engines.
type IterationState struct {
	Current             int
	Max                 int
	ConsecutiveNoTool   int
	ConsecutiveFailures int
	LastErrorMessage    string
}

// Remaining returns the iterations left before a forced conclusion.
func (s *IterationState) Remaining() int {
	if s.Max <= s.Current {
		return 0
	}
	return s.Max - s.Current
}

// Exhausted reports whether the iteration budget is spent.
func (s *IterationState) Exhausted() bool {
	return s.Current >= s.Max
}

// RecordToolUse resets the no-tool streak after an iteration that
// dispatched at least one call.
func (s *IterationState) RecordToolUse() {
	s.ConsecutiveNoTool = 0
}

// RecordNoTool bumps the no-tool streak and returns the new count.
func (s *IterationState) RecordNoTool() int {
	s.ConsecutiveNoTool++
	return s.ConsecutiveNoTool
}

// ShouldBreakOnNoTool reports whether the no-tool streak has hit the
// conclusion threshold.
func (s *IterationState) ShouldBreakOnNoTool() bool {
	return s.ConsecutiveNoTool >= MaxConsecutiveNoTool
}

// RecordSuccess resets failure tracking after a model call that produced
// a usable result.
func (s *IterationState) RecordSuccess() {
	s.ConsecutiveFailures = 0
	s.LastErrorMessage = ""
}

// RecordFailure records a failed model call.
func (s *IterationState) RecordFailure(errMsg string) {
	s.ConsecutiveFailures++
	s.LastErrorMessage = errMsg
}

// ShouldAbortOnFailures reports whether consecutive model-call failures
// have reached the abort threshold.
func (s *IterationState) ShouldAbortOnFailures() bool {
	return s.ConsecutiveFailures >= MaxConsecutiveFailures
}
