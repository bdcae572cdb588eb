package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterationState_Budget(t *testing.T) {
	s := &IterationState{Current: 0, Max: 3}
	assert.Equal(t, 3, s.Remaining())
	assert.False(t, s.Exhausted())

	s.Current = 3
	assert.Equal(t, 0, s.Remaining())
	assert.True(t, s.Exhausted())

	s.Current = 5
	assert.Equal(t, 0, s.Remaining(), "remaining never goes negative")
}

func TestIterationState_NoToolStreak(t *testing.T) {
	s := &IterationState{Max: 24}

	assert.Equal(t, 1, s.RecordNoTool())
	assert.Equal(t, 2, s.RecordNoTool())
	assert.False(t, s.ShouldBreakOnNoTool())

	s.RecordNoTool()
	assert.True(t, s.ShouldBreakOnNoTool())

	s.RecordToolUse()
	assert.Equal(t, 0, s.ConsecutiveNoTool)
	assert.False(t, s.ShouldBreakOnNoTool())
}

func TestIterationState_FailureTracking(t *testing.T) {
	s := &IterationState{Max: 24}

	s.RecordFailure("connection refused")
	assert.False(t, s.ShouldAbortOnFailures())
	assert.Equal(t, "connection refused", s.LastErrorMessage)

	s.RecordFailure("connection refused")
	assert.True(t, s.ShouldAbortOnFailures())

	s.RecordSuccess()
	assert.False(t, s.ShouldAbortOnFailures())
	assert.Empty(t, s.LastErrorMessage)
}
