package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCompactionUserPrompt_EmbedsTranscript(t *testing.T) {
	got := New().BuildCompactionUserPrompt("user: fix the bug\nassistant: done")

	assert.Contains(t, got, "=== TRANSCRIPT START ===\nuser: fix the bug\nassistant: done\n=== TRANSCRIPT END ===")
	assert.Contains(t, got, "Return ONLY the summary text.")
}

func TestBuildCompactionSystemPrompt_DemandsStandaloneProse(t *testing.T) {
	got := New().BuildCompactionSystemPrompt()

	assert.Contains(t, got, "file paths")
	assert.Contains(t, got, "plain prose")
}

func TestBuildTurnSummaryUserPrompt_AllMaterial(t *testing.T) {
	got := New().BuildTurnSummaryUserPrompt(
		[]string{"read_file: package main", "search: 3 hits"},
		"inspected the loader first",
	)

	assert.Contains(t, got, "## Tool output")
	assert.Contains(t, got, "read_file: package main\n---\nsearch: 3 hits")
	assert.Contains(t, got, "## Reasoning notes")
	assert.Contains(t, got, "inspected the loader first")
	assert.True(t, strings.HasSuffix(got, "Reply with the summary only."))
}

func TestBuildTurnSummaryUserPrompt_OmitsEmptySections(t *testing.T) {
	got := New().BuildTurnSummaryUserPrompt(nil, "")

	assert.NotContains(t, got, "## Tool output")
	assert.NotContains(t, got, "## Reasoning notes")
	assert.Contains(t, got, "The turn ended without a closing message.")
}

func TestBuildTitlePrompts(t *testing.T) {
	b := New()

	assert.Contains(t, b.BuildTitleSystemPrompt(), "at most eight words")

	user := b.BuildTitleUserPrompt("rename the config loader")
	assert.Contains(t, user, "Name the session")
	assert.True(t, strings.HasSuffix(user, "rename the config loader"))
}
