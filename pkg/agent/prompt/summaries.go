package prompt

import (
	"fmt"
	"strings"
)

// compactionSystemPrompt drives mid-turn history condensation. The output
// replaces the condensed messages verbatim, so it must stand alone.
const compactionSystemPrompt = `You condense transcripts of coding-agent sessions. The agent keeps working
from your summary in place of the original messages, so preserve everything it
may still need: file paths, symbol names, command results, decisions made, and
attempts that failed. Drop narration, repetition, and anything the agent can
re-derive with one cheap tool call. Write plain prose, no headings.`

// compactionUserTemplate wraps the transcript to condense. %s = transcript.
const compactionUserTemplate = `The transcript below is the oldest part of an ongoing session that no longer
fits the context window.

=== TRANSCRIPT START ===
%s
=== TRANSCRIPT END ===

Condense it into a brief the agent can rely on instead of the original
messages. State what was examined, what was found, what was changed, and what
remains open. Return ONLY the summary text.`

// BuildCompactionSystemPrompt returns the system message for the history
// condensation call.
func (b *Builder) BuildCompactionSystemPrompt() string { return compactionSystemPrompt }

// BuildCompactionUserPrompt wraps a rendered transcript for condensation.
func (b *Builder) BuildCompactionUserPrompt(transcript string) string {
	return fmt.Sprintf(compactionUserTemplate, transcript)
}

// turnSummarySystemPrompt drives the end-of-turn fallback summary, used when
// the model finished without streaming any text to the user.
const turnSummarySystemPrompt = `You write the closing message a coding assistant shows after finishing a
turn. Summarize what was done and what was found in 2 to 4 sentences, naming
the concrete files and results involved. Use only the material provided. No
greetings, no offers of further help.`

// BuildTurnSummarySystemPrompt returns the system message for the fallback
// turn summary call.
func (b *Builder) BuildTurnSummarySystemPrompt() string { return turnSummarySystemPrompt }

// BuildTurnSummaryUserPrompt assembles the material for the fallback turn
// summary: recent tool outputs and condensed thinking, whichever exist.
func (b *Builder) BuildTurnSummaryUserPrompt(toolOutputs []string, condensedThinking string) string {
	var sb strings.Builder
	sb.WriteString("The turn ended without a closing message. Write one from this material.\n")

	if len(toolOutputs) > 0 {
		sb.WriteString("\n## Tool output\n\n")
		sb.WriteString(strings.Join(toolOutputs, "\n---\n"))
		sb.WriteString("\n")
	}
	if condensedThinking != "" {
		sb.WriteString("\n## Reasoning notes\n\n")
		sb.WriteString(condensedThinking)
		sb.WriteString("\n")
	}

	sb.WriteString("\nReply with the summary only.")
	return sb.String()
}

// titleSystemPrompt drives session title generation from the first task.
// The title service trims the reply to eight words, so the prompt asks for
// that bound up front.
const titleSystemPrompt = `You name coding sessions. Reply with one title of at most eight words that
captures the task. Plain text only: no quotes, no trailing period, no
explanation.`

// titleUserTemplate wraps the task to title. %s = the user's first message.
const titleUserTemplate = `Name the session that starts with this request:

%s`

// BuildTitleSystemPrompt returns the system message for title generation.
func (b *Builder) BuildTitleSystemPrompt() string { return titleSystemPrompt }

// BuildTitleUserPrompt wraps the first user task for title generation.
func (b *Builder) BuildTitleUserPrompt(task string) string {
	return fmt.Sprintf(titleUserTemplate, task)
}
