package tools

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Output caps applied before a tool result enters conversation history.
// Oversize results are cut at a line boundary with a marker rather than
// summarized, so no extra model call is spent on them.
const (
	maxOutputLines = 2000
	maxOutputBytes = 50_000
	maxLineChars   = 2000
)

// truncateHead keeps the beginning of s, cutting at a line boundary
// once either cap is exceeded. Reads and searches keep the head: the
// interesting part is where the model asked to look.
func truncateHead(s string, maxLines, maxBytes int) (string, bool) {
	if len(s) <= maxBytes && strings.Count(s, "\n") < maxLines {
		return s, false
	}
	lines := strings.Split(s, "\n")
	total := len(lines)
	if total > maxLines {
		lines = lines[:maxLines]
	}
	out := strings.Join(lines, "\n")
	for len(out) > maxBytes {
		cut := strings.LastIndexByte(out[:maxBytes], '\n')
		if cut <= 0 {
			out = out[:maxBytes]
			break
		}
		out = out[:cut]
	}
	return out + fmt.Sprintf("\n[Output truncated: %d of %d lines shown]", strings.Count(out, "\n")+1, total), true
}

// truncateTail keeps the end of s. Terminal output keeps the tail: the
// failure is almost always in the last screen.
func truncateTail(s string, maxLines, maxBytes int) (string, bool) {
	if len(s) <= maxBytes && strings.Count(s, "\n") < maxLines {
		return s, false
	}
	lines := strings.Split(s, "\n")
	total := len(lines)
	if total > maxLines {
		lines = lines[total-maxLines:]
	}
	out := strings.Join(lines, "\n")
	for len(out) > maxBytes {
		over := len(out) - maxBytes
		cut := strings.IndexByte(out[over:], '\n')
		if cut < 0 {
			out = out[over:]
			break
		}
		out = out[over+cut+1:]
	}
	return fmt.Sprintf("[Output truncated: last %d of %d lines shown]\n", strings.Count(out, "\n")+1, total) + out, true
}

// capLine shortens a single line for match listings, respecting rune
// boundaries.
func capLine(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

// formatSize renders a byte count the way directory listings do.
func formatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%dB", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(n)/(1024*1024))
	}
}
