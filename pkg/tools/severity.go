package tools

import (
	"regexp"
	"strings"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// Whole-command patterns checked before segment splitting, because the
// danger spans a pipe or redirect.
var criticalCommandPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(curl|wget)\b[^|;]*\|\s*(sudo\s+)?\w*sh\b`), // pipe a download into a shell
	regexp.MustCompile(`>\s*/dev/sd`),
	regexp.MustCompile(`:\(\)\s*\{`), // fork bomb
}

var criticalSegmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\w+=\S+\s+)*(sudo|doas)\b`),
	regexp.MustCompile(`^mkfs(\.|\s|$)`),
	regexp.MustCompile(`^dd\b.*\bof=/dev/`),
	regexp.MustCompile(`^(shutdown|reboot|halt|poweroff)\b`),
	regexp.MustCompile(`^chmod\b.*\s777\s+/\s*$`),
}

var highSegmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^git\s+push\b.*(\s--force\b|\s-f\b)`),
	regexp.MustCompile(`^git\s+reset\s+--hard\b`),
	regexp.MustCompile(`^git\s+clean\b.*\s-\w*f`),
	regexp.MustCompile(`^git\s+(checkout|restore)\s+\.\s*$`),
	regexp.MustCompile(`^(truncate|shred)\b`),
	regexp.MustCompile(`^killall\b`),
	regexp.MustCompile(`(?i)\bdrop\s+(table|database|schema)\b`),
	regexp.MustCompile(`\bchmod\b.*777`),
	regexp.MustCompile(`>\s*/etc/`),
}

var lowSegmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^go\s+(build|test|vet|fmt|generate)\b`),
	regexp.MustCompile(`^(make|pytest|tsc)\b`),
	regexp.MustCompile(`^cargo\s+(build|test|check|clippy)\b`),
	regexp.MustCompile(`^(npm|pnpm|yarn)\s+(test|run)\b`),
}

// Paths whose recursive removal takes out more than a workspace.
var systemRoots = map[string]bool{
	"/": true, "/*": true, "~": true, "~/": true, "$HOME": true,
	"/home": true, "/etc": true, "/usr": true, "/var": true, "/bin": true,
}

// segmentSplitter is quote-blind on purpose: a dangerous command hidden
// inside quotes rates too high rather than too low.
var segmentSplitter = regexp.MustCompile(`\|\||&&|[;|&]`)

// AnalyzeCommand grades a terminal command. Compound commands take the
// maximum severity across segments; a safe prefix only downgrades the
// segment it matches.
func AnalyzeCommand(command string, safePrefixes []string) agent.Severity {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return agent.SeverityNone
	}

	for _, re := range criticalCommandPatterns {
		if re.MatchString(trimmed) {
			return agent.SeverityCritical
		}
	}

	severity := agent.SeverityNone
	for _, segment := range segmentSplitter.Split(trimmed, -1) {
		seg := strings.TrimSpace(segment)
		if seg == "" {
			continue
		}
		s := analyzeSegment(seg, safePrefixes)
		if s.AtLeast(severity) {
			severity = s
		}
	}
	return severity
}

func analyzeSegment(seg string, safePrefixes []string) agent.Severity {
	for _, prefix := range safePrefixes {
		if seg == prefix || strings.HasPrefix(seg, prefix+" ") {
			return agent.SeverityNone
		}
	}

	if strings.HasPrefix(seg, "rm ") || seg == "rm" {
		return analyzeRm(seg)
	}
	for _, re := range criticalSegmentPatterns {
		if re.MatchString(seg) {
			return agent.SeverityCritical
		}
	}
	for _, re := range highSegmentPatterns {
		if re.MatchString(seg) {
			return agent.SeverityHigh
		}
	}
	for _, re := range lowSegmentPatterns {
		if re.MatchString(seg) {
			return agent.SeverityLow
		}
	}
	return agent.SeverityMedium
}

// analyzeRm parses an rm invocation: recursive or forced removal of a
// system root is critical, any recursive or forced removal is high,
// a plain rm is medium. Flags may appear before or after operands.
func analyzeRm(seg string) agent.Severity {
	recursive, force := false, false
	var targets []string
	for _, field := range strings.Fields(seg)[1:] {
		switch {
		case field == "--recursive":
			recursive = true
		case field == "--force":
			force = true
		case strings.HasPrefix(field, "--"):
			// other long option
		case strings.HasPrefix(field, "-") && len(field) > 1:
			if strings.ContainsAny(field, "rR") {
				recursive = true
			}
			if strings.Contains(field, "f") {
				force = true
			}
		default:
			targets = append(targets, field)
		}
	}
	if !recursive && !force {
		return agent.SeverityMedium
	}
	for _, target := range targets {
		if systemRoots[target] {
			return agent.SeverityCritical
		}
	}
	return agent.SeverityHigh
}

// IsSensitivePath reports whether a workspace-relative path matches any
// configured sensitive-file pattern. Invalid patterns are skipped.
func IsSensitivePath(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		if re.MatchString(rel) {
			return true
		}
	}
	return false
}
