package masking

import (
	"regexp"
	"strings"
)

// MaskedEnvValue is the replacement string for masked dotenv values.
const MaskedEnvValue = "__REDACTED_ENV_VALUE__"

var (
	// dotenvLine matches one KEY=value assignment, optionally exported.
	dotenvLine = regexp.MustCompile(`^\s*(?:export\s+)?([A-Za-z_][A-Za-z0-9_]*)=(.*)$`)

	// secretKeyName marks variable names whose values are masked.
	// Ordinary configuration (PORT, LOG_LEVEL, DATABASE_NAME) stays
	// readable so the model can still reason about the file.
	secretKeyName = regexp.MustCompile(
		`(?i)(secret|token|password|passwd|pwd|credential|auth|api[_-]?key|access[_-]?key|private[_-]?key)`)
)

// DotenvMasker masks values of secret-named keys in dotenv-style content
// (KEY=value lines): `cat .env`, `env`, `printenv`, and read_file on env
// files all produce this shape. Non-assignment lines pass through
// untouched, so the masker is safe to probe against arbitrary output.
type DotenvMasker struct{}

// Name returns the unique identifier for this masker.
func (m *DotenvMasker) Name() string { return "dotenv" }

// AppliesTo reports whether the data contains at least one assignment of
// a secret-named key with a non-empty value.
func (m *DotenvMasker) AppliesTo(data string) bool {
	if !strings.Contains(data, "=") {
		return false
	}
	for _, line := range strings.Split(data, "\n") {
		if match := dotenvLine.FindStringSubmatch(line); match != nil &&
			secretKeyName.MatchString(match[1]) && strings.TrimSpace(match[2]) != "" {
			return true
		}
	}
	return false
}

// Mask replaces the value of every secret-named assignment, keeping the
// key so the model knows the variable exists. The whole remainder of the
// line is masked — a trailing inline comment is cheaper to lose than a
// secret is to leak.
func (m *DotenvMasker) Mask(data string) string {
	lines := strings.Split(data, "\n")
	for i, line := range lines {
		match := dotenvLine.FindStringSubmatch(line)
		if match == nil || !secretKeyName.MatchString(match[1]) || strings.TrimSpace(match[2]) == "" {
			continue
		}
		eq := strings.Index(line, "=")
		lines[i] = line[:eq+1] + MaskedEnvValue
	}
	return strings.Join(lines, "\n")
}
