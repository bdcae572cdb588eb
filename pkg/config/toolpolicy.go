package config

import "time"

// ToolPolicyConfig controls how tool execution is mediated: which terminal
// commands may run without asking, which files count as sensitive, and how
// long a single tool may take. This is the resolved form; the YAML shape
// lives in loader.go.
type ToolPolicyConfig struct {
	// AutoApproveCommands is the default for new sessions: when true,
	// non-critical terminal commands run without an approval prompt.
	// Critical-severity commands always require approval.
	AutoApproveCommands bool

	// AutoApproveSensitiveEdits is the default for new sessions: when true,
	// writes to sensitive files skip the approval prompt.
	AutoApproveSensitiveEdits bool

	// SafeCommandPrefixes lists command prefixes treated as severity "none"
	// by the analyzer (read-only inspection commands). Built-in list plus
	// user additions.
	SafeCommandPrefixes []string

	// SensitiveFilePatterns are regex patterns (matched against the
	// workspace-relative path) marking files whose edits need approval.
	// Built-in list plus user additions.
	SensitiveFilePatterns []string

	// PerToolTimeout bounds a single tool execution. Tools that stream or
	// wait on the user (approval) are exempt.
	PerToolTimeout time.Duration

	// RedactSecrets controls whether tool output is swept for secrets
	// before it reaches the model, the UI, or the database.
	RedactSecrets bool

	// RedactionPatterns are user-supplied additions to the built-in
	// redaction sweep. Applied after the built-ins, in listed order.
	RedactionPatterns []RedactionPattern
}

// RedactionPattern is one resolved regex rule of the secret sweep.
// Built-in rules carry a Description; user rules (RedactionPatternYAML in
// kiln.yaml) leave it empty.
type RedactionPattern struct {
	Pattern     string
	Replacement string
	Description string
}

// DefaultToolPolicyConfig returns the built-in tool policy defaults.
func DefaultToolPolicyConfig() *ToolPolicyConfig {
	return &ToolPolicyConfig{
		AutoApproveCommands:       false,
		AutoApproveSensitiveEdits: false,
		PerToolTimeout:            30 * time.Second,
		RedactSecrets:             true,
	}
}
