package masking

import (
	"log/slog"

	"github.com/kiln-dev/kiln/pkg/config"
)

// Service applies the secret sweep to tool output. Created once at
// daemon startup and shared by every turn; thread-safe and stateless
// aside from compiled patterns. Implements agent.OutputRedactor.
type Service struct {
	enabled  bool
	maskers  []Masker
	patterns []*CompiledPattern
}

// NewService compiles the built-in rules plus the policy's additions and
// registers the structural maskers. All patterns are compiled eagerly.
func NewService(policy *config.ToolPolicyConfig) *Service {
	s := &Service{enabled: true}
	if policy != nil {
		s.enabled = policy.RedactSecrets
	}

	// 1. Compile built-in regex rules (sorted by name, deterministic)
	s.patterns = compileBuiltinPatterns()

	// 2. Compile custom rules from kiln.yaml, applied after the built-ins
	if policy != nil {
		s.patterns = append(s.patterns, compileCustomPatterns(policy.RedactionPatterns)...)
	}

	// 3. Register structural maskers
	s.registerMasker(&DotenvMasker{})

	slog.Info("Masking service initialized",
		"enabled", s.enabled,
		"compiled_patterns", len(s.patterns),
		"structural_maskers", len(s.maskers))

	return s
}

// RedactToolOutput sweeps one tool output. Structural maskers run first
// (they need intact content to parse), then the regex rules. Each phase
// is defensive: a masker that cannot parse returns its input untouched
// and the remaining phases still run.
func (s *Service) RedactToolOutput(content string) string {
	if !s.enabled || content == "" {
		return content
	}

	masked := content
	for _, m := range s.maskers {
		if m.AppliesTo(masked) {
			masked = m.Mask(masked)
		}
	}
	for _, p := range s.patterns {
		masked = p.Regex.ReplaceAllString(masked, p.Replacement)
	}
	return masked
}

// registerMasker appends a structural masker to the sweep.
func (s *Service) registerMasker(m Masker) {
	s.maskers = append(s.maskers, m)
}
