package masking

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"

	"github.com/kiln-dev/kiln/pkg/config"
)

// CompiledPattern holds a pre-compiled regex rule with its replacement.
type CompiledPattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
}

// compileBuiltinPatterns compiles the built-in redaction rules in name
// order, so the sweep applies deterministically. Invalid patterns are
// logged and skipped.
func compileBuiltinPatterns() []*CompiledPattern {
	builtin := config.GetBuiltinConfig().RedactionPatterns

	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)

	compiled := make([]*CompiledPattern, 0, len(names))
	for _, name := range names {
		rule := builtin[name]
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			slog.Error("Failed to compile built-in redaction pattern, skipping",
				"pattern", name, "error", err)
			continue
		}
		compiled = append(compiled, &CompiledPattern{
			Name:        name,
			Regex:       re,
			Replacement: rule.Replacement,
		})
	}
	return compiled
}

// compileCustomPatterns compiles the user's kiln.yaml additions, keyed
// "custom:{index}". Config validation already rejected malformed regexes;
// the skip path here covers patterns injected programmatically.
func compileCustomPatterns(rules []config.RedactionPattern) []*CompiledPattern {
	compiled := make([]*CompiledPattern, 0, len(rules))
	for i, rule := range rules {
		name := fmt.Sprintf("custom:%d", i)
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			slog.Error("Failed to compile custom redaction pattern, skipping",
				"pattern", name, "error", err)
			continue
		}
		compiled = append(compiled, &CompiledPattern{
			Name:        name,
			Regex:       re,
			Replacement: rule.Replacement,
		})
	}
	return compiled
}
