package config

import (
	"fmt"
	"log/slog"
	"time"

	"dario.cat/mergo"
)

// mergeModels merges built-in and user-defined model configurations.
// Merging is field-level: a user entry only overrides the fields it sets,
// inheriting the rest from the built-in entry for the same model name.
func mergeModels(builtinModels map[string]ModelConfig, userModels map[string]ModelConfig) (map[string]*ModelConfig, error) {
	result := make(map[string]*ModelConfig)

	for name, builtin := range builtinModels {
		builtinCopy := builtin
		result[name] = &builtinCopy
	}

	for name, userModel := range userModels {
		merged := userModel // user copy is the destination: its set fields win
		if builtin, ok := builtinModels[name]; ok {
			if err := mergo.Merge(&merged, builtin); err != nil {
				return nil, fmt.Errorf("failed to merge model %q: %w", name, err)
			}
		}
		result[name] = &merged
	}

	return result, nil
}

// resolveToolPolicy merges the user tool policy over the built-in defaults.
// Scalar fields override; the prefix and pattern lists are additive, since
// removing a built-in safety pattern should take deliberate code, not YAML.
func resolveToolPolicy(builtin *BuiltinConfig, user *ToolPolicyYAMLConfig) *ToolPolicyConfig {
	resolved := DefaultToolPolicyConfig()

	var userPrefixes, userPatterns []string
	if user != nil {
		if user.AutoApproveCommands != nil {
			resolved.AutoApproveCommands = *user.AutoApproveCommands
		}
		if user.AutoApproveSensitiveEdits != nil {
			resolved.AutoApproveSensitiveEdits = *user.AutoApproveSensitiveEdits
		}
		resolved.PerToolTimeout = parseDurationOrDefault(
			"tool_policy.per_tool_timeout", user.PerToolTimeout, resolved.PerToolTimeout)
		userPrefixes = user.SafeCommandPrefixes
		userPatterns = user.SensitiveFilePatterns

		if user.RedactSecrets != nil {
			resolved.RedactSecrets = *user.RedactSecrets
		}
		for _, rp := range user.RedactionPatterns {
			resolved.RedactionPatterns = append(resolved.RedactionPatterns, RedactionPattern{
				Pattern:     rp.Pattern,
				Replacement: rp.Replacement,
			})
		}
	}

	resolved.SafeCommandPrefixes = appendUnique(builtin.SafeCommandPrefixes, userPrefixes)
	resolved.SensitiveFilePatterns = appendUnique(builtin.SensitiveFilePatterns, userPatterns)
	return resolved
}

// parseDurationOrDefault parses a YAML duration string, logging and keeping
// the default when the value is empty or malformed.
func parseDurationOrDefault(field, value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Invalid duration in config, using default",
			"field", field,
			"value", value,
			"default", def,
			"error", err)
		return def
	}
	return d
}

// appendUnique returns base plus any extras not already present, preserving
// order.
func appendUnique(base []string, extras []string) []string {
	seen := make(map[string]bool, len(base)+len(extras))
	result := make([]string, 0, len(base)+len(extras))
	for _, s := range base {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range extras {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}
