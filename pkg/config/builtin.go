package config

import (
	"sync"
)

// BuiltinConfig holds all built-in configuration data: default model
// overrides for popular local models, the safe-command allowlist, and the
// sensitive-file patterns that gate write approvals.
type BuiltinConfig struct {
	Models                map[string]ModelConfig
	SafeCommandPrefixes   []string
	SensitiveFilePatterns []string
	RedactionPatterns     map[string]RedactionPattern
	DefaultMode           Mode
	DefaultModel          string
}

var (
	builtinConfig     *BuiltinConfig
	builtinConfigOnce sync.Once
)

// GetBuiltinConfig returns the singleton built-in configuration (thread-safe, lazy-initialized)
func GetBuiltinConfig() *BuiltinConfig {
	builtinConfigOnce.Do(initBuiltinConfig)
	return builtinConfig
}

func initBuiltinConfig() {
	builtinConfig = &BuiltinConfig{
		Models:                initBuiltinModels(),
		SafeCommandPrefixes:   initBuiltinSafeCommandPrefixes(),
		SensitiveFilePatterns: initBuiltinSensitiveFilePatterns(),
		RedactionPatterns:     initBuiltinRedactionPatterns(),
		DefaultMode:           ModeAgent,
		DefaultModel:          "qwen3:8b",
	}
}

// initBuiltinModels returns overrides for models commonly run locally.
// Anything unlisted runs on detected capabilities alone.
func initBuiltinModels() map[string]ModelConfig {
	return map[string]ModelConfig{
		// Qwen3 recommends temperature 0.6 when the thinking channel is on.
		"qwen3:8b": {
			ContextCap:  40960,
			Thinking:    BoolPtr(true),
			Temperature: FloatPtr(0.6),
		},
		"qwen3:14b": {
			ContextCap:  40960,
			Thinking:    BoolPtr(true),
			Temperature: FloatPtr(0.6),
		},
		"qwen3-coder:30b": {
			ContextCap: 65536,
		},
		"qwen2.5-coder:7b": {
			ContextCap: 32768,
		},
		"deepseek-r1:8b": {
			ContextCap: 65536,
			Thinking:   BoolPtr(true),
			// R1 models loop easily on native tool syntax; cut runaway
			// reasoning chains with an explicit stop.
			Stop: StopList{"<|end▁of▁sentence|>"},
		},
		"gpt-oss:20b": {
			ContextCap: 65536,
			Thinking:   BoolPtr(true),
		},
		"llama3.1:8b": {
			// Advertises 128K; anything near that swamps local RAM.
			ContextCap: 32768,
		},
		"devstral:24b": {
			ContextCap: 65536,
		},
	}
}

// initBuiltinSafeCommandPrefixes returns command prefixes the severity
// analyzer treats as "none" — read-only inspection commands that never
// mutate the workspace. Matched against the trimmed command.
func initBuiltinSafeCommandPrefixes() []string {
	return []string{
		"ls",
		"cat ",
		"head ",
		"tail ",
		"wc ",
		"pwd",
		"which ",
		"file ",
		"stat ",
		"du ",
		"df",
		"date",
		"whoami",
		"grep ",
		"rg ",
		"git status",
		"git log",
		"git diff",
		"git show",
		"git branch",
		"git remote -v",
		"go version",
		"go env",
		"node --version",
		"npm ls",
		"python --version",
		"python3 --version",
	}
}

// initBuiltinSensitiveFilePatterns returns regex patterns (matched against
// the workspace-relative path) for files whose edits always prompt unless
// the session opted in to auto-approving sensitive edits.
func initBuiltinSensitiveFilePatterns() []string {
	return []string{
		`(^|/)\.env(\.[^/]*)?$`,
		`\.pem$`,
		`\.key$`,
		`\.p12$`,
		`\.pfx$`,
		`(^|/)id_(rsa|dsa|ecdsa|ed25519)[^/]*$`,
		`(^|/)(credentials|secrets?)\.(json|ya?ml|toml)$`,
		`(^|/)\.netrc$`,
		`(^|/)\.npmrc$`,
		`(^|/)\.aws/credentials$`,
		`(^|/)\.ssh/config$`,
	}
}

// initBuiltinRedactionPatterns returns the regex rules the masking service
// applies to every tool output before it reaches the model or the
// transcript. Deliberately narrow: tool output here is mostly source code,
// and broad sweeps (any base64 run, any email) would mangle it. Values a
// shell command can surface from the environment or dotfiles are the
// target.
func initBuiltinRedactionPatterns() map[string]RedactionPattern {
	return map[string]RedactionPattern{
		"private_key_block": {
			Pattern:     `(?s)-----BEGIN [A-Z ]*PRIVATE KEY-----.*?-----END [A-Z ]*PRIVATE KEY-----`,
			Replacement: `__REDACTED_PRIVATE_KEY__`,
			Description: "PEM private key blocks",
		},
		"aws_access_key": {
			Pattern:     `\b(AKIA|ASIA)[0-9A-Z]{16}\b`,
			Replacement: `__REDACTED_AWS_ACCESS_KEY__`,
			Description: "AWS access key IDs",
		},
		"github_token": {
			Pattern:     `\bgh[pousr]_[A-Za-z0-9]{36,255}\b`,
			Replacement: `__REDACTED_GITHUB_TOKEN__`,
			Description: "GitHub personal/app tokens",
		},
		"slack_token": {
			Pattern:     `\bxox[baprs]-[A-Za-z0-9-]{10,72}\b`,
			Replacement: `__REDACTED_SLACK_TOKEN__`,
			Description: "Slack tokens",
		},
		"vendor_api_key": {
			Pattern:     `\bsk-[A-Za-z0-9_-]{20,}\b`,
			Replacement: `__REDACTED_API_KEY__`,
			Description: "sk- style vendor API keys",
		},
		"bearer_header": {
			Pattern:     `(?i)\b(authorization["']?\s*[:=]\s*["']?bearer)\s+[A-Za-z0-9._~+/-]+=*`,
			Replacement: `${1} __REDACTED_TOKEN__`,
			Description: "Authorization bearer headers",
		},
		"password_assignment": {
			Pattern:     `(?i)\b(password|passwd|pwd)(["']?\s*[:=]\s*["']?)[^"'\s]{6,}`,
			Replacement: `${1}${2}__REDACTED_PASSWORD__`,
			Description: "Password assignments",
		},
		"key_assignment": {
			Pattern:     `(?i)\b((?:api|secret|access|private)[_-]?key|(?:api|auth|access)[_-]?token)(["']?\s*[:=]\s*["']?)[A-Za-z0-9_.+/-]{16,}=*`,
			Replacement: `${1}${2}__REDACTED_KEY__`,
			Description: "API key and token assignments",
		},
	}
}
