package config

// Defaults contains system-wide default configurations.
// These values are used when a session or model doesn't specify its own.
type Defaults struct {
	// Executor mode for new sessions
	Mode Mode `yaml:"mode,omitempty"`

	// Model name for new sessions (must be available on the Ollama host)
	Model string `yaml:"model,omitempty"`

	// Max loop iterations before the engine forces a conclusion
	MaxIterations *int `yaml:"max_iterations,omitempty" validate:"omitempty,min=1"`

	// Hard ceiling on the context window regardless of what the model
	// advertises. Keeps huge-window models from exhausting local RAM.
	GlobalContextCap int `yaml:"global_context_cap,omitempty"`

	// Output token budget per model call (Ollama num_predict)
	NumPredict int `yaml:"num_predict,omitempty"`

	// Sampling temperature for model calls
	Temperature *float64 `yaml:"temperature,omitempty"`

	// Workspace directory for sessions that don't name one (empty = the
	// session create request must supply it)
	Workspace string `yaml:"workspace,omitempty"`
}

// Per-mode iteration budgets applied when Defaults.MaxIterations is unset.
const (
	// DefaultMaxIterations bounds a top-level agent turn.
	DefaultMaxIterations = 24
	// DefaultSubAgentMaxIterations bounds a delegated exploration turn.
	DefaultSubAgentMaxIterations = 12
)

// Context budget defaults. MinContextWindow and MinNumCtx are floors fixed
// by the request builder; GlobalContextCap is only the configurable ceiling.
const (
	DefaultGlobalContextCap = 32768
	DefaultNumPredict       = 4096
	DefaultTemperature      = 0.7
)

// MaxIterationsFor returns the configured iteration budget, falling back to
// the built-in per-role defaults.
func (d *Defaults) MaxIterationsFor(subAgent bool) int {
	if d != nil && d.MaxIterations != nil {
		return *d.MaxIterations
	}
	if subAgent {
		return DefaultSubAgentMaxIterations
	}
	return DefaultMaxIterations
}
