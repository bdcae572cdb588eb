package config

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// ModelConfig defines per-model overrides layered on top of what the Ollama
// host reports for the model. Everything is optional: a model absent from
// models.yaml runs entirely on detected capabilities and system defaults.
type ModelConfig struct {
	// Ceiling on the usable context window for this model. 0 means "no
	// per-model cap" — only the global cap applies.
	ContextCap int `yaml:"context_cap,omitempty" validate:"omitempty,min=0"`

	// Thinking forces the reasoning channel on or off. nil = trust the
	// capabilities reported by the host.
	Thinking *bool `yaml:"thinking,omitempty"`

	// Temperature override for this model
	Temperature *float64 `yaml:"temperature,omitempty"`

	// Output token budget override (Ollama num_predict)
	NumPredict *int `yaml:"num_predict,omitempty" validate:"omitempty,min=1"`

	// Stop sequences appended to every request for this model
	Stop StopList `yaml:"stop,omitempty"`

	// KeepAlive overrides how long the Ollama host keeps the model loaded
	// after a request (Go duration string, e.g. "30m")
	KeepAlive string `yaml:"keep_alive,omitempty"`
}

// BoolPtr returns a pointer to b. Convenience for *bool struct fields.
func BoolPtr(b bool) *bool { return &b }

// FloatPtr returns a pointer to f. Convenience for *float64 struct fields.
func FloatPtr(f float64) *float64 { return &f }

// IntPtr returns a pointer to i. Convenience for *int struct fields.
func IntPtr(i int) *int { return &i }

// StopList is a list of stop sequences that supports both scalar and
// sequence YAML forms:
//   - Short-form:  stop: "</answer>"
//   - Long-form:   stop: ["</answer>", "Observation:"]
type StopList []string

// UnmarshalYAML implements custom unmarshaling for both forms.
func (s *StopList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("stop: expected string, got %s", value.Tag)
		}
		*s = StopList{value.Value}
		return nil
	case yaml.SequenceNode:
		list := make(StopList, 0, len(value.Content))
		for i, node := range value.Content {
			if node.Kind != yaml.ScalarNode || node.Tag != "!!str" {
				return fmt.Errorf("stop[%d]: expected string, got %s", i, node.Tag)
			}
			list = append(list, node.Value)
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("stop: expected string or sequence, got %v", value.Tag)
	}
}

// ModelRegistry stores model configurations in memory with thread-safe access
type ModelRegistry struct {
	models map[string]*ModelConfig
	mu     sync.RWMutex
}

// NewModelRegistry creates a new model registry
func NewModelRegistry(models map[string]*ModelConfig) *ModelRegistry {
	// Defensive copy to prevent external mutation
	copied := make(map[string]*ModelConfig, len(models))
	for k, v := range models {
		copied[k] = v
	}
	return &ModelRegistry{
		models: copied,
	}
}

// Get retrieves a model configuration by name (thread-safe)
func (r *ModelRegistry) Get(name string) (*ModelConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	model, exists := r.models[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	return model, nil
}

// Overrides returns the configuration for name, or an empty config when the
// model has no entry. Callers that only layer optional overrides use this
// instead of Get to avoid the not-found error path.
func (r *ModelRegistry) Overrides(name string) *ModelConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if model, exists := r.models[name]; exists {
		return model
	}
	return &ModelConfig{}
}

// GetAll returns all model configurations (thread-safe, returns copy)
func (r *ModelRegistry) GetAll() map[string]*ModelConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*ModelConfig, len(r.models))
	for k, v := range r.models {
		result[k] = v
	}
	return result
}

// Has checks if a model exists in the registry (thread-safe)
func (r *ModelRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.models[name]
	return exists
}

// Len returns the number of models in the registry (thread-safe)
func (r *ModelRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}
