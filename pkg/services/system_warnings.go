package services

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Warning categories surfaced on the health endpoint.
const (
	// WarningCategoryModelSync covers failures refreshing the Ollama
	// model capability cache.
	WarningCategoryModelSync = "model_sync"
	// WarningCategoryEventListener covers Postgres LISTEN connection
	// trouble; live updates degrade to catch-up polling while raised.
	WarningCategoryEventListener = "event_listener"
	// WarningCategorySessionRecovery covers sessions failed over after
	// their worker stopped heartbeating.
	WarningCategorySessionRecovery = "session_recovery"
)

// SystemWarning is a non-fatal degradation the dashboard should show.
type SystemWarning struct {
	ID        string    `json:"warning_id"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SystemWarningsService collects warnings in memory. Warnings describe
// the current process only, so they do not persist; a restart that
// fixes the condition clears them naturally.
type SystemWarningsService struct {
	mu       sync.RWMutex
	warnings map[string]*SystemWarning
}

// NewSystemWarningsService creates a new system warnings service.
func NewSystemWarningsService() *SystemWarningsService {
	return &SystemWarningsService{
		warnings: make(map[string]*SystemWarning),
	}
}

// AddWarning records a warning and returns its ID. A warning with the
// same category and source replaces the previous one, so a flapping
// subsystem shows a single current warning instead of piling up.
func (s *SystemWarningsService) AddWarning(category, message, details, source string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, w := range s.warnings {
		if w.Category == category && w.Source == source {
			delete(s.warnings, id)
		}
	}

	warning := &SystemWarning{
		ID:        uuid.New().String(),
		Category:  category,
		Message:   message,
		Details:   details,
		Source:    source,
		Timestamp: time.Now(),
	}
	s.warnings[warning.ID] = warning
	return warning.ID
}

// GetWarnings returns all current warnings, oldest first.
func (s *SystemWarningsService) GetWarnings() []*SystemWarning {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*SystemWarning, 0, len(s.warnings))
	for _, w := range s.warnings {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// ClearBySource removes the warning for a category and source, if any.
// Called when the subsystem recovers.
func (s *SystemWarningsService) ClearBySource(category, source string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := false
	for id, w := range s.warnings {
		if w.Category == category && w.Source == source {
			delete(s.warnings, id)
			cleared = true
		}
	}
	return cleared
}
