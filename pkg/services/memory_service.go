package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kiln-dev/kiln/ent"
)

// MemoryService persists session memory as an opaque JSON document on
// the session row, so a session survives worker restarts with its
// iteration summaries and noted facts intact.
type MemoryService struct {
	client *ent.Client
}

// NewMemoryService creates a new memory service.
func NewMemoryService(client *ent.Client) *MemoryService {
	return &MemoryService{client: client}
}

// SaveMemory serializes v and stores it on the session. v must marshal
// to a JSON object.
func (s *MemoryService) SaveMemory(httpCtx context.Context, sessionID string, v interface{}) error {
	if sessionID == "" {
		return NewValidationError("session_id", "required")
	}
	if v == nil {
		return NewValidationError("memory", "required")
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize session memory: %w", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("session memory must serialize to a JSON object: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.client.Session.UpdateOneID(sessionID).SetMemory(doc).Exec(ctx); err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to save session memory: %w", err)
	}
	return nil
}

// LoadMemory deserializes the session's stored memory into v. A session
// with no stored memory leaves v untouched.
func (s *MemoryService) LoadMemory(ctx context.Context, sessionID string, v interface{}) error {
	sess, err := s.client.Session.Get(ctx, sessionID)
	if err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load session memory: %w", err)
	}
	if len(sess.Memory) == 0 {
		return nil
	}

	raw, err := json.Marshal(sess.Memory)
	if err != nil {
		return fmt.Errorf("failed to re-serialize session memory: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to deserialize session memory: %w", err)
	}
	return nil
}

// ClearMemory drops the session's stored memory.
func (s *MemoryService) ClearMemory(ctx context.Context, sessionID string) error {
	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.client.Session.UpdateOneID(sessionID).ClearMemory().Exec(writeCtx); err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to clear session memory: %w", err)
	}
	return nil
}
