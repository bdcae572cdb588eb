package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kiln-dev/kiln/ent"
	"github.com/kiln-dev/kiln/ent/message"
	"github.com/kiln-dev/kiln/pkg/events"
)

// MessageService handles the append-only session log: model-visible
// conversation turns plus persisted UI events (tool_name = "__ui__").
type MessageService struct {
	client *ent.Client
}

// NewMessageService creates a new message service.
func NewMessageService(client *ent.Client) *MessageService {
	return &MessageService{client: client}
}

// AppendMessageInput carries one log entry. Optional fields are only
// stored when non-empty.
type AppendMessageInput struct {
	SessionID     string
	Role          string
	Content       string
	Model         string
	ToolName      string
	ToolCallID    string
	ToolCalls     []map[string]interface{}
	ToolInput     string
	ToolOutput    string
	ProgressTitle string
}

// AppendMessage appends a message to the session log with the next
// sequence number. The number is allocated inside the transaction with
// the same MAX+1 scheme the event bus uses for its UI marker rows;
// writes within one session come from a single worker at a time, so
// the two writers never race.
func (s *MessageService) AppendMessage(httpCtx context.Context, input AppendMessageInput) (*ent.Message, error) {
	if input.SessionID == "" {
		return nil, NewValidationError("session_id", "required")
	}
	switch input.Role {
	case "system", "user", "assistant", "tool":
	default:
		return nil, NewValidationError("role", fmt.Sprintf("unknown role %q", input.Role))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := s.client.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	next := 1
	last, err := tx.Message.Query().
		Where(message.SessionIDEQ(input.SessionID)).
		Order(ent.Desc(message.FieldSequenceNumber)).
		First(ctx)
	switch {
	case err == nil:
		next = last.SequenceNumber + 1
	case ent.IsNotFound(err):
	default:
		return nil, fmt.Errorf("failed to read last sequence number: %w", err)
	}

	builder := tx.Message.Create().
		SetID(uuid.New().String()).
		SetSessionID(input.SessionID).
		SetSequenceNumber(next).
		SetRole(message.Role(input.Role)).
		SetContent(input.Content)
	if input.Model != "" {
		builder = builder.SetModel(input.Model)
	}
	if input.ToolName != "" {
		builder = builder.SetToolName(input.ToolName)
	}
	if input.ToolCallID != "" {
		builder = builder.SetToolCallID(input.ToolCallID)
	}
	if len(input.ToolCalls) > 0 {
		builder = builder.SetToolCalls(input.ToolCalls)
	}
	if input.ToolInput != "" {
		builder = builder.SetToolInput(input.ToolInput)
	}
	if input.ToolOutput != "" {
		builder = builder.SetToolOutput(input.ToolOutput)
	}
	if input.ProgressTitle != "" {
		builder = builder.SetProgressTitle(input.ProgressTitle)
	}

	msg, err := builder.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit message: %w", err)
	}
	return msg, nil
}

// History returns the model-visible conversation in sequence order.
// Persisted UI events are excluded; they exist only for replay.
func (s *MessageService) History(ctx context.Context, sessionID string) ([]*ent.Message, error) {
	msgs, err := s.client.Message.Query().
		Where(
			message.SessionIDEQ(sessionID),
			message.Or(
				message.ToolNameIsNil(),
				message.ToolNameNEQ(events.UIMarkerToolName),
			),
		).
		Order(ent.Asc(message.FieldSequenceNumber)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}
	return msgs, nil
}

// Timeline returns the full session log including persisted UI events,
// in sequence order, for session replay. limit <= 0 returns everything.
func (s *MessageService) Timeline(ctx context.Context, sessionID string, limit, offset int) ([]*ent.Message, int, error) {
	query := s.client.Message.Query().
		Where(message.SessionIDEQ(sessionID))

	totalCount, err := query.Clone().Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count timeline entries: %w", err)
	}

	query = query.Order(ent.Asc(message.FieldSequenceNumber))
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	msgs, err := query.All(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load session timeline: %w", err)
	}
	return msgs, totalCount, nil
}
