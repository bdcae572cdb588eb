package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kiln-dev/kiln/ent"
	"github.com/kiln-dev/kiln/ent/modelrecord"
)

// ModelService caches Ollama model capabilities so the dashboard can
// list models and the budgeter can resolve context windows without
// hitting /api/show on every turn.
type ModelService struct {
	client *ent.Client
}

// NewModelService creates a new model service.
func NewModelService(client *ent.Client) *ModelService {
	return &ModelService{client: client}
}

// UpsertModelInput carries one model's detected capabilities. Nil
// ContextLength means extraction failed; the stored value is cleared so
// stale windows do not outlive a model update.
type UpsertModelInput struct {
	Name          string
	ContextLength *int
	Capabilities  []string
	Parameters    *string
}

// UpsertModels refreshes the capability cache from an Ollama model
// sync. Rows are keyed by model name; all writes happen in one
// transaction so a half-applied sync never shows.
func (s *ModelService) UpsertModels(httpCtx context.Context, inputs []UpsertModelInput) error {
	if len(inputs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := s.client.Tx(ctx)
	if err != nil {
		return fmt.Errorf("failed to start model sync transaction: %w", err)
	}
	defer tx.Rollback()

	for _, input := range inputs {
		if input.Name == "" {
			return NewValidationError("name", "required")
		}

		existing, err := tx.ModelRecord.Query().
			Where(modelrecord.NameEQ(input.Name)).
			Only(ctx)
		switch {
		case err == nil:
			update := existing.Update().SetUpdatedAt(time.Now())
			if input.ContextLength != nil {
				update = update.SetContextLength(*input.ContextLength)
			} else {
				update = update.ClearContextLength()
			}
			if input.Capabilities != nil {
				update = update.SetCapabilities(input.Capabilities)
			}
			if input.Parameters != nil {
				update = update.SetParameters(*input.Parameters)
			}
			if err := update.Exec(ctx); err != nil {
				return fmt.Errorf("failed to update model %s: %w", input.Name, err)
			}
		case ent.IsNotFound(err):
			create := tx.ModelRecord.Create().
				SetID(uuid.New().String()).
				SetName(input.Name).
				SetNillableContextLength(input.ContextLength).
				SetNillableParameters(input.Parameters)
			if input.Capabilities != nil {
				create = create.SetCapabilities(input.Capabilities)
			}
			if err := create.Exec(ctx); err != nil {
				return fmt.Errorf("failed to create model %s: %w", input.Name, err)
			}
		default:
			return fmt.Errorf("failed to look up model %s: %w", input.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit model sync: %w", err)
	}
	return nil
}

// ListModels returns all cached models sorted by name.
func (s *ModelService) ListModels(ctx context.Context) ([]*ent.ModelRecord, error) {
	models, err := s.client.ModelRecord.Query().
		Order(ent.Asc(modelrecord.FieldName)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return models, nil
}

// GetModelByName returns the cached record for one model.
func (s *ModelService) GetModelByName(ctx context.Context, name string) (*ent.ModelRecord, error) {
	record, err := s.client.ModelRecord.Query().
		Where(modelrecord.NameEQ(name)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get model %s: %w", name, err)
	}
	return record, nil
}
