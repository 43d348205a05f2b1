package service

import (
	"context"
	"log/slog"

	"github.com/iliyamo/recipe-catalog/internal/model"
	"github.com/iliyamo/recipe-catalog/internal/paging"
	"github.com/iliyamo/recipe-catalog/internal/queue"
	"github.com/iliyamo/recipe-catalog/internal/telemetry"
)

// IngredientService manages the shared ingredient catalog.
type IngredientService struct {
	repo IngredientRepository
	notifier
}

func NewIngredientService(repo IngredientRepository, events queue.Publisher, logger *slog.Logger) *IngredientService {
	return &IngredientService{repo: repo, notifier: newNotifier(logger, events)}
}

// Save creates the ingredient when in.ID is 0, otherwise renames it.
func (s *IngredientService) Save(ctx context.Context, in *model.Ingredient) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "ingredient", "save", telemetry.ID(in.ID))
	defer func() { telemetry.End(span, err) }()

	if in.Name == "" {
		return ErrInvalidInput
	}
	evType := queue.IngredientUpdated
	if in.ID == 0 {
		evType = queue.IngredientCreated
		err = s.repo.Create(ctx, in)
	} else {
		err = s.repo.Update(ctx, in)
	}
	if err != nil {
		return storageErr("save ingredient", err)
	}
	s.emit(ctx, queue.NewEvent(evType, in.ID, in.Name, 0))
	return nil
}

// Find returns ErrNotFound when the ingredient does not exist.
func (s *IngredientService) Find(ctx context.Context, id int64) (*model.Ingredient, error) {
	in, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("find ingredient", err)
	}
	return in, nil
}

// Delete removes the ingredient and the recipe lines that use it.
// Deleting an unknown ingredient is a no-op.
func (s *IngredientService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "ingredient", "delete", telemetry.ID(id))
	defer func() { telemetry.End(span, err) }()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storageErr("delete ingredient", err)
	}
	if deleted {
		s.emit(ctx, queue.NewEvent(queue.IngredientDeleted, id, "", 0))
	}
	return nil
}

func (s *IngredientService) Search(ctx context.Context, term string) ([]model.Ingredient, error) {
	out, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, storageErr("search ingredients", err)
	}
	return out, nil
}

func (s *IngredientService) SearchPage(ctx context.Context, term string, opts paging.Options) (paging.Page[model.Ingredient], error) {
	return page(ctx, opts, func(ctx context.Context, o paging.Options) ([]model.Ingredient, error) {
		out, err := s.repo.List(ctx, term, o)
		if err != nil {
			return nil, storageErr("list ingredients", err)
		}
		return out, nil
	})
}
