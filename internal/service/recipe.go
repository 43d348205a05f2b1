package service

import (
	"context"
	"log/slog"

	"github.com/iliyamo/recipe-catalog/internal/model"
	"github.com/iliyamo/recipe-catalog/internal/paging"
	"github.com/iliyamo/recipe-catalog/internal/queue"
	"github.com/iliyamo/recipe-catalog/internal/telemetry"
)

// RecipeService manages recipes and their ingredient lines.
type RecipeService struct {
	repo RecipeRepository
	notifier
}

func NewRecipeService(repo RecipeRepository, events queue.Publisher, logger *slog.Logger) *RecipeService {
	return &RecipeService{repo: repo, notifier: newNotifier(logger, events)}
}

// Save creates the recipe when r.ID is 0. A new recipe needs a persisted
// author and its ingredient lines are stored with it.
//
// For an existing recipe Save merges instead of overwriting: only a
// non-empty Instructions replaces the stored value, every other stored
// field is kept, and the merged result is copied back into r.
func (s *RecipeService) Save(ctx context.Context, r *model.Recipe) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "recipe", "save", telemetry.ID(r.ID))
	defer func() { telemetry.End(span, err) }()

	if r.ID == 0 {
		if r.AuthorID() == 0 {
			return ErrAuthorRequired
		}
		if err := s.repo.Create(ctx, r); err != nil {
			return storageErr("create recipe", err)
		}
		s.log.InfoContext(ctx, "recipe created", "recipe_id", r.ID, "chef_id", r.AuthorID())
		s.emit(ctx, queue.NewEvent(queue.RecipeCreated, r.ID, r.Name, r.AuthorID()))
		return nil
	}

	var instructions *string
	if r.Instructions != "" {
		instructions = &r.Instructions
	}
	merged, err := s.merge(ctx, r.ID, instructions)
	if err != nil {
		return err
	}
	*r = *merged
	return nil
}

// Update applies a partial update to the stored recipe. A nil instructions
// keeps the stored value; any other value, the empty string included,
// replaces it. Every other field is left as stored.
func (s *RecipeService) Update(ctx context.Context, id int64, instructions *string) (r *model.Recipe, err error) {
	ctx, span := telemetry.StartSpan(ctx, "recipe", "update", telemetry.ID(id))
	defer func() { telemetry.End(span, err) }()

	return s.merge(ctx, id, instructions)
}

func (s *RecipeService) merge(ctx context.Context, id int64, instructions *string) (*model.Recipe, error) {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("load recipe", err)
	}
	if instructions != nil {
		stored.Instructions = *instructions
	}
	if err := s.repo.Update(ctx, stored); err != nil {
		return nil, storageErr("update recipe", err)
	}
	s.emit(ctx, queue.NewEvent(queue.RecipeUpdated, stored.ID, stored.Name, stored.AuthorID()))
	return stored, nil
}

// Find returns the recipe with its author and ingredient lines.
func (s *RecipeService) Find(ctx context.Context, id int64) (*model.Recipe, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("find recipe", err)
	}
	return r, nil
}

// Delete removes the recipe and its ingredient lines atomically and
// reports whether the recipe existed.
func (s *RecipeService) Delete(ctx context.Context, id int64) (deleted bool, err error) {
	ctx, span := telemetry.StartSpan(ctx, "recipe", "delete", telemetry.ID(id))
	defer func() { telemetry.End(span, err) }()

	deleted, err = s.repo.Delete(ctx, id)
	if err != nil {
		return false, storageErr("delete recipe", err)
	}
	if deleted {
		s.emit(ctx, queue.NewEvent(queue.RecipeDeleted, id, "", 0))
	}
	return deleted, nil
}

// Search returns recipes whose name contains term, ordered by id.
func (s *RecipeService) Search(ctx context.Context, term string) ([]model.Recipe, error) {
	ctx, span := telemetry.StartSpan(ctx, "recipe", "search", telemetry.Term(term))
	defer span.End()

	out, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, storageErr("search recipes", err)
	}
	return out, nil
}

// SearchByIngredient returns recipes using an ingredient whose name
// contains term.
func (s *RecipeService) SearchByIngredient(ctx context.Context, term string) ([]model.Recipe, error) {
	out, err := s.repo.SearchByIngredient(ctx, term)
	if err != nil {
		return nil, storageErr("search recipes by ingredient", err)
	}
	return out, nil
}

func (s *RecipeService) SearchPage(ctx context.Context, term string, opts paging.Options) (paging.Page[model.Recipe], error) {
	return page(ctx, opts, func(ctx context.Context, o paging.Options) ([]model.Recipe, error) {
		out, err := s.repo.List(ctx, term, o)
		if err != nil {
			return nil, storageErr("list recipes", err)
		}
		return out, nil
	})
}
