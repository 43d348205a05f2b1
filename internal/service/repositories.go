// Package service implements the catalog use cases on top of the storage
// repositories: authentication, and save/find/delete/search for chefs,
// recipes and ingredients.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iliyamo/recipe-catalog/internal/metrics"
	"github.com/iliyamo/recipe-catalog/internal/model"
	"github.com/iliyamo/recipe-catalog/internal/paging"
	"github.com/iliyamo/recipe-catalog/internal/queue"
	"github.com/iliyamo/recipe-catalog/internal/repository"
)

// ChefRepository is implemented by repository.ChefRepo and memory.ChefRepo.
type ChefRepository interface {
	Create(ctx context.Context, c *model.Chef) error
	Update(ctx context.Context, c *model.Chef) error
	GetByID(ctx context.Context, id int64) (*model.Chef, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, term string) ([]model.Chef, error)
	List(ctx context.Context, term string, opts paging.Options) ([]model.Chef, error)
}

// IngredientRepository is implemented by repository.IngredientRepo and memory.IngredientRepo.
type IngredientRepository interface {
	Create(ctx context.Context, in *model.Ingredient) error
	Update(ctx context.Context, in *model.Ingredient) error
	GetByID(ctx context.Context, id int64) (*model.Ingredient, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, term string) ([]model.Ingredient, error)
	List(ctx context.Context, term string, opts paging.Options) ([]model.Ingredient, error)
}

// RecipeRepository is implemented by repository.RecipeRepo and memory.RecipeRepo.
type RecipeRepository interface {
	Create(ctx context.Context, r *model.Recipe) error
	Update(ctx context.Context, r *model.Recipe) error
	GetByID(ctx context.Context, id int64) (*model.Recipe, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, term string) ([]model.Recipe, error)
	List(ctx context.Context, term string, opts paging.Options) ([]model.Recipe, error)
	SearchByIngredient(ctx context.Context, term string) ([]model.Recipe, error)
}

// notifier publishes catalog events on a best-effort basis.
type notifier struct {
	log    *slog.Logger
	events queue.Publisher
}

func newNotifier(log *slog.Logger, events queue.Publisher) notifier {
	if log == nil {
		log = slog.Default()
	}
	if events == nil {
		events = queue.NopPublisher{}
	}
	return notifier{log: log, events: events}
}

func (n notifier) emit(ctx context.Context, ev queue.CatalogEvent) {
	if err := n.events.Publish(ctx, ev); err != nil {
		metrics.ObserveEvent(ev.Type, "error")
		n.log.WarnContext(ctx, "catalog event not published", "event", ev.Type, "id", ev.EntityID, "err", err)
		return
	}
	metrics.ObserveEvent(ev.Type, "ok")
}

// storageErr maps repository sentinels onto service sentinels and wraps
// everything else with the operation name.
func storageErr(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate), errors.Is(err, repository.ErrConflict):
		return ErrConflict
	case errors.Is(err, paging.ErrInvalidSort), errors.Is(err, paging.ErrInvalidOptions):
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

// page validates opts, lists the ordered rows and slices one page.
func page[T any](ctx context.Context, opts paging.Options, list func(context.Context, paging.Options) ([]T, error)) (paging.Page[T], error) {
	if err := opts.Validate(); err != nil {
		return paging.Page[T]{}, err
	}
	all, err := list(ctx, opts)
	if err != nil {
		return paging.Page[T]{}, err
	}
	return paging.New(all, opts), nil
}
