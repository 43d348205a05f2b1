package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/iliyamo/recipe-catalog/internal/model"
	"github.com/iliyamo/recipe-catalog/internal/paging"
	"github.com/iliyamo/recipe-catalog/internal/queue"
	"github.com/iliyamo/recipe-catalog/internal/repository"
	"github.com/iliyamo/recipe-catalog/internal/telemetry"
)

// ChefService manages chef accounts.
type ChefService struct {
	repo ChefRepository
	notifier
}

func NewChefService(repo ChefRepository, events queue.Publisher, logger *slog.Logger) *ChefService {
	return &ChefService{repo: repo, notifier: newNotifier(logger, events)}
}

// Save creates the chef when c.ID is 0 and writes the new ID back;
// otherwise it overwrites every stored field with c.
func (s *ChefService) Save(ctx context.Context, c *model.Chef) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "chef", "save", telemetry.ID(c.ID))
	defer func() { telemetry.End(span, err) }()

	if c.ID == 0 {
		err = s.repo.Create(ctx, c)
	} else {
		err = s.repo.Update(ctx, c)
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrDuplicateUsername
	}
	if err != nil {
		return storageErr("save chef", err)
	}
	return nil
}

// Find returns ErrNotFound when no chef has the id.
func (s *ChefService) Find(ctx context.Context, id int64) (*model.Chef, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("find chef", err)
	}
	return c, nil
}

// Delete removes the chef. Deleting an unknown chef is not an error;
// a chef who still authors recipes yields ErrConflict.
func (s *ChefService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "chef", "delete", telemetry.ID(id))
	defer func() { telemetry.End(span, err) }()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storageErr("delete chef", err)
	}
	if deleted {
		s.log.InfoContext(ctx, "chef deleted", "chef_id", id)
	}
	return nil
}

// Search returns chefs whose username contains term, ordered by id.
func (s *ChefService) Search(ctx context.Context, term string) ([]model.Chef, error) {
	out, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, storageErr("search chefs", err)
	}
	return out, nil
}

// SearchPage filters by term, sorts by opts and returns one page.
func (s *ChefService) SearchPage(ctx context.Context, term string, opts paging.Options) (paging.Page[model.Chef], error) {
	return page(ctx, opts, func(ctx context.Context, o paging.Options) ([]model.Chef, error) {
		out, err := s.repo.List(ctx, term, o)
		if err != nil {
			return nil, storageErr("list chefs", err)
		}
		return out, nil
	})
}
