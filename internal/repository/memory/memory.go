// Package memory is an in-process storage driver with the same behaviour as
// the MySQL repositories. It backs DB_DRIVER=memory and the handler tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/iliyamo/recipe-catalog/internal/model"
	"github.com/iliyamo/recipe-catalog/internal/paging"
	"github.com/iliyamo/recipe-catalog/internal/repository"
)

type recipeRow struct {
	id           int64
	name         string
	instructions string
	chefID       int64
	lines        []lineRow
}

type lineRow struct {
	ingredientID int64
	volume       float64
	unit         string
}

// DB holds the four tables behind a single lock so cascades such as
// deleting an ingredient's recipe lines stay atomic.
type DB struct {
	mu          sync.RWMutex
	chefs       map[int64]model.Chef
	ingredients map[int64]model.Ingredient
	recipes     map[int64]*recipeRow
	nextChef    int64
	nextIngr    int64
	nextRecipe  int64
}

// New returns an empty database.
func New() *DB {
	return &DB{
		chefs:       map[int64]model.Chef{},
		ingredients: map[int64]model.Ingredient{},
		recipes:     map[int64]*recipeRow{},
	}
}

// Chefs returns the chef table view.
func (db *DB) Chefs() *ChefRepo { return &ChefRepo{db: db} }

// Ingredients returns the ingredient table view.
func (db *DB) Ingredients() *IngredientRepo { return &IngredientRepo{db: db} }

// Recipes returns the recipe table view.
func (db *DB) Recipes() *RecipeRepo { return &RecipeRepo{db: db} }

func contains(s, term string) bool {
	return term == "" || strings.Contains(s, term)
}

// sortRows orders rows by the comparator registered for opts.SortBy and
// breaks ties by id ascending.
func sortRows[T any](rows []T, opts paging.Options, by map[string]func(a, b T) int, id func(T) int64) error {
	key := opts.SortBy
	if key == "" {
		key = paging.DefaultSortBy
	}
	less, ok := by[key]
	if !ok {
		return paging.ErrInvalidSort
	}
	desc := opts.Descending()
	slices.SortStableFunc(rows, func(a, b T) int {
		c := less(a, b)
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(id(a), id(b))
	})
	return nil
}

// ChefRepo is the in-memory chef table.
type ChefRepo struct{ db *DB }

var chefOrder = map[string]func(a, b model.Chef) int{
	"id":       func(a, b model.Chef) int { return cmp.Compare(a.ID, b.ID) },
	"username": func(a, b model.Chef) int { return strings.Compare(a.Username, b.Username) },
	"email":    func(a, b model.Chef) int { return strings.Compare(a.Email, b.Email) },
	"admin":    func(a, b model.Chef) int { return cmp.Compare(boolInt(a.Admin), boolInt(b.Admin)) },
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// usernameTaken must be called with the lock held.
func (r *ChefRepo) usernameTaken(username string, except int64) bool {
	for _, existing := range r.db.chefs {
		if existing.ID != except && existing.Username == username {
			return true
		}
	}
	return false
}

// Create and Update reject a username held by another chef, like the
// unique key on chef.username.
func (r *ChefRepo) Create(_ context.Context, c *model.Chef) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.usernameTaken(c.Username, 0) {
		return repository.ErrDuplicate
	}
	r.db.nextChef++
	c.ID = r.db.nextChef
	r.db.chefs[c.ID] = *c
	return nil
}

func (r *ChefRepo) Update(_ context.Context, c *model.Chef) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.chefs[c.ID]; !ok {
		return nil
	}
	if r.usernameTaken(c.Username, c.ID) {
		return repository.ErrDuplicate
	}
	r.db.chefs[c.ID] = *c
	return nil
}

func (r *ChefRepo) GetByID(_ context.Context, id int64) (*model.Chef, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.chefs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

// Delete refuses to remove a chef who still authors recipes, as the
// foreign key does in MySQL.
func (r *ChefRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.chefs[id]; !ok {
		return false, nil
	}
	for _, rec := range r.db.recipes {
		if rec.chefID == id {
			return false, repository.ErrConflict
		}
	}
	delete(r.db.chefs, id)
	return true, nil
}

func (r *ChefRepo) Search(ctx context.Context, term string) ([]model.Chef, error) {
	return r.List(ctx, term, paging.Options{})
}

func (r *ChefRepo) List(_ context.Context, term string, opts paging.Options) ([]model.Chef, error) {
	r.db.mu.RLock()
	out := []model.Chef{}
	for _, c := range r.db.chefs {
		if contains(c.Username, term) {
			out = append(out, c)
		}
	}
	r.db.mu.RUnlock()
	if err := sortRows(out, opts, chefOrder, func(c model.Chef) int64 { return c.ID }); err != nil {
		return nil, err
	}
	return out, nil
}

// IngredientRepo is the in-memory ingredient table.
type IngredientRepo struct{ db *DB }

var ingredientOrder = map[string]func(a, b model.Ingredient) int{
	"id":   func(a, b model.Ingredient) int { return cmp.Compare(a.ID, b.ID) },
	"name": func(a, b model.Ingredient) int { return strings.Compare(a.Name, b.Name) },
}

func (r *IngredientRepo) Create(_ context.Context, in *model.Ingredient) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.nextIngr++
	in.ID = r.db.nextIngr
	r.db.ingredients[in.ID] = *in
	return nil
}

func (r *IngredientRepo) Update(_ context.Context, in *model.Ingredient) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.ingredients[in.ID]; ok {
		r.db.ingredients[in.ID] = *in
	}
	return nil
}

func (r *IngredientRepo) GetByID(_ context.Context, id int64) (*model.Ingredient, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	in, ok := r.db.ingredients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &in, nil
}

// Delete removes the ingredient and every recipe line referencing it.
func (r *IngredientRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rec := range r.db.recipes {
		rec.lines = slices.DeleteFunc(rec.lines, func(l lineRow) bool { return l.ingredientID == id })
	}
	if _, ok := r.db.ingredients[id]; !ok {
		return false, nil
	}
	delete(r.db.ingredients, id)
	return true, nil
}

func (r *IngredientRepo) Search(ctx context.Context, term string) ([]model.Ingredient, error) {
	return r.List(ctx, term, paging.Options{})
}

func (r *IngredientRepo) List(_ context.Context, term string, opts paging.Options) ([]model.Ingredient, error) {
	r.db.mu.RLock()
	out := []model.Ingredient{}
	for _, in := range r.db.ingredients {
		if contains(in.Name, term) {
			out = append(out, in)
		}
	}
	r.db.mu.RUnlock()
	if err := sortRows(out, opts, ingredientOrder, func(in model.Ingredient) int64 { return in.ID }); err != nil {
		return nil, err
	}
	return out, nil
}

// RecipeRepo is the in-memory recipe table with its ingredient lines.
type RecipeRepo struct{ db *DB }

var recipeOrder = map[string]func(a, b model.Recipe) int{
	"id":           func(a, b model.Recipe) int { return cmp.Compare(a.ID, b.ID) },
	"name":         func(a, b model.Recipe) int { return strings.Compare(a.Name, b.Name) },
	"instructions": func(a, b model.Recipe) int { return strings.Compare(a.Instructions, b.Instructions) },
	"author":       func(a, b model.Recipe) int { return cmp.Compare(a.AuthorID(), b.AuthorID()) },
	"chef_id":      func(a, b model.Recipe) int { return cmp.Compare(a.AuthorID(), b.AuthorID()) },
}

// Create stores the recipe. Unknown authors or ingredients are rejected
// with ErrConflict, mirroring the foreign keys.
func (r *RecipeRepo) Create(_ context.Context, rec *model.Recipe) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.chefs[rec.AuthorID()]; !ok {
		return repository.ErrConflict
	}
	row := &recipeRow{name: rec.Name, instructions: rec.Instructions, chefID: rec.AuthorID()}
	for _, l := range rec.Ingredients {
		if _, ok := r.db.ingredients[l.ID]; !ok {
			return repository.ErrConflict
		}
		row.lines = append(row.lines, lineRow{ingredientID: l.ID, volume: l.Volume, unit: l.Unit})
	}
	r.db.nextRecipe++
	row.id = r.db.nextRecipe
	r.db.recipes[row.id] = row
	rec.ID = row.id
	return nil
}

func (r *RecipeRepo) Update(_ context.Context, rec *model.Recipe) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	row, ok := r.db.recipes[rec.ID]
	if !ok {
		return repository.ErrNotFound
	}
	row.name = rec.Name
	row.instructions = rec.Instructions
	row.chefID = rec.AuthorID()
	return nil
}

func (r *RecipeRepo) GetByID(_ context.Context, id int64) (*model.Recipe, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	row, ok := r.db.recipes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rec := r.toModel(row)
	for _, l := range row.lines {
		rec.Ingredients = append(rec.Ingredients, model.RecipeIngredient{
			ID:     l.ingredientID,
			Name:   r.db.ingredients[l.ingredientID].Name,
			Volume: l.volume,
			Unit:   l.unit,
		})
	}
	return &rec, nil
}

func (r *RecipeRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.recipes[id]; !ok {
		return false, nil
	}
	delete(r.db.recipes, id)
	return true, nil
}

func (r *RecipeRepo) Search(ctx context.Context, term string) ([]model.Recipe, error) {
	return r.List(ctx, term, paging.Options{})
}

func (r *RecipeRepo) List(_ context.Context, term string, opts paging.Options) ([]model.Recipe, error) {
	return r.collect(opts, func(row *recipeRow) bool { return contains(row.name, term) })
}

func (r *RecipeRepo) SearchByIngredient(_ context.Context, term string) ([]model.Recipe, error) {
	return r.collect(paging.Options{}, func(row *recipeRow) bool {
		for _, l := range row.lines {
			if contains(r.db.ingredients[l.ingredientID].Name, term) {
				return true
			}
		}
		return false
	})
}

func (r *RecipeRepo) collect(opts paging.Options, keep func(*recipeRow) bool) ([]model.Recipe, error) {
	r.db.mu.RLock()
	out := []model.Recipe{}
	for _, row := range r.db.recipes {
		if keep(row) {
			out = append(out, r.toModel(row))
		}
	}
	r.db.mu.RUnlock()
	if err := sortRows(out, opts, recipeOrder, func(rec model.Recipe) int64 { return rec.ID }); err != nil {
		return nil, err
	}
	return out, nil
}

// toModel must be called with the lock held.
func (r *RecipeRepo) toModel(row *recipeRow) model.Recipe {
	rec := model.Recipe{ID: row.id, Name: row.name, Instructions: row.instructions}
	if c, ok := r.db.chefs[row.chefID]; ok {
		author := c
		author.Password = ""
		rec.Author = &author
	}
	return rec
}
