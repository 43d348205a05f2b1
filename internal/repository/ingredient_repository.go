package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/recipe-catalog/internal/database"
	"github.com/iliyamo/recipe-catalog/internal/model"
	"github.com/iliyamo/recipe-catalog/internal/paging"
)

// IngredientRepo provides CRUD and search over the shared `ingredient` catalog.
type IngredientRepo struct {
	db *sql.DB
}

func NewIngredientRepo(db *sql.DB) *IngredientRepo {
	return &IngredientRepo{db: db}
}

// Create inserts the ingredient and sets its ID.
func (r *IngredientRepo) Create(ctx context.Context, in *model.Ingredient) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO ingredient (name) VALUES (?)", in.Name)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	in.ID = id
	return nil
}

// Update renames the ingredient identified by in.ID.
func (r *IngredientRepo) Update(ctx context.Context, in *model.Ingredient) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE ingredient SET name = ? WHERE id = ?", in.Name, in.ID); err != nil {
		return translate(err)
	}
	return nil
}

// GetByID returns ErrNotFound when the ingredient does not exist.
func (r *IngredientRepo) GetByID(ctx context.Context, id int64) (*model.Ingredient, error) {
	var in model.Ingredient
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM ingredient WHERE id = ?", id).Scan(&in.ID, &in.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &in, nil
}

// Delete removes the ingredient together with every recipe line that uses
// it. Both statements share one transaction.
func (r *IngredientRepo) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := database.WithTx(ctx, r.db, func(ctx context.Context, tx database.DBTX) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM recipe_ingredient WHERE ingredient_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM ingredient WHERE id = ?", id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// Search returns ingredients whose name contains term, ordered by id.
func (r *IngredientRepo) Search(ctx context.Context, term string) ([]model.Ingredient, error) {
	return r.List(ctx, term, paging.Options{})
}

// List filters like Search and orders by the allow-listed sort field.
func (r *IngredientRepo) List(ctx context.Context, term string, opts paging.Options) ([]model.Ingredient, error) {
	orderBy, err := IngredientSortColumns.OrderBy(opts, "id")
	if err != nil {
		return nil, err
	}
	q := "SELECT id, name FROM ingredient"
	var args []any
	if term != "" {
		q += " WHERE name LIKE ?"
		args = append(args, containsPattern(term))
	}
	q += " ORDER BY " + orderBy

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Ingredient{}
	for rows.Next() {
		var in model.Ingredient
		if err := rows.Scan(&in.ID, &in.Name); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
