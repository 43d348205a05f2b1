package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/recipe-catalog/internal/database"
	"github.com/iliyamo/recipe-catalog/internal/model"
	"github.com/iliyamo/recipe-catalog/internal/paging"
)

// recipeSelect joins the author so list endpoints return it without an
// extra query per row. The chef columns are NULL for orphaned recipes.
const recipeSelect = `SELECT r.id, r.name, COALESCE(r.instructions, ''),
		c.id, c.username, c.email, c.is_admin
	FROM recipe r
	LEFT JOIN chef c ON c.id = r.chef_id`

// RecipeRepo persists recipes and their ingredient lines.
type RecipeRepo struct {
	db *sql.DB
}

func NewRecipeRepo(db *sql.DB) *RecipeRepo {
	return &RecipeRepo{db: db}
}

// Create inserts the recipe and its ingredient lines in one transaction and
// sets rec.ID. The author must already exist.
func (r *RecipeRepo) Create(ctx context.Context, rec *model.Recipe) error {
	return database.WithTx(ctx, r.db, func(ctx context.Context, tx database.DBTX) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO recipe (name, instructions, chef_id) VALUES (?, ?, ?)",
			rec.Name, rec.Instructions, rec.AuthorID())
		if err != nil {
			return translate(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, line := range rec.Ingredients {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO recipe_ingredient (recipe_id, ingredient_id, vol, unit) VALUES (?, ?, ?, ?)",
				id, line.ID, line.Volume, line.Unit); err != nil {
				return translate(err)
			}
		}
		rec.ID = id
		return nil
	})
}

// Update writes name, instructions and author of an existing recipe.
// Ingredient lines are left untouched.
func (r *RecipeRepo) Update(ctx context.Context, rec *model.Recipe) error {
	const q = "UPDATE recipe SET name = ?, instructions = ?, chef_id = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, rec.Name, rec.Instructions, rec.AuthorID(), rec.ID)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID loads the recipe, its author and its ingredient lines.
func (r *RecipeRepo) GetByID(ctx context.Context, id int64) (*model.Recipe, error) {
	rec, err := scanRecipe(r.db.QueryRowContext(ctx, recipeSelect+" WHERE r.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	lines, err := r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Ingredients = lines
	return rec, nil
}

func (r *RecipeRepo) lines(ctx context.Context, recipeID int64) ([]model.RecipeIngredient, error) {
	const q = `SELECT ri.ingredient_id, i.name, ri.vol, ri.unit
		FROM recipe_ingredient ri
		JOIN ingredient i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ?
		ORDER BY ri.ingredient_id`
	rows, err := r.db.QueryContext(ctx, q, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RecipeIngredient
	for rows.Next() {
		var l model.RecipeIngredient
		if err := rows.Scan(&l.ID, &l.Name, &l.Volume, &l.Unit); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Delete removes the recipe's ingredient lines and then the recipe inside
// one transaction. It reports false, and rolls back, when the recipe does
// not exist.
func (r *RecipeRepo) Delete(ctx context.Context, id int64) (bool, error) {
	err := database.WithTx(ctx, r.db, func(ctx context.Context, tx database.DBTX) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM recipe_ingredient WHERE recipe_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM recipe WHERE id = ?", id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Search returns recipes whose name contains term, ordered by id.
func (r *RecipeRepo) Search(ctx context.Context, term string) ([]model.Recipe, error) {
	return r.List(ctx, term, paging.Options{})
}

// List filters like Search and orders by the allow-listed sort field.
func (r *RecipeRepo) List(ctx context.Context, term string, opts paging.Options) ([]model.Recipe, error) {
	orderBy, err := RecipeSortColumns.OrderBy(opts, "r.id")
	if err != nil {
		return nil, err
	}
	q := recipeSelect
	var args []any
	if term != "" {
		q += " WHERE r.name LIKE ?"
		args = append(args, containsPattern(term))
	}
	return r.query(ctx, q+" ORDER BY "+orderBy, args...)
}

// SearchByIngredient returns recipes that use at least one ingredient whose
// name contains term, ordered by id.
func (r *RecipeRepo) SearchByIngredient(ctx context.Context, term string) ([]model.Recipe, error) {
	const q = recipeSelect + `
	WHERE r.id IN (
		SELECT ri.recipe_id
		FROM recipe_ingredient ri
		JOIN ingredient i ON i.id = ri.ingredient_id
		WHERE i.name LIKE ?)
	ORDER BY r.id ASC`
	return r.query(ctx, q, containsPattern(term))
}

func (r *RecipeRepo) query(ctx context.Context, q string, args ...any) ([]model.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanRecipe(s rowScanner) (*model.Recipe, error) {
	var (
		rec      model.Recipe
		chefID   sql.NullInt64
		username sql.NullString
		email    sql.NullString
		admin    sql.NullBool
	)
	if err := s.Scan(&rec.ID, &rec.Name, &rec.Instructions, &chefID, &username, &email, &admin); err != nil {
		return nil, err
	}
	if chefID.Valid {
		rec.Author = &model.Chef{
			ID:       chefID.Int64,
			Username: username.String,
			Email:    email.String,
			Admin:    admin.Bool,
		}
	}
	return &rec, nil
}
