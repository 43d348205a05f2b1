package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/recipe-catalog/internal/model"
	"github.com/iliyamo/recipe-catalog/internal/paging"
)

const chefColumns = "id, username, email, password, is_admin"

// ChefRepo provides CRUD and search over the `chef` table.
type ChefRepo struct {
	db *sql.DB
}

// NewChefRepo constructs a ChefRepo with the provided DB handle.
func NewChefRepo(db *sql.DB) *ChefRepo {
	return &ChefRepo{db: db}
}

// Create inserts a chef and writes the generated ID back onto c.
func (r *ChefRepo) Create(ctx context.Context, c *model.Chef) error {
	const q = "INSERT INTO chef (username, email, password, is_admin) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, c.Username, c.Email, c.Password, c.Admin)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// Update overwrites every column of the chef identified by c.ID.
func (r *ChefRepo) Update(ctx context.Context, c *model.Chef) error {
	const q = "UPDATE chef SET username = ?, email = ?, password = ?, is_admin = ? WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, q, c.Username, c.Email, c.Password, c.Admin, c.ID); err != nil {
		return translate(err)
	}
	return nil
}

// GetByID returns ErrNotFound when no chef has the given id.
func (r *ChefRepo) GetByID(ctx context.Context, id int64) (*model.Chef, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+chefColumns+" FROM chef WHERE id = ?", id)
	c, err := scanChef(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Delete removes the chef and reports whether a row was deleted. A chef who
// still authors recipes yields ErrConflict.
func (r *ChefRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM chef WHERE id = ?", id)
	if err != nil {
		return false, translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Search returns chefs whose username contains term, ordered by id.
// An empty term returns every chef.
func (r *ChefRepo) Search(ctx context.Context, term string) ([]model.Chef, error) {
	return r.List(ctx, term, paging.Options{})
}

// List is Search with the ordering taken from opts.SortBy/SortDirection.
func (r *ChefRepo) List(ctx context.Context, term string, opts paging.Options) ([]model.Chef, error) {
	orderBy, err := ChefSortColumns.OrderBy(opts, "id")
	if err != nil {
		return nil, err
	}
	q := "SELECT " + chefColumns + " FROM chef"
	var args []any
	if term != "" {
		q += " WHERE username LIKE ?"
		args = append(args, containsPattern(term))
	}
	q += " ORDER BY " + orderBy

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Chef{}
	for rows.Next() {
		c, err := scanChef(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanChef(s rowScanner) (*model.Chef, error) {
	var c model.Chef
	if err := s.Scan(&c.ID, &c.Username, &c.Email, &c.Password, &c.Admin); err != nil {
		return nil, err
	}
	return &c, nil
}
