package repository

import (
	"strings"

	"github.com/iliyamo/recipe-catalog/internal/paging"
)

// Sort allow-lists per resource. Keys are the names clients pass as sortBy.
var (
	ChefSortColumns = paging.Columns{
		"id":       "id",
		"username": "username",
		"email":    "email",
		"admin":    "is_admin",
	}
	RecipeSortColumns = paging.Columns{
		"id":           "r.id",
		"name":         "r.name",
		"instructions": "r.instructions",
		"author":       "r.chef_id",
		"chef_id":      "r.chef_id",
	}
	IngredientSortColumns = paging.Columns{
		"id":   "id",
		"name": "name",
	}
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a search term into a LIKE pattern that matches the
// term literally anywhere in the column. MySQL's default escape character
// is the backslash.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
