package model

// Recipe represents a row in the `recipe` table together with its author
// and, when loaded, its ingredient lines.
//
// Fields:
//  ID           – primary key identifier, 0 until the row is persisted.
//  Name         – recipe title.
//  Instructions – free text preparation steps.
//  Author       – owning chef (recipe.chef_id); required on creation.
//  Ingredients  – optional lines from `recipe_ingredient`.
type Recipe struct {
	ID           int64              `json:"id"`
	Name         string             `json:"name"`
	Instructions string             `json:"instructions"`
	Author       *Chef              `json:"author,omitempty"`
	Ingredients  []RecipeIngredient `json:"ingredients,omitempty"`
}

// RecipeIngredient is one line of a recipe's ingredient list. ID and Name
// are a copy of the catalog ingredient taken when the line is read; the
// line itself belongs to exactly one recipe.
type RecipeIngredient struct {
	ID     int64   `json:"id"`     // recipe_ingredient.ingredient_id
	Name   string  `json:"name"`   // ingredient.name
	Volume float64 `json:"volume"` // recipe_ingredient.vol
	Unit   string  `json:"unit"`   // recipe_ingredient.unit
}

// AuthorID returns the author's identifier or 0 when no author is set.
func (r *Recipe) AuthorID() int64 {
	if r.Author == nil {
		return 0
	}
	return r.Author.ID
}
