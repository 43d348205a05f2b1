package model

// Ingredient is an entry of the shared ingredient catalog (`ingredient` table).
type Ingredient struct {
	ID   int64  `json:"id"`   // ingredient.id
	Name string `json:"name"` // ingredient.name
}
