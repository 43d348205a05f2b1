// Package queue carries catalog change events over RabbitMQ.
package queue

import "time"

// CatalogQueue is the durable queue that receives every catalog event.
const CatalogQueue = "catalog.events"

// Event types.
const (
	RecipeCreated     = "recipe.created"
	RecipeUpdated     = "recipe.updated"
	RecipeDeleted     = "recipe.deleted"
	IngredientCreated = "ingredient.created"
	IngredientUpdated = "ingredient.updated"
	IngredientDeleted = "ingredient.deleted"
	ChefRegistered    = "chef.registered"
)

// CatalogEvent describes one change to the catalog. It carries enough
// for consumers to log or index the change without querying the database.
type CatalogEvent struct {
	Type       string    `json:"type"`
	EntityID   int64     `json:"entity_id"`
	Name       string    `json:"name,omitempty"`
	ChefID     int64     `json:"chef_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(typ string, id int64, name string, chefID int64) CatalogEvent {
	return CatalogEvent{Type: typ, EntityID: id, Name: name, ChefID: chefID, OccurredAt: time.Now().UTC()}
}
