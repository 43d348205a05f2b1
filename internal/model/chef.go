package model

// Chef represents an application user as stored in the `chef` table.
// Chefs author recipes; the Admin flag grants access to catalog
// maintenance endpoints.
//
// Fields:
//  ID       – primary key identifier, 0 until the row is persisted.
//  Username – login name, unique across chefs (enforced at registration).
//  Email    – contact address.
//  Password – stored credential (bcrypt hash or legacy plain value).
//  Admin    – whether the chef may manage the shared catalog.
type Chef struct {
	ID       int64  `json:"id"`       // chef.id
	Username string `json:"username"` // chef.username
	Email    string `json:"email"`    // chef.email
	Password string `json:"-"`        // chef.password, never serialized
	Admin    bool   `json:"admin"`    // chef.is_admin
}
