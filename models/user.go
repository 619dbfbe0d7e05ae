package models

import "time"

// LocalUser represents the single local account of an installation.
// At most one LocalUser row may ever exist; the service layer enforces
// this at creation time rather than relying on a uniqueness constraint.
type LocalUser struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"id"`

	// Username is the unique login identifier.
	Username string `json:"username"`

	// Email is an alternative login identifier.
	Email string `json:"email"`

	// PasswordHash holds the argon2id-derived password hash encoded as
	// "saltHex$hashHex". Never exposed via JSON.
	PasswordHash string `json:"-"`

	// DisplayName is the non-sensitive name shown in the UI.
	DisplayName string `json:"display_name"`

	// Active marks whether the account may authenticate.
	Active bool `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the LocalUser model.
func (u LocalUser) TableName() string {
	return "users"
}
