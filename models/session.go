package models

import "time"

// LocalSession is the server-persisted state backing a refresh token.
// A user has at most one active session: every successful login deletes
// all prior sessions for that user before inserting a new row.
type LocalSession struct {
	// SessionID is a UUID assigned at login.
	SessionID string `json:"id"`

	// UserID is the owner of the session.
	UserID int64 `json:"user_id"`

	// RefreshToken is the opaque random value handed to the client.
	// Never exposed on read paths.
	RefreshToken string `json:"-"`

	// ExpiresAt is the absolute refresh-token expiry.
	ExpiresAt time.Time `json:"expires_at"`

	// ClientIP and UserAgent describe the client that created the session.
	ClientIP  string `json:"client_ip"`
	UserAgent string `json:"user_agent"`

	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// TableName returns the name of the database table
// associated with the LocalSession model.
func (s LocalSession) TableName() string {
	return "sessions"
}

// Expired reports whether the refresh token has passed its expiry
// relative to now.
func (s LocalSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
