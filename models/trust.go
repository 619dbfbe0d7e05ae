package models

import "time"

// AppInfo is the public identity record of a shared store. Exactly one row
// exists per shared database; it is created once and never mutated.
type AppInfo struct {
	// ServerID is a UUID generated when the shared store identity is
	// initialized.
	ServerID string `json:"server_id"`

	// TeamID and TeamName identify the team the shared store belongs to.
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`

	// PublicKey is the hex-encoded ed25519 public signing key.
	PublicKey string `json:"public_key"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the AppInfo model.
func (a AppInfo) TableName() string {
	return "app_info"
}

// TeamBinding is the locally pinned trust-on-first-use record of a shared
// store identity. It is written on the first successful attestation and
// every later connection must match it exactly.
type TeamBinding struct {
	ServerID  string `json:"server_id"`
	TeamID    string `json:"team_id"`
	TeamName  string `json:"team_name"`
	PublicKey string `json:"public_key"`

	// TLSFingerprint is the optional out-of-band transport fingerprint
	// recorded alongside the identity.
	TLSFingerprint string `json:"tls_fingerprint,omitempty"`

	BoundAt time.Time `json:"bound_at"`
}

// AttestationPayload is the canonical statement signed by a shared store to
// prove its identity. The JSON encoding of this struct (field order fixed by
// the struct definition) is the exact byte sequence that is signed.
type AttestationPayload struct {
	ServerID  string `json:"server_id"`
	TeamID    string `json:"team_id"`
	UserID    int64  `json:"user_id"`
	Timestamp int64  `json:"timestamp"`
	Nonce     string `json:"nonce"`
}

// Attestation is the signed proof returned by the team-join exchange.
type Attestation struct {
	Payload AttestationPayload `json:"payload"`

	// Signature is the hex-encoded ed25519 signature over the canonical
	// JSON encoding of Payload.
	Signature string `json:"signature"`
}
