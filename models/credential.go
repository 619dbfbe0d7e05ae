package models

import "time"

// Credential is an encrypted secret stored in the local vault.
// The payload is sealed with the vault's in-memory derived key; once the
// vault is locked or the installation is wiped the ciphertext is
// unrecoverable.
type Credential struct {
	// CredentialID is a UUID assigned at creation.
	CredentialID string `json:"id"`

	// Title is the plaintext display title. Only metadata fields are
	// returned by list/get; decrypted content requires an explicit reveal.
	Title string `json:"title"`

	// Type classifies the payload (e.g. "password", "api_key", "ssh_key").
	Type string `json:"type"`

	// ProjectID optionally links the credential to a project. Empty when
	// the credential is installation-global.
	ProjectID string `json:"project_id,omitempty"`

	// Ciphertext, Nonce and AuthTag are the base64-encoded AES-256-GCM
	// sealing of the payload. Never exposed via JSON.
	Ciphertext string `json:"-"`
	Nonce      string `json:"-"`
	AuthTag    string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Credential model.
func (c Credential) TableName() string {
	return "credentials"
}

// SealedBlob bundles the three persisted parts of an authenticated
// encryption result. All fields are base64 (standard encoding).
type SealedBlob struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
	AuthTag    string `json:"auth_tag"`
}
