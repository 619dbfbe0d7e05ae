package models

// VaultSettings is the singleton verification record for the local vault.
// Its presence in the settings store is the sole signal that the vault has
// been set up. It never contains the derived key — only the material needed
// to verify a master password offline.
type VaultSettings struct {
	// VerificationHash is the hex-encoded argon2id digest of the master
	// password over Salt.
	VerificationHash string `json:"verification_hash"`

	// Salt is the hex-encoded random salt used for key derivation and
	// verification.
	Salt string `json:"salt"`
}
