package crypto

import "github.com/andres-sumihe/workspace-organizer-sub004/models"

// KeyChainService derives and applies the vault's symmetric key material.
// All methods are pure: the service holds no key state itself, only the
// argon2id tuning parameters. Key lifetime is managed by the vault service.
type KeyChainService interface {
	// GenerateSalt returns a fresh random 16-byte salt.
	GenerateSalt() ([]byte, error)

	// DeriveKey derives the 256-bit vault key from masterPassword and salt
	// using argon2id. The result must never be persisted.
	DeriveKey(masterPassword string, salt []byte) []byte

	// VerificationHash computes the persisted password-verification digest
	// for a derived key. It is domain-separated from the key itself so the
	// stored value cannot be used to decrypt anything.
	VerificationHash(key []byte) []byte

	// Seal marshals data to JSON and encrypts it with key using
	// AES-256-GCM under a fresh random nonce, returning the ciphertext,
	// nonce, and authentication tag as separate base64 fields.
	Seal(data any, key []byte) (models.SealedBlob, error)

	// Open decrypts a sealed blob with key and unmarshals the plaintext
	// JSON into target. Returns ErrAuthenticationFailed when the key is
	// wrong or the blob was tampered with.
	Open(blob models.SealedBlob, key []byte, target any) error
}

// AttestationSigner produces and checks ed25519 attestation signatures.
// Signing and verification are stateless and safe under unlimited
// concurrency.
type AttestationSigner interface {
	// GenerateKeypair returns a fresh hex-encoded ed25519 keypair.
	GenerateKeypair() (publicKey, privateKey string, err error)

	// Sign signs the canonical encoding of payload with the hex-encoded
	// private key and returns the hex-encoded signature.
	Sign(payload models.AttestationPayload, privateKey string) (string, error)

	// Verify reports whether signature is a valid signature of payload
	// under the hex-encoded public key.
	Verify(payload models.AttestationPayload, signature, publicKey string) bool
}
