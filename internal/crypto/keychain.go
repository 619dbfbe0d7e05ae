// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Andres Sumihe

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"

	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// ErrAuthenticationFailed is returned by [KeyChainService.Open] when the
// GCM tag check fails. The caller cannot distinguish a wrong key from a
// tampered or corrupted blob, and must not try to.
var ErrAuthenticationFailed = errors.New("authentication failed")

// verificationDomain separates the persisted password-verification hash
// from the vault key derived from the same password.
const verificationDomain = "vault-verification"

// keyChainService is the private implementation of [KeyChainService].
type keyChainService struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. mobile vs. desktop).
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewKeyChainService constructs a [KeyChainService] with the Argon2id
// parameters recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewKeyChainService() KeyChainService {
	return &keyChainService{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
}

// GenerateSalt implements [KeyChainService]. It reads 16 random bytes from
// the OS CSPRNG. Returns an error if the random read fails.
func (k *keyChainService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveKey implements [KeyChainService]. It derives a 256-bit vault key
// from masterPassword and salt using Argon2id with the parameters stored in
// the receiver. The result exists only in process memory and is never
// persisted.
func (k *keyChainService) DeriveKey(masterPassword string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(masterPassword),
		salt,
		k.argonTime,
		k.argonMemory,
		k.argonThreads,
		k.argonKeyLen,
	)
}

// VerificationHash implements [KeyChainService]. It computes
// SHA-256(key ‖ verificationDomain) and returns the digest. The fixed
// domain string ensures the persisted verification value and the vault key
// have different purposes even though both derive from the same password.
func (k *keyChainService) VerificationHash(key []byte) []byte {
	h := sha256.New()
	h.Write(key)
	h.Write([]byte(verificationDomain))
	return h.Sum(nil)
}

// Seal implements [KeyChainService]. It marshals data to JSON, then
// encrypts it with key using AES-256-GCM. The GCM output is split into
// ciphertext and the trailing 16-byte authentication tag so the two can be
// stored in separate columns. Returns an error if marshalling, cipher
// creation, or nonce generation fails.
func (k *keyChainService) Seal(data any, key []byte) (models.SealedBlob, error) {
	// 1. Serialize to JSON
	plaintext, err := json.Marshal(data)
	if err != nil {
		return models.SealedBlob{}, fmt.Errorf("marshal data: %w", err)
	}

	// 2. Build AES-GCM cipher from the vault key
	block, err := aes.NewCipher(key)
	if err != nil {
		return models.SealedBlob{}, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return models.SealedBlob{}, fmt.Errorf("create gcm: %w", err)
	}

	// 3. Generate a random nonce
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return models.SealedBlob{}, fmt.Errorf("generate nonce: %w", err)
	}

	// 4. Encrypt and split off the trailing tag
	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	tagStart := len(sealed) - gcm.Overhead()
	ciphertext, tag := sealed[:tagStart], sealed[tagStart:]

	return models.SealedBlob{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		AuthTag:    base64.StdEncoding.EncodeToString(tag),
	}, nil
}

// Open implements [KeyChainService]. It reassembles the GCM input from the
// blob's separate ciphertext/nonce/tag fields, decrypts with key, and
// unmarshals the plaintext JSON into target. target must be a non-nil
// pointer, identical to the requirement of [encoding/json.Unmarshal].
//
// A tag-check failure is reported as [ErrAuthenticationFailed] regardless
// of whether the cause was a wrong key, tampering, or corrupted storage.
func (k *keyChainService) Open(blob models.SealedBlob, key []byte, target any) error {
	// 1. Decode base64 parts
	ciphertext, err := base64.StdEncoding.DecodeString(blob.Ciphertext)
	if err != nil {
		return fmt.Errorf("decode ciphertext: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(blob.Nonce)
	if err != nil {
		return fmt.Errorf("decode nonce: %w", err)
	}
	tag, err := base64.StdEncoding.DecodeString(blob.AuthTag)
	if err != nil {
		return fmt.Errorf("decode auth tag: %w", err)
	}

	// 2. Build AES-GCM cipher from the vault key
	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("create gcm: %w", err)
	}

	if len(nonce) != gcm.NonceSize() {
		return ErrAuthenticationFailed
	}

	// 3. Decrypt and verify the reassembled ciphertext ‖ tag
	plaintext, err := gcm.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return ErrAuthenticationFailed
	}

	// 4. Unmarshal JSON into target
	if err := json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}

	return nil
}
