package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Account-password hashing parameters. Lighter than the vault parameters:
// login happens on every app start and does not gate encrypted data.
const (
	passwordSaltLen = 16
	passwordKeyLen  = 32
	passwordTime    = 1
	passwordMemory  = 19 * 1024 // 19 MiB
	passwordThreads = 2
)

// HashPassword derives an argon2id digest of password under a fresh random
// salt and encodes both as "saltHex$hashHex" for storage in a single column.
func HashPassword(password string) (string, error) {
	salt := make([]byte, passwordSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate password salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, passwordTime, passwordMemory, passwordThreads, passwordKeyLen)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

// VerifyPassword re-derives the digest of password under the salt embedded
// in encoded and compares the two in constant time. Returns true only on an
// exact match; a malformed encoded value verifies as false, not as an error,
// so callers cannot leak storage-corruption details to the client.
func VerifyPassword(password, encoded string) bool {
	salt, hash, err := decodePasswordHash(encoded)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(password), salt, passwordTime, passwordMemory, passwordThreads, passwordKeyLen)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}

func decodePasswordHash(encoded string) (salt, hash []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 2 {
		return nil, nil, errors.New("malformed password hash")
	}

	salt, err = hex.DecodeString(parts[0])
	if err != nil {
		return nil, nil, err
	}
	hash, err = hex.DecodeString(parts[1])
	if err != nil {
		return nil, nil, err
	}
	return salt, hash, nil
}
