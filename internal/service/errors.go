package service

import (
	"errors"
	"fmt"
)

// Authentication errors.
var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserDisabled        = errors.New("user is disabled")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenIsExpired          = errors.New("token is expired")
	ErrTokenIsInvalid          = errors.New("token is invalid")
	ErrInvalidRefreshToken     = errors.New("invalid refresh token")
	ErrRefreshTokenExpired     = errors.New("refresh token is expired")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrSessionLocked           = errors.New("session is locked by inactivity")
	ErrConfirmationPhraseWrong = errors.New("confirmation phrase does not match")
)

// Authorization errors.
var (
	// ErrUnauthorized is returned when a permission check runs without an
	// authenticated principal in the context.
	ErrUnauthorized = errors.New("no authenticated principal")

	// ErrForbidden is the base of every missing-permission failure; match
	// with [errors.Is] and extract the detail via [MissingPermission].
	ErrForbidden = errors.New("permission denied")
)

// Vault errors.
var (
	ErrVaultNotSetUp          = errors.New("vault is not set up")
	ErrVaultAlreadySetUp      = errors.New("vault is already set up")
	ErrVaultPasswordTooWeak   = errors.New("vault master password is too weak")
	ErrVaultIncorrectPassword = errors.New("incorrect vault master password")
	ErrVaultLocked            = errors.New("vault is locked")
)

// Trust errors. The three binding mismatches are deliberately distinct so
// operators can tell a wrong database from a wrong team from a rotated or
// impersonated key.
var (
	ErrNoTeamBinding            = errors.New("no team binding stored")
	ErrBindingServerMismatch    = errors.New("trust binding mismatch: different server identity (wrong database?)")
	ErrBindingTeamMismatch      = errors.New("trust binding mismatch: different team")
	ErrBindingKeyMismatch       = errors.New("trust binding mismatch: public key changed (rotated or impersonated)")
	ErrAttestationInvalid       = errors.New("attestation signature is invalid")
	ErrSharedModeNotAvailable   = errors.New("no shared store attached")
	ErrSharedSchemaIncompatible = errors.New("shared store schema version is not supported")
)

// PermissionError carries the exact permission a forbidden request lacked.
// It matches ErrForbidden under [errors.Is].
type PermissionError struct {
	Resource string
	Action   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: required permission: %s:%s", e.Resource, e.Action)
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrForbidden
}

// Required returns the "resource:action" string for the error details
// payload.
func (e *PermissionError) Required() string {
	return e.Resource + ":" + e.Action
}

// MissingPermission extracts the PermissionError from err's chain, if any.
func MissingPermission(err error) (*PermissionError, bool) {
	var pe *PermissionError
	ok := errors.As(err, &pe)
	return pe, ok
}
