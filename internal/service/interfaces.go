package service

import (
	"context"

	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// CreateUserRequest carries the input of the one-time account setup.
type CreateUserRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest carries login credentials plus client metadata recorded on
// the session row.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// ClientContext describes the client that initiated a login.
type ClientContext struct {
	IP        string
	UserAgent string
}

// SessionAuthorityService owns the local account, its sessions, and the
// access/refresh token lifecycle.
type SessionAuthorityService interface {
	// CreateUser creates the installation's single account. Fails with
	// [store.ErrUserAlreadyExists] when any account exists, regardless of
	// the input.
	CreateUser(ctx context.Context, request CreateUserRequest) (models.LocalUser, error)

	// Login authenticates by username or email, deletes every prior
	// session for the user, and issues a fresh token pair.
	Login(ctx context.Context, request LoginRequest, client ClientContext) (models.TokenPair, error)

	// Refresh exchanges a valid refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (models.Token, error)

	// Verify validates an access token's signature and expiry, and in
	// solo mode additionally applies the inactivity session lock.
	Verify(ctx context.Context, accessToken string) (models.Token, error)

	// VerifyIgnoringLock validates an access token without consulting the
	// inactivity lock. The session-unlock route authenticates through this
	// path so a locked session can still reach it.
	VerifyIgnoringLock(ctx context.Context, accessToken string) (models.Token, error)

	// Logout deletes the session behind refreshToken. Idempotent.
	Logout(ctx context.Context, refreshToken string) error

	// ChangePassword verifies the old password and stores a new hash.
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error

	// UnlockSession clears the inactivity lock after re-verifying the
	// account password.
	UnlockSession(ctx context.Context, userID int64, password string) error

	// DestructiveReset wipes the account, sessions, credentials, and
	// vault settings. confirmation must equal the documented phrase.
	DestructiveReset(ctx context.Context, confirmation string) error
}

// VaultService owns the encrypted local secrets vault and the lifetime of
// its in-memory derived key.
type VaultService interface {
	Setup(ctx context.Context, masterPassword string) error
	Unlock(ctx context.Context, masterPassword string) error
	Lock()
	IsSetUp(ctx context.Context) (bool, error)
	IsUnlocked() bool

	// Seal encrypts data under the held key. Fails [ErrVaultLocked] when
	// no key is held. Resets the inactivity timer.
	Seal(ctx context.Context, data any) (models.SealedBlob, error)

	// Open decrypts blob into target. Fails [ErrVaultLocked] with no key
	// held and [crypto.ErrAuthenticationFailed] on tamper or wrong key.
	// Resets the inactivity timer.
	Open(ctx context.Context, blob models.SealedBlob, target any) error
}

// CredentialService is the metadata/reveal split over stored credentials.
type CredentialService interface {
	CreateCredential(ctx context.Context, title, credentialType, projectID string, payload map[string]string) (models.Credential, error)
	ListCredentials(ctx context.Context) ([]models.Credential, error)
	GetCredential(ctx context.Context, credentialID string) (models.Credential, error)

	// RevealCredential decrypts the payload on demand. Requires the vault
	// to be unlocked; the plaintext is never cached.
	RevealCredential(ctx context.Context, credentialID string) (map[string]string, error)

	DeleteCredential(ctx context.Context, credentialID string) error
}

// TrustService implements the attestation protocol and the locally pinned
// TOFU binding.
type TrustService interface {
	// InitializeAppInfo returns the existing shared-store identity or
	// creates it (keypair + app_info + app_secret). Idempotent.
	InitializeAppInfo(ctx context.Context, teamID, teamName string) (models.AppInfo, error)

	// GenerateAttestation signs {serverId, teamId, userId, timestamp,
	// nonce} with the shared store's private key.
	GenerateAttestation(ctx context.Context, userID int64) (models.Attestation, error)

	// VerifyAttestation checks the signature over the canonical payload.
	VerifyAttestation(attestation models.Attestation, publicKey string) bool

	StoreTeamBinding(ctx context.Context, binding models.TeamBinding) error
	GetTeamBinding(ctx context.Context) (models.TeamBinding, error)

	// VerifyBinding re-fetches AppInfo and compares it to the pinned
	// binding, returning one of the three distinct mismatch errors.
	VerifyBinding(ctx context.Context) error

	// ClearTeamBinding removes the pinned binding when leaving the team.
	ClearTeamBinding(ctx context.Context) error
}

// ModeService decides the deployment mode and exposes it to the
// authorization path.
type ModeService interface {
	// Mode returns the current deployment mode. Solo unless a shared
	// store is attached, its binding verifies, and its schema version is
	// within the supported range.
	Mode(ctx context.Context) models.Mode

	// Status returns the mode plus schema-compatibility detail for the
	// inspection endpoint.
	Status(ctx context.Context) models.ModeStatus

	// Refresh re-evaluates the mode, used at startup and after a team
	// join or leave.
	Refresh(ctx context.Context) models.ModeStatus
}

// RbacService is the per-request policy decision point.
type RbacService interface {
	// RequirePermission allows unconditionally in solo mode; in shared
	// mode it allows when the caller's resolved permission set contains
	// "resource:action" or "resource:manage".
	RequirePermission(ctx context.Context, resource, action string) error

	// RequireAnyPermission allows when at least one tuple passes.
	RequireAnyPermission(ctx context.Context, permissions ...[2]string) error

	// RequireAllPermissions allows only when every tuple passes.
	RequireAllPermissions(ctx context.Context, permissions ...[2]string) error
}
