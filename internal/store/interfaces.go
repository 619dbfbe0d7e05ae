package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// UserRepository persists the single local account.
type UserRepository interface {
	// CountUsers returns the number of user rows. The service layer uses
	// it to enforce the single-user-per-installation invariant before any
	// insert is attempted.
	CountUsers(ctx context.Context) (int, error)

	CreateUser(ctx context.Context, user models.LocalUser) (models.LocalUser, error)

	// FindUserByLogin looks the user up by username or email; the same
	// value is matched against both columns.
	FindUserByLogin(ctx context.Context, login string) (models.LocalUser, error)

	FindUserByID(ctx context.Context, userID int64) (models.LocalUser, error)

	UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error

	// DeleteAllUsers removes every account row. Used only by the
	// destructive local reset.
	DeleteAllUsers(ctx context.Context) error
}

// SessionRepository persists refresh-token sessions in the local store.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.LocalSession) error
	FindSessionByRefreshToken(ctx context.Context, refreshToken string) (models.LocalSession, error)

	// TouchSession stamps the session's last activity and slides its
	// expiry forward to expiresAt. Called on every successful refresh.
	TouchSession(ctx context.Context, sessionID string, expiresAt time.Time) error

	// DeleteSession removes a single session row. Deleting a session that
	// no longer exists is not an error.
	DeleteSession(ctx context.Context, sessionID string) error

	// DeleteSessionsForUser removes every session of the user; called on
	// each successful login to enforce single-active-session.
	DeleteSessionsForUser(ctx context.Context, userID int64) error

	// DeleteExpiredSessions removes all sessions past their expiry in one
	// statement, so it interleaves safely with concurrent login/refresh.
	DeleteExpiredSessions(ctx context.Context) (int64, error)

	// DeleteAllSessions wipes the sessions table during a destructive
	// local reset.
	DeleteAllSessions(ctx context.Context) error
}

// CredentialRepository persists sealed vault payloads in the local store.
type CredentialRepository interface {
	CreateCredential(ctx context.Context, credential models.Credential) (models.Credential, error)
	ListCredentials(ctx context.Context) ([]models.Credential, error)
	FindCredentialByID(ctx context.Context, credentialID string) (models.Credential, error)
	DeleteCredential(ctx context.Context, credentialID string) error
	DeleteAllCredentials(ctx context.Context) error
}

// SettingsRepository is the generic JSON-valued key-value store used for
// the token signing secret, vault verification record, team binding, and
// session-lock configuration.
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (json.RawMessage, error)
	SetSetting(ctx context.Context, key string, value any) error
	DeleteSetting(ctx context.Context, key string) error
}

// TrustRepository persists the shared store's identity: the public app_info
// row and the private signing key. No handler-reachable read path ever
// touches the private key.
type TrustRepository interface {
	GetAppInfo(ctx context.Context) (models.AppInfo, error)
	CreateAppInfo(ctx context.Context, info models.AppInfo, privateKey string) (models.AppInfo, error)
	GetSigningKey(ctx context.Context) (string, error)
}

// PermissionRepository resolves a shared-mode caller's permission strings.
type PermissionRepository interface {
	// ResolvePermissions returns the caller's "resource:action" grants,
	// joined through role assignments at request time. Results are never
	// cached beyond the request.
	ResolvePermissions(ctx context.Context, userID int64) ([]string, error)
}

// SchemaRepository reads the shared store's schema version for the
// compatibility gate. It never applies schema changes.
type SchemaRepository interface {
	GetSchemaVersion(ctx context.Context) (int, error)
}
