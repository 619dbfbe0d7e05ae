// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Andres Sumihe

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/config"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/crypto"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/store"
	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

const testAccountPassword = "correct horse battery"

func testAppConfig() config.App {
	return config.App{
		TokenIssuer:          "workspace-organizer",
		AccessTokenTTL:       15 * time.Minute,
		RefreshTokenTTL:      time.Hour,
		SessionLockEnabled:   true,
		SessionLockThreshold: 30 * time.Minute,
	}
}

func testLocalUser(t *testing.T) models.LocalUser {
	t.Helper()

	hash, err := crypto.HashPassword(testAccountPassword)
	require.NoError(t, err)

	return models.LocalUser{
		UserID:       1,
		Username:     "owner",
		Email:        "owner@example.com",
		PasswordHash: hash,
		Active:       true,
	}
}

func newTestSessionAuthority(storages *store.Storages, mode ModeService, vault VaultService) *sessionAuthority {
	if mode == nil {
		mode = &fixedMode{mode: models.ModeSolo}
	}
	if vault == nil {
		vault = &mockVaultService{}
	}
	service := NewSessionAuthorityService(storages, vault, mode, testAppConfig(), logger.Nop())
	return service.(*sessionAuthority)
}

// ─────────────────────────────────────────────
// CreateUser
// ─────────────────────────────────────────────

func TestCreateUser_Success(t *testing.T) {
	var created models.LocalUser
	users := &mockUserRepository{
		countUsersFn: func(ctx context.Context) (int, error) { return 0, nil },
		createUserFn: func(ctx context.Context, user models.LocalUser) (models.LocalUser, error) {
			created = user
			user.UserID = 1
			return user, nil
		},
	}
	authority := newTestSessionAuthority(&store.Storages{
		UserRepository:     users,
		SettingsRepository: newMemSettings(),
	}, nil, nil)

	user, err := authority.CreateUser(context.Background(), CreateUserRequest{
		Username: "owner",
		Email:    "owner@example.com",
		Password: testAccountPassword,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), user.UserID)
	assert.True(t, created.Active)
	assert.NotEqual(t, testAccountPassword, created.PasswordHash)
	assert.True(t, crypto.VerifyPassword(testAccountPassword, created.PasswordHash))
}

func TestCreateUser_SecondAccountRejected(t *testing.T) {
	users := &mockUserRepository{
		countUsersFn: func(ctx context.Context) (int, error) { return 1, nil },
		createUserFn: func(ctx context.Context, user models.LocalUser) (models.LocalUser, error) {
			t.Fatal("CreateUser must not insert when an account exists")
			return user, nil
		},
	}
	authority := newTestSessionAuthority(&store.Storages{
		UserRepository:     users,
		SettingsRepository: newMemSettings(),
	}, nil, nil)

	_, err := authority.CreateUser(context.Background(), CreateUserRequest{
		Username: "second",
		Email:    "second@example.com",
		Password: testAccountPassword,
	})
	assert.ErrorIs(t, err, store.ErrUserAlreadyExists)
}

func TestCreateUser_InvalidInput(t *testing.T) {
	authority := newTestSessionAuthority(&store.Storages{
		UserRepository:     &mockUserRepository{},
		SettingsRepository: newMemSettings(),
	}, nil, nil)

	tests := []struct {
		name    string
		request CreateUserRequest
	}{
		{"empty username", CreateUserRequest{Email: "a@b.c", Password: testAccountPassword}},
		{"empty email", CreateUserRequest{Username: "owner", Password: testAccountPassword}},
		{"short password", CreateUserRequest{Username: "owner", Email: "a@b.c", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authority.CreateUser(context.Background(), tt.request)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

// ─────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	user := testLocalUser(t)

	var priorSessionsDeleted bool
	var savedSession models.LocalSession
	sessions := &mockSessionRepository{
		deleteSessionsForUserFn: func(ctx context.Context, userID int64) error {
			priorSessionsDeleted = true
			assert.Equal(t, user.UserID, userID)
			return nil
		},
		createSessionFn: func(ctx context.Context, session models.LocalSession) error {
			require.True(t, priorSessionsDeleted, "prior sessions must be deleted before the new one is created")
			savedSession = session
			return nil
		},
	}
	users := &mockUserRepository{
		findUserByLoginFn: func(ctx context.Context, login string) (models.LocalUser, error) {
			return user, nil
		},
	}
	authority := newTestSessionAuthority(&store.Storages{
		UserRepository:     users,
		SessionRepository:  sessions,
		SettingsRepository: newMemSettings(),
	}, nil, nil)

	pair, err := authority.Login(context.Background(),
		LoginRequest{Login: "owner", Password: testAccountPassword},
		ClientContext{IP: "127.0.0.1", UserAgent: "test"},
	)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, savedSession.RefreshToken, pair.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), pair.ExpiresIn)
	assert.Equal(t, user.UserID, pair.User.UserID)
	assert.Equal(t, "127.0.0.1", savedSession.ClientIP)
	assert.NotEmpty(t, savedSession.SessionID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), savedSession.ExpiresAt, 5*time.Second)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	user := testLocalUser(t)

	tests := []struct {
		name     string
		findFn   func(ctx context.Context, login string) (models.LocalUser, error)
		password string
		want     error
	}{
		{
			name:     "unknown user",
			findFn:   nil, // default mock: store.ErrNoUserWasFound
			password: testAccountPassword,
			want:     ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			findFn: func(ctx context.Context, login string) (models.LocalUser, error) {
				return user, nil
			},
			password: "not the password",
			want:     ErrInvalidCredentials,
		},
		{
			name: "disabled user",
			findFn: func(ctx context.Context, login string) (models.LocalUser, error) {
				disabled := user
				disabled.Active = false
				return disabled, nil
			},
			password: testAccountPassword,
			want:     ErrUserDisabled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authority := newTestSessionAuthority(&store.Storages{
				UserRepository:     &mockUserRepository{findUserByLoginFn: tt.findFn},
				SessionRepository:  &mockSessionRepository{},
				SettingsRepository: newMemSettings(),
			}, nil, nil)

			_, err := authority.Login(context.Background(),
				LoginRequest{Login: "owner", Password: tt.password}, ClientContext{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// ─────────────────────────────────────────────
// Refresh
// ─────────────────────────────────────────────

func TestRefresh_Success(t *testing.T) {
	user := testLocalUser(t)
	session := models.LocalSession{
		SessionID:    "session-1",
		UserID:       user.UserID,
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
	}

	var touched bool
	sessions := &mockSessionRepository{
		findSessionByRefreshTokenFn: func(ctx context.Context, refreshToken string) (models.LocalSession, error) {
			assert.Equal(t, "refresh-token", refreshToken)
			return session, nil
		},
		touchSessionFn: func(ctx context.Context, sessionID string, expiresAt time.Time) error {
			touched = true
			assert.Equal(t, "session-1", sessionID)
			// the expiry slides a full refresh-token TTL past now
			assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)
			return nil
		},
	}
	users := &mockUserRepository{
		findUserByIDFn: func(ctx context.Context, userID int64) (models.LocalUser, error) {
			return user, nil
		},
	}
	authority := newTestSessionAuthority(&store.Storages{
		UserRepository:     users,
		SessionRepository:  sessions,
		SettingsRepository: newMemSettings(),
	}, nil, nil)

	token, err := authority.Refresh(context.Background(), "refresh-token")
	require.NoError(t, err)

	assert.True(t, touched)
	assert.NotEmpty(t, token.SignedString)
	assert.Equal(t, user.UserID, token.UserID)
}

func TestRefresh_ExpiredSessionIsDeleted(t *testing.T) {
	var deletedSessionID string
	sessions := &mockSessionRepository{
		findSessionByRefreshTokenFn: func(ctx context.Context, refreshToken string) (models.LocalSession, error) {
			return models.LocalSession{
				SessionID:    "stale",
				UserID:       1,
				RefreshToken: refreshToken,
				ExpiresAt:    time.Now().Add(-time.Minute),
			}, nil
		},
		deleteSessionFn: func(ctx context.Context, sessionID string) error {
			deletedSessionID = sessionID
			return nil
		},
	}
	authority := newTestSessionAuthority(&store.Storages{
		UserRepository:     &mockUserRepository{},
		SessionRepository:  sessions,
		SettingsRepository: newMemSettings(),
	}, nil, nil)

	_, err := authority.Refresh(context.Background(), "refresh-token")
	assert.ErrorIs(t, err, ErrRefreshTokenExpired)
	assert.Equal(t, "stale", deletedSessionID)
}

func TestRefresh_UnknownToken(t *testing.T) {
	authority := newTestSessionAuthority(&store.Storages{
		UserRepository:     &mockUserRepository{},
		SessionRepository:  &mockSessionRepository{},
		SettingsRepository: newMemSettings(),
	}, nil, nil)

	_, err := authority.Refresh(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = authority.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

// ─────────────────────────────────────────────
// Verify + session lock
// ─────────────────────────────────────────────

// loginForToken runs a full login against mocks and returns the authority
// plus a signed access token for it.
func loginForToken(t *testing.T, mode ModeService) (*sessionAuthority, string) {
	t.Helper()

	user := testLocalUser(t)
	authority := newTestSessionAuthority(&store.Storages{
		UserRepository: &mockUserRepository{
			findUserByLoginFn: func(ctx context.Context, login string) (models.LocalUser, error) {
				return user, nil
			},
		},
		SessionRepository:  &mockSessionRepository{},
		SettingsRepository: newMemSettings(),
	}, mode, nil)

	pair, err := authority.Login(context.Background(),
		LoginRequest{Login: "owner", Password: testAccountPassword}, ClientContext{})
	require.NoError(t, err)

	return authority, pair.AccessToken
}

func TestVerify_ValidToken(t *testing.T) {
	authority, accessToken := loginForToken(t, nil)

	token, err := authority.Verify(context.Background(), accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), token.UserID)
	assert.Equal(t, "owner", token.Claims.Username)
}

func TestVerify_GarbageToken(t *testing.T) {
	authority, _ := loginForToken(t, nil)

	_, err := authority.Verify(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrTokenIsInvalid)
}

func TestVerify_InactivityLocksSession(t *testing.T) {
	authority, accessToken := loginForToken(t, nil)

	// Backdate the activity stamp past the threshold.
	authority.lock.mu.Lock()
	authority.lock.lastActivity = time.Now().Add(-time.Hour)
	authority.lock.mu.Unlock()

	_, err := authority.Verify(context.Background(), accessToken)
	assert.ErrorIs(t, err, ErrSessionLocked)

	// The lock is sticky: a later call within the threshold still fails.
	_, err = authority.Verify(context.Background(), accessToken)
	assert.ErrorIs(t, err, ErrSessionLocked)
}

func TestVerify_SharedModeSkipsSessionLock(t *testing.T) {
	authority, accessToken := loginForToken(t, &fixedMode{mode: models.ModeShared})

	authority.lock.mu.Lock()
	authority.lock.lastActivity = time.Now().Add(-time.Hour)
	authority.lock.mu.Unlock()

	_, err := authority.Verify(context.Background(), accessToken)
	assert.NoError(t, err)
}

func TestVerifyIgnoringLock_BypassesInactivityLock(t *testing.T) {
	authority, accessToken := loginForToken(t, nil)

	authority.lock.mu.Lock()
	authority.lock.locked = true
	authority.lock.mu.Unlock()

	_, err := authority.Verify(context.Background(), accessToken)
	require.ErrorIs(t, err, ErrSessionLocked)

	token, err := authority.VerifyIgnoringLock(context.Background(), accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), token.UserID)

	// the bypass validates the token, it does not clear the lock
	_, err = authority.Verify(context.Background(), accessToken)
	assert.ErrorIs(t, err, ErrSessionLocked)

	// token validation itself is not relaxed
	_, err = authority.VerifyIgnoringLock(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrTokenIsInvalid)
}

func TestUnlockSession_ClearsLock(t *testing.T) {
	user := testLocalUser(t)
	authority, accessToken := loginForToken(t, nil)
	authority.userRepository = &mockUserRepository{
		findUserByIDFn: func(ctx context.Context, userID int64) (models.LocalUser, error) {
			return user, nil
		},
	}

	authority.lock.mu.Lock()
	authority.lock.lastActivity = time.Now().Add(-time.Hour)
	authority.lock.mu.Unlock()

	_, err := authority.Verify(context.Background(), accessToken)
	require.ErrorIs(t, err, ErrSessionLocked)

	err = authority.UnlockSession(context.Background(), user.UserID, "wrong password")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = authority.Verify(context.Background(), accessToken)
	require.ErrorIs(t, err, ErrSessionLocked, "failed unlock must not clear the lock")

	err = authority.UnlockSession(context.Background(), user.UserID, testAccountPassword)
	require.NoError(t, err)

	_, err = authority.Verify(context.Background(), accessToken)
	assert.NoError(t, err)
}

// ─────────────────────────────────────────────
// Logout
// ─────────────────────────────────────────────

func TestLogout_DeletesSession(t *testing.T) {
	var deletedSessionID string
	sessions := &mockSessionRepository{
		findSessionByRefreshTokenFn: func(ctx context.Context, refreshToken string) (models.LocalSession, error) {
			return models.LocalSession{SessionID: "session-1", RefreshToken: refreshToken}, nil
		},
		deleteSessionFn: func(ctx context.Context, sessionID string) error {
			deletedSessionID = sessionID
			return nil
		},
	}
	authority := newTestSessionAuthority(&store.Storages{
		UserRepository:     &mockUserRepository{},
		SessionRepository:  sessions,
		SettingsRepository: newMemSettings(),
	}, nil, nil)

	err := authority.Logout(context.Background(), "refresh-token")
	require.NoError(t, err)
	assert.Equal(t, "session-1", deletedSessionID)
}

func TestLogout_UnknownTokenIsIdempotent(t *testing.T) {
	authority := newTestSessionAuthority(&store.Storages{
		UserRepository:     &mockUserRepository{},
		SessionRepository:  &mockSessionRepository{},
		SettingsRepository: newMemSettings(),
	}, nil, nil)

	assert.NoError(t, authority.Logout(context.Background(), "no-such-token"))
}

// ─────────────────────────────────────────────
// ChangePassword
// ─────────────────────────────────────────────

func TestChangePassword(t *testing.T) {
	user := testLocalUser(t)

	var newHash string
	users := &mockUserRepository{
		findUserByIDFn: func(ctx context.Context, userID int64) (models.LocalUser, error) {
			return user, nil
		},
		updatePasswordHashFn: func(ctx context.Context, userID int64, passwordHash string) error {
			newHash = passwordHash
			return nil
		},
	}
	authority := newTestSessionAuthority(&store.Storages{
		UserRepository:     users,
		SettingsRepository: newMemSettings(),
	}, nil, nil)

	err := authority.ChangePassword(context.Background(), user.UserID, "wrong old", "brand new password")
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Empty(t, newHash)

	err = authority.ChangePassword(context.Background(), user.UserID, testAccountPassword, "short")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	err = authority.ChangePassword(context.Background(), user.UserID, testAccountPassword, "brand new password")
	require.NoError(t, err)
	assert.True(t, crypto.VerifyPassword("brand new password", newHash))
}

// ─────────────────────────────────────────────
// DestructiveReset
// ─────────────────────────────────────────────

func TestDestructiveReset_WrongPhrase(t *testing.T) {
	sessions := &mockSessionRepository{
		deleteAllSessionsFn: func(ctx context.Context) error {
			t.Fatal("nothing may be deleted on a wrong confirmation phrase")
			return nil
		},
	}
	authority := newTestSessionAuthority(&store.Storages{
		UserRepository:       &mockUserRepository{},
		SessionRepository:    sessions,
		CredentialRepository: &mockCredentialRepository{},
		SettingsRepository:   newMemSettings(),
	}, nil, nil)

	err := authority.DestructiveReset(context.Background(), "delete everything")
	assert.ErrorIs(t, err, ErrConfirmationPhraseWrong)
}

func TestDestructiveReset_WipesInstallation(t *testing.T) {
	var sessionsWiped, usersWiped, credentialsWiped bool
	settings := newMemSettings()
	require.NoError(t, settings.SetSetting(context.Background(), store.SettingVaultSettings, "v"))
	require.NoError(t, settings.SetSetting(context.Background(), store.SettingTeamBinding, "b"))
	require.NoError(t, settings.SetSetting(context.Background(), store.SettingTokenSignSecret, "s"))

	vault := &mockVaultService{}
	authority := newTestSessionAuthority(&store.Storages{
		UserRepository: &mockUserRepository{
			deleteAllUsersFn: func(ctx context.Context) error { usersWiped = true; return nil },
		},
		SessionRepository: &mockSessionRepository{
			deleteAllSessionsFn: func(ctx context.Context) error { sessionsWiped = true; return nil },
		},
		CredentialRepository: &mockCredentialRepository{
			deleteAllCredentialsFn: func(ctx context.Context) error { credentialsWiped = true; return nil },
		},
		SettingsRepository: settings,
	}, nil, vault)

	err := authority.DestructiveReset(context.Background(), "  delete this workspace  ")
	require.NoError(t, err)

	assert.True(t, sessionsWiped)
	assert.True(t, usersWiped)
	assert.True(t, credentialsWiped)
	assert.Equal(t, 1, vault.lockCalls)
	for _, key := range []string{store.SettingVaultSettings, store.SettingTeamBinding, store.SettingTokenSignSecret} {
		_, err := settings.GetSetting(context.Background(), key)
		assert.ErrorIs(t, err, store.ErrSettingNotFound, key)
	}
}

// ─────────────────────────────────────────────
// Token signing secret
// ─────────────────────────────────────────────

func TestTokenSignSecret_PersistedAcrossInstances(t *testing.T) {
	settings := newMemSettings()
	storages := &store.Storages{
		UserRepository:     &mockUserRepository{},
		SessionRepository:  &mockSessionRepository{},
		SettingsRepository: settings,
	}

	first := newTestSessionAuthority(storages, nil, nil)
	secret, err := first.tokenSignSecret(context.Background())
	require.NoError(t, err)
	assert.Len(t, secret, 64)

	second := newTestSessionAuthority(storages, nil, nil)
	reloaded, err := second.tokenSignSecret(context.Background())
	require.NoError(t, err)
	assert.Equal(t, secret, reloaded)
}

func TestTokenSignSecret_StorageFailure(t *testing.T) {
	settings := newMemSettings()
	settings.failAll = true
	authority := newTestSessionAuthority(&store.Storages{
		UserRepository:     &mockUserRepository{},
		SessionRepository:  &mockSessionRepository{},
		SettingsRepository: settings,
	}, nil, nil)

	_, err := authority.tokenSignSecret(context.Background())
	assert.ErrorIs(t, err, errStorage)
}
