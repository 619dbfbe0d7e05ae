// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Andres Sumihe

package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/config"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/crypto"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/store"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/utils"
	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// ResetConfirmationPhrase must be supplied verbatim to
// [SessionAuthorityService.DestructiveReset]. The phrase gate keeps a
// stray API call from wiping the installation.
const ResetConfirmationPhrase = "delete this workspace"

// minAccountPasswordLength applies to the account password, the same floor
// the vault applies to its master password.
const minAccountPasswordLength = 8

// sessionAuthority is the concrete implementation of
// [SessionAuthorityService]. It owns account creation, credential
// verification, the access/refresh token lifecycle, and the solo-mode
// inactivity session lock.
type sessionAuthority struct {
	userRepository     store.UserRepository
	sessionRepository  store.SessionRepository
	settingsRepository store.SettingsRepository

	// credentialRepository and vault participate only in the destructive
	// reset, which wipes everything the installation persists.
	credentialRepository store.CredentialRepository
	vault                VaultService

	// mode supplies the deployment mode embedded in access-token claims
	// and decides whether the session lock applies.
	mode ModeService

	tokenIssuer     string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration

	sessionLockEnabled   bool
	sessionLockThreshold time.Duration

	// signSecret caches the persisted token signing secret after first
	// load. Guarded by signMu.
	signMu     sync.Mutex
	signSecret string

	// lock is the in-memory Unlocked → Locked → Unlocked state machine,
	// evaluated lazily on Verify rather than by a timer.
	lock sessionLock

	logger *logger.Logger
}

// sessionLock tracks solo-mode inactivity. The process is single-user, so
// one tracker per service instance is the whole state machine.
type sessionLock struct {
	mu           sync.Mutex
	locked       bool
	lastActivity time.Time
}

// check transitions to Locked when the inactivity threshold has elapsed
// and reports the current state. Activity is stamped only while unlocked.
func (l *sessionLock) check(now time.Time, threshold time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.locked {
		return true
	}
	if !l.lastActivity.IsZero() && now.Sub(l.lastActivity) > threshold {
		l.locked = true
		return true
	}
	l.lastActivity = now
	return false
}

func (l *sessionLock) reset(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = false
	l.lastActivity = now
}

// NewSessionAuthorityService constructs a [SessionAuthorityService] wired
// to the local repositories and populated with token parameters from cfg.
func NewSessionAuthorityService(
	storages *store.Storages,
	vault VaultService,
	mode ModeService,
	cfg config.App,
	logger *logger.Logger,
) SessionAuthorityService {
	return &sessionAuthority{
		userRepository:       storages.UserRepository,
		sessionRepository:    storages.SessionRepository,
		settingsRepository:   storages.SettingsRepository,
		credentialRepository: storages.CredentialRepository,
		vault:                vault,
		mode:                 mode,
		tokenIssuer:          cfg.TokenIssuer,
		accessTokenTTL:       cfg.AccessTokenTTL,
		refreshTokenTTL:      cfg.RefreshTokenTTL,
		sessionLockEnabled:   cfg.SessionLockEnabled,
		sessionLockThreshold: cfg.SessionLockThreshold,
		logger:               logger,
	}
}

// CreateUser creates the installation's single account.
//
// The single-user invariant is checked structurally: any existing row —
// regardless of username or email — fails the call with
// [store.ErrUserAlreadyExists] before an insert is attempted.
func (a *sessionAuthority) CreateUser(ctx context.Context, request CreateUserRequest) (models.LocalUser, error) {
	log := logger.FromContext(ctx)

	if request.Username == "" || request.Email == "" {
		log.Error().Msg("invalid user data provided")
		return models.LocalUser{}, ErrInvalidDataProvided
	}
	if len(request.Password) < minAccountPasswordLength {
		return models.LocalUser{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidDataProvided, minAccountPasswordLength)
	}

	count, err := a.userRepository.CountUsers(ctx)
	if err != nil {
		log.Err(err).Msg("counting users failed")
		return models.LocalUser{}, fmt.Errorf("counting users failed: %w", err)
	}
	if count > 0 {
		return models.LocalUser{}, store.ErrUserAlreadyExists
	}

	passwordHash, err := crypto.HashPassword(request.Password)
	if err != nil {
		log.Err(err).Msg("hashing password failed")
		return models.LocalUser{}, fmt.Errorf("hashing password failed: %w", err)
	}

	user, err := a.userRepository.CreateUser(ctx, models.LocalUser{
		Username:     request.Username,
		Email:        request.Email,
		PasswordHash: passwordHash,
		DisplayName:  request.DisplayName,
		Active:       true,
	})
	if err != nil {
		log.Err(err).Str("username", request.Username).Msg("user creation ended with error")
		return models.LocalUser{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return user, nil
}

// Login authenticates the account by username or email and issues a fresh
// token pair. Every prior session of the user is deleted first, so at most
// one session is ever active.
func (a *sessionAuthority) Login(ctx context.Context, request LoginRequest, client ClientContext) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	if request.Login == "" || request.Password == "" {
		log.Error().Msg("invalid login data provided")
		return models.TokenPair{}, ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByLogin(ctx, request.Login)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.TokenPair{}, ErrInvalidCredentials
		}
		log.Err(err).Msg("user search by login failed")
		return models.TokenPair{}, fmt.Errorf("user search by login failed: %w", err)
	}

	if !crypto.VerifyPassword(request.Password, user.PasswordHash) {
		log.Warn().Int64("id", user.UserID).Str("login", request.Login).Msg("wrong password")
		return models.TokenPair{}, ErrInvalidCredentials
	}

	if !user.Active {
		log.Warn().Int64("id", user.UserID).Msg("disabled user attempted login")
		return models.TokenPair{}, ErrUserDisabled
	}

	// single-session enforcement
	if err = a.sessionRepository.DeleteSessionsForUser(ctx, user.UserID); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("deleting prior sessions failed")
		return models.TokenPair{}, fmt.Errorf("deleting prior sessions failed: %w", err)
	}

	refreshToken, err := generateOpaqueToken()
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	now := time.Now()
	session := models.LocalSession{
		SessionID:      uuid.NewString(),
		UserID:         user.UserID,
		RefreshToken:   refreshToken,
		ExpiresAt:      now.Add(a.refreshTokenTTL),
		ClientIP:       client.IP,
		UserAgent:      client.UserAgent,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err = a.sessionRepository.CreateSession(ctx, session); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("session creation failed")
		return models.TokenPair{}, fmt.Errorf("session creation failed: %w", err)
	}

	accessToken, err := a.issueAccessToken(ctx, user)
	if err != nil {
		return models.TokenPair{}, err
	}

	a.lock.reset(now)

	return models.TokenPair{
		AccessToken:  accessToken.SignedString,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(a.accessTokenTTL.Seconds()),
		User:         user,
	}, nil
}

// Refresh exchanges a persisted refresh token for a new access token and
// slides the session expiry forward, so sustained use keeps the session
// alive. An expired session row is deleted on sight and reported as
// [ErrRefreshTokenExpired]; an unknown token as [ErrInvalidRefreshToken].
func (a *sessionAuthority) Refresh(ctx context.Context, refreshToken string) (models.Token, error) {
	log := logger.FromContext(ctx)

	if refreshToken == "" {
		return models.Token{}, ErrInvalidRefreshToken
	}

	session, err := a.sessionRepository.FindSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return models.Token{}, ErrInvalidRefreshToken
		}
		log.Err(err).Msg("session lookup failed")
		return models.Token{}, fmt.Errorf("session lookup failed: %w", err)
	}

	if session.Expired(time.Now()) {
		if err = a.sessionRepository.DeleteSession(ctx, session.SessionID); err != nil {
			log.Err(err).Str("session", session.SessionID).Msg("deleting expired session failed")
		}
		return models.Token{}, ErrRefreshTokenExpired
	}

	user, err := a.userRepository.FindUserByID(ctx, session.UserID)
	if err != nil {
		log.Err(err).Int64("id", session.UserID).Msg("session user lookup failed")
		return models.Token{}, fmt.Errorf("session user lookup failed: %w", err)
	}
	if !user.Active {
		return models.Token{}, ErrUserDisabled
	}

	if err = a.sessionRepository.TouchSession(ctx, session.SessionID, time.Now().Add(a.refreshTokenTTL)); err != nil {
		log.Err(err).Str("session", session.SessionID).Msg("touching session failed")
	}

	return a.issueAccessToken(ctx, user)
}

// Verify validates an access token's signature and expiry. In solo mode
// with the session lock enabled it additionally applies the lazy
// inactivity check: a locked session fails [ErrSessionLocked], which the
// boundary maps to SESSION_EXPIRED — distinct from TOKEN_EXPIRED.
func (a *sessionAuthority) Verify(ctx context.Context, accessToken string) (models.Token, error) {
	token, err := a.parseAccessToken(ctx, accessToken)
	if err != nil {
		return models.Token{}, err
	}

	// Shared mode defers session lifecycle to the external authority; the
	// inactivity lock is a solo-mode concern only.
	if a.sessionLockEnabled && a.mode.Mode(ctx) == models.ModeSolo {
		if a.lock.check(time.Now(), a.sessionLockThreshold) {
			return models.Token{}, ErrSessionLocked
		}
	}

	return token, nil
}

// VerifyIgnoringLock validates the token without consulting the inactivity
// lock. The unlock route authenticates through this path; everything else
// goes through [sessionAuthority.Verify]. It only reads the lock state
// machine's inputs, so a locked session stays locked until
// [sessionAuthority.UnlockSession] clears it.
func (a *sessionAuthority) VerifyIgnoringLock(ctx context.Context, accessToken string) (models.Token, error) {
	return a.parseAccessToken(ctx, accessToken)
}

func (a *sessionAuthority) parseAccessToken(ctx context.Context, accessToken string) (models.Token, error) {
	secret, err := a.tokenSignSecret(ctx)
	if err != nil {
		return models.Token{}, err
	}

	token, err := utils.ValidateAndParseAccessToken(accessToken, secret, a.tokenIssuer)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Token{}, ErrTokenIsExpired
		}
		return models.Token{}, ErrTokenIsInvalid
	}

	return token, nil
}

// Logout deletes the session behind refreshToken. Unknown tokens succeed:
// logout is idempotent.
func (a *sessionAuthority) Logout(ctx context.Context, refreshToken string) error {
	log := logger.FromContext(ctx)

	session, err := a.sessionRepository.FindSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil
		}
		log.Err(err).Msg("session lookup failed")
		return fmt.Errorf("session lookup failed: %w", err)
	}

	return a.sessionRepository.DeleteSession(ctx, session.SessionID)
}

// ChangePassword verifies the old password before deriving and storing the
// new hash.
func (a *sessionAuthority) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	log := logger.FromContext(ctx)

	if len(newPassword) < minAccountPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidDataProvided, minAccountPasswordLength)
	}

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("user lookup failed")
		return fmt.Errorf("user lookup failed: %w", err)
	}

	if !crypto.VerifyPassword(oldPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	newHash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password failed: %w", err)
	}

	return a.userRepository.UpdatePasswordHash(ctx, userID, newHash)
}

// UnlockSession clears the inactivity lock after re-verifying the account
// password. Recovering from a locked session needs only the password, not
// a full re-authentication.
func (a *sessionAuthority) UnlockSession(ctx context.Context, userID int64, password string) error {
	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("user lookup failed: %w", err)
	}

	if !crypto.VerifyPassword(password, user.PasswordHash) {
		return ErrWrongPassword
	}

	a.lock.reset(time.Now())
	return nil
}

// DestructiveReset wipes the account, its sessions, all stored
// credentials, the vault verification record, and the team binding, then
// locks the vault. The confirmation phrase must match exactly.
func (a *sessionAuthority) DestructiveReset(ctx context.Context, confirmation string) error {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(confirmation) != ResetConfirmationPhrase {
		return ErrConfirmationPhraseWrong
	}

	if err := a.sessionRepository.DeleteAllSessions(ctx); err != nil {
		return fmt.Errorf("deleting sessions failed: %w", err)
	}
	if err := a.userRepository.DeleteAllUsers(ctx); err != nil {
		return fmt.Errorf("deleting user failed: %w", err)
	}

	if err := a.credentialRepository.DeleteAllCredentials(ctx); err != nil {
		return fmt.Errorf("deleting credentials failed: %w", err)
	}

	a.vault.Lock()

	for _, key := range []string{store.SettingVaultSettings, store.SettingTeamBinding, store.SettingTokenSignSecret} {
		if err := a.settingsRepository.DeleteSetting(ctx, key); err != nil {
			return fmt.Errorf("deleting setting %q failed: %w", key, err)
		}
	}

	log.Warn().Msg("destructive local reset completed")
	return nil
}

// issueAccessToken signs a fresh access token embedding the username and
// the current deployment mode.
func (a *sessionAuthority) issueAccessToken(ctx context.Context, user models.LocalUser) (models.Token, error) {
	secret, err := a.tokenSignSecret(ctx)
	if err != nil {
		return models.Token{}, err
	}

	token, err := utils.GenerateAccessToken(a.tokenIssuer, user.UserID, user.Username, a.mode.Mode(ctx), a.accessTokenTTL, secret)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// tokenSignSecret returns the persisted signing secret, generating and
// persisting it on first use. The secret is never hardcoded and never
// leaves the settings store.
func (a *sessionAuthority) tokenSignSecret(ctx context.Context) (string, error) {
	a.signMu.Lock()
	defer a.signMu.Unlock()

	if a.signSecret != "" {
		return a.signSecret, nil
	}

	raw, err := a.settingsRepository.GetSetting(ctx, store.SettingTokenSignSecret)
	if err == nil {
		var secret string
		if err = json.Unmarshal(raw, &secret); err != nil {
			return "", fmt.Errorf("decode token sign secret: %w", err)
		}
		a.signSecret = secret
		return secret, nil
	}
	if !errors.Is(err, store.ErrSettingNotFound) {
		return "", fmt.Errorf("loading token sign secret failed: %w", err)
	}

	secret, err := generateOpaqueToken()
	if err != nil {
		return "", fmt.Errorf("generating token sign secret failed: %w", err)
	}
	if err = a.settingsRepository.SetSetting(ctx, store.SettingTokenSignSecret, secret); err != nil {
		return "", fmt.Errorf("persisting token sign secret failed: %w", err)
	}

	a.signSecret = secret
	return secret, nil
}

// generateOpaqueToken returns 32 CSPRNG bytes hex-encoded.
func generateOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
