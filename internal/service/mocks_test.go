// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Andres Sumihe

package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/store"
	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

var errStorage = errors.New("storage error")

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	countUsersFn         func(ctx context.Context) (int, error)
	createUserFn         func(ctx context.Context, user models.LocalUser) (models.LocalUser, error)
	findUserByLoginFn    func(ctx context.Context, login string) (models.LocalUser, error)
	findUserByIDFn       func(ctx context.Context, userID int64) (models.LocalUser, error)
	updatePasswordHashFn func(ctx context.Context, userID int64, passwordHash string) error
	deleteAllUsersFn     func(ctx context.Context) error
}

func (m *mockUserRepository) CountUsers(ctx context.Context) (int, error) {
	if m.countUsersFn != nil {
		return m.countUsersFn(ctx)
	}
	return 0, nil
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.LocalUser) (models.LocalUser, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, user)
	}
	user.UserID = 1
	return user, nil
}

func (m *mockUserRepository) FindUserByLogin(ctx context.Context, login string) (models.LocalUser, error) {
	if m.findUserByLoginFn != nil {
		return m.findUserByLoginFn(ctx, login)
	}
	return models.LocalUser{}, store.ErrNoUserWasFound
}

func (m *mockUserRepository) FindUserByID(ctx context.Context, userID int64) (models.LocalUser, error) {
	if m.findUserByIDFn != nil {
		return m.findUserByIDFn(ctx, userID)
	}
	return models.LocalUser{}, store.ErrNoUserWasFound
}

func (m *mockUserRepository) UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error {
	if m.updatePasswordHashFn != nil {
		return m.updatePasswordHashFn(ctx, userID, passwordHash)
	}
	return nil
}

func (m *mockUserRepository) DeleteAllUsers(ctx context.Context) error {
	if m.deleteAllUsersFn != nil {
		return m.deleteAllUsersFn(ctx)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.SessionRepository
// ─────────────────────────────────────────────

type mockSessionRepository struct {
	createSessionFn             func(ctx context.Context, session models.LocalSession) error
	findSessionByRefreshTokenFn func(ctx context.Context, refreshToken string) (models.LocalSession, error)
	touchSessionFn              func(ctx context.Context, sessionID string, expiresAt time.Time) error
	deleteSessionFn             func(ctx context.Context, sessionID string) error
	deleteSessionsForUserFn     func(ctx context.Context, userID int64) error
	deleteExpiredSessionsFn     func(ctx context.Context) (int64, error)
	deleteAllSessionsFn         func(ctx context.Context) error
}

func (m *mockSessionRepository) CreateSession(ctx context.Context, session models.LocalSession) error {
	if m.createSessionFn != nil {
		return m.createSessionFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepository) FindSessionByRefreshToken(ctx context.Context, refreshToken string) (models.LocalSession, error) {
	if m.findSessionByRefreshTokenFn != nil {
		return m.findSessionByRefreshTokenFn(ctx, refreshToken)
	}
	return models.LocalSession{}, store.ErrSessionNotFound
}

func (m *mockSessionRepository) TouchSession(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if m.touchSessionFn != nil {
		return m.touchSessionFn(ctx, sessionID, expiresAt)
	}
	return nil
}

func (m *mockSessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if m.deleteSessionFn != nil {
		return m.deleteSessionFn(ctx, sessionID)
	}
	return nil
}

func (m *mockSessionRepository) DeleteSessionsForUser(ctx context.Context, userID int64) error {
	if m.deleteSessionsForUserFn != nil {
		return m.deleteSessionsForUserFn(ctx, userID)
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	if m.deleteExpiredSessionsFn != nil {
		return m.deleteExpiredSessionsFn(ctx)
	}
	return 0, nil
}

func (m *mockSessionRepository) DeleteAllSessions(ctx context.Context) error {
	if m.deleteAllSessionsFn != nil {
		return m.deleteAllSessionsFn(ctx)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.CredentialRepository
// ─────────────────────────────────────────────

type mockCredentialRepository struct {
	createCredentialFn     func(ctx context.Context, credential models.Credential) (models.Credential, error)
	listCredentialsFn      func(ctx context.Context) ([]models.Credential, error)
	findCredentialByIDFn   func(ctx context.Context, credentialID string) (models.Credential, error)
	deleteCredentialFn     func(ctx context.Context, credentialID string) error
	deleteAllCredentialsFn func(ctx context.Context) error
}

func (m *mockCredentialRepository) CreateCredential(ctx context.Context, credential models.Credential) (models.Credential, error) {
	if m.createCredentialFn != nil {
		return m.createCredentialFn(ctx, credential)
	}
	return credential, nil
}

func (m *mockCredentialRepository) ListCredentials(ctx context.Context) ([]models.Credential, error) {
	if m.listCredentialsFn != nil {
		return m.listCredentialsFn(ctx)
	}
	return nil, nil
}

func (m *mockCredentialRepository) FindCredentialByID(ctx context.Context, credentialID string) (models.Credential, error) {
	if m.findCredentialByIDFn != nil {
		return m.findCredentialByIDFn(ctx, credentialID)
	}
	return models.Credential{}, store.ErrCredentialNotFound
}

func (m *mockCredentialRepository) DeleteCredential(ctx context.Context, credentialID string) error {
	if m.deleteCredentialFn != nil {
		return m.deleteCredentialFn(ctx, credentialID)
	}
	return nil
}

func (m *mockCredentialRepository) DeleteAllCredentials(ctx context.Context) error {
	if m.deleteAllCredentialsFn != nil {
		return m.deleteAllCredentialsFn(ctx)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.SettingsRepository (in-memory)
// ─────────────────────────────────────────────

// memSettings is a thread-safe in-memory SettingsRepository. Most service
// tests need real read-your-writes behaviour for the settings KV, so a map
// beats stubbed functions here.
type memSettings struct {
	mu     sync.Mutex
	values map[string]json.RawMessage

	// failAll, when set, makes every call fail with errStorage.
	failAll bool
}

func newMemSettings() *memSettings {
	return &memSettings{values: map[string]json.RawMessage{}}
}

func (m *memSettings) GetSetting(ctx context.Context, key string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errStorage
	}
	value, ok := m.values[key]
	if !ok {
		return nil, store.ErrSettingNotFound
	}
	return value, nil
}

func (m *memSettings) SetSetting(ctx context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errStorage
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	return nil
}

func (m *memSettings) DeleteSetting(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errStorage
	}
	delete(m.values, key)
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.TrustRepository
// ─────────────────────────────────────────────

type mockTrustRepository struct {
	getAppInfoFn    func(ctx context.Context) (models.AppInfo, error)
	createAppInfoFn func(ctx context.Context, info models.AppInfo, privateKey string) (models.AppInfo, error)
	getSigningKeyFn func(ctx context.Context) (string, error)
}

func (m *mockTrustRepository) GetAppInfo(ctx context.Context) (models.AppInfo, error) {
	if m.getAppInfoFn != nil {
		return m.getAppInfoFn(ctx)
	}
	return models.AppInfo{}, store.ErrAppInfoNotFound
}

func (m *mockTrustRepository) CreateAppInfo(ctx context.Context, info models.AppInfo, privateKey string) (models.AppInfo, error) {
	if m.createAppInfoFn != nil {
		return m.createAppInfoFn(ctx, info, privateKey)
	}
	return info, nil
}

func (m *mockTrustRepository) GetSigningKey(ctx context.Context) (string, error) {
	if m.getSigningKeyFn != nil {
		return m.getSigningKeyFn(ctx)
	}
	return "", store.ErrAppInfoNotFound
}

// ─────────────────────────────────────────────
// Mock: store.PermissionRepository
// ─────────────────────────────────────────────

type mockPermissionRepository struct {
	resolvePermissionsFn func(ctx context.Context, userID int64) ([]string, error)
}

func (m *mockPermissionRepository) ResolvePermissions(ctx context.Context, userID int64) ([]string, error) {
	if m.resolvePermissionsFn != nil {
		return m.resolvePermissionsFn(ctx, userID)
	}
	return nil, nil
}

// ─────────────────────────────────────────────
// Mock: store.SchemaRepository
// ─────────────────────────────────────────────

type mockSchemaRepository struct {
	getSchemaVersionFn func(ctx context.Context) (int, error)
}

func (m *mockSchemaRepository) GetSchemaVersion(ctx context.Context) (int, error) {
	if m.getSchemaVersionFn != nil {
		return m.getSchemaVersionFn(ctx)
	}
	return 1, nil
}

// ─────────────────────────────────────────────
// Mock: ModeService
// ─────────────────────────────────────────────

// fixedMode is a ModeService pinned to a single mode, for tests that only
// need the mode decision as an input.
type fixedMode struct {
	mode models.Mode
}

func (f *fixedMode) Mode(ctx context.Context) models.Mode {
	return f.mode
}

func (f *fixedMode) Status(ctx context.Context) models.ModeStatus {
	return models.ModeStatus{Mode: f.mode, SchemaCompatible: true}
}

func (f *fixedMode) Refresh(ctx context.Context) models.ModeStatus {
	return f.Status(ctx)
}

// ─────────────────────────────────────────────
// Mock: TrustService
// ─────────────────────────────────────────────

type mockTrustService struct {
	verifyBindingFn  func(ctx context.Context) error
	getTeamBindingFn func(ctx context.Context) (models.TeamBinding, error)
}

func (m *mockTrustService) InitializeAppInfo(ctx context.Context, teamID, teamName string) (models.AppInfo, error) {
	return models.AppInfo{}, nil
}

func (m *mockTrustService) GenerateAttestation(ctx context.Context, userID int64) (models.Attestation, error) {
	return models.Attestation{}, nil
}

func (m *mockTrustService) VerifyAttestation(attestation models.Attestation, publicKey string) bool {
	return true
}

func (m *mockTrustService) StoreTeamBinding(ctx context.Context, binding models.TeamBinding) error {
	return nil
}

func (m *mockTrustService) GetTeamBinding(ctx context.Context) (models.TeamBinding, error) {
	if m.getTeamBindingFn != nil {
		return m.getTeamBindingFn(ctx)
	}
	return models.TeamBinding{}, ErrNoTeamBinding
}

func (m *mockTrustService) VerifyBinding(ctx context.Context) error {
	if m.verifyBindingFn != nil {
		return m.verifyBindingFn(ctx)
	}
	return nil
}

func (m *mockTrustService) ClearTeamBinding(ctx context.Context) error {
	return nil
}

// ─────────────────────────────────────────────
// Mock: VaultService
// ─────────────────────────────────────────────

type mockVaultService struct {
	setupFn      func(ctx context.Context, masterPassword string) error
	unlockFn     func(ctx context.Context, masterPassword string) error
	lockCalls    int
	isSetUpFn    func(ctx context.Context) (bool, error)
	isUnlockedFn func() bool
	sealFn       func(ctx context.Context, data any) (models.SealedBlob, error)
	openFn       func(ctx context.Context, blob models.SealedBlob, target any) error
}

func (m *mockVaultService) Setup(ctx context.Context, masterPassword string) error {
	if m.setupFn != nil {
		return m.setupFn(ctx, masterPassword)
	}
	return nil
}

func (m *mockVaultService) Unlock(ctx context.Context, masterPassword string) error {
	if m.unlockFn != nil {
		return m.unlockFn(ctx, masterPassword)
	}
	return nil
}

func (m *mockVaultService) Lock() {
	m.lockCalls++
}

func (m *mockVaultService) IsSetUp(ctx context.Context) (bool, error) {
	if m.isSetUpFn != nil {
		return m.isSetUpFn(ctx)
	}
	return true, nil
}

func (m *mockVaultService) IsUnlocked() bool {
	if m.isUnlockedFn != nil {
		return m.isUnlockedFn()
	}
	return true
}

func (m *mockVaultService) Seal(ctx context.Context, data any) (models.SealedBlob, error) {
	if m.sealFn != nil {
		return m.sealFn(ctx, data)
	}
	return models.SealedBlob{Ciphertext: "ct", Nonce: "n", AuthTag: "tag"}, nil
}

func (m *mockVaultService) Open(ctx context.Context, blob models.SealedBlob, target any) error {
	if m.openFn != nil {
		return m.openFn(ctx, blob, target)
	}
	return nil
}
