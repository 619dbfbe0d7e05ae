package http

import (
	"context"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/service"
	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// ─────────────────────────────────────────────
// Mock: service.SessionAuthorityService
// ─────────────────────────────────────────────

type mockSessionService struct {
	createUserFn func(ctx context.Context, request service.CreateUserRequest) (models.LocalUser, error)
	loginFn      func(ctx context.Context, request service.LoginRequest, client service.ClientContext) (models.TokenPair, error)
	refreshFn    func(ctx context.Context, refreshToken string) (models.Token, error)
	verifyFn     func(ctx context.Context, accessToken string) (models.Token, error)
	logoutFn     func(ctx context.Context, refreshToken string) error
	resetFn      func(ctx context.Context, confirmation string) error

	verifyIgnoringLockFn func(ctx context.Context, accessToken string) (models.Token, error)
	unlockFn             func(ctx context.Context, userID int64, password string) error
}

func (m *mockSessionService) CreateUser(ctx context.Context, request service.CreateUserRequest) (models.LocalUser, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, request)
	}
	return models.LocalUser{}, nil
}

func (m *mockSessionService) Login(ctx context.Context, request service.LoginRequest, client service.ClientContext) (models.TokenPair, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, request, client)
	}
	return models.TokenPair{}, nil
}

func (m *mockSessionService) Refresh(ctx context.Context, refreshToken string) (models.Token, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, refreshToken)
	}
	return models.Token{}, nil
}

func (m *mockSessionService) Verify(ctx context.Context, accessToken string) (models.Token, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, accessToken)
	}
	return models.Token{}, nil
}

func (m *mockSessionService) VerifyIgnoringLock(ctx context.Context, accessToken string) (models.Token, error) {
	if m.verifyIgnoringLockFn != nil {
		return m.verifyIgnoringLockFn(ctx, accessToken)
	}
	return m.Verify(ctx, accessToken)
}

func (m *mockSessionService) Logout(ctx context.Context, refreshToken string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, refreshToken)
	}
	return nil
}

func (m *mockSessionService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	return nil
}

func (m *mockSessionService) UnlockSession(ctx context.Context, userID int64, password string) error {
	if m.unlockFn != nil {
		return m.unlockFn(ctx, userID, password)
	}
	return nil
}

func (m *mockSessionService) DestructiveReset(ctx context.Context, confirmation string) error {
	if m.resetFn != nil {
		return m.resetFn(ctx, confirmation)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: service.ModeService
// ─────────────────────────────────────────────

type mockModeService struct {
	status models.ModeStatus
}

func (m *mockModeService) Mode(ctx context.Context) models.Mode {
	return m.status.Mode
}

func (m *mockModeService) Status(ctx context.Context) models.ModeStatus {
	return m.status
}

func (m *mockModeService) Refresh(ctx context.Context) models.ModeStatus {
	return m.status
}

// ─────────────────────────────────────────────
// Mock: service.RbacService
// ─────────────────────────────────────────────

type mockRbacService struct {
	requirePermissionFn func(ctx context.Context, resource, action string) error
}

func (m *mockRbacService) RequirePermission(ctx context.Context, resource, action string) error {
	if m.requirePermissionFn != nil {
		return m.requirePermissionFn(ctx, resource, action)
	}
	return nil
}

func (m *mockRbacService) RequireAnyPermission(ctx context.Context, permissions ...[2]string) error {
	return nil
}

func (m *mockRbacService) RequireAllPermissions(ctx context.Context, permissions ...[2]string) error {
	return nil
}

// ─────────────────────────────────────────────
// Mock: service.VaultService
// ─────────────────────────────────────────────

type mockVaultService struct {
	setupFn    func(ctx context.Context, masterPassword string) error
	unlockFn   func(ctx context.Context, masterPassword string) error
	lockCalls  int
	setUp      bool
	unlocked   bool
	setUpErrFn func(ctx context.Context) (bool, error)
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
	if m.setUpErrFn != nil {
		return m.setUpErrFn(ctx)
	}
	return m.setUp, nil
}

func (m *mockVaultService) IsUnlocked() bool {
	return m.unlocked
}

func (m *mockVaultService) Seal(ctx context.Context, data any) (models.SealedBlob, error) {
	return models.SealedBlob{}, nil
}

func (m *mockVaultService) Open(ctx context.Context, blob models.SealedBlob, target any) error {
	return nil
}

// ─────────────────────────────────────────────
// Mock: service.CredentialService
// ─────────────────────────────────────────────

type mockCredentialService struct {
	createFn func(ctx context.Context, title, credentialType, projectID string, payload map[string]string) (models.Credential, error)
	listFn   func(ctx context.Context) ([]models.Credential, error)
	getFn    func(ctx context.Context, credentialID string) (models.Credential, error)
	revealFn func(ctx context.Context, credentialID string) (map[string]string, error)
	deleteFn func(ctx context.Context, credentialID string) error
}

func (m *mockCredentialService) CreateCredential(ctx context.Context, title, credentialType, projectID string, payload map[string]string) (models.Credential, error) {
	if m.createFn != nil {
		return m.createFn(ctx, title, credentialType, projectID, payload)
	}
	return models.Credential{}, nil
}

func (m *mockCredentialService) ListCredentials(ctx context.Context) ([]models.Credential, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCredentialService) GetCredential(ctx context.Context, credentialID string) (models.Credential, error) {
	if m.getFn != nil {
		return m.getFn(ctx, credentialID)
	}
	return models.Credential{}, nil
}

func (m *mockCredentialService) RevealCredential(ctx context.Context, credentialID string) (map[string]string, error) {
	if m.revealFn != nil {
		return m.revealFn(ctx, credentialID)
	}
	return nil, nil
}

func (m *mockCredentialService) DeleteCredential(ctx context.Context, credentialID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, credentialID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: service.TrustService
// ─────────────────────────────────────────────

type mockTrustService struct {
	initializeFn    func(ctx context.Context, teamID, teamName string) (models.AppInfo, error)
	getBindingFn    func(ctx context.Context) (models.TeamBinding, error)
	verifyBindingFn func(ctx context.Context) error
	storedBindings  []models.TeamBinding
	clearCalls      int
}

func (m *mockTrustService) InitializeAppInfo(ctx context.Context, teamID, teamName string) (models.AppInfo, error) {
	if m.initializeFn != nil {
		return m.initializeFn(ctx, teamID, teamName)
	}
	return models.AppInfo{ServerID: "server-1", TeamID: teamID, TeamName: teamName, PublicKey: "abcd"}, nil
}

func (m *mockTrustService) GenerateAttestation(ctx context.Context, userID int64) (models.Attestation, error) {
	return models.Attestation{Payload: models.AttestationPayload{ServerID: "server-1", UserID: userID}}, nil
}

func (m *mockTrustService) VerifyAttestation(attestation models.Attestation, publicKey string) bool {
	return true
}

func (m *mockTrustService) StoreTeamBinding(ctx context.Context, binding models.TeamBinding) error {
	m.storedBindings = append(m.storedBindings, binding)
	return nil
}

func (m *mockTrustService) GetTeamBinding(ctx context.Context) (models.TeamBinding, error) {
	if m.getBindingFn != nil {
		return m.getBindingFn(ctx)
	}
	return models.TeamBinding{}, service.ErrNoTeamBinding
}

func (m *mockTrustService) VerifyBinding(ctx context.Context) error {
	if m.verifyBindingFn != nil {
		return m.verifyBindingFn(ctx)
	}
	return nil
}

func (m *mockTrustService) ClearTeamBinding(ctx context.Context) error {
	m.clearCalls++
	return nil
}
