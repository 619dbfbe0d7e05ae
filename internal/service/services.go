package service

import (
	"context"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/config"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/crypto"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/store"
)

type Services struct {
	SessionAuthorityService SessionAuthorityService
	VaultService            VaultService
	CredentialService       CredentialService
	TrustService            TrustService
	ModeService             ModeService
	RbacService             RbacService
}

// NewServices wires the full service layer. Construction order matters:
// the mode decision depends on trust verification, and both the session
// authority and the RBAC resolver depend on the decided mode.
func NewServices(ctx context.Context, storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	vault := NewVaultService(crypto.NewKeyChainService(), storages.SettingsRepository, cfg.App, logger)
	trust := NewTrustService(storages.TrustRepository, storages.SettingsRepository, crypto.NewAttestationSigner(), logger)
	mode := NewModeService(ctx, storages.SchemaRepository, trust, cfg.App, logger)

	return &Services{
		SessionAuthorityService: NewSessionAuthorityService(storages, vault, mode, cfg.App, logger),
		VaultService:            vault,
		CredentialService:       NewCredentialService(storages.CredentialRepository, vault, logger),
		TrustService:            trust,
		ModeService:             mode,
		RbacService:             NewRbacService(mode, storages.PermissionRepository, logger),
	}
}
