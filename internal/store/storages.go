package store

import (
	"context"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/config"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
)

// Storages aggregates every repository the service layer depends on.
// Local repositories are always present; shared repositories are nil when
// the installation runs solo (no shared DSN configured or the shared store
// is unreachable).
type Storages struct {
	UserRepository       UserRepository
	SessionRepository    SessionRepository
	CredentialRepository CredentialRepository
	SettingsRepository   SettingsRepository

	TrustRepository      TrustRepository
	PermissionRepository PermissionRepository
	SchemaRepository     SchemaRepository
}

// NewStorages connects the local sqlite store and, when a shared DSN is
// configured and reachable, the shared postgres store, and wires all
// repositories. An unreachable shared store is logged and left
// disconnected — the installation degrades to solo operation rather than
// failing startup.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	localDB, err := NewConnectSQLite(ctx, cfg.Local, log)
	if err != nil {
		return nil, err
	}

	storages := &Storages{
		UserRepository:       NewUserRepository(localDB, log),
		SessionRepository:    NewSessionRepository(localDB, log),
		CredentialRepository: NewCredentialRepository(localDB, log),
		SettingsRepository:   NewSettingsRepository(localDB, log),
	}

	if cfg.Shared.DSN != "" {
		sharedDB, err := NewConnectShared(ctx, cfg.Shared, log)
		if err != nil {
			log.Warn().Err(err).Msg("shared store unreachable, continuing in solo mode")
			return storages, nil
		}

		storages.TrustRepository = NewTrustRepository(sharedDB, log)
		storages.PermissionRepository = NewPermissionRepository(sharedDB, log)
		storages.SchemaRepository = NewSchemaRepository(sharedDB, log)
	}

	return storages, nil
}

// SharedConnected reports whether the shared store's repositories were
// wired at startup.
func (s *Storages) SharedConnected() bool {
	return s.SchemaRepository != nil
}
