package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/config"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/store"
	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// modeService is the concrete implementation of [ModeService]. The mode is
// decided once at startup — solo unless a shared store is connected, its
// binding verifies, and its schema version is within the supported range —
// and cached; Refresh re-evaluates it after a team join or leave.
type modeService struct {
	schemaRepository store.SchemaRepository
	trust            TrustService

	minSchemaVersion int
	maxSchemaVersion int

	mu     sync.RWMutex
	status models.ModeStatus

	logger *logger.Logger
}

// NewModeService constructs a [ModeService] and performs the initial mode
// decision. schemaRepository is nil when no shared store is attached.
func NewModeService(ctx context.Context, schemaRepository store.SchemaRepository, trust TrustService, cfg config.App, logger *logger.Logger) ModeService {
	m := &modeService{
		schemaRepository: schemaRepository,
		trust:            trust,
		minSchemaVersion: cfg.MinSchemaVersion,
		maxSchemaVersion: cfg.MaxSchemaVersion,
		logger:           logger,
	}
	m.Refresh(ctx)
	return m
}

// Mode returns the cached deployment mode.
func (m *modeService) Mode(ctx context.Context) models.Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Mode
}

// Status returns the cached mode plus schema-compatibility detail.
func (m *modeService) Status(ctx context.Context) models.ModeStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Refresh re-evaluates the deployment mode. Called at startup and after
// team join/leave.
//
// A binding that fails verification keeps the installation OUT of shared
// mode but does not silently revert it to solo authorization semantics:
// the resulting status carries the trust failure and every shared-mode
// surface stays unavailable until the operator re-trusts or leaves the
// team.
func (m *modeService) Refresh(ctx context.Context) models.ModeStatus {
	status := m.evaluate(ctx)

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()

	return status
}

func (m *modeService) evaluate(ctx context.Context) models.ModeStatus {
	log := logger.FromContext(ctx)

	if m.schemaRepository == nil {
		return models.ModeStatus{Mode: models.ModeSolo, SchemaCompatible: true}
	}

	// no binding yet: the store is attached but the installation has not
	// joined the team, so it still operates solo
	if err := m.trust.VerifyBinding(ctx); err != nil {
		if errors.Is(err, ErrNoTeamBinding) {
			return models.ModeStatus{Mode: models.ModeSolo, SchemaCompatible: true}
		}
		log.Error().Err(err).Msg("trust binding verification failed; shared mode unavailable")
		return models.ModeStatus{
			Mode:             models.ModeSharedDegraded,
			SchemaCompatible: false,
			Warning:          fmt.Sprintf("trust verification failed: %v", err),
		}
	}

	version, err := m.schemaRepository.GetSchemaVersion(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("shared schema version unavailable")
		return models.ModeStatus{
			Mode:             models.ModeSharedDegraded,
			SchemaCompatible: false,
			Warning:          "shared store unavailable",
		}
	}

	if version < m.minSchemaVersion || version > m.maxSchemaVersion {
		log.Warn().
			Int("version", version).
			Int("min", m.minSchemaVersion).
			Int("max", m.maxSchemaVersion).
			Msg("shared schema version outside supported range; running feature-limited")
		return models.ModeStatus{
			Mode:             models.ModeSharedDegraded,
			SchemaVersion:    version,
			SchemaCompatible: false,
			Warning: fmt.Sprintf("shared schema version %d outside supported range [%d, %d]",
				version, m.minSchemaVersion, m.maxSchemaVersion),
		}
	}

	return models.ModeStatus{
		Mode:             models.ModeShared,
		SchemaVersion:    version,
		SchemaCompatible: true,
	}
}
