package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
)

// Well-known settings keys. The settings table is a generic JSON-valued KV
// store; these constants are the only keys the core writes.
const (
	SettingTokenSignSecret = "auth.token_sign_secret"
	SettingVaultSettings   = "vault.settings"
	SettingTeamBinding     = "team.binding"
)

// settingsRepository is the sqlite-backed implementation of
// [SettingsRepository].
type settingsRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSettingsRepository constructs a [SettingsRepository] backed by the
// provided local database connection and logger.
func NewSettingsRepository(db *DB, logger *logger.Logger) SettingsRepository {
	logger.Debug().Msg("creating settings repository")
	return &settingsRepository{
		db:     db,
		logger: logger,
	}
}

// GetSetting returns the raw JSON value stored under key, or
// [ErrSettingNotFound] when the key has never been written.
func (r *settingsRepository) GetSetting(ctx context.Context, key string) (json.RawMessage, error) {
	log := logger.FromContext(ctx)

	var value string
	row := r.db.QueryRowContext(ctx, getSetting, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingNotFound
		}
		log.Err(err).Str("func", "*settingsRepository.GetSetting").Str("key", key).Msg("error: scanning error")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return json.RawMessage(value), nil
}

// SetSetting JSON-marshals value and upserts it under key.
func (r *settingsRepository) SetSetting(ctx context.Context, key string, value any) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal setting %q: %w", key, err)
	}

	if _, err = r.db.ExecContext(ctx, upsertSetting, key, string(payload)); err != nil {
		log.Err(err).Str("func", "*settingsRepository.SetSetting").Str("key", key).Msg("error: executing error")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// DeleteSetting removes the key. Idempotent.
func (r *settingsRepository) DeleteSetting(ctx context.Context, key string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteSetting, key); err != nil {
		log.Err(err).Str("func", "*settingsRepository.DeleteSetting").Str("key", key).Msg("error: executing error")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
