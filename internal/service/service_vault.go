// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Andres Sumihe

package service

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/config"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/crypto"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/store"
	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// minMasterPasswordLength is the floor for vault master passwords.
const minMasterPasswordLength = 8

// vaultService is the concrete implementation of [VaultService]. The
// derived key lives in a single mutex-guarded slot owned by this struct —
// an explicit dependency-injected object, not process-global state — so
// unlock/lock/seal/open serialize against each other and a lock can never
// race an in-flight encrypt.
type vaultService struct {
	keychain           crypto.KeyChainService
	settingsRepository store.SettingsRepository

	autoLockTimeout time.Duration

	mu    sync.Mutex
	key   []byte
	timer *time.Timer

	logger *logger.Logger
}

// NewVaultService constructs a [VaultService] with the auto-lock timeout
// from cfg. The vault starts locked.
func NewVaultService(keychain crypto.KeyChainService, settingsRepository store.SettingsRepository, cfg config.App, logger *logger.Logger) VaultService {
	return &vaultService{
		keychain:           keychain,
		settingsRepository: settingsRepository,
		autoLockTimeout:    cfg.VaultAutoLockTimeout,
		logger:             logger,
	}
}

// Setup initializes the vault: generates a salt, persists the password
// verification record, and immediately unlocks with the same password.
//
// Fails [ErrVaultAlreadySetUp] when a verification record exists and
// [ErrVaultPasswordTooWeak] below the minimum length.
func (v *vaultService) Setup(ctx context.Context, masterPassword string) error {
	log := logger.FromContext(ctx)

	if len(masterPassword) < minMasterPasswordLength {
		return ErrVaultPasswordTooWeak
	}

	setUp, err := v.IsSetUp(ctx)
	if err != nil {
		return err
	}
	if setUp {
		return ErrVaultAlreadySetUp
	}

	salt, err := v.keychain.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generating vault salt failed: %w", err)
	}

	key := v.keychain.DeriveKey(masterPassword, salt)
	settings := models.VaultSettings{
		VerificationHash: hex.EncodeToString(v.keychain.VerificationHash(key)),
		Salt:             hex.EncodeToString(salt),
	}

	if err = v.settingsRepository.SetSetting(ctx, store.SettingVaultSettings, settings); err != nil {
		return fmt.Errorf("persisting vault settings failed: %w", err)
	}

	v.holdKey(key)
	log.Info().Msg("vault set up and unlocked")
	return nil
}

// Unlock derives the key from masterPassword, verifies it against the
// persisted record in constant time, and holds it in memory with the
// auto-lock timer running.
func (v *vaultService) Unlock(ctx context.Context, masterPassword string) error {
	log := logger.FromContext(ctx)

	settings, err := v.loadSettings(ctx)
	if err != nil {
		return err
	}

	salt, err := hex.DecodeString(settings.Salt)
	if err != nil {
		return fmt.Errorf("decoding vault salt failed: %w", err)
	}
	expected, err := hex.DecodeString(settings.VerificationHash)
	if err != nil {
		return fmt.Errorf("decoding vault verification hash failed: %w", err)
	}

	key := v.keychain.DeriveKey(masterPassword, salt)
	if subtle.ConstantTimeCompare(v.keychain.VerificationHash(key), expected) != 1 {
		return ErrVaultIncorrectPassword
	}

	v.holdKey(key)
	log.Info().Msg("vault unlocked")
	return nil
}

// Lock zeroes the in-memory key and cancels the auto-lock timer.
// Idempotent: locking a locked vault is a no-op.
func (v *vaultService) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dropKeyLocked()
}

// IsSetUp reports whether the verification record exists — the sole signal
// that the vault has been set up.
func (v *vaultService) IsSetUp(ctx context.Context) (bool, error) {
	_, err := v.settingsRepository.GetSetting(ctx, store.SettingVaultSettings)
	if err != nil {
		if errors.Is(err, store.ErrSettingNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("reading vault settings failed: %w", err)
	}
	return true, nil
}

// IsUnlocked reports whether a derived key is currently held.
func (v *vaultService) IsUnlocked() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.key != nil
}

// Seal encrypts data under the held key with a fresh nonce. Fails
// [ErrVaultLocked] when no key is held. The successful key access slides
// the auto-lock timer forward.
func (v *vaultService) Seal(ctx context.Context, data any) (models.SealedBlob, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.key == nil {
		return models.SealedBlob{}, ErrVaultLocked
	}

	blob, err := v.keychain.Seal(data, v.key)
	if err != nil {
		return models.SealedBlob{}, err
	}

	v.slideTimerLocked()
	return blob, nil
}

// Open decrypts blob into target under the held key. Fails
// [ErrVaultLocked] when no key is held; a tampered blob or foreign key
// surfaces as [crypto.ErrAuthenticationFailed] with no further detail.
// The successful key access slides the auto-lock timer forward.
func (v *vaultService) Open(ctx context.Context, blob models.SealedBlob, target any) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.key == nil {
		return ErrVaultLocked
	}

	if err := v.keychain.Open(blob, v.key, target); err != nil {
		return err
	}

	v.slideTimerLocked()
	return nil
}

// holdKey installs key in the slot, replacing (and zeroing) any previous
// key, and starts the auto-lock timer.
func (v *vaultService) holdKey(key []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.dropKeyLocked()
	v.key = key
	v.timer = time.AfterFunc(v.autoLockTimeout, v.autoLock)
}

func (v *vaultService) autoLock() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.key != nil {
		v.logger.Info().Msg("vault auto-locked after inactivity")
	}
	v.dropKeyLocked()
}

// dropKeyLocked zeroes and releases the key and stops the timer.
// Caller must hold v.mu.
func (v *vaultService) dropKeyLocked() {
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	for i := range v.key {
		v.key[i] = 0
	}
	v.key = nil
}

// slideTimerLocked restarts the inactivity window after a key access.
// Caller must hold v.mu.
func (v *vaultService) slideTimerLocked() {
	if v.timer != nil {
		v.timer.Reset(v.autoLockTimeout)
	}
}

func (v *vaultService) loadSettings(ctx context.Context) (models.VaultSettings, error) {
	raw, err := v.settingsRepository.GetSetting(ctx, store.SettingVaultSettings)
	if err != nil {
		if errors.Is(err, store.ErrSettingNotFound) {
			return models.VaultSettings{}, ErrVaultNotSetUp
		}
		return models.VaultSettings{}, fmt.Errorf("reading vault settings failed: %w", err)
	}

	var settings models.VaultSettings
	if err = json.Unmarshal(raw, &settings); err != nil {
		return models.VaultSettings{}, fmt.Errorf("decoding vault settings failed: %w", err)
	}

	return settings, nil
}
