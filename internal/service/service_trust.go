// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Andres Sumihe

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/crypto"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/store"
	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// trustService is the concrete implementation of [TrustService]. It runs
// the attestation exchange against the shared store and pins the result
// locally (TOFU): the first observed identity is stored, and every later
// connection must match it exactly.
type trustService struct {
	trustRepository    store.TrustRepository
	settingsRepository store.SettingsRepository
	signer             crypto.AttestationSigner

	logger *logger.Logger
}

// NewTrustService constructs a [TrustService]. trustRepository may be nil
// in solo installations; shared-store operations then fail with
// [ErrSharedModeNotAvailable].
func NewTrustService(trustRepository store.TrustRepository, settingsRepository store.SettingsRepository, signer crypto.AttestationSigner, logger *logger.Logger) TrustService {
	return &trustService{
		trustRepository:    trustRepository,
		settingsRepository: settingsRepository,
		signer:             signer,
		logger:             logger,
	}
}

// InitializeAppInfo returns the shared store's existing identity, or
// creates it: a fresh ed25519 keypair, the public app_info row, and the
// private key in the client-unreachable app_secret table. Idempotent — a
// lost creation race re-reads the winner's row.
func (s *trustService) InitializeAppInfo(ctx context.Context, teamID, teamName string) (models.AppInfo, error) {
	log := logger.FromContext(ctx)

	if s.trustRepository == nil {
		return models.AppInfo{}, ErrSharedModeNotAvailable
	}
	if teamID == "" || teamName == "" {
		return models.AppInfo{}, ErrInvalidDataProvided
	}

	info, err := s.trustRepository.GetAppInfo(ctx)
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, store.ErrAppInfoNotFound) {
		return models.AppInfo{}, err
	}

	publicKey, privateKey, err := s.signer.GenerateKeypair()
	if err != nil {
		return models.AppInfo{}, fmt.Errorf("generating attestation keypair failed: %w", err)
	}

	created, err := s.trustRepository.CreateAppInfo(ctx, models.AppInfo{
		ServerID:  uuid.NewString(),
		TeamID:    teamID,
		TeamName:  teamName,
		PublicKey: publicKey,
	}, privateKey)
	if err != nil {
		// a concurrent initializer won the insert; its identity is just
		// as valid as ours
		if errors.Is(err, store.ErrAppInfoNotFound) {
			return s.trustRepository.GetAppInfo(ctx)
		}
		log.Err(err).Msg("creating app info failed")
		return models.AppInfo{}, err
	}

	log.Info().Str("server_id", created.ServerID).Str("team_id", created.TeamID).Msg("shared store identity initialized")
	return created, nil
}

// GenerateAttestation signs {serverId, teamId, userId, timestamp, nonce}
// with the shared store's private key.
func (s *trustService) GenerateAttestation(ctx context.Context, userID int64) (models.Attestation, error) {
	if s.trustRepository == nil {
		return models.Attestation{}, ErrSharedModeNotAvailable
	}

	info, err := s.trustRepository.GetAppInfo(ctx)
	if err != nil {
		return models.Attestation{}, err
	}

	privateKey, err := s.trustRepository.GetSigningKey(ctx)
	if err != nil {
		return models.Attestation{}, err
	}

	payload := models.AttestationPayload{
		ServerID:  info.ServerID,
		TeamID:    info.TeamID,
		UserID:    userID,
		Timestamp: time.Now().Unix(),
		Nonce:     uuid.NewString(),
	}

	signature, err := s.signer.Sign(payload, privateKey)
	if err != nil {
		return models.Attestation{}, fmt.Errorf("signing attestation failed: %w", err)
	}

	return models.Attestation{Payload: payload, Signature: signature}, nil
}

// VerifyAttestation checks the signature over the canonical payload.
func (s *trustService) VerifyAttestation(attestation models.Attestation, publicKey string) bool {
	return s.signer.Verify(attestation.Payload, attestation.Signature, publicKey)
}

// StoreTeamBinding pins the first-observed shared store identity locally.
func (s *trustService) StoreTeamBinding(ctx context.Context, binding models.TeamBinding) error {
	if binding.ServerID == "" || binding.TeamID == "" || binding.PublicKey == "" {
		return ErrInvalidDataProvided
	}
	if binding.BoundAt.IsZero() {
		binding.BoundAt = time.Now()
	}

	return s.settingsRepository.SetSetting(ctx, store.SettingTeamBinding, binding)
}

// GetTeamBinding reads the pinned binding.
// Returns [ErrNoTeamBinding] when the installation has never joined a team.
func (s *trustService) GetTeamBinding(ctx context.Context) (models.TeamBinding, error) {
	raw, err := s.settingsRepository.GetSetting(ctx, store.SettingTeamBinding)
	if err != nil {
		if errors.Is(err, store.ErrSettingNotFound) {
			return models.TeamBinding{}, ErrNoTeamBinding
		}
		return models.TeamBinding{}, fmt.Errorf("reading team binding failed: %w", err)
	}

	var binding models.TeamBinding
	if err = json.Unmarshal(raw, &binding); err != nil {
		return models.TeamBinding{}, fmt.Errorf("decoding team binding failed: %w", err)
	}

	return binding, nil
}

// VerifyBinding re-fetches the shared store's AppInfo and compares
// serverId, teamId, and publicKey against the pinned binding. The three
// mismatch reasons are distinct so operators can tell a wrong database
// from a wrong team from a rotated or impersonated key. Any mismatch is
// fatal to shared mode; there is no silent fallback to solo.
func (s *trustService) VerifyBinding(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if s.trustRepository == nil {
		return ErrSharedModeNotAvailable
	}

	binding, err := s.GetTeamBinding(ctx)
	if err != nil {
		return err
	}

	info, err := s.trustRepository.GetAppInfo(ctx)
	if err != nil {
		return err
	}

	switch {
	case info.ServerID != binding.ServerID:
		log.Error().Str("pinned", binding.ServerID).Str("observed", info.ServerID).Msg("server identity mismatch")
		return ErrBindingServerMismatch
	case info.TeamID != binding.TeamID:
		log.Error().Str("pinned", binding.TeamID).Str("observed", info.TeamID).Msg("team mismatch")
		return ErrBindingTeamMismatch
	case info.PublicKey != binding.PublicKey:
		log.Error().Str("server_id", info.ServerID).Msg("public key mismatch")
		return ErrBindingKeyMismatch
	}

	return nil
}

// ClearTeamBinding removes the pinned binding when leaving the team.
// The only rotation workflow is clear-and-rejoin.
func (s *trustService) ClearTeamBinding(ctx context.Context) error {
	return s.settingsRepository.DeleteSetting(ctx, store.SettingTeamBinding)
}
