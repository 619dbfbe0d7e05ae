package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/service"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/utils"
	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// joinTeam runs the full attestation exchange: initialize (or read) the
// shared store identity, obtain a signed attestation, verify it against
// the advertised public key, and pin the identity locally on first use.
// A repeat join against an already pinned identity re-verifies instead of
// overwriting, so a swapped database cannot silently rebind.
func (h *Handler) joinTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		h.writeError(w, r, service.ErrUnauthorized)
		return
	}

	var request struct {
		TeamID         string `json:"team_id"`
		TeamName       string `json:"team_name"`
		TLSFingerprint string `json:"tls_fingerprint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	info, err := h.services.TrustService.InitializeAppInfo(ctx, request.TeamID, request.TeamName)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	attestation, err := h.services.TrustService.GenerateAttestation(ctx, userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !h.services.TrustService.VerifyAttestation(attestation, info.PublicKey) {
		h.writeError(w, r, service.ErrAttestationInvalid)
		return
	}

	_, err = h.services.TrustService.GetTeamBinding(ctx)
	switch {
	case errors.Is(err, service.ErrNoTeamBinding):
		// first use: pin the observed identity
		binding := models.TeamBinding{
			ServerID:       info.ServerID,
			TeamID:         info.TeamID,
			TeamName:       info.TeamName,
			PublicKey:      info.PublicKey,
			TLSFingerprint: request.TLSFingerprint,
			BoundAt:        time.Now(),
		}
		if err = h.services.TrustService.StoreTeamBinding(ctx, binding); err != nil {
			h.writeError(w, r, err)
			return
		}
		log.Info().Str("server_id", info.ServerID).Str("team_id", info.TeamID).Msg("team binding pinned")
	case err != nil:
		h.writeError(w, r, err)
		return
	default:
		if err = h.services.TrustService.VerifyBinding(ctx); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	status := h.services.ModeService.Refresh(ctx)

	// an out-of-range schema is the only degraded state that reports a
	// version; joining such a store fails loudly instead of landing the
	// installation in a mode it cannot use
	if !status.SchemaCompatible && status.SchemaVersion != 0 {
		h.writeError(w, r, service.ErrSharedSchemaIncompatible)
		return
	}

	utils.WriteJSON(w, struct {
		ServerID string            `json:"server_id"`
		TeamID   string            `json:"team_id"`
		TeamName string            `json:"team_name"`
		Mode     models.ModeStatus `json:"mode"`
	}{
		ServerID: info.ServerID,
		TeamID:   info.TeamID,
		TeamName: info.TeamName,
		Mode:     status,
	}, http.StatusOK)
}

func (h *Handler) verifyTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.services.TrustService.VerifyBinding(ctx); err != nil {
		h.writeError(w, r, err)
		return
	}

	binding, err := h.services.TrustService.GetTeamBinding(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, struct {
		Verified bool               `json:"verified"`
		Binding  models.TeamBinding `json:"binding"`
	}{Verified: true, Binding: binding}, http.StatusOK)
}

func (h *Handler) leaveTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if err := h.services.TrustService.ClearTeamBinding(ctx); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.services.ModeService.Refresh(ctx)

	log.Info().Msg("team binding cleared")
	w.WriteHeader(http.StatusNoContent)
}
