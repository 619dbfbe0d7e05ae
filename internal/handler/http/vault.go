package http

import (
	"encoding/json"
	"net/http"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/service"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/utils"
)

type vaultPasswordRequest struct {
	MasterPassword string `json:"master_password"`
}

func (h *Handler) vaultSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request vaultPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	if err := h.services.VaultService.Setup(ctx, request.MasterPassword); err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Info().Msg("vault set up")
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) vaultUnlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request vaultPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	if err := h.services.VaultService.Unlock(ctx, request.MasterPassword); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) vaultLock(w http.ResponseWriter, r *http.Request) {
	h.services.VaultService.Lock()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) vaultStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	setUp, err := h.services.VaultService.IsSetUp(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, struct {
		SetUp    bool `json:"set_up"`
		Unlocked bool `json:"unlocked"`
	}{
		SetUp:    setUp,
		Unlocked: h.services.VaultService.IsUnlocked(),
	}, http.StatusOK)
}
