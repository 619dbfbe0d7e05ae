package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/service"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/utils"
)

func (h *Handler) listCredentials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.services.RbacService.RequirePermission(ctx, "credentials", "read"); err != nil {
		h.writeError(w, r, err)
		return
	}

	credentials, err := h.services.CredentialService.ListCredentials(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, credentials, http.StatusOK)
}

func (h *Handler) createCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if err := h.services.RbacService.RequirePermission(ctx, "credentials", "create"); err != nil {
		h.writeError(w, r, err)
		return
	}

	var request struct {
		Title     string            `json:"title"`
		Type      string            `json:"type"`
		ProjectID string            `json:"project_id"`
		Payload   map[string]string `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	credential, err := h.services.CredentialService.CreateCredential(ctx, request.Title, request.Type, request.ProjectID, request.Payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("credential_id", credential.CredentialID).Msg("credential created")
	utils.WriteJSON(w, credential, http.StatusCreated)
}

func (h *Handler) getCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.services.RbacService.RequirePermission(ctx, "credentials", "read"); err != nil {
		h.writeError(w, r, err)
		return
	}

	credential, err := h.services.CredentialService.GetCredential(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, credential, http.StatusOK)
}

func (h *Handler) revealCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.services.RbacService.RequirePermission(ctx, "credentials", "read"); err != nil {
		h.writeError(w, r, err)
		return
	}

	payload, err := h.services.CredentialService.RevealCredential(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, struct {
		Payload map[string]string `json:"payload"`
	}{Payload: payload}, http.StatusOK)
}

func (h *Handler) deleteCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if err := h.services.RbacService.RequirePermission(ctx, "credentials", "delete"); err != nil {
		h.writeError(w, r, err)
		return
	}

	credentialID := chi.URLParam(r, "id")
	if err := h.services.CredentialService.DeleteCredential(ctx, credentialID); err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("credential_id", credentialID).Msg("credential deleted")
	w.WriteHeader(http.StatusNoContent)
}
