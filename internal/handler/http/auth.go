package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/service"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/utils"
)

func (h *Handler) setup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request service.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	user, err := h.services.SessionAuthorityService.CreateUser(ctx, request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Info().Int64("id", user.UserID).Str("username", user.Username).Msg("local account created")
	utils.WriteJSON(w, user, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	client := service.ClientContext{
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}

	pair, err := h.services.SessionAuthorityService.Login(ctx, request, client)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Debug().Int64("id", pair.User.UserID).Msg("user successfully logged in")
	utils.WriteJSON(w, pair, http.StatusOK)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	token, err := h.services.SessionAuthorityService.Refresh(ctx, request.RefreshToken)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}{
		AccessToken: token.SignedString,
		ExpiresIn:   int64(time.Until(token.Claims.ExpiresAt.Time).Seconds()),
	}, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	if err := h.services.SessionAuthorityService.Logout(ctx, request.RefreshToken); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		h.writeError(w, r, service.ErrUnauthorized)
		return
	}

	var request struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	if err := h.services.SessionAuthorityService.ChangePassword(ctx, userID, request.OldPassword, request.NewPassword); err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Info().Int64("id", userID).Msg("account password changed")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) unlockSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		h.writeError(w, r, service.ErrUnauthorized)
		return
	}

	var request struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	if err := h.services.SessionAuthorityService.UnlockSession(ctx, userID, request.Password); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request struct {
		Confirm string `json:"confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	if err := h.services.SessionAuthorityService.DestructiveReset(ctx, request.Confirm); err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Warn().Msg("installation wiped by destructive reset")
	w.WriteHeader(http.StatusNoContent)
}
