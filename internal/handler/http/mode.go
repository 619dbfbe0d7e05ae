package http

import (
	"net/http"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/utils"
)

func (h *Handler) mode(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, h.services.ModeService.Status(r.Context()), http.StatusOK)
}
