package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/setup", h.setup)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/refresh", h.refresh)
		r.Get("/api/mode", h.mode)
	})

	// the unlock route authenticates without the inactivity lock, so a
	// locked session can recover with its password instead of a re-login
	router.Group(func(r chi.Router) {
		r.Use(h.authIgnoringLock)

		r.Post("/api/auth/unlock", h.unlockSession)
	})

	// routes behind the access-token middleware
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/auth/logout", h.logout)
		r.Post("/api/auth/password", h.changePassword)
		r.Post("/api/auth/reset", h.reset)

		r.Post("/api/vault/setup", h.vaultSetup)
		r.Post("/api/vault/unlock", h.vaultUnlock)
		r.Post("/api/vault/lock", h.vaultLock)
		r.Get("/api/vault/status", h.vaultStatus)

		r.Get("/api/credentials", h.listCredentials)
		r.Post("/api/credentials", h.createCredential)
		r.Get("/api/credentials/{id}", h.getCredential)
		r.Post("/api/credentials/{id}/reveal", h.revealCredential)
		r.Delete("/api/credentials/{id}", h.deleteCredential)

		r.Post("/api/team/join", h.joinTeam)
		r.Get("/api/team/verify", h.verifyTeam)
		r.Delete("/api/team", h.leaveTeam)
	})

	return router
}
