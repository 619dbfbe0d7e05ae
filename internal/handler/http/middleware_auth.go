// Package http implements the HTTP transport layer of the application.
// It provides middleware, route handlers, and request/response utilities
// for the REST API. Authentication, tracing, and logging concerns are all
// handled at this layer before requests are forwarded to the service layer.
package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/utils"
	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// auth is an HTTP middleware that enforces access-token authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer
// token, validates it via [service.SessionAuthorityService.Verify], and —
// on success — stores the authenticated user's ID and username in the
// request context before delegating to the next handler.
//
// Verify also applies the solo-mode inactivity session lock, so a request
// arriving after the inactivity threshold fails here with SESSION_EXPIRED
// even when the token itself is still within its validity window.
func (h *Handler) auth(next http.Handler) http.Handler {
	return h.authenticate(next, func(ctx context.Context, tokenString string) (models.Token, error) {
		return h.services.SessionAuthorityService.Verify(ctx, tokenString)
	})
}

// authIgnoringLock authenticates like auth but through
// [service.SessionAuthorityService.VerifyIgnoringLock]. The session-unlock
// route mounts this variant: a locked session must still be able to present
// its token and the account password there, otherwise it could never
// recover without a full re-login.
func (h *Handler) authIgnoringLock(next http.Handler) http.Handler {
	return h.authenticate(next, func(ctx context.Context, tokenString string) (models.Token, error) {
		return h.services.SessionAuthorityService.VerifyIgnoringLock(ctx, tokenString)
	})
}

func (h *Handler) authenticate(next http.Handler, verify func(context.Context, string) (models.Token, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := verify(ctx, tokenString)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		// Store the authenticated identity in the context so that
		// downstream handlers can retrieve it without re-parsing the token.
		ctx = context.WithValue(ctx, utils.UserIDCtxKey, token.UserID)
		ctx = context.WithValue(ctx, utils.UsernameCtxKey, token.Claims.Username)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value.
//
// The header is expected to follow the standard format:
//
//	Authorization: <scheme> <token>
//
// It returns the following sentinel errors:
//   - [ErrInvalidAuthorizationHeader] — if the header contains fewer than
//     two space-separated parts (i.e. the token is missing entirely).
//   - [ErrEmptyToken] — if the second part exists but is an empty string.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
