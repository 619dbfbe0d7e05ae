package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// sessionRepository is the sqlite-backed implementation of
// [SessionRepository]. Each row is the server-side state of one opaque
// refresh token.
type sessionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSessionRepository constructs a [SessionRepository] backed by the
// provided local database connection and logger.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

// CreateSession inserts a new session row.
func (r *sessionRepository) CreateSession(ctx context.Context, session models.LocalSession) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, createSession,
		session.SessionID, session.UserID, session.RefreshToken, session.ExpiresAt,
		session.ClientIP, session.UserAgent, session.CreatedAt, session.LastActivityAt)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.CreateSession").Msg("error: executing error")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// FindSessionByRefreshToken retrieves the session row backing refreshToken.
// Returns [ErrSessionNotFound] when no row matches, which covers both
// unknown tokens and sessions already superseded by a newer login.
func (r *sessionRepository) FindSessionByRefreshToken(ctx context.Context, refreshToken string) (models.LocalSession, error) {
	log := logger.FromContext(ctx)

	var found models.LocalSession
	row := r.db.QueryRowContext(ctx, findSessionByRefreshToken, refreshToken)

	if err := row.Scan(&found.SessionID, &found.UserID, &found.RefreshToken, &found.ExpiresAt, &found.ClientIP, &found.UserAgent, &found.CreatedAt, &found.LastActivityAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LocalSession{}, ErrSessionNotFound
		}
		log.Err(err).Str("func", "*sessionRepository.FindSessionByRefreshToken").Msg("error: scanning error")
		return models.LocalSession{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return found, nil
}

// TouchSession stamps the session's last-activity timestamp and slides the
// expiry forward, so an actively refreshed session stays alive.
func (r *sessionRepository) TouchSession(ctx context.Context, sessionID string, expiresAt time.Time) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, touchSession, expiresAt, sessionID); err != nil {
		log.Err(err).Str("func", "*sessionRepository.TouchSession").Msg("error: executing error")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// DeleteSession removes a single session row. Idempotent: deleting a
// missing session is not an error.
func (r *sessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteSession, sessionID); err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteSession").Msg("error: executing error")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// DeleteSessionsForUser removes every session belonging to the user in a
// single statement. Enforces single-active-session at login time.
func (r *sessionRepository) DeleteSessionsForUser(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteSessionsForUser, userID); err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteSessionsForUser").Msg("error: executing error")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// DeleteExpiredSessions removes every session past its expiry. One atomic
// DELETE, so a concurrent login or refresh either sees its fresh row intact
// or inserts after the sweep — never a half-deleted state.
func (r *sessionRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteExpiredSessions, time.Now())
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteExpiredSessions").Msg("error: executing error")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}

// DeleteAllSessions wipes the sessions table during a destructive reset.
func (r *sessionRepository) DeleteAllSessions(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteAllSessions); err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteAllSessions").Msg("error: executing error")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
