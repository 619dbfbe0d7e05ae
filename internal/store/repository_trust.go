package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// sharedQueryTimeout bounds every individual call against the shared store.
// Exceeding it surfaces as ErrSharedStoreUnavailable, never as an
// indefinitely blocked request.
const sharedQueryTimeout = 3 * time.Second

// trustRepository is the postgres-backed implementation of
// [TrustRepository]. The app_info table is the public identity of the
// shared store; app_secret holds the matching private signing key and is
// read only by attestation signing inside this process.
type trustRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewTrustRepository constructs a [TrustRepository] backed by the provided
// shared database connection and logger.
func NewTrustRepository(db *DB, logger *logger.Logger) TrustRepository {
	logger.Debug().Msg("creating trust repository")
	return &trustRepository{
		db:     db,
		logger: logger,
	}
}

// GetAppInfo retrieves the shared store's identity row.
// Returns [ErrAppInfoNotFound] when the identity has not been initialized.
func (r *trustRepository) GetAppInfo(ctx context.Context) (models.AppInfo, error) {
	log := logger.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, sharedQueryTimeout)
	defer cancel()

	var info models.AppInfo
	row := r.db.QueryRowContext(ctx, getAppInfo)
	if err := row.Scan(&info.ServerID, &info.TeamID, &info.TeamName, &info.PublicKey, &info.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AppInfo{}, ErrAppInfoNotFound
		}
		log.Err(err).Str("func", "*trustRepository.GetAppInfo").Msg("error: scanning error")
		return models.AppInfo{}, classifySharedError(err)
	}

	return info, nil
}

// CreateAppInfo persists the identity row and its private key in one
// transaction. app_info's singleton constraint rejects a second identity
// row even though each racer inserts under a fresh server_id, so a
// concurrent initialization resolves to exactly one winner; the loser
// re-reads the winner's row.
func (r *trustRepository) CreateAppInfo(ctx context.Context, info models.AppInfo, privateKey string) (models.AppInfo, error) {
	log := logger.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, sharedQueryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*trustRepository.CreateAppInfo").Msg("error: beginning transaction")
		return models.AppInfo{}, classifySharedError(err)
	}
	defer tx.Rollback()

	var created models.AppInfo
	row := tx.QueryRowContext(ctx, createAppInfo, info.ServerID, info.TeamID, info.TeamName, info.PublicKey)
	if err = row.Scan(&created.ServerID, &created.TeamID, &created.TeamName, &created.PublicKey, &created.CreatedAt); err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.AppInfo{}, ErrAppInfoNotFound
		}
		log.Err(err).Str("func", "*trustRepository.CreateAppInfo").Msg("error: scanning error")
		return models.AppInfo{}, classifySharedError(err)
	}

	if _, err = tx.ExecContext(ctx, createAppSecret, created.ServerID, privateKey); err != nil {
		log.Err(err).Str("func", "*trustRepository.CreateAppInfo").Msg("error: executing error")
		return models.AppInfo{}, classifySharedError(err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*trustRepository.CreateAppInfo").Msg("error: committing transaction")
		return models.AppInfo{}, classifySharedError(err)
	}

	return created, nil
}

// GetSigningKey retrieves the private signing key matching the app_info
// identity row. Only the attestation service calls this; the key never
// crosses a handler boundary.
func (r *trustRepository) GetSigningKey(ctx context.Context) (string, error) {
	log := logger.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, sharedQueryTimeout)
	defer cancel()

	var key string
	row := r.db.QueryRowContext(ctx, getSigningKey)
	if err := row.Scan(&key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrAppInfoNotFound
		}
		log.Err(err).Str("func", "*trustRepository.GetSigningKey").Msg("error: scanning error")
		return "", classifySharedError(err)
	}

	return key, nil
}

// classifySharedError folds timeouts and connection failures into
// [ErrSharedStoreUnavailable] while keeping the cause in the chain.
func classifySharedError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrSharedStoreUnavailable, err)
	}
	if pgcode := postgresError(err); pgcode != "" && pgerrcode.IsConnectionException(pgcode) {
		return fmt.Errorf("%w: %w", ErrSharedStoreUnavailable, err)
	}
	return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
}
