package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// userRepository is the sqlite-backed implementation of [UserRepository].
// It manages the installation's single account in the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// local database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CountUsers returns the number of account rows in the local store.
func (r *userRepository) CountUsers(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	row := r.db.QueryRowContext(ctx, countUsers)
	if err := row.Scan(&count); err != nil {
		log.Err(err).Str("func", "*userRepository.CountUsers").Msg("error: scanning error")
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return count, nil
}

// CreateUser persists the account record and returns the fully populated
// [models.LocalUser] with server-assigned fields (UserID, CreatedAt).
//
// The single-user invariant is enforced structurally by the service layer
// via [userRepository.CountUsers]; a concurrent duplicate insert is still
// caught here by the unique constraints and reported as
// [ErrUserAlreadyExists].
func (r *userRepository) CreateUser(ctx context.Context, user models.LocalUser) (models.LocalUser, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, user.Username, user.Email, user.PasswordHash, user.DisplayName, user.Active)

	var created models.LocalUser
	if err := row.Scan(&created.UserID, &created.Username, &created.Email, &created.PasswordHash, &created.DisplayName, &created.Active, &created.CreatedAt, &created.UpdatedAt); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")
		if isSQLiteUniqueViolation(err) {
			return models.LocalUser{}, ErrUserAlreadyExists
		}
		return models.LocalUser{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return created, nil
}

// FindUserByLogin retrieves the account whose username or email matches
// login. Returns [ErrNoUserWasFound] on an empty result.
func (r *userRepository) FindUserByLogin(ctx context.Context, login string) (models.LocalUser, error) {
	log := logger.FromContext(ctx)

	var found models.LocalUser
	row := r.db.QueryRowContext(ctx, findUserByLogin, login, login)

	if err := row.Scan(&found.UserID, &found.Username, &found.Email, &found.PasswordHash, &found.DisplayName, &found.Active, &found.CreatedAt, &found.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LocalUser{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByLogin").Msg("error: scanning error")
		return models.LocalUser{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return found, nil
}

// FindUserByID retrieves the account by its primary key.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.LocalUser, error) {
	log := logger.FromContext(ctx)

	var found models.LocalUser
	row := r.db.QueryRowContext(ctx, findUserByID, userID)

	if err := row.Scan(&found.UserID, &found.Username, &found.Email, &found.PasswordHash, &found.DisplayName, &found.Active, &found.CreatedAt, &found.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LocalUser{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByID").Msg("error: scanning error")
		return models.LocalUser{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return found, nil
}

// UpdatePasswordHash replaces the stored password hash for the account.
func (r *userRepository) UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, updatePasswordHash, passwordHash, userID)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdatePasswordHash").Msg("error: executing error")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

// DeleteAllUsers removes the account as part of a destructive local reset.
func (r *userRepository) DeleteAllUsers(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteAllUsers); err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteAllUsers").Msg("error: executing error")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
